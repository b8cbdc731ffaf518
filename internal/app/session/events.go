/*
Package session contains the relay's central state machine: per-room join
tracking, pending-message queues, and room roster bookkeeping.

This file defines the closed set of event variants that drive the state
machine. Chat transport callbacks, relay socket peers, and tracker reply
workers all funnel through these events, so every state mutation happens on
one sequential path.
*/
package session

// EventType enumerates the event variants the session table dispatches on.
type EventType int

const (
	// Connected signals the chat transport established its connection.
	Connected EventType = iota

	// Disconnected signals the chat transport lost its connection.
	Disconnected

	// AuthFailed signals the chat transport rejected the bot's credentials.
	AuthFailed

	// SessionStarted signals the chat session is ready; the table reacts by
	// requesting a join for every configured room.
	SessionStarted

	// Presence signals a room roster change: a participant (possibly the bot
	// itself) became available or unavailable, with optional affiliation and
	// identity disclosure.
	Presence

	// Message signals an incoming chat message, either from a room or direct.
	Message

	// Relay signals a locally-originated notification to deliver to a room.
	Relay
)

// Presence kinds carried by Presence events.
const (
	PresenceAvailable   = "available"
	PresenceUnavailable = "unavailable"
)

// Event is the single message type consumed by the session table's Run loop.
// Fields are populated per variant; unused fields stay zero.
type Event struct {
	Type EventType

	// Room names the room the event concerns. Empty on direct messages.
	Room string

	// Nick is the in-room nickname of the participant concerned.
	Nick string

	// Body carries message or relay text.
	Body string

	// Affiliation is the room-scoped permission tier disclosed by a
	// presence event (owner, admin, member, none). Empty when undisclosed.
	Affiliation string

	// Identity is the real address behind a nick, disclosed by presence
	// events only when the room configuration allows it, or carried by
	// direct messages to name the sender.
	Identity string

	// Kind is PresenceAvailable or PresenceUnavailable for Presence events.
	Kind string
}

// Facade is the capability surface the session table consumes from the chat
// transport. The transport itself (connection handling, stanza or frame
// encoding, authentication) lives behind this interface.
type Facade interface {
	// SendToRoom delivers text to every participant of a joined room.
	SendToRoom(room, text string) error

	// SendDirect delivers text to a single participant's real address.
	SendDirect(identity, text string) error

	// JoinRoom requests joining the room under the given nickname. The join
	// is confirmed later by a Presence event carrying the bot's own nick.
	JoinRoom(room, nick string) error
}

// Handler receives messages once the table has filtered out the bot's own
// traffic. Calls happen synchronously inside the table's event loop, so the
// handler may read roster state but must not block on network work.
type Handler interface {
	HandleRoomMessage(room, nick, body string)
	HandleDirectMessage(identity, body string)
}
