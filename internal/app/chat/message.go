/*
Package chat implements the relay's side of the chat transport: a WebSocket
client speaking a small JSON frame protocol.

This file defines the frame types exchanged with the chat service. Inbound
presence and message frames become session events; outbound frames carry
joins, room messages, and direct messages.
*/
package chat

// FrameType identifies the kind of frame on the wire.
type FrameType string

const (
	// FrameJoin requests membership in a room under a nickname.
	FrameJoin FrameType = "JOIN"

	// FrameMessage carries room chat text.
	FrameMessage FrameType = "MESSAGE"

	// FrameDirect carries text addressed to a single real identity.
	FrameDirect FrameType = "DIRECT"

	// FramePresence reports a roster change: a participant became available
	// or unavailable, with whatever the room configuration discloses.
	FramePresence FrameType = "PRESENCE"
)

// Frame is the single JSON message unit on the chat connection.
// Fields are populated per frame type; unused fields are omitted.
type Frame struct {
	// ID uniquely identifies an outbound frame.
	ID string `json:"id,omitempty"`

	Type FrameType `json:"type"`

	Room string `json:"room,omitempty"`
	Nick string `json:"nick,omitempty"`
	Body string `json:"body,omitempty"`

	// Affiliation is the room permission tier disclosed by presence frames.
	Affiliation string `json:"affiliation,omitempty"`

	// Identity is the real address behind a nick, present on presence frames
	// when the room discloses it, and on direct frames to name the peer.
	Identity string `json:"identity,omitempty"`

	// Presence is "available" or "unavailable" on presence frames.
	Presence string `json:"presence,omitempty"`
}
