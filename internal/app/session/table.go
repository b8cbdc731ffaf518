/*
Package session contains the relay's central state machine.

This file defines the Table struct, which owns every RoomState and runs the
single event loop all state transitions go through. The loop consumes the
closed event-variant set from events.go, updates room state, and drives the
chat facade's send and join primitives.
*/
package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/louiz/rugamia/internal/pkg/logx"
)

// eventChannelBuffer sizes the table's inbound event channel. Posters block
// once it fills, which backpressures the websocket read pump and relay peers
// instead of dropping chat events.
const eventChannelBuffer = 256

// Table is the room session table. One goroutine (the Run loop) owns all
// RoomState; everything else interacts through Post or the helpers built
// on it, so RoomState needs no locking.
type Table struct {
	// nick is the bot's own room nickname, used to recognize self presence
	// and to suppress self-triggered message handling.
	nick string

	// rooms maps room name to its state record.
	rooms map[string]*RoomState

	// facade is the chat transport capability surface.
	facade Facade

	// handler receives filtered room and direct messages.
	handler Handler

	// events is the single inbound path for all state transitions.
	events chan Event

	// done is closed when the Run loop exits, releasing blocked posters.
	done chan struct{}

	// structured logger with table context.
	logger zerolog.Logger
}

// NewTable constructs a Table with one RoomState per configured room, all
// starting unjoined. The facade and handler are bound afterwards, before Run.
func NewTable(rooms []string, nick string) *Table {
	t := &Table{
		nick:   nick,
		rooms:  make(map[string]*RoomState),
		events: make(chan Event, eventChannelBuffer),
		done:   make(chan struct{}),
		logger: logx.Component("SessionTable"),
	}

	for _, name := range rooms {
		t.rooms[name] = newRoomState(name)
	}

	return t
}

// BindFacade attaches the chat transport. Must be called before Run.
func (t *Table) BindFacade(facade Facade) {
	t.facade = facade
}

// BindHandler attaches the message handler. Must be called before Run.
func (t *Table) BindHandler(handler Handler) {
	t.handler = handler
}

// Post submits an event to the table's loop. It blocks while the event
// channel is full and returns without delivering once the loop has exited.
func (t *Table) Post(ev Event) {
	select {
	case t.events <- ev:
	case <-t.done:
	}
}

// Deliver queues text for delivery to the room, joining it first if needed.
// Safe to call from any goroutine; tracker workers and relay peers use it.
func (t *Table) Deliver(room, body string) {
	t.Post(Event{Type: Relay, Room: room, Body: body})
}

// DeliverDirect sends text to a participant's real address. Direct messages
// involve no room state, so this goes straight to the facade.
func (t *Table) DeliverDirect(identity, text string) {
	if err := t.facade.SendDirect(identity, strings.TrimSpace(text)); err != nil {
		t.logger.Error().Err(err).Str("identity", identity).Msg("Failed to send direct message.")
	}
}

// Member returns the roster entry for (room, nick). Only valid from inside
// the event loop, which is where the handler runs.
func (t *Table) Member(room, nick string) (Member, bool) {
	state, ok := t.rooms[room]
	if !ok {
		return Member{}, false
	}
	member, ok := state.Roster[nick]
	return member, ok
}

// Nick returns the bot's own room nickname.
func (t *Table) Nick() string {
	return t.nick
}

// Run consumes events until the context is cancelled. All state mutation
// happens here; pending messages still queued at cancellation are lost.
func (t *Table) Run(ctx context.Context) {
	defer close(t.done)

	t.logger.Info().Int("rooms", len(t.rooms)).Msg("Session table loop started.")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("Session table loop stopped.")
			return

		case ev := <-t.events:
			t.dispatch(ev)
		}
	}
}

// dispatch routes one event to its state transition. Routing every variant
// through this single switch avoids the hidden registration-order
// dependencies of callback-based dispatch.
func (t *Table) dispatch(ev Event) {
	switch ev.Type {
	case Connected:
		t.logger.Info().Msg("Chat transport connected.")

	case Disconnected:
		t.logger.Info().Msg("Chat transport disconnected.")

	case AuthFailed:
		t.logger.Error().Msg("Chat authentication failed.")

	case SessionStarted:
		t.logger.Info().Msg("Chat session started. Joining configured rooms.")
		for name := range t.rooms {
			t.requestJoin(t.rooms[name])
		}

	case Presence:
		t.onPresence(ev)

	case Message:
		t.onMessage(ev)

	case Relay:
		t.enqueueSend(ev.Room, ev.Body)

	default:
		t.logger.Warn().Int("event_type", int(ev.Type)).Msg("Dropping event with unknown type.")
	}
}

// requestJoin issues a join request for the room. The room stays unjoined
// until a Presence event confirms availability for the bot's own nick.
func (t *Table) requestJoin(state *RoomState) {
	if state.joinRequested {
		return
	}
	state.joinRequested = true

	if err := t.facade.JoinRoom(state.Name, t.nick); err != nil {
		t.logger.Error().Err(err).Str("room", state.Name).Msg("Join request failed.")
		state.joinRequested = false
	}
}

// enqueueSend sends text to a joined room immediately, or queues it (joining
// first) when the room is not joined yet. The queue holds at most MaxPending
// messages; beyond that the newest message is dropped with a local log only.
func (t *Table) enqueueSend(room, body string) {
	body = strings.TrimSpace(body)
	state := t.roomState(room)

	if state.Joined {
		if err := t.facade.SendToRoom(room, body); err != nil {
			t.logger.Error().Err(err).Str("room", room).Msg("Failed to send message to room.")
		}
		return
	}

	t.requestJoin(state)

	if len(state.Pending) >= MaxPending {
		t.logger.Warn().Str("room", room).Int("queue_len", len(state.Pending)).Msg("Message queue too long, dropping message.")
		return
	}

	t.logger.Debug().Str("room", room).Str("body", body).Msg("Room is not joined, delaying message.")
	state.Pending = append(state.Pending, body)
}

// onPresence updates the roster with whatever the event discloses and, when
// the presence concerns the bot's own nick, transitions the room's join state.
// Becoming joined flushes the pending queue in FIFO order in one step, so no
// concurrently posted message can overtake a queued one.
func (t *Table) onPresence(ev Event) {
	state := t.roomState(ev.Room)

	if ev.Affiliation != "" || ev.Identity != "" {
		member := state.Roster[ev.Nick]
		if ev.Affiliation != "" {
			member.Affiliation = ev.Affiliation
		}
		if ev.Identity != "" {
			member.Identity = ev.Identity
		}
		state.Roster[ev.Nick] = member
	}

	if ev.Nick != t.nick {
		return
	}

	switch ev.Kind {
	case PresenceUnavailable:
		t.logger.Info().Str("room", ev.Room).Msg("Left room.")
		state.Joined = false
		state.joinRequested = false

	case PresenceAvailable:
		t.logger.Info().Str("room", ev.Room).Msg("Room joined.")
		state.Joined = true
		state.joinRequested = false

		pending := state.Pending
		state.Pending = nil
		for _, body := range pending {
			t.enqueueSend(ev.Room, body)
		}
	}
}

// onMessage drops the bot's own traffic and hands everything else to the
// handler. Direct messages arrive with an empty room and the sender identity.
func (t *Table) onMessage(ev Event) {
	if t.handler == nil {
		return
	}

	if ev.Room == "" {
		t.handler.HandleDirectMessage(ev.Identity, ev.Body)
		return
	}

	if ev.Nick == t.nick {
		return
	}

	t.handler.HandleRoomMessage(ev.Room, ev.Nick, ev.Body)
}

// roomState returns the state record for room, creating one on first use.
// Relay notifications may target rooms outside the configured list; those
// get a record lazily and follow the same join-then-flush path.
func (t *Table) roomState(room string) *RoomState {
	state, ok := t.rooms[room]
	if !ok {
		state = newRoomState(room)
		t.rooms[room] = state
	}
	return state
}
