/*
Package session contains the relay's central state machine.

This file defines the RoomState record, the single owned representation of one
room's join status, pending outbound messages, and roster. It replaces the
four parallel per-room maps of the historical implementation, so the pieces
cannot drift out of sync.
*/
package session

// MaxPending is the capacity of a room's pending-message queue. Messages
// enqueued while the room is unjoined beyond this limit are dropped.
const MaxPending = 10

// Member holds what presence events have disclosed about a (room, nick) pair.
// Absence of a Member entry means unknown, which implies no permission.
type Member struct {
	// Affiliation is the room-scoped permission tier: owner, admin, member,
	// or none. Compared case-insensitively.
	Affiliation string

	// Identity is the participant's real address. Empty when the room is
	// semi-anonymous and never disclosed it to the bot.
	Identity string
}

// RoomState tracks one room. Instances are created for every configured room
// at startup, lazily for rooms first seen as relay targets, and never
// destroyed: leaving a room only resets Joined.
type RoomState struct {
	// Name is the room's address.
	Name string

	// Joined is true between the bot's own available and unavailable
	// presence events for this room.
	Joined bool

	// joinRequested is true once a join has been issued for an unjoined
	// room, so queued messages trigger at most one join request.
	joinRequested bool

	// Pending holds messages awaiting delivery, FIFO, while the room is
	// unjoined. Never exceeds MaxPending entries.
	Pending []string

	// Roster maps nick to the disclosed affiliation and identity.
	Roster map[string]Member
}

func newRoomState(name string) *RoomState {
	return &RoomState{
		Name:   name,
		Roster: make(map[string]Member),
	}
}
