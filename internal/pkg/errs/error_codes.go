/*
Package errs provides custom error types and application-level error code constants.

These error codes identify the relay's failure classes: fatal configuration
problems, permission denials, tracker lookup failures, and parse errors.
Codes in the 2xxx and 3xxx ranges carry room-visible reply text.
*/
package errs

// 1xxx: Configuration Errors (fatal at startup, or fatal to a single create call)
const (
	// ErrInvalidTrackerFormat indicates the tracker API format selector is neither "xml" nor "json".
	ErrInvalidTrackerFormat = 1001

	// ErrNoProjectMapping indicates a room has no configured tracker project id.
	ErrNoProjectMapping = 1002

	// ErrNoRooms indicates the process was started without any room to join.
	ErrNoRooms = 1003
)

// 2xxx: Permission Errors (recovered, surfaced as a room or direct reply)
const (
	// ErrIdentityUnknown indicates the chat facade never disclosed the real
	// identity behind the requesting nick.
	ErrIdentityUnknown = 2001

	// ErrPermissionDenied indicates the requesting nick's affiliation is not
	// owner, admin, or member.
	ErrPermissionDenied = 2002

	// ErrNoTrackerKey indicates the identity has no API key in the credential store.
	ErrNoTrackerKey = 2003
)

// 3xxx: Tracker Errors (recovered, surfaced as a room reply)
const (
	// ErrBugNotFound indicates an issue fetch failed, whatever the underlying reason.
	ErrBugNotFound = 3001

	// ErrTrackerStatus indicates the tracker answered with a non-success HTTP status.
	ErrTrackerStatus = 3002

	// ErrTrackerDecode indicates the tracker response was missing expected fields.
	ErrTrackerDecode = 3003
)

// 4xxx: Parse Errors (recovered; chat-originated ones are echoed to the room)
const (
	// ErrBadArguments indicates the !add argument list had unbalanced quoting.
	ErrBadArguments = 4001

	// ErrNeedTwoArguments indicates the !add argument list did not tokenize
	// to exactly a title and a description.
	ErrNeedTwoArguments = 4002

	// ErrMalformedRelay indicates a relay payload contained no newline separator.
	ErrMalformedRelay = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
