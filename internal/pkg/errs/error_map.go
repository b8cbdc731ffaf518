/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct. The
Message field of 2xxx/3xxx/4xxx entries is the exact text relayed to the
chat room, so wording changes here are user-visible.
*/
package errs

// errorMap stores the detailed CustomError struct corresponding to every
// application error code. Messages containing printf verbs are expanded with
// the details passed to NewError.
var errorMap = map[int]CustomError{
	// 1xxx: Configuration Errors
	ErrInvalidTrackerFormat: {Code: ErrInvalidTrackerFormat, Message: "%s is not a valid tracker api format. It should be 'xml' or 'json'"},
	ErrNoProjectMapping:     {Code: ErrNoProjectMapping, Message: "no project id configured for room %s"},
	ErrNoRooms:              {Code: ErrNoRooms, Message: "at least one room to join must be configured"},

	// 2xxx: Permission Errors
	ErrIdentityUnknown:  {Code: ErrIdentityUnknown, Message: "No: I cannot see your real JID."},
	ErrPermissionDenied: {Code: ErrPermissionDenied, Message: "No: permission denied."},
	ErrNoTrackerKey:     {Code: ErrNoTrackerKey, Message: "No. Your jid is not associated with any login of the forge"},

	// 3xxx: Tracker Errors
	ErrBugNotFound:   {Code: ErrBugNotFound, Message: "Bug %d not found: %v"},
	ErrTrackerStatus: {Code: ErrTrackerStatus, Message: "tracker responded with status %s"},
	ErrTrackerDecode: {Code: ErrTrackerDecode, Message: "could not decode tracker response: %v"},

	// 4xxx: Parse Errors
	ErrBadArguments:     {Code: ErrBadArguments, Message: "No: %v"},
	ErrNeedTwoArguments: {Code: ErrNeedTwoArguments, Message: "No: I need two arguments: The title and the description."},
	ErrMalformedRelay:   {Code: ErrMalformedRelay, Message: "relay payload contains no newline separator"},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again."},
}
