package handler

import (
	"context"

	"github.com/louiz/rugamia/internal/app/session"
	"github.com/louiz/rugamia/internal/app/tracker"
)

// Session is the slice of the session table the handlers drive. Member is
// only called from inside the table's event loop, where handlers run.
type Session interface {
	Deliver(room, body string)
	DeliverDirect(identity, text string)
	Member(room, nick string) (session.Member, bool)
}

// Tracker is the slice of the tracker gateway the handlers call.
type Tracker interface {
	FetchIssue(ctx context.Context, id int) (*tracker.Issue, error)
	CreateIssue(ctx context.Context, identity, room, title, body string) (string, error)
}

// Credentials is the slice of the credential store the handlers mutate.
type Credentials interface {
	SetKey(identity, key string) error
}

// AppDeps bundles the collaborators the message handler needs.
type AppDeps struct {
	Session     Session
	Tracker     Tracker
	Credentials Credentials
}
