/*
Package handler glues the session table's message events to the command
parser, the tracker gateway, and the credential store.

Room messages either invoke !add (permission-checked issue creation) or get
scanned for #N issue references. Direct messages register the sender's
tracker API key. Parsing and permission checks run synchronously inside the
session event loop; every tracker network call runs on a bounded worker so a
slow tracker cannot stall unrelated room traffic.
*/
package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/louiz/rugamia/internal/app/command"
	"github.com/louiz/rugamia/internal/pkg/errs"
	"github.com/louiz/rugamia/internal/pkg/logx"
)

// maxTrackerWorkers bounds how many tracker requests run at once.
const maxTrackerWorkers = 4

// allowedAffiliations lists the room permission tiers allowed to file issues.
// Compared case-insensitively.
var allowedAffiliations = map[string]bool{
	"owner":  true,
	"admin":  true,
	"member": true,
}

// MessageHandler implements session.Handler.
type MessageHandler struct {
	deps AppDeps

	// workers is a semaphore bounding concurrent tracker requests.
	workers chan struct{}

	// structured logger with handler context.
	logger zerolog.Logger
}

// NewMessageHandler constructs a MessageHandler around its collaborators.
func NewMessageHandler(deps AppDeps) *MessageHandler {
	return &MessageHandler{
		deps:    deps,
		workers: make(chan struct{}, maxTrackerWorkers),
		logger:  logx.Component("MessageHandler"),
	}
}

// HandleRoomMessage routes one room message: the !add command or a scan for
// issue references. Runs inside the session event loop.
func (h *MessageHandler) HandleRoomMessage(room, nick, body string) {
	if command.IsAdd(body) {
		h.handleAdd(room, nick, body)
		return
	}

	for _, id := range command.References(body) {
		h.lookupIssue(room, id)
	}
}

// handleAdd checks permissions, parses the argument list, and files the
// issue. Permission comes first: an unknown identity or an affiliation
// outside owner/admin/member gets a denial reply before any tokenizing.
func (h *MessageHandler) handleAdd(room, nick, body string) {
	member, ok := h.deps.Session.Member(room, nick)
	if !ok || member.Identity == "" {
		h.deps.Session.Deliver(room, errs.NewError(errs.ErrIdentityUnknown).Message)
		return
	}

	if !allowedAffiliations[strings.ToLower(member.Affiliation)] {
		h.deps.Session.Deliver(room, errs.NewError(errs.ErrPermissionDenied).Message)
		return
	}

	title, description, cerr := command.ParseAdd(body)
	if cerr != nil {
		h.deps.Session.Deliver(room, cerr.Message)
		return
	}

	identity := member.Identity
	h.spawn(func(ctx context.Context) {
		outcome, err := h.deps.Tracker.CreateIssue(ctx, identity, room, title, description)
		if err != nil {
			h.logger.Warn().Err(err).Str("room", room).Msg("Issue creation failed.")
			h.deps.Session.Deliver(room, replyText(err))
			return
		}
		h.deps.Session.Deliver(room, outcome)
	})
}

// lookupIssue fetches one referenced issue and replies with its summary,
// with "not found" on any failure, or with silence on an empty record.
func (h *MessageHandler) lookupIssue(room string, id int) {
	h.spawn(func(ctx context.Context) {
		issue, err := h.deps.Tracker.FetchIssue(ctx, id)
		if err != nil {
			h.deps.Session.Deliver(room, errs.NewError(errs.ErrBugNotFound, id, replyText(err)).Message)
			return
		}
		if issue == nil {
			return
		}

		h.deps.Session.Deliver(room, fmt.Sprintf(
			"Bug %s – %s\n%s – %s – Created on: %s",
			issue.URL, issue.Subject, issue.Status, issue.Author, issue.CreatedOn,
		))
	})
}

// HandleDirectMessage treats the body of a direct message as the sender's
// tracker API key, persists it, and confirms over the same direct channel.
func (h *MessageHandler) HandleDirectMessage(identity, body string) {
	if identity == "" {
		h.logger.Warn().Msg("Direct message without a resolvable identity, ignoring.")
		return
	}

	key := strings.TrimSpace(body)
	if key == "" {
		return
	}

	if err := h.deps.Credentials.SetKey(identity, key); err != nil {
		h.logger.Error().Err(err).Str("identity", identity).Msg("Failed to store tracker key.")
		return
	}

	h.deps.Session.DeliverDirect(identity, fmt.Sprintf("The key associated with the jid %s is now [%s]", identity, key))
}

// spawn runs fn on the bounded tracker worker pool without blocking the
// caller (the session event loop).
func (h *MessageHandler) spawn(fn func(ctx context.Context)) {
	go func() {
		h.workers <- struct{}{}
		defer func() { <-h.workers }()

		fn(context.Background())
	}()
}

// replyText extracts the user-facing text of an error: the Message of a
// CustomError, or the plain error string for transport-level failures.
func replyText(err error) string {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return customErr.Message
	}
	return err.Error()
}
