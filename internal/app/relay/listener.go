/*
Package relay implements the local inter-process notification channel.

External processes (the tracker's server-side hook) connect to a Unix socket
and write one room name, a newline, and the notification body; closing the
connection terminates the message. Well-formed pairs enter the room delivery
path; malformed payloads are logged and dropped, since the protocol has no
reply channel. The socket is deliberately world-writable: the threat model is
trusted local IPC, with no authentication on this boundary.
*/
package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"

	"github.com/rs/zerolog"

	"github.com/louiz/rugamia/internal/pkg/errs"
	"github.com/louiz/rugamia/internal/pkg/logx"
)

// Sink receives well-formed relay messages. The session table implements it;
// delivery funnels into the same single-consumer path as chat events.
type Sink interface {
	Deliver(room, body string)
}

// Listener accepts relay peers on a local Unix socket. Each peer is read to
// end-of-input with its own buffer, so many concurrent senders are fine.
type Listener struct {
	// path of the Unix socket file.
	path string

	// sink for accepted messages.
	sink Sink

	// structured logger with listener context.
	logger zerolog.Logger
}

// NewListener constructs a Listener bound to the given socket path.
func NewListener(path string, sink Sink) *Listener {
	return &Listener{
		path:   path,
		sink:   sink,
		logger: logx.Component("RelayListener").With().Str("socket", path).Logger(),
	}
}

// Run binds the socket and accepts peers until the context is cancelled.
// A stale socket file from an unclean shutdown is removed before binding,
// and the fresh socket is made writable for every local user.
func (l *Listener) Run(ctx context.Context) error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	ln, err := net.Listen("unix", l.path)
	if err != nil {
		return err
	}

	if err := os.Chmod(l.path, 0o777); err != nil {
		ln.Close()
		return err
	}

	l.logger.Info().Msg("Relay listener started.")

	// Cancellation unblocks Accept by closing the listener.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	defer os.Remove(l.path)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				l.logger.Info().Msg("Relay listener stopped.")
				return nil
			default:
			}
			l.logger.Error().Err(err).Msg("Accept failed.")
			return err
		}

		go l.handlePeer(conn)
	}
}

// handlePeer reads one peer to EOF and splits the accumulated bytes on the
// first newline into (room, body). A stream with no newline is malformed and
// discarded whole; no partial relay occurs.
func (l *Listener) handlePeer(conn net.Conn) {
	defer conn.Close()

	data, err := io.ReadAll(conn)
	if err != nil {
		l.logger.Warn().Err(err).Msg("Failed to read relay peer.")
		return
	}

	room, body, found := bytes.Cut(data, []byte{'\n'})
	if !found {
		l.logger.Warn().Err(errs.NewError(errs.ErrMalformedRelay)).Int("bytes", len(data)).Msg("Wrong message received on relay socket.")
		return
	}

	l.logger.Debug().Str("room", string(room)).Msg("Relay message accepted.")
	l.sink.Deliver(string(room), string(body))
}
