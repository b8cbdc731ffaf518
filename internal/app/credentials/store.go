/*
Package credentials implements the relay's credential store.

The store is backed by a single ini-style file with two sections: [keys] maps a
chat identity to its tracker API key, and [rooms] maps a room name to the tracker
project id used when creating issues from that room. Key writes rewrite the whole
file immediately so a crash never loses a registered key.
*/
package credentials

import (
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"

	"github.com/louiz/rugamia/internal/pkg/errs"
	"github.com/louiz/rugamia/internal/pkg/logx"
)

const (
	keysSection  = "keys"
	roomsSection = "rooms"
)

// Store holds the identity→key and room→project mappings loaded from the
// credential file. It is safe for concurrent use: reads come from tracker
// worker goroutines while writes come from the session event loop.
type Store struct {
	// path of the backing file, rewritten on every key mutation.
	path string

	// file is the parsed ini tree.
	file *ini.File

	// mu protects the ini tree and serializes file rewrites.
	mu sync.Mutex

	// structured logger with store context.
	logger zerolog.Logger
}

// NewStore loads the credential file at path and returns a Store.
// A missing file is not an error: the original deployment starts with an
// empty configuration and fills the [keys] section over time. Missing
// sections are created so later writes never have to check for them.
func NewStore(path string) (*Store, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, err
	}

	// Section() creates the section when absent.
	file.Section(keysSection)
	file.Section(roomsSection)

	return &Store{
		path:   path,
		file:   file,
		logger: logx.Component("CredentialStore"),
	}, nil
}

// GetKey returns the tracker API key associated with the given identity,
// and whether one is registered at all.
func (s *Store) GetKey(identity string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section := s.file.Section(keysSection)
	if !section.HasKey(identity) {
		return "", false
	}
	return section.Key(identity).String(), true
}

// SetKey associates the given tracker API key with the identity,
// overwriting any previous value, and persists the whole file before
// returning. The store must never hold an unwritten mutation.
func (s *Store) SetKey(identity, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.file.Section(keysSection).Key(identity).SetValue(key)

	if err := s.file.SaveTo(s.path); err != nil {
		s.logger.Error().Err(err).Str("identity", identity).Msg("Failed to persist credential file.")
		return err
	}

	s.logger.Info().Str("identity", identity).Msg("Tracker key updated and persisted.")
	return nil
}

// GetProjectID returns the tracker project id configured for the room.
// A missing mapping is a configuration error: there is no create target
// for issues filed from that room.
func (s *Store) GetProjectID(room string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section := s.file.Section(roomsSection)
	if !section.HasKey(room) {
		return 0, errs.NewError(errs.ErrNoProjectMapping, room)
	}

	id, err := section.Key(room).Int()
	if err != nil {
		return 0, errs.NewError(errs.ErrNoProjectMapping, room)
	}
	return id, nil
}
