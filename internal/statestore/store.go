// Package statestore is the local key-value persistence layer: one JSON
// file holding the saved alert settings, the managed schedule identifier,
// and the most recent agent session. Reads degrade gracefully — a missing
// or corrupt file yields built-in defaults and never blocks startup.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"gold-price-alerts/internal/alert"
)

const formatVersion = 1

type fileState struct {
	Version           int             `json:"version"`
	Settings          *alert.Settings `json:"settings,omitempty"`
	ManagedScheduleID string          `json:"managed_schedule_id,omitempty"`
	LastSessionID     string          `json:"last_session_id,omitempty"`
}

// Store persists application state in a single JSON file.
type Store struct {
	path   string
	logger zerolog.Logger

	mu    sync.Mutex
	state fileState
}

// Open loads the state file at path. Absence and parse failures are logged
// and tolerated; the store starts empty in both cases.
func Open(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "statestore").Logger(),
		state:  fileState{Version: formatVersion},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", path).Msg("state file unreadable, starting from defaults")
		}
		return s
	}

	var loaded fileState
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("state file corrupt, starting from defaults")
		return s
	}

	loaded.Version = formatVersion
	s.state = loaded
	return s
}

// Settings returns the saved alert settings. The boolean reports whether
// anything was ever saved; callers apply defaults on false.
func (s *Store) Settings() (alert.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Settings == nil {
		return alert.Settings{}, false
	}
	return *s.state.Settings, true
}

// SaveSettings persists the settings to disk.
func (s *Store) SaveSettings(settings alert.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := settings
	s.state.Settings = &copied
	return s.flush()
}

// ManagedScheduleID returns the persisted managed schedule identifier.
func (s *Store) ManagedScheduleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ManagedScheduleID
}

// SaveManagedScheduleID persists the managed schedule identifier.
func (s *Store) SaveManagedScheduleID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ManagedScheduleID = id
	return s.flush()
}

// LastSessionID returns the most recent agent session identifier.
func (s *Store) LastSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastSessionID
}

// SaveLastSessionID persists the most recent agent session identifier.
func (s *Store) SaveLastSessionID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastSessionID = id
	return s.flush()
}

// flush writes the state atomically via a temp file rename. Callers hold mu.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
