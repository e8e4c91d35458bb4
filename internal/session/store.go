// Package session implements the session gate: the authenticated
// principal, its persistence across restarts, and the login, logout and
// registration flows.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"taskdeck/internal/config"
)

// Session blob entry keys. Both entries must be present, and the flag
// entry must hold "true", for restoration to succeed.
const (
	KeyUser          = "user"
	KeyAuthenticated = "isAuthenticated"
)

// ErrNoEntry is returned by Store.Get when the key has no stored value.
var ErrNoEntry = errors.New("no session entry")

// Store persists the session blob as independent key/value entries.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore keeps each session entry in its own file under the config
// directory, mode 0600.
type FileStore struct {
	userPath string
	flagPath string
}

// NewFileStore creates a FileStore using cfg's session paths.
func NewFileStore(cfg *config.Config) *FileStore {
	return &FileStore{
		userPath: cfg.SessionUserPath(),
		flagPath: cfg.SessionFlagPath(),
	}
}

func (s *FileStore) path(key string) (string, error) {
	switch key {
	case KeyUser:
		return s.userPath, nil
	case KeyAuthenticated:
		return s.flagPath, nil
	}
	return "", fmt.Errorf("unknown session key: %s", key)
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoEntry
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Set implements Store.
func (s *FileStore) Set(key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(value), 0600)
}

// Delete implements Store. Deleting an absent entry is not an error.
func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	entries map[string]string

	// SetErr and DeleteErr are injected failures.
	SetErr    error
	DeleteErr error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]string)}
}

// Get implements Store.
func (s *MemStore) Get(key string) (string, error) {
	v, ok := s.entries[key]
	if !ok {
		return "", ErrNoEntry
	}
	return v, nil
}

// Set implements Store.
func (s *MemStore) Set(key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.entries[key] = value
	return nil
}

// Delete implements Store.
func (s *MemStore) Delete(key string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.entries, key)
	return nil
}
