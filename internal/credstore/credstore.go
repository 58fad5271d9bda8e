// Package credstore persists the bearer token and cached user profile
// across runs. Token and profile live in one file so they are always
// written and cleared together.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blackwell-systems/readerctl/internal/reader"
)

const sessionFile = "session.json"

// Credentials is the on-disk record.
type Credentials struct {
	Token   string              `json:"token"`
	Profile *reader.UserProfile `json:"profile,omitempty"`
}

// Store is a file-backed credential store rooted at a data directory.
// All methods are safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store writing to <dataDir>/session.json.
func New(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, sessionFile)}
}

// Save writes token and profile atomically (temp file + rename) with
// owner-only permissions.
func (s *Store) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Load reads the stored credentials. A missing file is not an error; it
// returns empty credentials, meaning no session exists.
func (s *Store) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt file is treated as no session rather than wedging
		// every command behind an unparseable blob.
		return Credentials{}, nil
	}
	return creds, nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token() string {
	creds, err := s.Load()
	if err != nil {
		return ""
	}
	return creds.Token
}

// Clear removes the session file. Clearing an absent file is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
