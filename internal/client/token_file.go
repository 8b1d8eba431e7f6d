package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StoredSession is the access token kept between CLI invocations.
type StoredSession struct {
	AccessToken string    `yaml:"access_token"`
	SessionID   string    `yaml:"session_id"`
	UserID      string    `yaml:"user_id"`
	Email       string    `yaml:"email"`
	ExpiresAt   time.Time `yaml:"expires_at"`
}

type TokenFile struct {
	Path string
}

// DefaultTokenPath is ~/.spotlight/session.yaml.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".spotlight", "session.yaml")
	}
	return filepath.Join(home, ".spotlight", "session.yaml")
}

// Load returns false when no session has been saved.
func (f TokenFile) Load() (StoredSession, bool, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return StoredSession{}, false, nil
	}
	if err != nil {
		return StoredSession{}, false, fmt.Errorf("read session file: %w", err)
	}
	var stored StoredSession
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return StoredSession{}, false, fmt.Errorf("parse session file: %w", err)
	}
	if stored.AccessToken == "" {
		return StoredSession{}, false, nil
	}
	return stored, true, nil
}

func (f TokenFile) Save(stored StoredSession) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the saved session. A missing file is not an error.
func (f TokenFile) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
