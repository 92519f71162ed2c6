package attempt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoAttempt is returned by Load when no attempt file exists on disk.
var ErrNoAttempt = errors.New("no attempt in progress")

// Store persists an Attempt to disk.
type Store interface {
	Save(a *Attempt) error
	Load() (*Attempt, error) // returns ErrNoAttempt if none exists
	Delete() error
	Path() string
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to attempt.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/opsim/attempt.json or ~/.local/share/opsim/attempt.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "attempt.json")}, nil
}

// dataDir returns the opsim-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "opsim"), nil
}

// Path returns the location of the attempt file on disk.
func (d *diskStore) Path() string { return d.path }

// Save marshals a to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(a *Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to persist attempt state: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "attempt-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist attempt state: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist attempt state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist attempt state: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist attempt state: %w", err)
	}
	return nil
}

// Load reads and unmarshals the attempt file.
// Returns ErrNoAttempt if the file does not exist.
func (d *diskStore) Load() (*Attempt, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoAttempt
		}
		return nil, fmt.Errorf("failed to read attempt state: %w", err)
	}

	var a Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse attempt state: %w", err)
	}
	return &a, nil
}

// Delete removes the attempt file from disk.
func (d *diskStore) Delete() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete attempt state: %w", err)
	}
	return nil
}
