// Package settings persists per-user durable state: the registered hotkey
// combination and the capture surface's last on-screen origin.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSettings is returned by Load when no settings file exists on disk.
var ErrNoSettings = errors.New("no saved settings")

// Binding is the persisted hotkey combination: an opaque key identifier
// plus a modifier bitmask.
type Binding struct {
	Key       string `json:"key"`
	Modifiers uint32 `json:"modifiers"`
}

// Origin is the capture surface's last on-screen position.
type Origin struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Settings holds all durable keys. Absent fields mean "use the default".
type Settings struct {
	Hotkey        *Binding `json:"hotkey,omitempty"`
	SurfaceOrigin *Origin  `json:"surface_origin,omitempty"`
}

// Store persists Settings to disk.
type Store interface {
	Save(s *Settings) error
	Load() (*Settings, error) // returns ErrNoSettings if none exists
	Delete() error
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to settings.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/synctank/settings.json or ~/.local/share/synctank/settings.json
func NewStore() (Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "settings.json")}, nil
}

// DataDir returns the synctank-specific XDG data directory.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "synctank"), nil
}

// Save marshals s to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(s *Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "settings-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// Load reads and unmarshals the settings file.
// Returns ErrNoSettings if the file does not exist.
func (d *diskStore) Load() (*Settings, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSettings
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// Delete removes the settings file from disk.
func (d *diskStore) Delete() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
