package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable SyncTank settings.
type Config struct {
	Endpoint       string `json:"endpoint"`          // remote store base URL
	TriggerPath    string `json:"trigger_path"`      // hotkey trigger file; empty = data dir default
	KeepOpenOnBlur bool   `json:"keep_open_on_blur"` // capture surface survives focus loss
	TempDir        string `json:"temp_dir"`          // pasted-image scratch dir; empty = os temp
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Endpoint: "http://127.0.0.1:8000",
	}
}

// LoadGlobal reads ~/.config/synctank/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "synctank", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .synctankconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".synctankconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.Endpoint != "" {
			result.Endpoint = global.Endpoint
		}
		if global.TriggerPath != "" {
			result.TriggerPath = global.TriggerPath
		}
		if global.TempDir != "" {
			result.TempDir = global.TempDir
		}
		if global.KeepOpenOnBlur {
			result.KeepOpenOnBlur = true
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.Endpoint != "" {
			result.Endpoint = project.Endpoint
		}
		if project.TriggerPath != "" {
			result.TriggerPath = project.TriggerPath
		}
		if project.TempDir != "" {
			result.TempDir = project.TempDir
		}
		if project.KeepOpenOnBlur {
			result.KeepOpenOnBlur = true
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
