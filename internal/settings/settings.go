// Package settings persists user preferences as a small YAML document,
// exposed to the UI process as a get/update key-value store.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings holds every user-tunable preference
type Settings struct {
	SoundEnabled        bool   `yaml:"sound_enabled" json:"soundEnabled"`
	AutoCheckUpdates    bool   `yaml:"auto_check_updates" json:"autoCheckUpdates"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds" json:"pollIntervalSeconds"`
	Theme               string `yaml:"theme" json:"theme"`
}

// Patch is a partial settings update; nil fields are left untouched
type Patch struct {
	SoundEnabled        *bool   `yaml:"sound_enabled,omitempty" json:"soundEnabled,omitempty"`
	AutoCheckUpdates    *bool   `yaml:"auto_check_updates,omitempty" json:"autoCheckUpdates,omitempty"`
	PollIntervalSeconds *int    `yaml:"poll_interval_seconds,omitempty" json:"pollIntervalSeconds,omitempty"`
	Theme               *string `yaml:"theme,omitempty" json:"theme,omitempty"`
}

// Defaults returns the settings used when no file exists yet
func Defaults() Settings {
	return Settings{
		SoundEnabled:        true,
		AutoCheckUpdates:    true,
		PollIntervalSeconds: 1,
		Theme:               "system",
	}
}

// Store reads and writes the settings file. Safe for concurrent use by the
// daemon's request handlers.
type Store struct {
	path    string
	mu      sync.Mutex
	current Settings
}

// DefaultPath returns $XDG_CONFIG_HOME/pulseboard/settings.yaml, falling back
// to ~/.config
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "pulseboard", "settings.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "pulseboard", "settings.yaml"), nil
}

// NewStore loads the settings file at path, falling back to defaults when the
// file is missing or a field is unset.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, current: Defaults()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var loaded Patch
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	s.current = apply(s.current, loaded)

	return s, nil
}

// Get returns the current settings
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies a partial patch, persists the result and returns it
func (s *Store) Update(patch Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := apply(s.current, patch)
	if err := s.save(updated); err != nil {
		return s.current, err
	}
	s.current = updated
	return s.current, nil
}

func (s *Store) save(settings Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}

func apply(base Settings, patch Patch) Settings {
	if patch.SoundEnabled != nil {
		base.SoundEnabled = *patch.SoundEnabled
	}
	if patch.AutoCheckUpdates != nil {
		base.AutoCheckUpdates = *patch.AutoCheckUpdates
	}
	if patch.PollIntervalSeconds != nil {
		base.PollIntervalSeconds = *patch.PollIntervalSeconds
	}
	if patch.Theme != nil {
		base.Theme = *patch.Theme
	}
	return base
}
