// Package config holds the engine's user settings: which categories
// of feedback are spoken. Settings load from a TOML file and reload
// when the file changes on disk.
package config

import (
	"fmt"
	"os"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings are the report switches. Zero value disables everything;
// use Default for the shipped defaults.
type Settings struct {
	// ReportNotes speaks note names and counts during MIDI navigation.
	ReportNotes bool `toml:"report_notes"`

	// ReportTransport speaks play/stop/record state changes.
	ReportTransport bool `toml:"report_transport"`

	// ReportScrub speaks the position while scrubbing.
	ReportScrub bool `toml:"report_scrub"`

	// ReportFX speaks FX chain changes.
	ReportFX bool `toml:"report_fx"`
}

// Default returns the shipped defaults: everything on except FX,
// which is noisy on busy projects.
func Default() Settings {
	return Settings{
		ReportNotes:     true,
		ReportTransport: true,
		ReportScrub:     true,
		ReportFX:        false,
	}
}

// Load reads settings from a TOML file. A missing file is not an
// error; the defaults are returned.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return s, nil
}

// Store holds the current settings. Reads happen on the dispatch
// thread while the file watcher writes from its own goroutine, so
// access is locked.
type Store struct {
	mu sync.RWMutex
	s  Settings
}

// NewStore creates a store seeded with s.
func NewStore(s Settings) *Store {
	return &Store{s: s}
}

// Get returns a snapshot of the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Set replaces the current settings.
func (st *Store) Set(s Settings) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = s
}
