package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/narrator/internal/config"
)

func TestDefault(t *testing.T) {
	s := config.Default()
	if !s.ReportNotes || !s.ReportTransport || !s.ReportScrub {
		t.Errorf("Default() = %+v, want notes/transport/scrub on", s)
	}
	if s.ReportFX {
		t.Error("Default() has ReportFX on")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrator.toml")
	data := []byte("report_notes = false\nreport_fx = true\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ReportNotes {
		t.Error("report_notes = false not applied")
	}
	if !s.ReportFX {
		t.Error("report_fx = true not applied")
	}
	// Keys absent from the file keep their defaults.
	if !s.ReportTransport {
		t.Error("absent report_transport lost its default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if s != config.Default() {
		t.Errorf("Load() on missing file = %+v, want defaults", s)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("report_notes = {{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("Load() accepted invalid TOML")
	}
}

func TestStore(t *testing.T) {
	st := config.NewStore(config.Default())
	s := st.Get()
	s.ReportNotes = false
	st.Set(s)
	if st.Get().ReportNotes {
		t.Error("Set() did not take effect")
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "narrator.toml")
	if err := os.WriteFile(path, []byte("report_notes = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	st := config.NewStore(config.Default())
	w, err := config.Watch(path, st, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("report_notes = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if !st.Get().ReportNotes {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("settings not reloaded after file change")
}
