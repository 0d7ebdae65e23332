package config

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/narrator/internal/sched"
)

// watchDebounce coalesces the bursts of write events editors emit
// while saving a file.
const watchDebounce = 200 * time.Millisecond

// Watcher reloads a settings file into a Store when it changes.
type Watcher struct {
	path     string
	store    *Store
	fsw      *fsnotify.Watcher
	debounce *sched.Debouncer
	done     chan struct{}
	log      *slog.Logger
}

// Watch starts watching path and updating store on changes. The
// watcher runs until Close is called. log may be nil.
func Watch(path string, store *Store, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which would
	// drop a watch on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching config dir: %w", err)
	}

	w := &Watcher{
		path:  path,
		store: store,
		fsw:   fsw,
		done:  make(chan struct{}),
		log:   log,
	}
	w.debounce = sched.NewDebouncer(watchDebounce, w.reload)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debounce.Call()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.log.Warn("config reload failed", "path", w.path, "error", err)
		return
	}
	w.store.Set(s)
	w.log.Debug("config reloaded", "path", w.path)
}

// Close stops the watcher. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	w.debounce.Cancel()
	return w.fsw.Close()
}
