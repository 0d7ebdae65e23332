// Package main runs the announcement engine against a simulated host,
// reading commands from stdin and printing what would be spoken. The
// real deployment embeds the engine in a host process; this binary
// exists for demos and manual testing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/narrator/internal/config"
	"github.com/dshills/narrator/internal/dispatcher"
	"github.com/dshills/narrator/internal/dispatcher/handlers/midiedit"
	"github.com/dshills/narrator/internal/dispatcher/handlers/track"
	"github.com/dshills/narrator/internal/extension"
	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/host/hosttest"
	"github.com/dshills/narrator/internal/msgtable"
	"github.com/dshills/narrator/internal/notify"
	"github.com/dshills/narrator/internal/sequence"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		messages   string
		scriptDir  string
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "Path to settings file (TOML)")
	flag.StringVar(&configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&messages, "messages", "", "Path to a JSON message table overlay")
	flag.StringVar(&scriptDir, "scripts", "", "Directory of Lua extension scripts")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "narrator - command announcement engine demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: narrator [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nReads \"<section> <command>\" pairs from stdin and prints\n")
		fmt.Fprintf(os.Stderr, "the announcements the engine would speak.\n")
	}
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", logLevel)
		return 1
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	h := demoHost()

	settings := config.NewStore(config.Default())
	if configPath != "" {
		s, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		settings.Set(s)
		watcher, err := config.Watch(configPath, settings, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer watcher.Close()
	}

	table := msgtable.Builtin()
	if messages != "" {
		data, err := os.ReadFile(messages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := table.LoadJSON(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	var disp *dispatcher.Dispatcher
	out := notify.New(
		notify.SinkFunc(func(text string, interrupt bool, target host.Target) {
			fmt.Println(text)
		}),
		h.FocusTarget,
		func() bool { return disp != nil && disp.Handling() },
	)

	registry := dispatcher.NewRegistry(h)
	disp = dispatcher.New(h, registry, out, table, settings, log)

	track.Register(registry)
	midiedit.New().Register(registry)

	if scriptDir != "" {
		mgr := extension.New(registry, out, h, log)
		defer mgr.Close()
		scripts, err := filepath.Glob(filepath.Join(scriptDir, "*.lua"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for _, script := range scripts {
			if err := mgr.LoadFile(script); err != nil {
				log.Error("extension load failed", "script", script, "error", err)
			}
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, "expected: <section> <command>")
			continue
		}
		section, err1 := strconv.Atoi(fields[0])
		command, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			fmt.Fprintln(os.Stderr, "expected: <section> <command>")
			continue
		}
		if !disp.Dispatch(section, command, 1, 0, 0, h.FocusTarget()) {
			// Not handled; run natively as the host would.
			h.Execute(section, command, 1, 0, 0, h.FocusTarget())
		}
	}
	return 0
}

// demoHost builds a small simulated project: three tracks, a MIDI
// take with a few chords and controller events, and the toggle
// commands the built-in message table covers.
func demoHost() *hosttest.Host {
	h := hosttest.New()

	h.AddTrack(&hosttest.Track{TrackName: "drums", Sel: true, Items: 2})
	h.AddTrack(&hosttest.Track{TrackName: "bass", Items: 1})
	h.AddTrack(&hosttest.Track{TrackName: "keys", Items: 3})
	h.Touched = 0

	h.AddToggle(host.SectionMain, 40364, "Options: Toggle metronome", false)
	h.AddToggle(host.SectionMain, 1068, "Transport: Toggle repeat", false)
	h.AddToggle(host.SectionMain, 40041, "Options: Auto-crossfade media items when editing", true)

	h.AddCommand(host.SectionMain, track.CmdInsertTrack, &hosttest.Command{
		Name: "Track: Insert new track",
		Exec: func(h *hosttest.Host) {
			t := h.AddTrack(&hosttest.Track{TrackName: fmt.Sprintf("track %d", h.TrackCount()+1)})
			h.Touched = t.Index()
		},
	})
	h.AddCommand(host.SectionMain, track.CmdToggleMute, &hosttest.Command{
		Name: "Track: Mute/unmute tracks",
		Exec: func(h *hosttest.Host) {
			for _, t := range h.Tracks {
				if t.Sel {
					t.Mute = !t.Mute
				}
			}
		},
	})
	h.AddCommand(host.SectionMain, track.CmdTransportPlay, &hosttest.Command{
		Name: "Transport: Play/stop",
		Exec: func(h *hosttest.Host) {
			h.State.Playing = !h.State.Playing
		},
	})

	ed := hosttest.NewEditor()
	ed.NoteEvents = []sequence.Note{
		{Channel: 0, Pitch: 60, Velocity: 96, Start: 0, End: 0.5},
		{Channel: 0, Pitch: 64, Velocity: 96, Start: 0, End: 0.5},
		{Channel: 0, Pitch: 67, Velocity: 96, Start: 0, End: 0.5},
		{Channel: 0, Pitch: 62, Velocity: 80, Start: 1.0, End: 1.25},
		{Channel: 0, Pitch: 65, Velocity: 80, Start: 1.0, End: 1.5},
	}
	ed.CCEvents = []sequence.CC{
		{Status: 0xB0, Channel: 0, Data1: 7, Data2: 100, Start: 0},
		{Status: 0xB0, Channel: 0, Data1: 10, Data2: 64, Start: 0.5},
	}
	h.Editor = ed

	for _, cmd := range []int{
		midiedit.CmdNextChord, midiedit.CmdPrevChord,
		midiedit.CmdNextChordKeepSel, midiedit.CmdPrevChordKeepSel,
		midiedit.CmdNextNoteInChord, midiedit.CmdPrevNoteInChord,
		midiedit.CmdNextNoteKeepSel, midiedit.CmdPrevNoteKeepSel,
		midiedit.CmdNextCC, midiedit.CmdPrevCC,
		midiedit.CmdNextCCKeepSel, midiedit.CmdPrevCCKeepSel,
		midiedit.CmdToggleSelection,
	} {
		h.AddCommand(host.SectionMIDIEditor, cmd, &hosttest.Command{})
	}
	h.AddCommand(host.SectionMIDIEditor, 40051, &hosttest.Command{Name: "Edit: Insert note at edit cursor"})
	ed.Settings["active_note_row"] = 60

	return h
}
