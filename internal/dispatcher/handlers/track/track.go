// Package track registers the post-execution hooks that report track
// and item level changes: mute, solo and record-arm flips, item count
// diffs, and transport state.
package track

import (
	"errors"
	"fmt"

	"github.com/dshills/narrator/internal/announce"
	"github.com/dshills/narrator/internal/dispatcher"
	"github.com/dshills/narrator/internal/dispatcher/execctx"
	"github.com/dshills/narrator/internal/dispatcher/handler"
	"github.com/dshills/narrator/internal/host"
)

// Host command ids these hooks observe.
const (
	CmdInsertTrack     = 40001 // Track: Insert new track
	CmdToggleMute      = 40280 // Track: Mute/unmute tracks
	CmdToggleSolo      = 40281 // Track: Solo/unsolo tracks
	CmdToggleArm       = 40294 // Toggle record arming for current (last touched) track
	CmdRemoveItems     = 40006 // Item: Remove items
	CmdDuplicateItems  = 40062 // Item: Duplicate items
	CmdPasteItems      = 42398 // Item: Paste items/tracks
	CmdTransportPlay   = 40044 // Transport: Play/stop
	CmdTransportPause  = 40073 // Transport: Play/pause
	CmdTransportRecord = 1013  // Transport: Record
)

// Register installs the track hooks into reg.
func Register(reg *dispatcher.Registry) {
	reg.Register(host.SectionMain, CmdToggleMute, &handler.PostHook{
		Snapshot: func(ctx *execctx.ExecutionContext) any { return flagSnapshot(ctx.Host, host.Track.Muted) },
		Report:   reportFlag("muted", "unmuted"),
	})
	reg.Register(host.SectionMain, CmdToggleSolo, &handler.PostHook{
		Snapshot: func(ctx *execctx.ExecutionContext) any { return flagSnapshot(ctx.Host, host.Track.Soloed) },
		Report:   reportFlag("soloed", "unsoloed"),
	})
	reg.Register(host.SectionMain, CmdToggleArm, &handler.PostHook{
		Snapshot: func(ctx *execctx.ExecutionContext) any { return flagSnapshot(ctx.Host, host.Track.Armed) },
		Report:   reportFlag("armed", "unarmed"),
	})

	reg.Register(host.SectionMain, CmdInsertTrack, &handler.PostHook{
		Snapshot: snapshotTrackFocus,
		Report:   reportTrackFocus,
	})

	for _, cmd := range []int{CmdRemoveItems, CmdDuplicateItems, CmdPasteItems} {
		reg.Register(host.SectionMain, cmd, &handler.PostHook{
			Snapshot: snapshotItemCount,
			Report:   reportItemDiff,
		})
	}

	for _, cmd := range []int{CmdTransportPlay, CmdTransportPause, CmdTransportRecord} {
		reg.Register(host.SectionMain, cmd, &handler.PostHook{
			Snapshot: func(ctx *execctx.ExecutionContext) any { return ctx.Host.PlayState() },
			Report:   reportTransport,
		})
	}
}

// flagCount is the minimal snapshot for a boolean track flag: how
// many affected tracks have it set, out of how many. The affected set
// is the selected tracks, or the last touched track when nothing is
// selected.
type flagCount struct {
	Set   int
	Total int
}

func flagSnapshot(h host.Host, flag func(host.Track) (bool, error)) flagCount {
	var c flagCount
	for i := 0; i < h.TrackCount(); i++ {
		tr, err := h.Track(i)
		if err != nil {
			continue
		}
		sel, err := tr.Selected()
		if err != nil || !sel {
			continue
		}
		c.Total++
		if set, err := flag(tr); err == nil && set {
			c.Set++
		}
	}
	if c.Total > 0 {
		return c
	}
	tr, err := h.LastTouchedTrack()
	if err != nil {
		return c
	}
	c.Total = 1
	if set, err := flag(tr); err == nil && set {
		c.Set = 1
	}
	return c
}

// reportFlag phrases a flag diff: "muted" for a single track,
// "3 tracks muted" for a selection.
func reportFlag(on, off string) func(*execctx.ExecutionContext, any, any) (string, bool) {
	return func(ctx *execctx.ExecutionContext, before, after any) (string, bool) {
		b, okB := before.(flagCount)
		a, okA := after.(flagCount)
		if !okB || !okA || a.Total == 0 {
			return "", false
		}
		word := off
		if a.Set > b.Set {
			word = on
		}
		if a.Total == 1 {
			return word, true
		}
		return announce.Tracks(a.Total) + " " + word, true
	}
}

// trackFocus is the snapshot for commands that change which track has
// focus, like inserting a track.
type trackFocus struct {
	Index int
	Name  string
	Count int
}

func snapshotTrackFocus(ctx *execctx.ExecutionContext) any {
	f := trackFocus{Index: -1, Count: ctx.Host.TrackCount()}
	tr, err := ctx.Host.LastTouchedTrack()
	if err != nil {
		if !errors.Is(err, host.ErrNotFound) {
			ctx.Log.Debug("last touched track query failed", "error", err)
		}
		return f
	}
	f.Index = tr.Index()
	if name, err := tr.Name(); err == nil {
		f.Name = name
	}
	return f
}

func reportTrackFocus(ctx *execctx.ExecutionContext, before, after any) (string, bool) {
	a, ok := after.(trackFocus)
	if !ok || a.Index < 0 {
		return "", false
	}
	if a.Name == "" {
		return fmt.Sprintf("track %d", a.Index+1), true
	}
	return fmt.Sprintf("track %d %s", a.Index+1, a.Name), true
}

// snapshotItemCount totals items across all tracks. Tracks deleted by
// the action contribute zero rather than failing the snapshot.
func snapshotItemCount(ctx *execctx.ExecutionContext) any {
	total := 0
	for i := 0; i < ctx.Host.TrackCount(); i++ {
		tr, err := ctx.Host.Track(i)
		if err != nil {
			continue
		}
		if n, err := tr.ItemCount(); err == nil {
			total += n
		}
	}
	return total
}

func reportItemDiff(ctx *execctx.ExecutionContext, before, after any) (string, bool) {
	b, okB := before.(int)
	a, okA := after.(int)
	if !okB || !okA {
		return "", false
	}
	switch {
	case a > b:
		return announce.Items(a-b) + " added", true
	case a < b:
		return announce.Items(b-a) + " removed", true
	default:
		return "", false
	}
}

func reportTransport(ctx *execctx.ExecutionContext, before, after any) (string, bool) {
	if !ctx.Settings.Get().ReportTransport {
		return "", false
	}
	a, ok := after.(host.PlayState)
	if !ok {
		return "", false
	}
	return a.Describe(), true
}
