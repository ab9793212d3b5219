package watcher

import (
	"context"
	"time"

	"github.com/ritzau/campus-nav/pkg/campus"
	"github.com/ritzau/campus-nav/pkg/campus/source"
	"github.com/ritzau/campus-nav/pkg/logging"
)

// Default debounce timings for editor saves
const (
	DefaultQuietPeriod = 200 * time.Millisecond
	DefaultMaxWait     = 2 * time.Second
)

// ReloadFunc receives each reload attempt. On error the previous map
// should stay in service and m is nil.
type ReloadFunc func(m *campus.Map, err error)

// Reload loads src again for every event until events is closed or ctx is
// done.
func Reload(ctx context.Context, src source.Source, events <-chan ChangeEvent, fn ReloadFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}

			start := time.Now()
			m, err := src.Load(ctx)
			if err != nil {
				logging.Warn("map reload failed, keeping previous map",
					"source", src.Describe(), "events", event.Count, "error", err)
				fn(nil, err)
				continue
			}

			logging.Info("map reloaded",
				"source", src.Describe(),
				"locations", len(m.Locations()),
				"paths", len(m.Edges()),
				"durationMs", time.Since(start).Milliseconds())
			fn(m, nil)
		}
	}
}

// WatchFile wires a FileWatcher, a Debouncer and Reload for a file source.
// It returns once the watcher is running.
func WatchFile(ctx context.Context, src *source.File, fn ReloadFunc) error {
	fw, err := NewFileWatcher(src.Path)
	if err != nil {
		return err
	}
	fw.Start(ctx)

	debouncer := NewDebouncer(fw.Events(), DefaultQuietPeriod, DefaultMaxWait)
	debouncer.Start(ctx)

	go Reload(ctx, src, debouncer.Output(), fn)
	return nil
}
