package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/tablet/pkg/core"
)

const defaultEventBuffer = 100

// Watch streams changes to record files whose base name matches pattern
// (doublestar syntax, "" means every record). The channel is closed when ctx
// is done or the watcher fails.
//
// Records are replaced by rename, so both inserts and updates surface from
// the filesystem as creations; ids already present are reported as MODIFY.
func (t *Table[E]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return nil, ioError("create directories", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(t.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", t.Dir, err)
	}

	known, err := t.knownIDs()
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	size := t.config.EventBuffer
	if size <= 0 {
		size = defaultEventBuffer
	}
	events := make(chan core.Event, size)
	t.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer t.setWatcherActive(false)
		defer watcher.Close()
		return t.watchLoop(ctx, watcher, pattern, known, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		t.logger.Error("watcher stopped", "error", err)
		if t.config.ErrorHandler != nil {
			t.config.ErrorHandler(err)
		}
	}))

	return events, nil
}

func (t *Table[E]) knownIDs() (map[int64]bool, error) {
	known := make(map[int64]bool)
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		return nil, ioError("list records", err)
	}
	for _, entry := range entries {
		if id, ok := recordID(entry.Name()); ok {
			known[id] = true
		}
	}
	return known, nil
}

func (t *Table[E]) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, known map[int64]bool, events chan<- core.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}

			e, ok := t.mapEvent(event, pattern, known)
			if !ok {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			t.logger.Error("fsnotify error", "error", wErr)
			if t.config.ErrorHandler != nil {
				t.config.ErrorHandler(wErr)
			}
		}
	}
}

// mapEvent filters a raw filesystem event down to a record change.
// Counter, snapshot, lock and temporary files never produce events.
func (t *Table[E]) mapEvent(event fsnotify.Event, pattern string, known map[int64]bool) (core.Event, bool) {
	name := filepath.Base(event.Name)
	id, ok := recordID(name)
	if !ok {
		return core.Event{}, false
	}

	if match, err := doublestar.Match(pattern, name); err != nil || !match {
		return core.Event{}, false
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
		if known[id] {
			eType = core.EventModify
		}
		known[id] = true
	case event.Has(fsnotify.Write):
		eType = core.EventModify
		known[id] = true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
		delete(known, id)
	default:
		return core.Event{}, false
	}

	t.logger.Debug("record event", "type", eType, "id", id)
	return core.Event{Type: eType, ID: id, Timestamp: time.Now().Unix()}, true
}
