package fs

import (
	"context"
	"os"
	"time"

	"github.com/aretw0/tablet/internal/atomicfs"
	"github.com/aretw0/tablet/pkg/codec"
)

// staleTempAge is how old a temp file must be before a rebuild removes it.
const staleTempAge = time.Minute

// RebuildSnapshot rewrites data.json from the current record files.
//
// The snapshot is a derived cache: writes never refresh it, so it is stale
// from the first mutation after a rebuild until the next call. A rebuild also
// removes temp files older than a minute left by interrupted writes.
func (t *Table[E]) RebuildSnapshot(ctx context.Context) error {
	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	err = t.rebuildSnapshot(ctx)
	t.config.Metrics.observe("rebuild_snapshot", err)
	return err
}

func (t *Table[E]) rebuildSnapshot(ctx context.Context) error {
	records, err := t.FindAll(ctx)
	if err != nil {
		return err
	}

	items := make([]codec.Fields, 0, len(records))
	for _, r := range records {
		items = append(items, r.Fields())
	}

	data, err := t.serializer.SerializeList(items)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return ioError("create directories", err)
	}
	if err := atomicfs.WriteFile(t.SnapshotPath(), data, 0644); err != nil {
		return ioError("write snapshot", err)
	}

	if n, err := atomicfs.Sweep(t.Dir, staleTempAge); err != nil {
		t.logger.Warn("failed to sweep temp files", "error", err)
	} else if n > 0 {
		t.logger.Info("removed temp files left by interrupted writes", "count", n)
	}

	now := time.Now()
	t.stateMu.Lock()
	t.lastRebuild = &now
	t.stateMu.Unlock()

	t.logger.Debug("snapshot rebuilt", "records", len(records))
	return nil
}

// Snapshot returns the text of the last rebuilt snapshot, or "" when none exists.
func (t *Table[E]) Snapshot(ctx context.Context) (string, error) {
	data, err := os.ReadFile(t.SnapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", ioError("read snapshot", err)
	}
	return string(data), nil
}
