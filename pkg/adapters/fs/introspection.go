package fs

import (
	"os"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/tablet/pkg/core"
)

// TableState exposes internal state for observability.
type TableState struct {
	Dir           string     `json:"dir"`
	Name          string     `json:"name"`
	LastID        int64      `json:"last_id"`
	SkipMalformed bool       `json:"skip_malformed"`
	ProcessLock   bool       `json:"process_lock"`
	WatcherActive bool       `json:"watcher_active"`
	// SnapshotExists reports data.json on disk, whoever wrote it.
	SnapshotExists bool `json:"snapshot_exists"`
	// LastRebuild is set only by rebuilds in this process.
	LastRebuild *time.Time `json:"last_rebuild,omitempty"`
}

// State implements introspection.Introspectable.
func (t *Table[E]) State() any {
	_, statErr := os.Stat(t.SnapshotPath())

	t.stateMu.RLock()
	defer t.stateMu.RUnlock()

	return TableState{
		Dir:           t.Dir,
		Name:          t.schema.Name,
		LastID:        t.alloc.LoadLastID(),
		SkipMalformed: t.config.SkipMalformed,
		ProcessLock:   t.config.ProcessLock,
		WatcherActive:  t.watcherActive,
		SnapshotExists: statErr == nil,
		LastRebuild:    t.lastRebuild,
	}
}

// ComponentType implements introspection.Component.
func (t *Table[E]) ComponentType() string {
	return "table"
}

var _ introspection.Introspectable = (*Table[*core.Quote])(nil)
var _ introspection.Component = (*Table[*core.Quote])(nil)

func (t *Table[E]) setWatcherActive(active bool) {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()
	t.watcherActive = active
}
