package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/tablet/internal/atomicfs"
	"github.com/aretw0/tablet/pkg/core"
	"github.com/aretw0/tablet/pkg/ident"
	"github.com/aretw0/tablet/pkg/query"
)

const (
	// RecordExt is the extension of every record file.
	RecordExt = ".json"
	// SnapshotFile is the aggregate snapshot written by RebuildSnapshot.
	SnapshotFile = "data.json"
)

// Table implements core.Repository for one entity type, storing each record
// as <BaseDir>/<schema.Name>/<id>.json.
//
// Writers are serialized by an in-process mutex and, when Config.ProcessLock is
// set, by a lock file shared with other processes. Reads take no lock; record
// files are replaced atomically so a reader sees either the old or the new
// version.
type Table[E core.Entity] struct {
	Dir        string
	schema     core.Schema[E]
	config     Config
	logger     *slog.Logger
	serializer Serializer
	alloc      *ident.Allocator
	flock      *fileLock

	mu sync.Mutex // held across allocate-and-write and every other mutation

	stateMu       sync.RWMutex
	watcherActive bool
	lastRebuild   *time.Time
}

// Config holds the configuration for a filesystem table.
type Config struct {
	BaseDir string
	Logger  *slog.Logger
	// SkipMalformed makes FindAll log and skip records that fail to decode
	// instead of aborting the whole listing.
	SkipMalformed bool
	// ProcessLock guards writes with <BaseDir>/<name>.lock as well as the mutex.
	ProcessLock bool
	// Serializer overrides the flat record format.
	Serializer Serializer
	// Metrics records operation counts when set.
	Metrics *Metrics
	// EventBuffer is the capacity of channels returned by Watch (default 100).
	EventBuffer int
	// ErrorHandler receives runtime watcher failures.
	ErrorHandler func(error)
}

// NewTable creates a table for schema under config.BaseDir. Nothing is
// written until the first mutation.
func NewTable[E core.Entity](schema core.Schema[E], config Config) *Table[E] {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	serializer := config.Serializer
	if serializer == nil {
		serializer = NewFlatSerializer()
	}

	dir := filepath.Join(config.BaseDir, schema.Name)
	return &Table[E]{
		Dir:        dir,
		schema:     schema,
		config:     config,
		logger:     logger.With("table", schema.Name),
		serializer: serializer,
		alloc:      ident.NewAllocator(dir, logger),
		flock:      newFileLock(filepath.Join(config.BaseDir, schema.Name+".lock")),
	}
}

// Allocator exposes the identity counter of the table.
func (t *Table[E]) Allocator() *ident.Allocator {
	return t.alloc
}

// SnapshotPath returns the location of the snapshot file.
func (t *Table[E]) SnapshotPath() string {
	return filepath.Join(t.Dir, SnapshotFile)
}

func (t *Table[E]) recordPath(id int64) string {
	return filepath.Join(t.Dir, strconv.FormatInt(id, 10)+RecordExt)
}

// Save inserts a transient entity. For an entity that already has an id it
// writes nothing and allocates nothing; Update is the overwrite path.
func (t *Table[E]) Save(ctx context.Context, e E) (E, error) {
	if e.RecordID() != 0 {
		t.logger.Debug("save skipped, record already persisted", "id", e.RecordID())
		t.config.Metrics.observe("save", nil)
		return e, nil
	}
	return t.Insert(ctx, e)
}

// Insert allocates the next id, assigns it to e and writes the record.
//
// Workflow:
//  1. Reject entities that already carry an id.
//  2. Take the write lock.
//  3. Persist the incremented counter.
//  4. Encode and write <id>.json atomically.
//
// If the write fails the entity is reset to transient; the consumed id is not reused.
func (t *Table[E]) Insert(ctx context.Context, e E) (E, error) {
	var zero E
	if id := e.RecordID(); id != 0 {
		return zero, fmt.Errorf("insert record %d: %w", id, core.ErrNotTransient)
	}

	unlock, err := t.lock(ctx)
	if err != nil {
		return zero, err
	}
	defer unlock()

	id, err := t.alloc.NextID()
	if err != nil {
		t.config.Metrics.observe("insert", err)
		return zero, ioError("allocate id", err)
	}

	e.AssignID(id)
	if err := t.write(e); err != nil {
		e.AssignID(0)
		t.config.Metrics.observe("insert", err)
		return zero, err
	}

	t.logger.Debug("record inserted", "id", id)
	t.config.Metrics.observe("insert", nil)
	t.config.Metrics.written()
	return e, nil
}

// Update overwrites the record of a persisted entity.
func (t *Table[E]) Update(ctx context.Context, e E) error {
	id := e.RecordID()
	if id == 0 {
		return fmt.Errorf("update: %w", core.ErrTransient)
	}

	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := os.Stat(t.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("update record %d: %w", id, core.ErrNotFound)
		} else {
			err = ioError("stat record", err)
		}
		t.config.Metrics.observe("update", err)
		return err
	}

	if err := t.write(e); err != nil {
		t.config.Metrics.observe("update", err)
		return err
	}

	t.logger.Debug("record updated", "id", id)
	t.config.Metrics.observe("update", nil)
	t.config.Metrics.written()
	return nil
}

func (t *Table[E]) write(e E) error {
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return ioError("create directories", err)
	}

	data, err := t.serializer.Serialize(e.Fields())
	if err != nil {
		return fmt.Errorf("failed to serialize record %d: %w", e.RecordID(), err)
	}

	if err := atomicfs.WriteFile(t.recordPath(e.RecordID()), data, 0644); err != nil {
		return ioError("write record", err)
	}
	return nil
}

// FindByID reads and decodes <id>.json.
func (t *Table[E]) FindByID(ctx context.Context, id int64) (E, error) {
	var zero E

	e, err := t.readRecord(t.recordPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("record %d: %w", id, core.ErrNotFound)
		}
		t.config.Metrics.observe("find_by_id", err)
		return zero, err
	}

	if e.RecordID() != id {
		err := fmt.Errorf("%w: file %d.json holds id %d", core.ErrMalformedRecord, id, e.RecordID())
		t.config.Metrics.observe("find_by_id", err)
		return zero, err
	}

	t.config.Metrics.observe("find_by_id", nil)
	return e, nil
}

// FindAll decodes every record file in directory listing order.
//
// The snapshot, temporary files, directories and entries without the .json
// extension are skipped. A record that fails to decode aborts the listing
// unless Config.SkipMalformed is set, in which case it is logged and skipped.
func (t *Table[E]) FindAll(ctx context.Context) ([]E, error) {
	out, err := t.findAll(ctx)
	t.config.Metrics.observe("find_all", err)
	return out, err
}

func (t *Table[E]) findAll(ctx context.Context) ([]E, error) {
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []E{}, nil
		}
		return nil, ioError("list records", err)
	}

	out := make([]E, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("list records in %s: %w", t.Dir, err)
		}

		name := entry.Name()
		if entry.IsDir() || name == SnapshotFile || filepath.Ext(name) != RecordExt || atomicfs.IsTemp(name) {
			continue
		}

		e, err := t.readRecord(filepath.Join(t.Dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue // deleted while listing
			}
			if t.config.SkipMalformed && errors.Is(err, core.ErrMalformedRecord) {
				t.logger.Warn("skipping malformed record", "file", name, "error", err)
				continue
			}
			return nil, fmt.Errorf("record %s: %w", name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (t *Table[E]) readRecord(path string) (E, error) {
	var zero E

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, err
		}
		return zero, ioError("read record", err)
	}

	fields, err := t.serializer.Parse(bytes.NewReader(data))
	if err != nil {
		return zero, err
	}

	e, err := t.schema.Decode(fields)
	if err != nil {
		return zero, err
	}
	return e, nil
}

// Delete removes the record file of e. A missing file is not an error.
func (t *Table[E]) Delete(ctx context.Context, e E) error {
	id := e.RecordID()
	if id == 0 {
		return nil
	}

	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(t.recordPath(id)); err != nil && !os.IsNotExist(err) {
		err = ioError("remove record", err)
		t.config.Metrics.observe("delete", err)
		return err
	}

	t.logger.Debug("record deleted", "id", id)
	t.config.Metrics.observe("delete", nil)
	return nil
}

// Clear removes every record and the snapshot. The identity counter is kept so
// ids keep increasing after a clear; when no counter exists the directory
// itself is removed. The directory is recreated on the next write.
func (t *Table[E]) Clear(ctx context.Context) error {
	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	err = t.clear()
	t.config.Metrics.observe("clear", err)
	return err
}

func (t *Table[E]) clear() error {
	if _, err := os.Stat(t.alloc.Path()); os.IsNotExist(err) {
		if err := os.RemoveAll(t.Dir); err != nil {
			return ioError("remove table directory", err)
		}
		t.logger.Debug("table cleared", "dir", t.Dir)
		return nil
	}

	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ioError("list records", err)
	}

	for _, entry := range entries {
		if entry.Name() == ident.CounterFile {
			continue
		}
		if err := os.RemoveAll(filepath.Join(t.Dir, entry.Name())); err != nil {
			return ioError("remove "+entry.Name(), err)
		}
	}

	t.logger.Debug("table cleared, identity counter kept", "dir", t.Dir)
	return nil
}

// Drop removes the table directory including the identity counter, so the
// next insert starts again from id 1.
func (t *Table[E]) Drop(ctx context.Context) error {
	unlock, err := t.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.RemoveAll(t.Dir); err != nil {
		err = ioError("remove table directory", err)
		t.config.Metrics.observe("drop", err)
		return err
	}

	t.logger.Info("table dropped", "dir", t.Dir)
	t.config.Metrics.observe("drop", nil)
	return nil
}

// FindByFieldLike returns the records whose selected field matches pattern.
// See query.Compile for the pattern rules.
func (t *Table[E]) FindByFieldLike(ctx context.Context, pattern string, selector func(E) string) ([]E, error) {
	all, err := t.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(pattern, all, selector), nil
}

// lock takes the table mutex and, if configured, the process lock file.
func (t *Table[E]) lock(ctx context.Context) (func(), error) {
	t.mu.Lock()
	if !t.config.ProcessLock {
		return t.mu.Unlock, nil
	}

	if err := os.MkdirAll(t.config.BaseDir, 0755); err != nil {
		t.mu.Unlock()
		return nil, ioError("create base directory", err)
	}

	release, err := t.flock.Acquire(ctx)
	if err != nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("failed to acquire table lock: %w", err)
	}

	return func() {
		release()
		t.mu.Unlock()
	}, nil
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrIO, op, err)
}

// recordID extracts the id from a record file name, reporting false for
// anything that is not <id>.json.
func recordID(name string) (int64, bool) {
	name = filepath.Base(name)
	if name == SnapshotFile || !strings.HasSuffix(name, RecordExt) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSuffix(name, RecordExt), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

var _ core.Repository[*core.Quote] = (*Table[*core.Quote])(nil)
