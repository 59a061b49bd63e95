// Package ident issues monotonically increasing record identifiers backed by a
// small counter file.
package ident

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/tablet/internal/atomicfs"
)

// CounterFile is the name of the counter file inside a table directory.
const CounterFile = "lastId.txt"

// Allocator persists the highest id ever issued for one table directory.
//
// It is not safe for concurrent use; callers serialize NextID together with the
// write of the record that receives the id.
type Allocator struct {
	Dir    string
	logger *slog.Logger
}

// NewAllocator returns an allocator for the counter stored in dir.
// A nil logger discards output.
func NewAllocator(dir string, logger *slog.Logger) *Allocator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Allocator{Dir: dir, logger: logger}
}

// Path returns the location of the counter file.
func (a *Allocator) Path() string {
	return filepath.Join(a.Dir, CounterFile)
}

// LoadLastID returns the stored counter, or 0 when the file is absent,
// unreadable or does not hold a non-negative integer.
func (a *Allocator) LoadLastID() int64 {
	data, err := os.ReadFile(a.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("identity counter unreadable, starting from zero", "path", a.Path(), "error", err)
		}
		return 0
	}

	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || n < 0 {
		// Ids issued before the corruption may be handed out again.
		a.logger.Warn("identity counter corrupt, starting from zero", "path", a.Path(), "content", string(data))
		return 0
	}
	return n
}

// SaveLastID overwrites the counter with value, creating the directory if needed.
func (a *Allocator) SaveLastID(value int64) error {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := atomicfs.WriteFile(a.Path(), []byte(strconv.FormatInt(value, 10)), 0644); err != nil {
		return fmt.Errorf("failed to write identity counter: %w", err)
	}
	return nil
}

// NextID increments the counter, persists it and returns the new value.
// The counter is written before the caller writes its record, so a crash in
// between leaves a gap in the sequence rather than a duplicate.
func (a *Allocator) NextID() (int64, error) {
	next := a.LoadLastID() + 1
	if err := a.SaveLastID(next); err != nil {
		return 0, err
	}
	a.logger.Debug("identity allocated", "id", next, "dir", a.Dir)
	return next, nil
}
