// Package atomicfs replaces record, counter and snapshot files so that a
// reader never sees a partial write, and cleans up after writers that died
// between creating and renaming their temp file.
package atomicfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TempFilePrefix marks in-flight writes. Listings skip names carrying it.
const TempFilePrefix = "tablet-tmp-"

// IsTemp reports whether name is a leftover or in-flight temporary file.
func IsTemp(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempFilePrefix)
}

// WriteFile stages data next to filename and renames it into place.
// The parent directory is synced after the rename so a counter update is
// durable before the record that depends on it is written.
func WriteFile(filename string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", filepath.Base(filename), err)
	}
	staged := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(staged)
		}
	}()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(staged, perm)
	}
	if err != nil {
		return fmt.Errorf("stage %s: %w", filepath.Base(filename), err)
	}

	if err = os.Rename(staged, filename); err != nil {
		return fmt.Errorf("replace %s: %w", filename, err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes directory entries. Platforms that cannot open a directory
// for syncing (Windows) skip it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}

// Sweep removes temp files in dir last modified more than olderThan ago and
// returns how many it removed. Younger ones may belong to a live writer in
// another process and are kept.
func Sweep(dir string, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsTemp(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
