package fs

import (
	"context"
	"fmt"
	"os"
	"time"
)

// fileLock is an exclusive lock shared between processes, held by the
// existence of a file created with O_EXCL.
type fileLock struct {
	path     string
	interval time.Duration
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path, interval: 10 * time.Millisecond}
}

// Acquire blocks until the lock file can be created or ctx is done.
// A lock file left by a crashed process blocks every writer until it is removed.
func (l *fileLock) Acquire(ctx context.Context) (func(), error) {
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() {
				os.Remove(l.path)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", l.path, ctx.Err())
		case <-time.After(l.interval):
		}
	}
}
