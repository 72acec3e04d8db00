package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNotReady is returned when a file fails to stabilize within the
// allotted timeout.
var ErrNotReady = errors.New("file is not ready")

// WaitStable blocks until the file at path reports the same size on two
// consecutive checks, spaced interval apart, and can be opened for
// writing. A non-positive interval disables the gate entirely. A file that
// does not yet exist is waited for; one that never settles before timeout
// yields ErrNotReady. Cancelling ctx aborts the wait.
func WaitStable(ctx context.Context, path string, interval, timeout time.Duration) error {
	if interval <= 0 {
		return nil
	}

	deadline := time.Now().Add(timeout)
	lastSize := int64(-1)

	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s did not stabilize within %s", ErrNotReady, path, timeout)
		}

		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.Size() == lastSize && writable(path) {
				return nil
			}
			lastSize = info.Size()
		case os.IsNotExist(err):
			// Not landed yet; keep waiting.
			lastSize = -1
		default:
			return fmt.Errorf("checking %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// writable reports whether the file can be opened read-write. A transfer
// still holding the file open for writing fails this check.
func writable(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
