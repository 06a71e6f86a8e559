// Package lockfile provides advisory, non-blocking file locks used to keep
// two dunders runs from rewriting the same snapshot at once.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrLockBusy is returned when another process holds the lock.
var ErrLockBusy = errors.New("lock already held by another process")

// Lock is an acquired exclusive lock on a lock file.
type Lock struct {
	path string
	f    *os.File
}

// Acquire takes an exclusive non-blocking lock on path, creating the file if
// needed. The holder's PID is written into the file for diagnostics.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // path is derived from the snapshot path
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := FlockExclusiveNonBlock(f); err != nil {
		_ = f.Close()
		if errors.Is(err, ErrLockBusy) {
			return nil, fmt.Errorf("%s: %w", path, ErrLockBusy)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{path: path, f: f}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. The file itself is left in place
// so that a concurrent Acquire never races with its removal.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := FlockUnlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, unlockErr)
	}
	return closeErr
}
