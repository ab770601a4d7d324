// Package lockfile guards against two daemon instances running against
// the same configuration at once, which would otherwise race to flush
// the same destinations' item queues.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds an exclusive, non-blocking flock on a file for the life of
// the process; Close releases it and removes the file.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if needed) the file at path and takes an
// exclusive flock on it, failing immediately if another process already
// holds one.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("lockfile: %s is held by another process: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Close releases the lock and removes the underlying file.
func (l *Lock) Close() error {
	defer os.Remove(l.f.Name())
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("lockfile: unlock %s: %w", l.f.Name(), err)
	}
	return l.f.Close()
}
