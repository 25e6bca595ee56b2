// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package lockfile serializes access to a repository directory with an
// exclusive flock on a well-known file.
package lockfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrLocked means another holder has the lock.
var ErrLocked = errors.New("repository is locked by another process")

// Lock is a held exclusive lock. Release it when done; the lock file
// itself stays in place for the next holder.
type Lock struct {
	file *os.File
}

// Acquire takes an exclusive non-blocking flock on path, creating the
// file if needed. A lock held elsewhere, including on another
// descriptor in this process, yields ErrLocked.
func Acquire(path string) (*Lock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Lock{file: file}, nil
}

// Release drops the lock. Calling Release again is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil

	if err := unix.Flock(int(file.Fd()), unix.LOCK_UN); err != nil {
		file.Close()
		return fmt.Errorf("unlocking: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing lock file: %w", err)
	}
	return nil
}
