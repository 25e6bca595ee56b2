// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend abstracts the storage a repository lives on.
//
// Objects are named by slash-separated relative paths. Put is atomic
// and durable: a crash during Put leaves either the complete new
// object or nothing under that name, never a partial write, and a Put
// that has returned survives power loss.
package backend

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get for names with no stored object.
var ErrNotExist = errors.New("object does not exist")

// Backend stores repository objects. I/O failures propagate unchanged
// apart from Get's not-found case, which is reported as ErrNotExist.
type Backend interface {
	// Put atomically and durably stores data under name, replacing
	// any existing object.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns the object stored under name, or ErrNotExist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Has reports whether an object is stored under name.
	Has(ctx context.Context, name string) (bool, error)

	// EnsureDir creates the directory name and any missing parents.
	EnsureDir(ctx context.Context, name string) error
}
