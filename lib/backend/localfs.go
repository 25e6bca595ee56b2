// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// stageDir holds in-flight writes. A Put streams the object here
// first, with O_SYNC so the data is on disk, then renames it over the
// final name. Readers never observe a partial object.
const stageDir = ".stage"

// Local is a Backend on a directory tree. The filesystem is pluggable
// so tests can run against memory.
type Local struct {
	fs afero.Fs
}

// NewLocal returns a backend rooted at dir on the host filesystem.
// The directory is created on first write.
func NewLocal(dir string) *Local {
	return &Local{fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
}

// New returns a backend on an arbitrary filesystem.
func New(fs afero.Fs) *Local {
	return &Local{fs: fs}
}

func (l *Local) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stageName := filepath.Join(stageDir, name)
	if err := l.fs.MkdirAll(filepath.Dir(stageName), 0o700); err != nil {
		return fmt.Errorf("creating stage directory: %w", err)
	}

	file, err := l.fs.OpenFile(stageName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_SYNC, 0o600)
	if err != nil {
		return fmt.Errorf("staging %s: %w", name, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		l.fs.Remove(stageName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		l.fs.Remove(stageName)
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if parent := filepath.Dir(name); parent != "." {
		if err := l.fs.MkdirAll(parent, 0o700); err != nil {
			return fmt.Errorf("creating parent of %s: %w", name, err)
		}
	}
	if err := l.fs.Rename(stageName, name); err != nil {
		l.fs.Remove(stageName)
		return fmt.Errorf("publishing %s: %w", name, err)
	}
	return nil
}

func (l *Local) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(l.fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (l *Local) Has(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	exists, err := afero.Exists(l.fs, name)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", name, err)
	}
	return exists, nil
}

func (l *Local) EnsureDir(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.fs.MkdirAll(name, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	return nil
}
