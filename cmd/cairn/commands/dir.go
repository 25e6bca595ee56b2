// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
	"github.com/cairn-storage/cairn/lib/backend"
	"github.com/cairn-storage/cairn/lib/lockfile"
	"github.com/cairn-storage/cairn/lib/repo"
)

// DirEnv names the environment variable holding the repository
// directory, consulted when --dir is not passed.
const DirEnv = "CAIRN_DIR"

// resolveDir returns the repository directory from the --dir flag or
// the CAIRN_DIR environment variable.
func resolveDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if value := os.Getenv(DirEnv); value != "" {
		return value, nil
	}
	return "", cli.Validation("repository directory required").
		WithHint("Pass --dir <path> or set %s.", DirEnv)
}

// openRepository opens the repository at dir, translating the
// repository error taxonomy into categorized command errors.
func openRepository(ctx context.Context, dir string, logger *slog.Logger) (*repo.Repository, error) {
	repository, err := repo.Open(ctx, backend.NewLocal(dir), logger)
	if err == nil {
		return repository, nil
	}

	var unsupported *repo.UnsupportedVersionError
	switch {
	case errors.Is(err, repo.ErrNotExist):
		return nil, notFoundError(dir)
	case errors.As(err, &unsupported):
		return nil, cli.Validation("%v", err).
			WithHint("This repository was written by a newer cairn; upgrade to read it.")
	case errors.Is(err, repo.ErrMalformedConfig):
		return nil, cli.Storage("repository at %s is damaged: %v", dir, err)
	default:
		return nil, cli.Storage("opening repository at %s: %v", dir, err)
	}
}

// acquireLock takes the repository's exclusive lock for a mutating
// command. The caller must Release the returned lock.
func acquireLock(dir string) (*lockfile.Lock, error) {
	lock, err := lockfile.Acquire(filepath.Join(dir, repo.LockFile))
	if err != nil {
		switch {
		case errors.Is(err, lockfile.ErrLocked):
			return nil, cli.Conflict("%v", err).
				WithHint("Another cairn process is using this repository; wait for it to finish.")
		case errors.Is(err, os.ErrNotExist):
			// The directory itself is absent, so there is no
			// repository to lock.
			return nil, notFoundError(dir)
		default:
			return nil, cli.Storage("locking repository: %v", err)
		}
	}
	return lock, nil
}

func notFoundError(dir string) error {
	return cli.NotFound("no repository at %s", dir).
		WithHint("Run 'cairn init --dir %s' to create one.", dir)
}
