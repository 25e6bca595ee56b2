// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package repo manages the lifetime of a deduplicating repository:
// its on-disk descriptor (config.yml plus the version marker), the
// algorithm registry the descriptor draws from, and the passphrase
// lifecycle of the repository key.
//
// A repository exists once its version marker does. Creation writes
// data directories and config.yml first and the marker last, so a
// crash mid-creation leaves something Open reports as nonexistent
// rather than corrupt.
package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cairn-storage/cairn/lib/backend"
	"github.com/cairn-storage/cairn/lib/chunker"
	"github.com/cairn-storage/cairn/lib/compress"
	"github.com/cairn-storage/cairn/lib/digest"
	"github.com/cairn-storage/cairn/lib/seal"
	"github.com/cairn-storage/cairn/lib/secret"
)

// Format versions this build reads. New repositories are written at
// VersionCurrent.
const (
	VersionLowest  uint32 = 0
	VersionCurrent uint32 = 1
)

// Well-known names inside a repository.
const (
	// ConfigFile holds the encoded descriptor.
	ConfigFile = "config.yml"

	// VersionFile is the commit marker: its presence makes the
	// repository exist, and it holds the format version in decimal.
	VersionFile = "version"

	// LockFile is flocked by commands that mutate the repository.
	LockFile = ".lock"

	// Data directories, created at init.
	ChunkDir = "chunk"
	NameDir  = "name"
	IndexDir = "index"
)

// Repository is an open repository: a backend plus the descriptor
// read from (or just written to) it.
type Repository struct {
	backend    backend.Backend
	descriptor *Descriptor
	logger     *slog.Logger
}

// Init creates a repository on the backend: data directories first,
// then config.yml, then the version marker. The marker commits the
// repository; until it is written the directory still reads as
// nonexistent.
func Init(ctx context.Context, store backend.Backend, descriptor *Descriptor, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := descriptor.Validate(); err != nil {
		return nil, fmt.Errorf("invalid repository config: %w", err)
	}

	present, err := store.Has(ctx, VersionFile)
	if err != nil {
		return nil, fmt.Errorf("checking for existing repository: %w", err)
	}
	if present {
		return nil, ErrExists
	}

	for _, dir := range []string{ChunkDir, NameDir, IndexDir} {
		if err := store.EnsureDir(ctx, dir); err != nil {
			return nil, err
		}
	}

	repository := &Repository{backend: store, descriptor: descriptor, logger: logger}
	if err := repository.writeDescriptor(ctx); err != nil {
		return nil, err
	}

	logger.Info("repository initialized",
		"version", descriptor.Version,
		"chunking", descriptor.Chunking.Family,
		"chunk_bits", descriptor.Chunking.Bits,
		"encryption", descriptor.Encryption.Kind,
		"compression", descriptor.Compression,
		"hashing", descriptor.Hashing,
		"nesting", descriptor.Nesting)
	return repository, nil
}

// Open loads an existing repository. An absent version marker is
// ErrNotExist; a marker outside the supported range is an
// UnsupportedVersionError; a config that will not decode or validate
// is ErrMalformedConfig. Backend failures propagate unchanged.
func Open(ctx context.Context, store backend.Backend, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	markerBytes, err := store.Get(ctx, VersionFile)
	if err != nil {
		if errors.Is(err, backend.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("reading %s: %w", VersionFile, err)
	}
	marker := strings.TrimSpace(string(markerBytes))
	version64, err := strconv.ParseUint(marker, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: version marker %q is not a number", ErrMalformedConfig, marker)
	}
	if version := uint32(version64); version < VersionLowest || version > VersionCurrent {
		return nil, &UnsupportedVersionError{Version: version}
	}

	encoded, err := store.Get(ctx, ConfigFile)
	if err != nil {
		if errors.Is(err, backend.ErrNotExist) {
			// The marker committed this repository, so a missing
			// config afterwards is storage damage, not absence.
			return nil, fmt.Errorf("version marker present but %s missing: %w", ConfigFile, err)
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	descriptor, err := DecodeDescriptor(encoded)
	if err != nil {
		return nil, err
	}

	logger.Debug("repository opened",
		"version", descriptor.Version,
		"chunking", descriptor.Chunking.Family,
		"encryption", descriptor.Encryption.Kind)
	return &Repository{backend: store, descriptor: descriptor, logger: logger}, nil
}

// ChangePassphrase rewraps the repository key under next and persists
// the updated descriptor. The key itself never changes, so chunks
// sealed before the change stay readable. A wrong current passphrase
// is seal.ErrAuthentication; any failure leaves both the stored and
// the in-memory wrap under the current passphrase.
func (r *Repository) ChangePassphrase(ctx context.Context, current, next *secret.Buffer) error {
	var previousWrap []byte
	if key := r.descriptor.Encryption.Key; key != nil {
		previousWrap = key.SealedSecretKey
	}
	if err := r.descriptor.Encryption.ChangePassphrase(current, next); err != nil {
		return err
	}
	if err := r.writeDescriptor(ctx); err != nil {
		r.descriptor.Encryption.Key.SealedSecretKey = previousWrap
		return err
	}
	r.logger.Info("passphrase changed")
	return nil
}

// writeDescriptor persists the descriptor, config.yml before the
// version marker. The order is load-bearing: the marker must never
// exist without a complete config behind it.
func (r *Repository) writeDescriptor(ctx context.Context) error {
	encoded, err := r.descriptor.Encode()
	if err != nil {
		return err
	}
	if err := r.backend.Put(ctx, ConfigFile, encoded); err != nil {
		return fmt.Errorf("writing %s: %w", ConfigFile, err)
	}
	marker := strconv.FormatUint(uint64(r.descriptor.Version), 10)
	if err := r.backend.Put(ctx, VersionFile, []byte(marker)); err != nil {
		return fmt.Errorf("writing %s: %w", VersionFile, err)
	}
	return nil
}

// Descriptor returns the open repository's configuration.
func (r *Repository) Descriptor() *Descriptor { return r.descriptor }

// Chunker returns a splitter over reader using the configured family
// and chunk size.
func (r *Repository) Chunker(reader io.Reader) chunker.Chunker {
	return r.descriptor.Chunking.Chunker(reader)
}

// Hasher returns the configured content hash.
func (r *Repository) Hasher() digest.Hasher { return r.descriptor.Hashing.Hasher() }

// Codec returns the configured compression codec.
func (r *Repository) Codec() compress.Codec { return r.descriptor.Compression.Codec() }

// Encrypter returns the chunk sealing engine. It needs no passphrase.
func (r *Repository) Encrypter() (seal.Encrypter, error) {
	return r.descriptor.Encryption.Encrypter()
}

// Decrypter returns the chunk opening engine, unwrapping the
// repository key with passphrase.
func (r *Repository) Decrypter(passphrase *secret.Buffer) (seal.Decrypter, error) {
	return r.descriptor.Encryption.Decrypter(passphrase)
}

// ChunkPath returns the path of the chunk addressed by digestBytes,
// relative to the repository root.
func (r *Repository) ChunkPath(digestBytes []byte) (string, error) {
	if want := r.descriptor.Hashing.DigestSize(); len(digestBytes) != want {
		return "", fmt.Errorf("digest is %d bytes; %s digests are %d",
			len(digestBytes), r.descriptor.Hashing, want)
	}
	return r.descriptor.Nesting.Path(ChunkDir, digestBytes)
}
