// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
	"github.com/cairn-storage/cairn/lib/backend"
	"github.com/cairn-storage/cairn/lib/repo"
)

func TestInit_CreatesRepository(t *testing.T) {
	dir := initRepo(t)

	for _, name := range []string{repo.ConfigFile, repo.VersionFile, repo.ChunkDir, repo.NameDir, repo.IndexDir} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s after init: %v", name, err)
		}
	}

	repository, err := repo.Open(context.Background(), backend.NewLocal(dir), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if kind := repository.Descriptor().Encryption.Kind; kind != repo.EncryptionNone {
		t.Errorf("encryption = %q, want %q", kind, repo.EncryptionNone)
	}
}

func TestInit_CustomAlgorithms(t *testing.T) {
	dir := initRepo(t,
		"--chunking", "gear",
		"--chunk-bits", "12",
		"--compression", "zstd",
		"--hashing", "blake2b",
		"--nesting", "3")

	repository, err := repo.Open(context.Background(), backend.NewLocal(dir), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	descriptor := repository.Descriptor()
	if descriptor.Chunking.Family != repo.ChunkingGear || descriptor.Chunking.Bits != 12 {
		t.Errorf("chunking = %+v, want gear/12", descriptor.Chunking)
	}
	if descriptor.Compression != repo.CompressionZstd {
		t.Errorf("compression = %q, want zstd", descriptor.Compression)
	}
	if descriptor.Hashing != repo.HashingBlake2b {
		t.Errorf("hashing = %q, want blake2b", descriptor.Hashing)
	}
	if descriptor.Nesting != 3 {
		t.Errorf("nesting = %d, want 3", descriptor.Nesting)
	}
}

func TestInit_Twice_Conflict(t *testing.T) {
	dir := initRepo(t)

	_, err := captureStdout(t, func() error {
		return InitCommand().Execute([]string{"--dir", dir, "--encryption", "none"})
	})
	if err == nil {
		t.Fatal("expected error for init over an existing repository")
	}
	if code := cli.ExitCodeFor(err); code != 5 {
		t.Errorf("exit code = %d, want 5 (conflict)", code)
	}
}

func TestInit_UnknownAlgorithm(t *testing.T) {
	dir := t.TempDir() + "/repo"
	_, err := captureStdout(t, func() error {
		return InitCommand().Execute([]string{"--dir", dir, "--encryption", "none", "--compression", "lz4"})
	})
	if err == nil {
		t.Fatal("expected error for unknown compression")
	}
	if !strings.Contains(err.Error(), "lz4") {
		t.Errorf("error = %q, should name the bad algorithm", err.Error())
	}
	if code := cli.ExitCodeFor(err); code != 2 {
		t.Errorf("exit code = %d, want 2 (validation)", code)
	}
	// Nothing was created.
	if _, err := os.Stat(filepath.Join(dir, repo.VersionFile)); !os.IsNotExist(err) {
		t.Error("version marker written despite invalid configuration")
	}
}

func TestInit_ChunkBitsOutOfRange(t *testing.T) {
	dir := t.TempDir() + "/repo"
	_, err := captureStdout(t, func() error {
		return InitCommand().Execute([]string{"--dir", dir, "--encryption", "none", "--chunk-bits", "9"})
	})
	if err == nil {
		t.Fatal("expected error for chunk-bits below the minimum")
	}
	if code := cli.ExitCodeFor(err); code != 2 {
		t.Errorf("exit code = %d, want 2 (validation)", code)
	}
}

func TestInit_DirFromEnvironment(t *testing.T) {
	dir := t.TempDir() + "/repo"
	t.Setenv(DirEnv, dir)

	if _, err := captureStdout(t, func() error {
		return InitCommand().Execute([]string{"--encryption", "none"})
	}); err != nil {
		t.Fatalf("init with %s failed: %v", DirEnv, err)
	}
	if _, err := os.Stat(filepath.Join(dir, repo.VersionFile)); err != nil {
		t.Errorf("repository not created at %s: %v", dir, err)
	}
}

func TestInit_NoDirAnywhere(t *testing.T) {
	t.Setenv(DirEnv, "")

	_, err := captureStdout(t, func() error {
		return InitCommand().Execute([]string{"--encryption", "none"})
	})
	if err == nil {
		t.Fatal("expected error when no directory is given")
	}
	if !strings.Contains(err.Error(), DirEnv) {
		t.Errorf("error = %q, should point at %s", err.Error(), DirEnv)
	}
}

func TestInit_EncryptedFromPassphraseFile(t *testing.T) {
	passphrasePath := filepath.Join(t.TempDir(), "passphrase")
	if err := os.WriteFile(passphrasePath, []byte("granite under moss\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	dir := t.TempDir() + "/repo"
	output, err := captureStdout(t, func() error {
		return InitCommand().Execute([]string{"--dir", dir, "--passphrase-file", passphrasePath})
	})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(output, "encryption x25519") {
		t.Errorf("output = %q, should mention x25519", output)
	}

	repository, err := repo.Open(context.Background(), backend.NewLocal(dir), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	key := repository.Descriptor().Encryption.Key
	if key == nil || !strings.HasPrefix(key.PublicKey, "age1") {
		t.Errorf("expected x25519 key material, got %+v", key)
	}
}
