// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePassphraseFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "passphrase")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestReadPassphrase_FromFile(t *testing.T) {
	path := writePassphraseFile(t, "file passphrase\n")

	passphrase, err := ReadPassphrase(path, "Passphrase: ")
	if err != nil {
		t.Fatalf("ReadPassphrase failed: %v", err)
	}
	defer passphrase.Close()

	if got := passphrase.String(); got != "file passphrase" {
		t.Errorf("passphrase = %q, want %q", got, "file passphrase")
	}
}

func TestReadPassphrase_FromFile_CRLF(t *testing.T) {
	path := writePassphraseFile(t, "windows passphrase\r\n")

	passphrase, err := ReadPassphrase(path, "Passphrase: ")
	if err != nil {
		t.Fatalf("ReadPassphrase failed: %v", err)
	}
	defer passphrase.Close()

	if got := passphrase.String(); got != "windows passphrase" {
		t.Errorf("passphrase = %q, want %q", got, "windows passphrase")
	}
}

func TestReadPassphrase_FromFile_PreservesInnerWhitespace(t *testing.T) {
	// Only the trailing newline is stripped; a passphrase may
	// legitimately contain whitespace.
	path := writePassphraseFile(t, "two  spaces and\ttab\n")

	passphrase, err := ReadPassphrase(path, "Passphrase: ")
	if err != nil {
		t.Fatalf("ReadPassphrase failed: %v", err)
	}
	defer passphrase.Close()

	if got := passphrase.String(); got != "two  spaces and\ttab" {
		t.Errorf("passphrase = %q, want %q", got, "two  spaces and\ttab")
	}
}

func TestReadPassphrase_FromFile_Empty(t *testing.T) {
	path := writePassphraseFile(t, "\n")

	_, err := ReadPassphrase(path, "Passphrase: ")
	if err == nil {
		t.Fatal("expected error for empty passphrase file")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error = %v, want validation ToolError", err)
	}
}

func TestReadPassphrase_FromFile_Missing(t *testing.T) {
	if _, err := ReadPassphrase(filepath.Join(t.TempDir(), "absent"), "Passphrase: "); err == nil {
		t.Fatal("expected error for missing passphrase file")
	}
}

func TestReadPassphrase_FromEnv(t *testing.T) {
	t.Setenv(PassphraseEnv, "env passphrase")

	passphrase, err := ReadPassphrase("", "Passphrase: ")
	if err != nil {
		t.Fatalf("ReadPassphrase failed: %v", err)
	}
	defer passphrase.Close()

	if got := passphrase.String(); got != "env passphrase" {
		t.Errorf("passphrase = %q, want %q", got, "env passphrase")
	}
}

func TestReadPassphrase_FileBeatsEnv(t *testing.T) {
	t.Setenv(PassphraseEnv, "env passphrase")
	path := writePassphraseFile(t, "file passphrase")

	passphrase, err := ReadPassphrase(path, "Passphrase: ")
	if err != nil {
		t.Fatalf("ReadPassphrase failed: %v", err)
	}
	defer passphrase.Close()

	if got := passphrase.String(); got != "file passphrase" {
		t.Errorf("passphrase = %q, want %q", got, "file passphrase")
	}
}

func TestReadPassphrase_NoSourceWithoutTerminal(t *testing.T) {
	// go test runs with stdin piped, so the prompt fallback must
	// fail with a pointer at the non-interactive sources.
	t.Setenv(PassphraseEnv, "")

	_, err := ReadPassphrase("", "Passphrase: ")
	if err == nil {
		t.Fatal("expected error when no passphrase source is available")
	}
	if !strings.Contains(err.Error(), PassphraseEnv) {
		t.Errorf("error = %q, should mention %s", err.Error(), PassphraseEnv)
	}
}

func TestReadNewPassphrase_FromFile(t *testing.T) {
	path := writePassphraseFile(t, "fresh passphrase\n")

	passphrase, err := ReadNewPassphrase(path, "New passphrase: ", "Confirm: ")
	if err != nil {
		t.Fatalf("ReadNewPassphrase failed: %v", err)
	}
	defer passphrase.Close()

	if got := passphrase.String(); got != "fresh passphrase" {
		t.Errorf("passphrase = %q, want %q", got, "fresh passphrase")
	}
}

func TestReadNewPassphrase_IgnoresEnv(t *testing.T) {
	// The environment variable names the existing repository
	// passphrase; a new passphrase must come from a file or the
	// terminal. With stdin piped, that means an error.
	t.Setenv(PassphraseEnv, "old passphrase")

	if _, err := ReadNewPassphrase("", "New passphrase: ", "Confirm: "); err == nil {
		t.Fatal("expected error: new passphrase must not come from the environment")
	}
}
