// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/cairn-storage/cairn/lib/secret"
)

// PassphraseEnv names the environment variable holding the passphrase
// of an existing repository, for scripted use.
const PassphraseEnv = "CAIRN_PASSPHRASE"

// ReadPassphrase resolves the passphrase that unwraps the repository
// key: from file when non-empty, else from the CAIRN_PASSPHRASE
// environment variable, else by prompting on the terminal. The caller
// owns the returned buffer and must Close it.
func ReadPassphrase(file, prompt string) (*secret.Buffer, error) {
	if file != "" {
		return readPassphraseFile(file)
	}
	if value := os.Getenv(PassphraseEnv); value != "" {
		passphrase, err := secret.NewFromBytes([]byte(value))
		if err != nil {
			return nil, Internal("storing passphrase from %s: %v", PassphraseEnv, err)
		}
		return passphrase, nil
	}
	return promptSecret(prompt)
}

// ReadNewPassphrase resolves a passphrase that will protect the
// repository key from now on: from file when non-empty, else by
// prompting twice and requiring both entries to match. The
// environment variable is deliberately not consulted — it names the
// passphrase of the existing repository, which during a change is the
// old one.
func ReadNewPassphrase(file, prompt, confirmPrompt string) (*secret.Buffer, error) {
	if file != "" {
		return readPassphraseFile(file)
	}

	passphrase, err := promptSecret(prompt)
	if err != nil {
		return nil, err
	}
	confirmation, err := promptSecret(confirmPrompt)
	if err != nil {
		passphrase.Close()
		return nil, err
	}
	defer confirmation.Close()

	if !passphrase.Equal(confirmation) {
		passphrase.Close()
		return nil, Validation("passphrases do not match")
	}
	return passphrase, nil
}

// readPassphraseFile loads a passphrase from a file, stripping one
// trailing newline so "echo secret > file" works as expected.
func readPassphraseFile(path string) (*secret.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Validation("reading passphrase file: %v", err)
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	if len(data) == 0 {
		return nil, Validation("passphrase file %s is empty", path)
	}
	passphrase, err := secret.NewFromBytes(data)
	if err != nil {
		return nil, Internal("storing passphrase: %v", err)
	}
	return passphrase, nil
}

// promptSecret reads a passphrase from the controlling terminal with
// echo disabled. The prompt goes to stderr so stdout stays clean for
// command output.
func promptSecret(prompt string) (*secret.Buffer, error) {
	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return nil, Validation("no passphrase source: stdin is not a terminal").
			WithHint("Pass --passphrase-file or set %s.", PassphraseEnv)
	}

	fmt.Fprint(os.Stderr, prompt)
	line, err := term.ReadPassword(stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, Internal("reading passphrase: %v", err)
	}
	if len(line) == 0 {
		return nil, Validation("passphrase must not be empty")
	}
	passphrase, err := secret.NewFromBytes(line)
	if err != nil {
		return nil, Internal("storing passphrase: %v", err)
	}
	return passphrase, nil
}
