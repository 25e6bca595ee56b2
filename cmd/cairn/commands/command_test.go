// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"io"
	"os"
	"testing"
)

func TestRoot_TreeShape(t *testing.T) {
	root := Root()
	if root.Name != "cairn" {
		t.Errorf("root name = %q, want %q", root.Name, "cairn")
	}

	want := []string{"init", "info", "check", "path", "chpasswd", "version"}
	seen := make(map[string]bool)
	for _, sub := range root.Subcommands {
		if seen[sub.Name] {
			t.Errorf("duplicate subcommand %q", sub.Name)
		}
		seen[sub.Name] = true
		if sub.Summary == "" {
			t.Errorf("subcommand %q has no summary", sub.Name)
		}
		if sub.Run == nil && len(sub.Subcommands) == 0 {
			t.Errorf("subcommand %q has neither Run nor subcommands", sub.Name)
		}
	}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("command tree missing %q", name)
		}
	}
}

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns what was written, plus fn's error.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	read, write, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	saved := os.Stdout
	os.Stdout = write

	runErr := fn()

	os.Stdout = saved
	write.Close()
	output, err := io.ReadAll(read)
	if err != nil {
		t.Fatalf("reading captured stdout failed: %v", err)
	}
	return string(output), runErr
}

// initRepo creates an unencrypted repository in a fresh temp
// directory and returns its path.
func initRepo(t *testing.T, extraFlags ...string) string {
	t.Helper()
	dir := t.TempDir() + "/repo"
	args := append([]string{"--dir", dir, "--encryption", "none"}, extraFlags...)
	if _, err := captureStdout(t, func() error {
		return InitCommand().Execute(args)
	}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return dir
}
