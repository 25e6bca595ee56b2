// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"
	"testing"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
)

const testDigest = "3f2a9c0d1e5b7a84f6c2d0e8b4a617395d8c1f0a2b4e6d8f9a0c1e2d3b4f5a6c"

func TestPath_ResolvesDigest(t *testing.T) {
	dir := initRepo(t)

	output, err := captureStdout(t, func() error {
		return PathCommand().Execute([]string{"--dir", dir, testDigest})
	})
	if err != nil {
		t.Fatalf("path failed: %v", err)
	}

	want := dir + "/chunk/3f/2a/" + testDigest + "\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestPath_NotHex(t *testing.T) {
	dir := initRepo(t)

	_, err := captureStdout(t, func() error {
		return PathCommand().Execute([]string{"--dir", dir, "not-hex!"})
	})
	if err == nil {
		t.Fatal("expected error for non-hex digest")
	}
	if code := cli.ExitCodeFor(err); code != 2 {
		t.Errorf("exit code = %d, want 2 (validation)", code)
	}
}

func TestPath_WrongDigestLength(t *testing.T) {
	dir := initRepo(t)

	_, err := captureStdout(t, func() error {
		return PathCommand().Execute([]string{"--dir", dir, "3f2a9c"})
	})
	if err == nil {
		t.Fatal("expected error for truncated digest")
	}
	if !strings.Contains(err.Error(), "sha256") {
		t.Errorf("error = %q, should name the configured hash", err.Error())
	}
}

func TestPath_RequiresExactlyOneArgument(t *testing.T) {
	dir := initRepo(t)

	for _, args := range [][]string{
		{"--dir", dir},
		{"--dir", dir, testDigest, testDigest},
	} {
		_, err := captureStdout(t, func() error {
			return PathCommand().Execute(args)
		})
		if err == nil {
			t.Errorf("Execute(%v) = nil, want argument-count error", args)
		}
	}
}
