// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"encoding/hex"
	"strings"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	decoded, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex in test: %v", err)
	}
	return decoded
}

func TestNesting_Path_WorkedExample(t *testing.T) {
	hexDigest := "3f2a9c0d1e5b7a84f6c2d0e8b4a61739" +
		"5d8c1f0a2b4e6d8f9a0c1e2d3b4f5a6c"
	digestBytes := mustHex(t, hexDigest)

	path, err := Nesting(2).Path("/repo/chunk", digestBytes)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	want := "/repo/chunk/3f/2a/" + hexDigest
	if path != want {
		t.Errorf("Path = %q, want %q", path, want)
	}
}

func TestNesting_Path_DepthZero(t *testing.T) {
	digestBytes := mustHex(t, "deadbeef")

	path, err := Nesting(0).Path("chunk", digestBytes)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if path != "chunk/deadbeef" {
		t.Errorf("Path = %q, want %q", path, "chunk/deadbeef")
	}
}

func TestNesting_Path_SegmentsAreDigestPrefixes(t *testing.T) {
	hexDigest := "0123456789abcdef0123456789abcdef" +
		"0123456789abcdef0123456789abcdef"
	digestBytes := mustHex(t, hexDigest)

	path, err := Nesting(4).Path("chunk", digestBytes)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	segments := strings.Split(path, "/")
	if len(segments) != 6 {
		t.Fatalf("path %q has %d segments, want 6", path, len(segments))
	}
	for level := 0; level < 4; level++ {
		want := hexDigest[2*level : 2*level+2]
		if segments[1+level] != want {
			t.Errorf("segment %d = %q, want %q", level, segments[1+level], want)
		}
	}
	// The leaf is the full digest, not the remainder after the
	// prefixes.
	if segments[5] != hexDigest {
		t.Errorf("leaf = %q, want full digest", segments[5])
	}
}

func TestNesting_Path_Deterministic(t *testing.T) {
	digestBytes := mustHex(t, "a1b2c3d4e5f60718a1b2c3d4e5f60718")

	first, err := Nesting(3).Path("chunk", digestBytes)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	second, err := Nesting(3).Path("chunk", digestBytes)
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if first != second {
		t.Errorf("same digest produced %q and %q", first, second)
	}
}

func TestNesting_Path_DigestTooShort(t *testing.T) {
	// Five levels need ten hex characters; four bytes provide eight.
	if _, err := Nesting(5).Path("chunk", mustHex(t, "deadbeef")); err == nil {
		t.Fatal("expected error for digest shorter than the nesting needs")
	}
}

func TestNesting_Validate(t *testing.T) {
	tests := []struct {
		nesting Nesting
		hashing Hashing
		wantErr bool
	}{
		{0, HashingSHA256, false},
		{2, HashingSHA256, false},
		{32, HashingSHA256, false}, // exactly the 64 hex characters
		{33, HashingSHA256, true},
		{64, HashingBlake2b, false},
		{65, HashingBlake2b, true},
	}
	for _, test := range tests {
		err := test.nesting.Validate(test.hashing)
		if test.wantErr && err == nil {
			t.Errorf("Validate(%d, %s) = nil, want error", test.nesting, test.hashing)
		}
		if !test.wantErr && err != nil {
			t.Errorf("Validate(%d, %s) failed: %v", test.nesting, test.hashing, err)
		}
	}
}
