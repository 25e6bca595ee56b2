// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cairn-storage/cairn/lib/digest"
)

// Hashing names the hash function chunks are addressed by. The set is
// closed. Changing a repository's hashing would re-address every
// chunk, so the value is fixed at creation.
type Hashing string

const (
	HashingSHA256  Hashing = "sha256"
	HashingBlake2b Hashing = "blake2b"
)

// Validate checks that the hash name is known.
func (h Hashing) Validate() error {
	switch h {
	case HashingSHA256, HashingBlake2b:
		return nil
	default:
		return fmt.Errorf("unknown hashing type %q", h)
	}
}

// Hasher returns the digest engine. Call only on a validated value.
func (h Hashing) Hasher() digest.Hasher {
	switch h {
	case HashingSHA256:
		return digest.NewSHA256()
	case HashingBlake2b:
		return digest.NewBlake2b()
	default:
		panic("hashing type " + string(h) + " escaped validation")
	}
}

// DigestSize returns the digest length in bytes, or 0 for an unknown
// value.
func (h Hashing) DigestSize() int {
	switch h {
	case HashingSHA256:
		return 32
	case HashingBlake2b:
		return 64
	default:
		return 0
	}
}

func (h Hashing) MarshalYAML() (any, error) {
	return taggedYAML{Type: string(h)}, nil
}

func (h *Hashing) UnmarshalYAML(value *yaml.Node) error {
	var raw taggedYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed := Hashing(raw.Type)
	if err := parsed.Validate(); err != nil {
		return err
	}
	*h = parsed
	return nil
}
