// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides the content hash functions chunks are
// addressed by.
package digest

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Hasher computes content digests. Every digest a Hasher produces has
// exactly Size bytes.
type Hasher interface {
	// Sum returns the digest of data.
	Sum(data []byte) []byte

	// New returns a streaming hash producing the same digests.
	New() hash.Hash

	// Size returns the digest length in bytes.
	Size() int
}

// NewSHA256 returns the SHA-256 hasher. Digests are 32 bytes.
func NewSHA256() Hasher { return sha256Hasher{} }

// NewBlake2b returns the unkeyed BLAKE2b-512 hasher. Digests are 64
// bytes.
func NewBlake2b() Hasher { return blake2bHasher{} }

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) []byte {
	digest := sha256.Sum256(data)
	return digest[:]
}

func (sha256Hasher) New() hash.Hash { return sha256.New() }

func (sha256Hasher) Size() int { return sha256.Size }

type blake2bHasher struct{}

func (blake2bHasher) Sum(data []byte) []byte {
	digest := blake2b.Sum512(data)
	return digest[:]
}

func (blake2bHasher) New() hash.Hash {
	// New512 can only fail for an oversized key; unkeyed use cannot.
	streaming, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return streaming
}

func (blake2bHasher) Size() int { return blake2b.Size }
