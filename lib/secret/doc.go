// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passphrases and unwrapped key material in
// memory that stays out of swap and core dumps.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock, and excludes it from core dumps
// via madvise(MADV_DONTDUMP). Because the garbage collector never moves
// or copies the region, Close can reliably zero every byte before
// unmapping it.
//
// [NewFromBytes] moves material out of an ordinary slice into protected
// memory and zeroes the source. [Buffer.Equal] compares two buffers in
// constant time, which is how passphrase confirmation prompts are
// checked. [Zero] scrubs a plain slice in place for material that never
// reached a Buffer. After Close, any access panics; Close is
// idempotent.
package secret
