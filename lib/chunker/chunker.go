// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package chunker splits input streams into content-defined chunks.
//
// Two families are supported. The bup family uses a rolling Rabin
// polynomial, matching the splitting scheme of the bup backup tool.
// The gear family uses a gear hash, which rolls by shifting and so
// needs no window bookkeeping. Both take a chunk_bits parameter: the
// expected chunk size is 2^bits bytes, and boundaries are constrained
// to the range [2^(bits-3), 2^(bits+1)].
//
// Chunk boundaries are a repository format property. Two repositories
// with the same chunking configuration split identical input
// identically; changing any parameter moves every boundary and
// defeats deduplication against existing data.
package chunker

// Chunker yields consecutive chunks of an input stream.
type Chunker interface {
	// Next returns the next chunk, or io.EOF after the final one. The
	// returned slice is only valid until the next call.
	Next() ([]byte, error)
}

func minSize(bits uint32) int { return 1 << (bits - 3) }
func maxSize(bits uint32) int { return 1 << (bits + 1) }
