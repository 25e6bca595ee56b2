// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"io"

	"github.com/restic/chunker"
)

// bupPolynomial is the irreducible polynomial for the rolling Rabin
// hash. It is a repository format constant: a different polynomial
// produces entirely different chunk boundaries.
const bupPolynomial chunker.Pol = 0x25d92e975e1aa3

type bupChunker struct {
	inner *chunker.Chunker
	buf   []byte
}

// NewBup returns a bup-style chunker over reader with an expected
// chunk size of 2^bits bytes.
func NewBup(reader io.Reader, bits uint32) Chunker {
	inner := chunker.NewWithBoundaries(reader, bupPolynomial, uint(minSize(bits)), uint(maxSize(bits)))
	inner.SetAverageBits(int(bits))
	return &bupChunker{
		inner: inner,
		buf:   make([]byte, maxSize(bits)),
	}
}

func (b *bupChunker) Next() ([]byte, error) {
	chunk, err := b.inner.Next(b.buf)
	if err != nil {
		// io.EOF passes through untouched.
		return nil, err
	}
	return chunk.Data, nil
}
