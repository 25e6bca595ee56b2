// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import "io"

// gearWindow is the effective byte window of the gear hash: each byte
// shifts earlier contributions left, so bytes more than 64 positions
// back no longer influence the hash.
const gearWindow = 64

type gearChunker struct {
	reader  io.Reader
	mask    uint64
	min     int
	max     int
	buf     []byte
	block   [32 * 1024]byte
	readErr error
}

// NewGear returns a gear-hash chunker over reader with an expected
// chunk size of 2^bits bytes. A boundary occurs where the top bits of
// the rolling hash are all zero, so the mask keeps the highest bits
// positions.
func NewGear(reader io.Reader, bits uint32) Chunker {
	return &gearChunker{
		reader: reader,
		mask:   ^uint64(0) << (64 - bits),
		min:    minSize(bits),
		max:    maxSize(bits),
	}
}

// Next buffers input until a boundary can be decided: either max bytes
// are available or the stream has ended.
func (g *gearChunker) Next() ([]byte, error) {
	for len(g.buf) < g.max && g.readErr == nil {
		n, err := g.reader.Read(g.block[:])
		g.buf = append(g.buf, g.block[:n]...)
		if err != nil {
			g.readErr = err
		}
	}
	if g.readErr != nil && g.readErr != io.EOF {
		return nil, g.readErr
	}
	if len(g.buf) == 0 {
		return nil, io.EOF
	}

	cut := g.boundary(g.buf)
	chunk := g.buf[:cut:cut]
	rest := make([]byte, len(g.buf)-cut)
	copy(rest, g.buf[cut:])
	g.buf = rest
	return chunk, nil
}

// boundary returns the length of the next chunk within data. It is
// called with at least max buffered bytes unless the stream has
// ended, in which case data holds the final bytes.
func (g *gearChunker) boundary(data []byte) int {
	length := len(data)
	if length <= g.min {
		return length
	}
	limit := length
	if limit > g.max {
		limit = g.max
	}

	// Bytes before min cannot end a chunk, and the hash window is 64
	// bytes, so hashing can start just before the earliest position a
	// boundary is allowed at.
	var hash uint64
	position := g.min - gearWindow - 1
	for position < limit {
		hash = (hash << 1) + gearTable[data[position]]
		position++
		if position >= g.min && hash&g.mask == 0 {
			return position
		}
	}
	return limit
}
