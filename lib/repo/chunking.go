// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cairn-storage/cairn/lib/chunker"
)

// ChunkingFamily names a content-defined chunking algorithm. The set
// is closed: config.yml only ever carries one of these values.
type ChunkingFamily string

const (
	ChunkingBup  ChunkingFamily = "bup"
	ChunkingGear ChunkingFamily = "gear"
)

// chunk_bits is the log2 of the expected chunk size. The range covers
// 1 KiB through 1 GiB expected chunks.
const (
	MinChunkBits     uint32 = 10
	MaxChunkBits     uint32 = 30
	DefaultChunkBits uint32 = 17
)

// Chunking selects the splitting algorithm and its expected chunk
// size of 2^Bits bytes.
type Chunking struct {
	Family ChunkingFamily
	Bits   uint32
}

// DefaultChunking is bup splitting with 128 KiB expected chunks.
func DefaultChunking() Chunking {
	return Chunking{Family: ChunkingBup, Bits: DefaultChunkBits}
}

// Validate checks that the family is known and Bits is in range.
func (c Chunking) Validate() error {
	switch c.Family {
	case ChunkingBup, ChunkingGear:
	default:
		return fmt.Errorf("unknown chunking type %q", c.Family)
	}
	if c.Bits < MinChunkBits || c.Bits > MaxChunkBits {
		return fmt.Errorf("chunk_bits %d out of range [%d, %d]", c.Bits, MinChunkBits, MaxChunkBits)
	}
	return nil
}

// Chunker returns a splitter for reader. Call only on a validated
// value; an unknown family panics.
func (c Chunking) Chunker(reader io.Reader) chunker.Chunker {
	switch c.Family {
	case ChunkingBup:
		return chunker.NewBup(reader, c.Bits)
	case ChunkingGear:
		return chunker.NewGear(reader, c.Bits)
	default:
		panic("chunking family " + string(c.Family) + " escaped validation")
	}
}

type chunkingYAML struct {
	Type      string  `yaml:"type"`
	ChunkBits *uint32 `yaml:"chunk_bits"`
}

// MarshalYAML renders the internally tagged form, for example
// {type: bup, chunk_bits: 17}.
func (c Chunking) MarshalYAML() (any, error) {
	return chunkingYAML{Type: string(c.Family), ChunkBits: &c.Bits}, nil
}

func (c *Chunking) UnmarshalYAML(value *yaml.Node) error {
	var raw chunkingYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch ChunkingFamily(raw.Type) {
	case ChunkingBup, ChunkingGear:
	default:
		return fmt.Errorf("unknown chunking type %q", raw.Type)
	}

	bits := DefaultChunkBits
	if raw.ChunkBits != nil {
		bits = *raw.ChunkBits
	}
	c.Family = ChunkingFamily(raw.Type)
	c.Bits = bits
	return nil
}
