// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cairn-storage/cairn/lib/compress"
)

// Compression names a chunk compression codec. The set is closed.
type Compression string

const (
	CompressionNone    Compression = "none"
	CompressionDeflate Compression = "deflate"
	CompressionBzip2   Compression = "bzip2"
	CompressionXz2     Compression = "xz2"
	CompressionZstd    Compression = "zstd"
)

// Validate checks that the codec name is known.
func (c Compression) Validate() error {
	switch c {
	case CompressionNone, CompressionDeflate, CompressionBzip2, CompressionXz2, CompressionZstd:
		return nil
	default:
		return fmt.Errorf("unknown compression type %q", c)
	}
}

// Codec returns the codec engine. Call only on a validated value.
func (c Compression) Codec() compress.Codec {
	switch c {
	case CompressionNone:
		return compress.NewNone()
	case CompressionDeflate:
		return compress.NewDeflate()
	case CompressionBzip2:
		return compress.NewBzip2()
	case CompressionXz2:
		return compress.NewXz()
	case CompressionZstd:
		return compress.NewZstd()
	default:
		panic("compression type " + string(c) + " escaped validation")
	}
}

// taggedYAML is the internally tagged form shared by the algorithm
// fields that carry no parameters, for example {type: deflate}.
type taggedYAML struct {
	Type string `yaml:"type"`
}

func (c Compression) MarshalYAML() (any, error) {
	return taggedYAML{Type: string(c)}, nil
}

func (c *Compression) UnmarshalYAML(value *yaml.Node) error {
	var raw taggedYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed := Compression(raw.Type)
	if err := parsed.Validate(); err != nil {
		return err
	}
	*c = parsed
	return nil
}
