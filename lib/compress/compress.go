// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress provides the chunk compression codecs.
//
// Each codec produces a self-describing stream: Decompress needs no
// length hint, the stream ends where the data ends. The codec a
// repository uses is fixed in its configuration at creation time, so
// there is no per-chunk algorithm tag and no incompressibility
// fallback.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Codec compresses and decompresses chunk payloads.
type Codec interface {
	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)

	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)
}

// NewNone returns the pass-through codec. Both directions return the
// input unchanged (no copy).
func NewNone() Codec { return noneCodec{} }

// NewDeflate returns a raw DEFLATE codec at the default level.
func NewDeflate() Codec { return deflateCodec{} }

// NewBzip2 returns a bzip2 codec at the default level.
func NewBzip2() Codec { return bzip2Codec{} }

// NewXz returns an xz codec.
func NewXz() Codec { return xzCodec{} }

// NewZstd returns a zstd codec at the default level.
func NewZstd() Codec { return zstdCodec{} }

type noneCodec struct{}

func (noneCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

type deflateCodec struct{}

func (deflateCodec) Compress(data []byte) ([]byte, error) {
	var compressed bytes.Buffer
	writer, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("deflate compress: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("deflate compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("deflate compress: %w", err)
	}
	return compressed.Bytes(), nil
}

func (deflateCodec) Decompress(data []byte) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("deflate decompress: %w", err)
	}
	return decompressed, nil
}

type bzip2Codec struct{}

func (bzip2Codec) Compress(data []byte) ([]byte, error) {
	var compressed bytes.Buffer
	writer, err := bzip2.NewWriter(&compressed, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("bzip2 compress: %w", err)
	}
	return compressed.Bytes(), nil
}

func (bzip2Codec) Decompress(data []byte) ([]byte, error) {
	reader, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("bzip2 decompress: %w", err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("bzip2 decompress: %w", err)
	}
	return decompressed, nil
}

type xzCodec struct{}

func (xzCodec) Compress(data []byte) ([]byte, error) {
	var compressed bytes.Buffer
	writer, err := xz.NewWriter(&compressed)
	if err != nil {
		return nil, fmt.Errorf("xz compress: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("xz compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("xz compress: %w", err)
	}
	return compressed.Bytes(), nil
}

func (xzCodec) Decompress(data []byte) ([]byte, error) {
	reader, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xz decompress: %w", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("xz decompress: %w", err)
	}
	return decompressed, nil
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

type zstdCodec struct{}

func (zstdCodec) Compress(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, nil), nil
}

func (zstdCodec) Decompress(data []byte) ([]byte, error) {
	decompressed, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return decompressed, nil
}
