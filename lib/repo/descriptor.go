// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cairn-storage/cairn/lib/seal"
	"github.com/cairn-storage/cairn/lib/secret"
)

// Descriptor is the persistent identity of a repository: the format
// version plus the five algorithm choices every reader and writer
// must agree on. It round-trips through config.yml without loss;
// field order here is the file's field order.
type Descriptor struct {
	Version     uint32      `yaml:"version"`
	Chunking    Chunking    `yaml:"chunking"`
	Encryption  Encryption  `yaml:"encryption"`
	Compression Compression `yaml:"compression"`
	Nesting     Nesting     `yaml:"nesting"`
	Hashing     Hashing     `yaml:"hashing"`
}

// Settings selects the algorithms for a new repository. Start from
// DefaultSettings and override fields; the zero value is unusable
// because it names no encryption kind.
type Settings struct {
	Chunking    Chunking
	Compression Compression
	Hashing     Hashing
	Nesting     Nesting
	Encryption  EncryptionKind
}

// DefaultSettings are the algorithm choices a plain "init" gets: bup
// chunking at 128 KiB, deflate compression, SHA-256 addressing, two
// nesting levels, and x25519 encryption.
func DefaultSettings() Settings {
	return Settings{
		Chunking:    DefaultChunking(),
		Compression: CompressionDeflate,
		Hashing:     HashingSHA256,
		Nesting:     DefaultNesting,
		Encryption:  EncryptionX25519,
	}
}

// New builds a validated descriptor for a fresh repository at the
// current format version. For x25519 encryption a keypair is
// generated and sealed under passphrase; with encryption none the
// passphrase is unused and may be nil.
func New(passphrase *secret.Buffer, settings Settings) (*Descriptor, error) {
	descriptor := &Descriptor{
		Version:     VersionCurrent,
		Chunking:    settings.Chunking,
		Compression: settings.Compression,
		Nesting:     settings.Nesting,
		Hashing:     settings.Hashing,
	}

	switch settings.Encryption {
	case EncryptionNone:
		descriptor.Encryption = Encryption{Kind: EncryptionNone}
	case EncryptionX25519:
		if passphrase == nil {
			return nil, errors.New("x25519 encryption requires a passphrase")
		}
		material, err := seal.Generate(passphrase)
		if err != nil {
			return nil, err
		}
		descriptor.Encryption = Encryption{Kind: EncryptionX25519, Key: material}
	default:
		return nil, fmt.Errorf("unknown encryption type %q", settings.Encryption)
	}

	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	return descriptor, nil
}

// Validate checks every invariant the descriptor must satisfy before
// it may be persisted or used.
func (d *Descriptor) Validate() error {
	var errs []error
	if d.Version < VersionLowest || d.Version > VersionCurrent {
		errs = append(errs, &UnsupportedVersionError{Version: d.Version})
	}
	if err := d.Chunking.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := d.Compression.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := d.Encryption.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := d.Hashing.Validate(); err != nil {
		errs = append(errs, err)
	} else if err := d.Nesting.Validate(d.Hashing); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Encode renders the descriptor as config.yml content.
func (d *Descriptor) Encode() ([]byte, error) {
	encoded, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return encoded, nil
}

// DecodeDescriptor parses and validates config.yml content. A version
// outside the supported range is an UnsupportedVersionError; any
// structural problem or invariant violation is ErrMalformedConfig.
func DecodeDescriptor(encoded []byte) (*Descriptor, error) {
	var descriptor Descriptor
	if err := yaml.Unmarshal(encoded, &descriptor); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	if descriptor.Version < VersionLowest || descriptor.Version > VersionCurrent {
		return nil, &UnsupportedVersionError{Version: descriptor.Version}
	}
	if err := descriptor.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return &descriptor, nil
}

type descriptorYAML struct {
	Version     *uint32      `yaml:"version"`
	Chunking    *Chunking    `yaml:"chunking"`
	Encryption  *Encryption  `yaml:"encryption"`
	Compression *Compression `yaml:"compression"`
	Nesting     *Nesting     `yaml:"nesting"`
	Hashing     *Hashing     `yaml:"hashing"`
}

// UnmarshalYAML applies the absent-field rules: version and
// encryption are required, every other field falls back to its
// default.
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	var raw descriptorYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Version == nil {
		return errors.New("missing required field: version")
	}
	if raw.Encryption == nil {
		return errors.New("missing required field: encryption")
	}
	d.Version = *raw.Version
	d.Encryption = *raw.Encryption

	d.Chunking = DefaultChunking()
	if raw.Chunking != nil {
		d.Chunking = *raw.Chunking
	}
	d.Compression = CompressionDeflate
	if raw.Compression != nil {
		d.Compression = *raw.Compression
	}
	d.Nesting = DefaultNesting
	if raw.Nesting != nil {
		d.Nesting = *raw.Nesting
	}
	d.Hashing = HashingSHA256
	if raw.Hashing != nil {
		d.Hashing = *raw.Hashing
	}
	return nil
}
