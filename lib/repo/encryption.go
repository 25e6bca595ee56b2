// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"encoding/base64"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cairn-storage/cairn/lib/seal"
	"github.com/cairn-storage/cairn/lib/secret"
)

// EncryptionKind names the chunk encryption scheme. The set is
// closed.
type EncryptionKind string

const (
	EncryptionNone   EncryptionKind = "none"
	EncryptionX25519 EncryptionKind = "x25519"
)

// Encryption is the descriptor's encryption section: the scheme plus,
// for x25519, the repository key material. Unlike the other algorithm
// fields it has no default; config.yml must carry it explicitly.
type Encryption struct {
	Kind EncryptionKind

	// Key is the repository keypair. Nil unless Kind is
	// EncryptionX25519.
	Key *seal.KeyMaterial
}

// Validate checks that the scheme is known and carries exactly the
// key material it needs.
func (e Encryption) Validate() error {
	switch e.Kind {
	case EncryptionNone:
		if e.Key != nil {
			return errors.New("encryption none carries key material")
		}
		return nil
	case EncryptionX25519:
		if e.Key == nil || e.Key.PublicKey == "" || len(e.Key.SealedSecretKey) == 0 {
			return errors.New("encryption x25519: missing key material")
		}
		return nil
	default:
		return fmt.Errorf("unknown encryption type %q", e.Kind)
	}
}

// Encrypter returns the sealing engine for the scheme. No passphrase
// is required for any scheme.
func (e Encryption) Encrypter() (seal.Encrypter, error) {
	switch e.Kind {
	case EncryptionNone:
		return seal.NopEncrypter{}, nil
	case EncryptionX25519:
		return e.Key.Encrypter()
	default:
		return nil, fmt.Errorf("unknown encryption type %q", e.Kind)
	}
}

// Decrypter returns the opening engine. For x25519 the passphrase
// unwraps the repository key and a wrong one yields
// seal.ErrAuthentication; for none the passphrase is ignored.
func (e Encryption) Decrypter(passphrase *secret.Buffer) (seal.Decrypter, error) {
	switch e.Kind {
	case EncryptionNone:
		return seal.NopDecrypter{}, nil
	case EncryptionX25519:
		return e.Key.Decrypter(passphrase)
	default:
		return nil, fmt.Errorf("unknown encryption type %q", e.Kind)
	}
}

// ChangePassphrase rewraps the repository key under next. An
// unencrypted repository has nothing to rewrap.
func (e *Encryption) ChangePassphrase(current, next *secret.Buffer) error {
	if e.Kind != EncryptionX25519 {
		return fmt.Errorf("repository with encryption %q has no passphrase", e.Kind)
	}
	return e.Key.ChangePassphrase(current, next)
}

type encryptionYAML struct {
	Type            string `yaml:"type"`
	PublicKey       string `yaml:"public_key,omitempty"`
	SealedSecretKey string `yaml:"sealed_secret_key,omitempty"`
}

// MarshalYAML renders {type: none} or {type: x25519, public_key: ...,
// sealed_secret_key: ...} with the sealed key in base64.
func (e Encryption) MarshalYAML() (any, error) {
	raw := encryptionYAML{Type: string(e.Kind)}
	if e.Key != nil {
		raw.PublicKey = e.Key.PublicKey
		raw.SealedSecretKey = base64.StdEncoding.EncodeToString(e.Key.SealedSecretKey)
	}
	return raw, nil
}

func (e *Encryption) UnmarshalYAML(value *yaml.Node) error {
	var raw encryptionYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch EncryptionKind(raw.Type) {
	case EncryptionNone:
		e.Kind = EncryptionNone
		e.Key = nil
		return nil
	case EncryptionX25519:
		if raw.PublicKey == "" || raw.SealedSecretKey == "" {
			return errors.New("encryption x25519: missing key material")
		}
		sealed, err := base64.StdEncoding.DecodeString(raw.SealedSecretKey)
		if err != nil {
			return fmt.Errorf("encryption x25519: sealed_secret_key is not base64: %v", err)
		}
		e.Kind = EncryptionX25519
		e.Key = &seal.KeyMaterial{PublicKey: raw.PublicKey, SealedSecretKey: sealed}
		return nil
	default:
		return fmt.Errorf("unknown encryption type %q", raw.Type)
	}
}
