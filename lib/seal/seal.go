// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package seal encrypts repository data with age X25519 keypairs.
//
// The asymmetric split is the point: an Encrypter needs only the
// public recipient, so data can be written to a repository without any
// passphrase, while a Decrypter requires unwrapping the sealed secret
// key first. KeyMaterial carries the keypair in its at-rest form and
// handles the passphrase lifecycle, including rewrapping the same key
// under a new passphrase.
package seal

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
)

// Encrypter seals plaintext for storage. Implementations hold only
// public key material.
type Encrypter interface {
	// Seal encrypts plaintext and returns the ciphertext.
	Seal(plaintext []byte) ([]byte, error)
}

// Decrypter opens ciphertext produced by the matching Encrypter.
type Decrypter interface {
	// Open decrypts ciphertext and returns the plaintext.
	Open(ciphertext []byte) ([]byte, error)
}

// NopEncrypter passes data through unchanged, for repositories created
// without encryption.
type NopEncrypter struct{}

// Seal returns plaintext unmodified.
func (NopEncrypter) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }

// NopDecrypter passes data through unchanged.
type NopDecrypter struct{}

// Open returns ciphertext unmodified.
func (NopDecrypter) Open(ciphertext []byte) ([]byte, error) { return ciphertext, nil }

// X25519Encrypter seals data to an age X25519 recipient.
type X25519Encrypter struct {
	recipient *age.X25519Recipient
}

// NewX25519Encrypter parses an age recipient string ("age1...") and
// returns an engine sealing to it.
func NewX25519Encrypter(publicKey string) (*X25519Encrypter, error) {
	recipient, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return nil, fmt.Errorf("parsing recipient public key: %w", err)
	}
	return &X25519Encrypter{recipient: recipient}, nil
}

// Seal encrypts plaintext to the recipient.
func (e *X25519Encrypter) Seal(plaintext []byte) ([]byte, error) {
	var sealed bytes.Buffer
	writer, err := age.Encrypt(&sealed, e.recipient)
	if err != nil {
		return nil, fmt.Errorf("starting encryption: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return sealed.Bytes(), nil
}

// X25519Decrypter opens data sealed to the identity's recipient. It is
// constructed through KeyMaterial.Decrypter, which unwraps the sealed
// secret key with the repository passphrase.
type X25519Decrypter struct {
	identity *age.X25519Identity
}

// Open decrypts ciphertext with the unwrapped identity.
func (d *X25519Decrypter) Open(ciphertext []byte) ([]byte, error) {
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), d.identity)
	if err != nil {
		return nil, fmt.Errorf("starting decryption: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return plaintext, nil
}
