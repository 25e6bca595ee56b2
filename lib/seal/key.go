// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/cairn-storage/cairn/lib/secret"
)

// ErrAuthentication indicates the supplied passphrase does not match
// the sealed secret key. Callers treat this differently from
// corruption: the remedy is to prompt for the passphrase again.
var ErrAuthentication = errors.New("passphrase does not match sealed key")

// scryptWorkFactor is the log2 cost of the passphrase KDF. Unwrapping
// takes on the order of a second at this setting. Lowered in tests.
var scryptWorkFactor = 18

// KeyMaterial is a repository keypair in its at-rest form: the public
// half in the clear, the secret half sealed under a passphrase-derived
// scrypt key. The plaintext secret key exists only inside locked
// memory, and only while a Decrypter is being constructed.
type KeyMaterial struct {
	// PublicKey is the age recipient string ("age1...").
	PublicKey string

	// SealedSecretKey is the age identity encrypted to a scrypt
	// recipient derived from the repository passphrase.
	SealedSecretKey []byte
}

// Generate creates a fresh X25519 keypair and seals the secret half
// under passphrase.
func Generate(passphrase *secret.Buffer) (*KeyMaterial, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}

	identityBuffer, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, err
	}
	defer identityBuffer.Close()

	sealed, err := sealIdentity(identityBuffer, passphrase)
	if err != nil {
		return nil, err
	}
	return &KeyMaterial{
		PublicKey:       identity.Recipient().String(),
		SealedSecretKey: sealed,
	}, nil
}

// Encrypter returns an engine sealing to the public key. No passphrase
// is required.
func (k *KeyMaterial) Encrypter() (Encrypter, error) {
	return NewX25519Encrypter(k.PublicKey)
}

// Decrypter unwraps the secret key with passphrase and returns an
// engine that opens data sealed to the public key. A wrong passphrase
// yields ErrAuthentication.
func (k *KeyMaterial) Decrypter(passphrase *secret.Buffer) (Decrypter, error) {
	identityBuffer, err := k.unseal(passphrase)
	if err != nil {
		return nil, err
	}
	defer identityBuffer.Close()

	identity, err := age.ParseX25519Identity(identityBuffer.String())
	if err != nil {
		return nil, fmt.Errorf("parsing unsealed secret key: %w", err)
	}
	return &X25519Decrypter{identity: identity}, nil
}

// ChangePassphrase reseals the secret key under next. The key bytes
// themselves never change, so data sealed to the public key before the
// change stays readable afterwards. The stored sealed key is replaced
// only once the unwrap under current and the rewrap under next have
// both succeeded; on any error the receiver is left untouched.
func (k *KeyMaterial) ChangePassphrase(current, next *secret.Buffer) error {
	identityBuffer, err := k.unseal(current)
	if err != nil {
		return err
	}
	defer identityBuffer.Close()

	resealed, err := sealIdentity(identityBuffer, next)
	if err != nil {
		return err
	}
	k.SealedSecretKey = resealed
	return nil
}

// sealIdentity wraps the identity string under a passphrase-derived
// scrypt recipient.
func sealIdentity(identity, passphrase *secret.Buffer) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("deriving wrapping key: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	var sealed bytes.Buffer
	writer, err := age.Encrypt(&sealed, recipient)
	if err != nil {
		return nil, fmt.Errorf("sealing secret key: %w", err)
	}
	if _, err := writer.Write(identity.Bytes()); err != nil {
		return nil, fmt.Errorf("sealing secret key: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sealing secret key: %w", err)
	}
	return sealed.Bytes(), nil
}

// unseal recovers the identity string into locked memory. A passphrase
// that fails to unwrap the key surfaces as ErrAuthentication; anything
// else wrong with the sealed blob is reported as is.
func (k *KeyMaterial) unseal(passphrase *secret.Buffer) (*secret.Buffer, error) {
	wrappingIdentity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("deriving wrapping key: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(k.SealedSecretKey), wrappingIdentity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("unsealing secret key: %w", err)
	}
	identityBytes, err := io.ReadAll(reader)
	if err != nil {
		secret.Zero(identityBytes)
		return nil, fmt.Errorf("unsealing secret key: %w", err)
	}
	return secret.NewFromBytes(identityBytes)
}
