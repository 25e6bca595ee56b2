// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package seal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cairn-storage/cairn/lib/secret"
)

func testPassphrase(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	passphrase, err := secret.NewFromBytes([]byte(value))
	if err != nil {
		t.Fatalf("creating passphrase buffer: %v", err)
	}
	t.Cleanup(func() { passphrase.Close() })
	return passphrase
}

func TestGenerate(t *testing.T) {
	material, err := Generate(testPassphrase(t, "initial passphrase"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(material.PublicKey, "age1") {
		t.Errorf("public key %q does not look like an age recipient", material.PublicKey)
	}
	if len(material.SealedSecretKey) == 0 {
		t.Error("sealed secret key is empty")
	}
	if bytes.Contains(material.SealedSecretKey, []byte("AGE-SECRET-KEY-1")) {
		t.Error("sealed blob contains the identity in the clear")
	}
}

func TestKeyMaterial_SealOpenRoundTrip(t *testing.T) {
	passphrase := testPassphrase(t, "round trip passphrase")
	material, err := Generate(passphrase)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	encrypter, err := material.Encrypter()
	if err != nil {
		t.Fatalf("Encrypter failed: %v", err)
	}
	plaintext := []byte("deduplicated chunk contents")
	sealed, err := encrypter.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	decrypter, err := material.Decrypter(passphrase)
	if err != nil {
		t.Fatalf("Decrypter failed: %v", err)
	}
	opened, err := decrypter.Open(sealed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("round trip mismatch: got %q, want %q", opened, plaintext)
	}
}

func TestKeyMaterial_Decrypter_WrongPassphrase(t *testing.T) {
	material, err := Generate(testPassphrase(t, "right passphrase"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	_, err = material.Decrypter(testPassphrase(t, "wrong passphrase"))
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("Decrypter error = %v, want ErrAuthentication", err)
	}
}

func TestKeyMaterial_Decrypter_CorruptSealedKey(t *testing.T) {
	passphrase := testPassphrase(t, "some passphrase")
	material, err := Generate(passphrase)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Destroy the age header so the failure is structural, not a key
	// mismatch.
	material.SealedSecretKey[0] ^= 0xFF

	_, err = material.Decrypter(passphrase)
	if err == nil {
		t.Fatal("expected error for corrupt sealed key")
	}
	if errors.Is(err, ErrAuthentication) {
		t.Errorf("corruption reported as authentication failure: %v", err)
	}
}

func TestKeyMaterial_ChangePassphrase(t *testing.T) {
	oldPassphrase := testPassphrase(t, "old passphrase")
	newPassphrase := testPassphrase(t, "new passphrase")

	material, err := Generate(oldPassphrase)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	publicKeyBefore := material.PublicKey

	// Seal data under the original public key before rotating.
	encrypter, err := material.Encrypter()
	if err != nil {
		t.Fatalf("Encrypter failed: %v", err)
	}
	plaintext := []byte("written before the rotation")
	sealed, err := encrypter.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if err := material.ChangePassphrase(oldPassphrase, newPassphrase); err != nil {
		t.Fatalf("ChangePassphrase failed: %v", err)
	}

	if material.PublicKey != publicKeyBefore {
		t.Errorf("public key changed during rotation: %q -> %q", publicKeyBefore, material.PublicKey)
	}

	// The new passphrase unwraps the same key, so old data opens.
	decrypter, err := material.Decrypter(newPassphrase)
	if err != nil {
		t.Fatalf("Decrypter with new passphrase failed: %v", err)
	}
	opened, err := decrypter.Open(sealed)
	if err != nil {
		t.Fatalf("Open failed after rotation: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("data mismatch after rotation: got %q, want %q", opened, plaintext)
	}

	// The old passphrase no longer matches.
	if _, err := material.Decrypter(oldPassphrase); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("Decrypter with old passphrase = %v, want ErrAuthentication", err)
	}
}

func TestKeyMaterial_ChangePassphrase_WrongCurrent(t *testing.T) {
	material, err := Generate(testPassphrase(t, "actual passphrase"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	sealedBefore := bytes.Clone(material.SealedSecretKey)

	err = material.ChangePassphrase(
		testPassphrase(t, "guessed passphrase"),
		testPassphrase(t, "next passphrase"),
	)
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("ChangePassphrase error = %v, want ErrAuthentication", err)
	}
	if !bytes.Equal(material.SealedSecretKey, sealedBefore) {
		t.Error("sealed key was modified by a failed rotation")
	}
}
