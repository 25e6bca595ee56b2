// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// Nesting is the fan-out depth of a data directory: the number of
// two-character directory levels between it and a chunk file. Depth 0
// stores every chunk directly in the data directory.
type Nesting uint8

// DefaultNesting spreads chunks across two levels, 65536 leaf
// directories.
const DefaultNesting Nesting = 2

// Validate checks the depth against the configured digest length:
// each level consumes two hex characters and the prefixes must fit
// inside the digest.
func (n Nesting) Validate(h Hashing) error {
	hexLength := h.DigestSize() * 2
	if int(n)*2 > hexLength {
		return fmt.Errorf("nesting %d consumes %d hex characters; %s digests have %d",
			n, int(n)*2, h, hexLength)
	}
	return nil
}

// Path returns base extended with n two-character prefixes of the
// digest's lowercase hex form, ending in the full hex digest as the
// file name. The same digest always yields the same path.
func (n Nesting) Path(base string, digestBytes []byte) (string, error) {
	hexDigest := hex.EncodeToString(digestBytes)
	if int(n)*2 > len(hexDigest) {
		return "", fmt.Errorf("nesting %d needs %d hex characters, digest %q has %d",
			n, int(n)*2, hexDigest, len(hexDigest))
	}

	elements := make([]string, 0, int(n)+2)
	elements = append(elements, base)
	for level := 0; level < int(n); level++ {
		elements = append(elements, hexDigest[2*level:2*level+2])
	}
	elements = append(elements, hexDigest)
	return filepath.Join(elements...), nil
}
