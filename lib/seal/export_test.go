// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package seal

// The production work factor makes every unwrap take around a second,
// which would dominate the test suite.
func init() {
	scryptWorkFactor = 10
}
