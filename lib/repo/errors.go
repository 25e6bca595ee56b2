// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package repo

import (
	"errors"
	"fmt"
)

// ErrNotExist reports that the storage holds no repository: the
// version marker is absent. A fresh directory and one where creation
// crashed before the marker was written both look like this.
var ErrNotExist = errors.New("repository does not exist")

// ErrExists reports that Init found a version marker already present.
var ErrExists = errors.New("repository already exists")

// ErrMalformedConfig reports a config.yml that would not decode or
// failed validation. Retrying will not help; the file is damaged.
var ErrMalformedConfig = errors.New("malformed repository config")

// UnsupportedVersionError reports a repository format version outside
// the range this build can open.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported repository version %d (supported: %d through %d)",
		e.Version, VersionLowest, VersionCurrent)
}
