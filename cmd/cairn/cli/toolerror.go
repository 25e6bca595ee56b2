// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors so that scripts can make
// programmatic decisions (fix input, re-prompt, escalate) without
// parsing error message text. Each category maps to a distinct
// process exit code; see ExitCodeFor.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required arguments, unknown algorithm names, values out
	// of range. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not
	// exist: no repository at the given directory, unknown chunk
	// digest. Retrying with the same parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryAuth indicates a passphrase failed to unwrap the
	// repository key. The stored data is intact; the caller should
	// re-prompt for the passphrase and retry.
	CategoryAuth ErrorCategory = "auth"

	// CategoryConflict indicates the operation conflicts with
	// existing state: a repository already present at the target, a
	// lock held by another process.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryStorage indicates the storage backend failed: I/O
	// errors, permission problems, missing files behind a committed
	// repository. The repository may need repair or the fault may be
	// transient.
	CategoryStorage ErrorCategory = "storage"

	// CategoryInternal indicates an unexpected error: bugs, parse
	// errors on data the system produced. The caller should report
	// the error rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands. The
// category never appears in the error string; it determines the
// process exit code so scripts can branch on the failure class.
//
// ToolError wraps an inner error, preserving the full error chain for
// debugging while adding category metadata. Use the category-specific
// constructors (Validation, NotFound, etc.) rather than constructing
// ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional recovery suggestion appended to the error
	// text after a blank line. Set via WithHint.
	Hint string
}

// Error returns the underlying error message, with the hint appended
// when one is set.
func (e *ToolError) Error() string {
	if e.Hint != "" {
		return e.Err.Error() + "\n\n" + e.Hint
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the ToolError wrapper.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint attaches a recovery suggestion and returns the error, so
// constructors chain:
//
//	return cli.Auth("wrong passphrase for %s", dir).
//	    WithHint("Set CAIRN_PASSPHRASE or re-run to be prompted again.")
func (e *ToolError) WithHint(format string, args ...any) *ToolError {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Auth creates an authentication error: a passphrase failed to unwrap
// the repository key.
func Auth(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryAuth, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Storage creates a storage error: the backend failed.
func Storage(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryStorage, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure or bug.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Exit codes by category. 0 is success and 1 is any uncategorized
// error, so categories start at 2.
const (
	exitInternal   = 1
	exitValidation = 2
	exitNotFound   = 3
	exitAuth       = 4
	exitConflict   = 5
	exitStorage    = 6
)

// ExitCodeFor maps an error to the process exit code: the code for
// the ToolError category in err's chain, or 1 for errors with no
// category.
func ExitCodeFor(err error) int {
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		return 1
	}
	switch toolErr.Category {
	case CategoryValidation:
		return exitValidation
	case CategoryNotFound:
		return exitNotFound
	case CategoryAuth:
		return exitAuth
	case CategoryConflict:
		return exitConflict
	case CategoryStorage:
		return exitStorage
	default:
		return exitInternal
	}
}
