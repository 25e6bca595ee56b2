// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the cairn CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/cairn/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// Command failures are [ToolError] values carrying an
// [ErrorCategory]. The category never appears in the error text; it
// maps to the process exit code via [ExitCodeFor], so scripts can
// branch on the failure class (wrong passphrase vs. missing
// repository vs. storage fault) without parsing messages.
//
// Repository passphrases are resolved by [ReadPassphrase] and
// [ReadNewPassphrase]: a --passphrase-file flag wins, then the
// CAIRN_PASSPHRASE environment variable, then an interactive prompt
// on the controlling terminal.
package cli
