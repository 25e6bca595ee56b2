// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete cairn CLI command tree. Every
// command resolves its repository directory from --dir or the
// CAIRN_DIR environment variable, and commands that mutate the
// repository take its exclusive lock first.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
	"github.com/cairn-storage/cairn/lib/version"
)

// Root builds and returns the complete cairn CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "cairn",
		Description: `Cairn: deduplicating content-addressed storage.

Data is split into content-defined chunks, addressed by content hash,
compressed, and sealed to the repository's public key. Adding data
needs no passphrase; reading it back unwraps the repository key with
one.`,
		Subcommands: []*cli.Command{
			InitCommand(),
			InfoCommand(),
			CheckCommand(),
			PathCommand(),
			ChangePassphraseCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("cairn %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Create an encrypted repository",
				Command:     "cairn init --dir /srv/backups",
			},
			{
				Description: "Show the repository configuration",
				Command:     "cairn info --dir /srv/backups",
			},
			{
				Description: "Verify the repository and the passphrase",
				Command:     "cairn check --dir /srv/backups --unlock",
			},
			{
				Description: "Change the repository passphrase",
				Command:     "cairn chpasswd --dir /srv/backups",
			},
		},
	}
}
