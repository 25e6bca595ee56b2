// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
)

// PathCommand returns the "path" subcommand resolving a chunk digest
// to its storage path.
func PathCommand() *cli.Command {
	var dir string

	return &cli.Command{
		Name:    "path",
		Summary: "Resolve a chunk digest to its storage path",
		Description: `Print the filesystem path where the chunk with the given hex
digest is (or would be) stored, derived from the repository's hashing
and nesting configuration. The digest must be the full hex digest of
the configured hash.`,
		Usage: "cairn path <hex-digest> [flags]",
		Examples: []cli.Example{
			{
				Description: "Locate a chunk by its sha256 digest",
				Command:     "cairn path --dir /srv/backups 3f2a9c0d1e5b7a84f6c2d0e8b4a617395d8c1f0a2b4e6d8f9a0c1e2d3b4f5a6c",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("path", pflag.ContinueOnError)
			flagSet.StringVarP(&dir, "dir", "d", "", "repository directory")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one digest argument required\n\nUsage: cairn path <hex-digest> [flags]")
			}
			digestBytes, err := hex.DecodeString(args[0])
			if err != nil {
				return cli.Validation("digest %q is not hex: %v", args[0], err)
			}

			resolved, err := resolveDir(dir)
			if err != nil {
				return err
			}
			repository, err := openRepository(ctx, resolved, logger.With("command", "path"))
			if err != nil {
				return err
			}

			chunkPath, err := repository.ChunkPath(digestBytes)
			if err != nil {
				return cli.Validation("%v", err)
			}
			fmt.Println(filepath.Join(resolved, chunkPath))
			return nil
		},
	}
}
