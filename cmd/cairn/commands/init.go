// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
	"github.com/cairn-storage/cairn/lib/backend"
	"github.com/cairn-storage/cairn/lib/repo"
	"github.com/cairn-storage/cairn/lib/secret"
)

// InitCommand returns the "init" subcommand for creating a repository.
func InitCommand() *cli.Command {
	var dir string
	var chunking string
	var chunkBits uint32
	var compression string
	var hashing string
	var encryption string
	var nesting uint8
	var passphraseFile string

	return &cli.Command{
		Name:    "init",
		Summary: "Create a repository",
		Description: `Create a repository in the given directory.

The algorithm choices made here are permanent for the repository:
every later reader and writer uses what init wrote into config.yml.
By default the repository is encrypted — a keypair is generated and
its secret half sealed under your passphrase. Data can then be added
without the passphrase; reading it back requires the passphrase.

Pass --encryption none for an unencrypted repository. There is no way
to add encryption to an existing repository later.

The expected chunk size is 2^chunk-bits bytes: 17 gives ~128 KiB
chunks. Smaller chunks deduplicate better but cost more per-chunk
overhead; the accepted range is 10 through 30.`,
		Usage: "cairn init [flags]",
		Examples: []cli.Example{
			{
				Description: "Create an encrypted repository with the default algorithms",
				Command:     "cairn init --dir /srv/backups",
			},
			{
				Description: "Unencrypted repository with zstd compression",
				Command:     "cairn init --dir /srv/backups --encryption none --compression zstd",
			},
			{
				Description: "Scripted creation with the passphrase from a file",
				Command:     "cairn init --dir /srv/backups --passphrase-file /etc/cairn/passphrase",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("init", pflag.ContinueOnError)
			flagSet.StringVarP(&dir, "dir", "d", "", "repository directory")
			flagSet.StringVar(&chunking, "chunking", string(repo.ChunkingBup), "chunking family (bup, gear)")
			flagSet.Uint32Var(&chunkBits, "chunk-bits", repo.DefaultChunkBits, "expected chunk size exponent (10-30)")
			flagSet.StringVar(&compression, "compression", string(repo.CompressionDeflate), "compression (none, deflate, bzip2, xz2, zstd)")
			flagSet.StringVar(&hashing, "hashing", string(repo.HashingSHA256), "content hash (sha256, blake2b)")
			flagSet.StringVar(&encryption, "encryption", string(repo.EncryptionX25519), "encryption (none, x25519)")
			flagSet.Uint8Var(&nesting, "nesting", uint8(repo.DefaultNesting), "chunk directory nesting depth")
			flagSet.StringVar(&passphraseFile, "passphrase-file", "", "file containing the new repository passphrase")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q\n\nUsage: cairn init [flags]", args[0])
			}
			resolved, err := resolveDir(dir)
			if err != nil {
				return err
			}

			settings := repo.Settings{
				Chunking:    repo.Chunking{Family: repo.ChunkingFamily(chunking), Bits: chunkBits},
				Compression: repo.Compression(compression),
				Hashing:     repo.Hashing(hashing),
				Nesting:     repo.Nesting(nesting),
				Encryption:  repo.EncryptionKind(encryption),
			}

			var passphrase *secret.Buffer
			if settings.Encryption == repo.EncryptionX25519 {
				passphrase, err = cli.ReadNewPassphrase(passphraseFile,
					"Enter passphrase: ", "Confirm passphrase: ")
				if err != nil {
					return err
				}
				defer passphrase.Close()
			}

			descriptor, err := repo.New(passphrase, settings)
			if err != nil {
				return cli.Validation("%v", err)
			}

			repository, err := repo.Init(ctx, backend.NewLocal(resolved), descriptor,
				logger.With("command", "init", "dir", resolved))
			if err != nil {
				if errors.Is(err, repo.ErrExists) {
					return cli.Conflict("repository already exists at %s", resolved)
				}
				return cli.Storage("initializing repository at %s: %v", resolved, err)
			}

			d := repository.Descriptor()
			fmt.Printf("Initialized repository at %s (%s/%d, %s, %s, encryption %s)\n",
				resolved, d.Chunking.Family, d.Chunking.Bits, d.Compression, d.Hashing, d.Encryption.Kind)
			return nil
		},
	}
}
