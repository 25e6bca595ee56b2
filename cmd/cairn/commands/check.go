// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
	"github.com/cairn-storage/cairn/lib/backend"
	"github.com/cairn-storage/cairn/lib/repo"
)

// CheckCommand returns the "check" subcommand verifying repository
// health.
func CheckCommand() *cli.Command {
	var dir string
	var unlock bool
	var passphraseFile string

	return &cli.Command{
		Name:    "check",
		Summary: "Verify repository structure",
		Description: `Verify that the repository's structure is intact: the version
marker and config.yml agree, the configuration validates, and the
data directories exist.

With --unlock the repository key is also unwrapped, proving the
passphrase is correct without reading any data. Each finding is
printed as "ok:" or "problem:"; the exit code is non-zero when any
problem was found.`,
		Usage: "cairn check [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the repository structure",
				Command:     "cairn check --dir /srv/backups",
			},
			{
				Description: "Also verify the passphrase unwraps the key",
				Command:     "cairn check --dir /srv/backups --unlock",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.StringVarP(&dir, "dir", "d", "", "repository directory")
			flagSet.BoolVar(&unlock, "unlock", false, "verify the passphrase by unwrapping the repository key")
			flagSet.StringVar(&passphraseFile, "passphrase-file", "", "file containing the repository passphrase")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			resolved, err := resolveDir(dir)
			if err != nil {
				return err
			}
			repository, err := openRepository(ctx, resolved, logger.With("command", "check"))
			if err != nil {
				return err
			}
			descriptor := repository.Descriptor()

			problems := 0
			report := func(ok bool, format string, args ...any) {
				finding := fmt.Sprintf(format, args...)
				if ok {
					fmt.Printf("ok: %s\n", finding)
				} else {
					problems++
					fmt.Printf("problem: %s\n", finding)
				}
			}

			report(true, "config.yml decodes and validates (version %d)", descriptor.Version)

			store := backend.NewLocal(resolved)
			for _, dataDir := range []string{repo.ChunkDir, repo.NameDir, repo.IndexDir} {
				present, err := store.Has(ctx, dataDir)
				if err != nil {
					return cli.Storage("checking %s: %v", dataDir, err)
				}
				report(present, "data directory %s", dataDir)
			}

			if unlock {
				if descriptor.Encryption.Kind != repo.EncryptionX25519 {
					report(true, "encryption is %s; nothing to unlock", descriptor.Encryption.Kind)
				} else {
					passphrase, err := cli.ReadPassphrase(passphraseFile, "Passphrase: ")
					if err != nil {
						return err
					}
					defer passphrase.Close()
					if _, err := repository.Decrypter(passphrase); err != nil {
						report(false, "unwrapping repository key: %v", err)
					} else {
						report(true, "passphrase unwraps the repository key")
					}
				}
			}

			if problems > 0 {
				fmt.Printf("%d problem(s) found\n", problems)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
