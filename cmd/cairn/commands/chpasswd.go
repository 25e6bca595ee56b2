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
	"github.com/cairn-storage/cairn/lib/repo"
	"github.com/cairn-storage/cairn/lib/seal"
)

// ChangePassphraseCommand returns the "chpasswd" subcommand for
// rewrapping the repository key under a new passphrase.
func ChangePassphraseCommand() *cli.Command {
	var dir string
	var passphraseFile string
	var newPassphraseFile string

	return &cli.Command{
		Name:    "chpasswd",
		Summary: "Change the repository passphrase",
		Description: `Rewrap the repository key under a new passphrase.

The repository key itself never changes: everything sealed so far
stays readable with the new passphrase, and nothing is re-encrypted.
The old passphrase stops working the moment the change is written.

The current passphrase comes from --passphrase-file, CAIRN_PASSPHRASE,
or a prompt. The new passphrase comes from --new-passphrase-file or a
double prompt — never from the environment, which names the current
one.`,
		Usage: "cairn chpasswd [flags]",
		Examples: []cli.Example{
			{
				Description: "Change the passphrase interactively",
				Command:     "cairn chpasswd --dir /srv/backups",
			},
			{
				Description: "Scripted rotation with both passphrases from files",
				Command:     "cairn chpasswd --dir /srv/backups --passphrase-file old.txt --new-passphrase-file new.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("chpasswd", pflag.ContinueOnError)
			flagSet.StringVarP(&dir, "dir", "d", "", "repository directory")
			flagSet.StringVar(&passphraseFile, "passphrase-file", "", "file containing the current passphrase")
			flagSet.StringVar(&newPassphraseFile, "new-passphrase-file", "", "file containing the new passphrase")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			resolved, err := resolveDir(dir)
			if err != nil {
				return err
			}

			lock, err := acquireLock(resolved)
			if err != nil {
				return err
			}
			defer lock.Release()

			repository, err := openRepository(ctx, resolved, logger.With("command", "chpasswd"))
			if err != nil {
				return err
			}
			if kind := repository.Descriptor().Encryption.Kind; kind != repo.EncryptionX25519 {
				return cli.Validation("repository at %s has encryption %s; no passphrase to change", resolved, kind)
			}

			current, err := cli.ReadPassphrase(passphraseFile, "Current passphrase: ")
			if err != nil {
				return err
			}
			defer current.Close()

			next, err := cli.ReadNewPassphrase(newPassphraseFile,
				"New passphrase: ", "Confirm new passphrase: ")
			if err != nil {
				return err
			}
			defer next.Close()

			if err := repository.ChangePassphrase(ctx, current, next); err != nil {
				if errors.Is(err, seal.ErrAuthentication) {
					return cli.Auth("%v", err).
						WithHint("The current passphrase is wrong; the repository is unchanged.")
				}
				return cli.Storage("changing passphrase: %v", err)
			}

			fmt.Println("Passphrase changed.")
			return nil
		},
	}
}
