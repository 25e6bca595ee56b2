// Copyright 2026 The Cairn Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/cairn-storage/cairn/cmd/cairn/cli"
)

// repoInfo is the JSON shape of "info --json" output.
type repoInfo struct {
	Dir         string `json:"dir"`
	Version     uint32 `json:"version"`
	Chunking    string `json:"chunking"`
	ChunkBits   uint32 `json:"chunk_bits"`
	Compression string `json:"compression"`
	Hashing     string `json:"hashing"`
	Nesting     uint8  `json:"nesting"`
	Encryption  string `json:"encryption"`
	PublicKey   string `json:"public_key,omitempty"`
}

// InfoCommand returns the "info" subcommand showing the repository
// configuration.
func InfoCommand() *cli.Command {
	var dir string
	var asJSON bool

	return &cli.Command{
		Name:    "info",
		Summary: "Show repository configuration",
		Description: `Show the repository's format version and algorithm choices.

Reads only config.yml and the version marker; no passphrase is
required, and for an encrypted repository the public key is shown so
writers can be configured without the secret half.`,
		Usage: "cairn info [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the repository configuration",
				Command:     "cairn info --dir /srv/backups",
			},
			{
				Description: "Machine-readable output for scripts",
				Command:     "cairn info --dir /srv/backups --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("info", pflag.ContinueOnError)
			flagSet.StringVarP(&dir, "dir", "d", "", "repository directory")
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			resolved, err := resolveDir(dir)
			if err != nil {
				return err
			}
			repository, err := openRepository(ctx, resolved, logger.With("command", "info"))
			if err != nil {
				return err
			}
			descriptor := repository.Descriptor()

			if asJSON {
				info := repoInfo{
					Dir:         resolved,
					Version:     descriptor.Version,
					Chunking:    string(descriptor.Chunking.Family),
					ChunkBits:   descriptor.Chunking.Bits,
					Compression: string(descriptor.Compression),
					Hashing:     string(descriptor.Hashing),
					Nesting:     uint8(descriptor.Nesting),
					Encryption:  string(descriptor.Encryption.Kind),
				}
				if descriptor.Encryption.Key != nil {
					info.PublicKey = descriptor.Encryption.Key.PublicKey
				}
				return cli.WriteJSON(info)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Repository:\t%s\n", resolved)
			fmt.Fprintf(tw, "Version:\t%d\n", descriptor.Version)
			fmt.Fprintf(tw, "Chunking:\t%s (chunk_bits %d, ~%s chunks)\n",
				descriptor.Chunking.Family, descriptor.Chunking.Bits,
				expectedChunkSize(descriptor.Chunking.Bits))
			fmt.Fprintf(tw, "Compression:\t%s\n", descriptor.Compression)
			fmt.Fprintf(tw, "Hashing:\t%s\n", descriptor.Hashing)
			fmt.Fprintf(tw, "Nesting:\t%d\n", descriptor.Nesting)
			fmt.Fprintf(tw, "Encryption:\t%s\n", descriptor.Encryption.Kind)
			if descriptor.Encryption.Key != nil {
				fmt.Fprintf(tw, "Public key:\t%s\n", descriptor.Encryption.Key.PublicKey)
			}
			return tw.Flush()
		},
	}
}

// expectedChunkSize renders 2^bits in human units.
func expectedChunkSize(bits uint32) string {
	size := uint64(1) << bits
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%d GiB", size>>30)
	case size >= 1<<20:
		return fmt.Sprintf("%d MiB", size>>20)
	case size >= 1<<10:
		return fmt.Sprintf("%d KiB", size>>10)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
