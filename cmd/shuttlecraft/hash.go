// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// newHashCmd creates the hash subcommand.
func newHashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Hash a password read from stdin",
		Long: `Read one line from stdin and print its encoded Argon2 hash record
using the configured policy.`,
		Args: cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, _ []string) error {
			return runHash(cmd, a)
		}),
	}
}

func runHash(cmd *cobra.Command, a *app) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}
	limiter, err := cfg.Limiter()
	if err != nil {
		return err
	}

	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}

	encoded, err := limiter.HashContext(cmd.Context(), password)
	if err != nil {
		return oops.Wrapf(err, "hash password")
	}

	p := limiter.Hasher().Policy()
	a.log.DebugContext(cmd.Context(), "password hashed",
		slog.String("variant", string(p.Variant)),
		slog.Uint64("memory", uint64(p.Memory)),
		slog.Uint64("time", uint64(p.Time)),
	)
	fmt.Fprintln(cmd.OutOrStdout(), encoded)
	return nil
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Wrapf(err, "read password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
