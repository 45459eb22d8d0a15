// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shuttlecraft/shuttlecraft/internal/auth"
	"github.com/shuttlecraft/shuttlecraft/pkg/errutil"
)

// newVerifyCmd creates the verify subcommand.
func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <record>",
		Short: "Verify a password read from stdin against an encoded record",
		Long: `Read one line from stdin and check it against the encoded Argon2 hash
record. Exits 0 on a match, 1 on a mismatch and 2 if the record cannot be
decoded.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, a, args[0])
		}),
	}
}

func runVerify(cmd *cobra.Command, a *app, encoded string) error {
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

	if err := limiter.VerifyContext(cmd.Context(), encoded, password); err != nil {
		if auth.IsDecodeError(err) {
			errutil.Log(cmd.Context(), a.log, slog.LevelWarn, "hash record rejected", err)
		}
		return err
	}

	if stale, err := limiter.Hasher().NeedsRehash(encoded); err == nil && stale {
		a.log.InfoContext(cmd.Context(), "record predates the current policy, rehash recommended")
		fmt.Fprintln(cmd.OutOrStdout(), "ok (rehash recommended)")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
