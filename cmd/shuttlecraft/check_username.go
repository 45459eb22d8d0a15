// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shuttlecraft/shuttlecraft/internal/username"
)

// UsernameResult is the outcome for one candidate name.
type UsernameResult struct {
	Candidate  string `json:"candidate"`
	Normalized string `json:"normalized"`
	Accepted   bool   `json:"accepted"`
	Reason     string `json:"reason,omitempty"`
}

// checkUsernameConfig holds configuration for the check-username command.
type checkUsernameConfig struct {
	jsonOutput bool
}

// newCheckUsernameCmd creates the check-username subcommand.
func newCheckUsernameCmd(a *app) *cobra.Command {
	cfg := &checkUsernameConfig{}

	cmd := &cobra.Command{
		Use:   "check-username <name>...",
		Short: "Check whether usernames may be registered",
		Long: `Normalize each name and run it through the blacklist, profanity and
registered-name tables. Exits 1 if any name is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return runCheckUsername(cmd, a, cfg, args)
		}),
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output one JSON object per name")

	return cmd
}

func runCheckUsername(cmd *cobra.Command, a *app, cfg *checkUsernameConfig, names []string) error {
	conf, err := a.load(cmd)
	if err != nil {
		return err
	}
	filter, err := conf.Filter(cmd.Context(), a.deps.DatabaseOpener)
	if err != nil {
		return oops.Wrapf(err, "load username tables")
	}

	results := make([]UsernameResult, 0, len(names))
	rejected := 0
	for _, name := range names {
		n := username.Normalize(name)
		v := filter.Classify(n)
		r := UsernameResult{
			Candidate:  name,
			Normalized: string(n),
			Accepted:   v.Accepted,
		}
		if !v.Accepted {
			r.Reason = v.Reason.String()
			rejected++
		}
		results = append(results, r)
	}

	if cfg.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return oops.Wrapf(err, "encode result")
			}
		}
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, r := range results {
			verdict := "accepted"
			if !r.Accepted {
				verdict = "rejected: " + r.Reason
			}
			fmt.Fprintf(w, "%s\t%s\n", r.Candidate, verdict)
		}
		if err := w.Flush(); err != nil {
			return oops.Wrapf(err, "write results")
		}
	}

	if rejected > 0 {
		return oops.With("rejected", rejected).Errorf("%d of %d usernames rejected", rejected, len(names))
	}
	return nil
}
