// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shuttlecraft/shuttlecraft/internal/config"
	"github.com/shuttlecraft/shuttlecraft/internal/logging"
	"github.com/shuttlecraft/shuttlecraft/internal/xdg"
)

// newConfigCmd creates the config command group.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(newConfigSchemaCmd())
	cmd.AddCommand(newConfigValidateCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigInitCmd(a))

	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the config file JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return nil
		},
	}
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a config file against the schema and policy rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if len(args) == 1 {
				path = args[0]
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return oops.Code(config.CodeInvalid).With("path", path).Wrapf(err, "read config")
			}
			if err := config.ValidateDocument(data); err != nil {
				return oops.With("path", path).Wrap(err)
			}
			if _, err := config.Load(config.Options{Path: path, Environ: a.deps.Environ}); err != nil {
				return oops.With("path", path).Wrap(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return nil
		},
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, environment
and flags are applied. Database passwords are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}

			shown := redactDatabases(*cfg)
			out, err := yaml.Marshal(shown)
			if err != nil {
				return oops.Wrapf(err, "render config")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err //nolint:wrapcheck // stdout write error is self-describing
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath()

			if _, err := os.Stat(path); err == nil && !force {
				return oops.With("path", path).Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return oops.With("path", path).Wrapf(err, "stat config")
			}

			out, err := yaml.Marshal(config.Default())
			if err != nil {
				return oops.Wrapf(err, "render config")
			}
			if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
				return err
			}
			if err := os.WriteFile(path, out, 0o600); err != nil {
				return oops.With("path", path).Wrapf(err, "write config")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func (a *app) configPath() string {
	if a.flags.configFile != "" {
		return a.flags.configFile
	}
	return xdg.ConfigFile()
}

// redactDatabases masks passwords in database URLs.
func redactDatabases(cfg config.Config) config.Config {
	for _, l := range []*config.ListConfig{
		&cfg.Username.Blacklist,
		&cfg.Username.Profanity,
		&cfg.Username.Registered,
	} {
		if l.Database == nil {
			continue
		}
		db := *l.Database
		if u, err := url.Parse(db.URL); err == nil {
			db.URL = u.Redacted()
		} else {
			db.URL = logging.Redacted
		}
		l.Database = &db
	}
	return cfg
}
