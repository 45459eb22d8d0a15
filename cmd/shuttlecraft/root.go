// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shuttlecraft/shuttlecraft/internal/auth"
	"github.com/shuttlecraft/shuttlecraft/internal/config"
	"github.com/shuttlecraft/shuttlecraft/internal/logging"
	"github.com/shuttlecraft/shuttlecraft/internal/username"
	"github.com/shuttlecraft/shuttlecraft/pkg/errutil"
)

const serviceName = "shuttlecraft"

// rootConfig holds the global flags.
type rootConfig struct {
	configFile  string
	logFormat   string
	logLevel    string
	metricsFile string
}

// app carries state shared by the subcommands of one invocation.
type app struct {
	flags rootConfig
	deps  *Deps
	cfg   *config.Config
	log   *slog.Logger
}

// NewRootCmd creates the root command for the shuttlecraft CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(deps *Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "shuttlecraft",
		Short: "Password hashing and username checks",
		Long: `shuttlecraft hashes and verifies passwords with Argon2 and decides
whether a requested username may be registered.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.flags.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/shuttlecraft/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.flags.logFormat, "log-format", "json", "log format (json or text)")
	cmd.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.flags.metricsFile, "metrics-file", "", "write metrics in Prometheus text format to this file on exit")

	cmd.AddCommand(newHashCmd(a))
	cmd.AddCommand(newVerifyCmd(a))
	cmd.AddCommand(newCheckUsernameCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// load reads and validates configuration and installs the logger.
func (a *app) load(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := config.Load(config.Options{
		Path:    a.flags.configFile,
		Flags:   cmd.Flags(),
		Environ: a.deps.Environ,
	})
	if err != nil {
		return nil, oops.Wrapf(err, "invalid configuration")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, oops.Code(config.CodeInvalid).Wrap(err)
	}
	a.log = logging.SetDefault(serviceName, cmd.Root().Version, cfg.Log.Format, level, cmd.ErrOrStderr())

	auth.RegisterMetrics(a.deps.Registry)
	username.RegisterMetrics(a.deps.Registry)

	a.cfg = cfg
	return cfg, nil
}

// runE wraps a command so metrics are written whether or not it succeeds.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if werr := a.writeMetrics(); werr != nil {
			if err == nil {
				return werr
			}
			errutil.Log(cmd.Context(), a.log, slog.LevelWarn, "failed to write metrics", werr)
		}
		return err
	}
}

func (a *app) writeMetrics() error {
	if a.flags.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.flags.metricsFile, a.deps.Registry); err != nil {
		return oops.With("path", a.flags.metricsFile).Wrapf(err, "write metrics")
	}
	return nil
}
