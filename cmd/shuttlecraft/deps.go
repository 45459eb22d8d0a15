// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shuttlecraft/shuttlecraft/internal/config"
	"github.com/shuttlecraft/shuttlecraft/internal/username/postgres"
)

// Deps contains injectable dependencies for the CLI.
// All fields with nil values will use their default implementations.
type Deps struct {
	// DatabaseOpener connects to the databases backing username lists.
	// Default: postgres.Open
	DatabaseOpener config.Opener

	// Environ supplies environment overrides for configuration.
	// Default: os.Environ
	Environ func() []string

	// Registry collects the auth and username metrics.
	// Default: a new prometheus.Registry
	Registry *prometheus.Registry
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.DatabaseOpener == nil {
		out.DatabaseOpener = func(ctx context.Context, dsn string) (postgres.Pool, error) {
			return postgres.Open(ctx, dsn)
		}
	}
	if out.Registry == nil {
		out.Registry = prometheus.NewRegistry()
	}
	return &out
}
