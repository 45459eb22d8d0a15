// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package config

import (
	"context"

	"github.com/shuttlecraft/shuttlecraft/internal/username"
	"github.com/shuttlecraft/shuttlecraft/internal/username/postgres"
)

// Opener connects to a database for a list backed by a table.
type Opener func(ctx context.Context, dsn string) (postgres.Pool, error)

func defaultOpener(ctx context.Context, dsn string) (postgres.Pool, error) {
	return postgres.Open(ctx, dsn)
}

// Filter loads every configured username list and compiles the filter.
// Database connections are closed before it returns. A nil opener uses
// a pgx pool.
func (c *Config) Filter(ctx context.Context, open Opener) (*username.Filter, error) {
	if open == nil {
		open = defaultOpener
	}

	var pools []postgres.Pool
	defer func() {
		for _, p := range pools {
			p.Close()
		}
	}()

	build := func(l ListConfig) (username.Source, error) {
		var multi username.MultiSource
		if len(l.Words) > 0 {
			multi = append(multi, username.StaticSource(l.Words))
		}
		if l.File != "" {
			multi = append(multi, username.FileSource{Path: l.File})
		}
		if db := l.Database; db != nil {
			pool, err := open(ctx, db.URL)
			if err != nil {
				return nil, err
			}
			pools = append(pools, pool)

			var opts []postgres.Option
			if db.Table != "" {
				opts = append(opts, postgres.WithTable(db.Table))
			}
			if db.Column != "" {
				opts = append(opts, postgres.WithColumn(db.Column))
			}
			src, err := postgres.NewRegisteredSource(pool, opts...)
			if err != nil {
				return nil, err
			}
			multi = append(multi, src)
		}
		if len(multi) == 0 {
			return nil, nil
		}
		return multi, nil
	}

	var src username.Sources
	for _, t := range []struct {
		name string
		list ListConfig
		dst  *username.Source
	}{
		{"blacklist", c.Username.Blacklist, &src.Blacklist},
		{"profanity", c.Username.Profanity, &src.Profanity},
		{"registered", c.Username.Registered, &src.Registered},
	} {
		s, err := build(t.list)
		if err != nil {
			return nil, invalid(err, "username."+t.name)
		}
		*t.dst = s
	}
	return username.Load(ctx, src)
}
