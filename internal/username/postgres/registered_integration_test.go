// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shuttlecraft/shuttlecraft/internal/username"
	"github.com/shuttlecraft/shuttlecraft/internal/username/postgres"
)

func TestRegisteredSource_Postgres(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("shuttlecraft_test"),
		tcpostgres.WithUsername("shuttlecraft"),
		tcpostgres.WithPassword("shuttlecraft"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `CREATE TABLE users (id serial PRIMARY KEY, username text)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO users (username) VALUES ('alice'), ('Zoë'), (NULL)`)
	require.NoError(t, err)

	src, err := postgres.NewRegisteredSource(pool)
	require.NoError(t, err)

	names, err := src.Load(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "Zoë"}, names)

	filter, err := username.Load(ctx, username.Sources{Registered: src})
	require.NoError(t, err)
	assert.Equal(t, username.CaseCollision, filter.Classify(username.Normalize("ZOË")).Reason)

	t.Run("missing table fails fast", func(t *testing.T) {
		missing, err := postgres.NewRegisteredSource(pool, postgres.WithTable("nope"))
		require.NoError(t, err)

		start := time.Now()
		_, err = missing.Load(ctx)
		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})
}
