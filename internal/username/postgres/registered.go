// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

// Package postgres reads the registered-username list from PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/shuttlecraft/shuttlecraft/internal/username"
	"github.com/shuttlecraft/shuttlecraft/pkg/errutil"
)

// Defaults for the table read by RegisteredSource.
const (
	DefaultTable  = "users"
	DefaultColumn = "username"
)

// Pool is the subset of pgxpool.Pool used here, so tests can pass pgxmock.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Open connects a pool to dsn.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code(username.CodeSourceFailed).With("operation", "connect").Wrap(err)
	}
	return pool, nil
}

// Option configures a RegisteredSource.
type Option func(*RegisteredSource)

// WithTable reads from table, optionally schema-qualified ("auth.users").
func WithTable(table string) Option {
	return func(s *RegisteredSource) {
		s.table = table
	}
}

// WithColumn reads names from column.
func WithColumn(column string) Option {
	return func(s *RegisteredSource) {
		s.column = column
	}
}

// WithBackoff replaces the retry schedule. The factory is called once per Load
// because backoffs carry attempt state.
func WithBackoff(newBackoff func() retry.Backoff) Option {
	return func(s *RegisteredSource) {
		s.newBackoff = newBackoff
	}
}

// RegisteredSource implements username.Source with one SELECT over the
// table of existing accounts. It never writes.
type RegisteredSource struct {
	pool       Pool
	table      string
	column     string
	newBackoff func() retry.Backoff
}

// NewRegisteredSource creates a source reading DefaultColumn from DefaultTable.
func NewRegisteredSource(pool Pool, opts ...Option) (*RegisteredSource, error) {
	if pool == nil {
		return nil, oops.Code(username.CodeSourceFailed).Errorf("pool is required")
	}
	s := &RegisteredSource{
		pool:   pool,
		table:  DefaultTable,
		column: DefaultColumn,
		newBackoff: func() retry.Backoff {
			return retry.WithMaxRetries(4, retry.NewExponential(200*time.Millisecond))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == "" || s.column == "" {
		return nil, oops.Code(username.CodeSourceFailed).
			With("table", s.table).
			With("column", s.column).
			Errorf("table and column are required")
	}
	return s, nil
}

func (s *RegisteredSource) query() string {
	table := pgx.Identifier(strings.Split(s.table, "."))
	column := pgx.Identifier{s.column}
	return "SELECT " + column.Sanitize() + " FROM " + table.Sanitize() +
		" WHERE " + column.Sanitize() + " IS NOT NULL"
}

// Load returns every registered name. Connection and transient query
// failures are retried; a missing table or column is not.
func (s *RegisteredSource) Load(ctx context.Context) ([]string, error) {
	var names []string
	err := retry.Do(ctx, s.newBackoff(), func(ctx context.Context) error {
		loaded, err := s.load(ctx)
		if err == nil {
			names = loaded
			return nil
		}
		if permanent(err) {
			return err
		}
		errutil.Log(ctx, slog.Default(), slog.LevelWarn, "registered usernames query failed, retrying",
			err, "table", s.table)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, oops.Code(username.CodeSourceFailed).
			With("table", s.table).
			With("column", s.column).
			Wrap(err)
	}
	return names, nil
}

func (s *RegisteredSource) load(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, s.query())
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped once in Load
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err //nolint:wrapcheck // wrapped once in Load
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped once in Load
	}
	return names, nil
}

func permanent(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedColumn,
		pgerrcode.InsufficientPrivilege, pgerrcode.InvalidSchemaName:
		return true
	}
	return false
}

var _ username.Source = (*RegisteredSource)(nil)
