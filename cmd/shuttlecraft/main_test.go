// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlecraft/shuttlecraft/internal/auth"
	"github.com/shuttlecraft/shuttlecraft/internal/username"
)

// cheapEnv keeps test hashes fast.
var cheapEnv = []string{
	"SHUTTLECRAFT_PASSWORD__MEMORY=64",
	"SHUTTLECRAFT_PASSWORD__TIME=1",
	"SHUTTLECRAFT_PASSWORD__ADMISSION_KIB=1024",
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI with an isolated XDG directory and the given environment.
func execute(t *testing.T, deps *Deps, env []string, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	if deps == nil {
		deps = &Deps{}
	}
	if deps.Environ == nil {
		deps.Environ = func() []string { return env }
	}

	cmd := newRootCmd(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	r := execute(t, nil, nil, "", "--help")
	require.NoError(t, r.err)

	for _, sub := range []string{"hash", "verify", "check-username", "config"} {
		assert.Contains(t, r.stdout, sub, "Help missing %q command", sub)
	}
	for _, flag := range []string{"--config", "--log-format", "--log-level", "--metrics-file"} {
		assert.Contains(t, r.stdout, flag, "Help missing %q flag", flag)
	}
}

func TestRootCommand_DefaultValues(t *testing.T) {
	cmd := NewRootCmd()

	logFormat, err := cmd.PersistentFlags().GetString("log-format")
	require.NoError(t, err)
	assert.Equal(t, "json", logFormat)

	logLevel, err := cmd.PersistentFlags().GetString("log-level")
	require.NoError(t, err)
	assert.Equal(t, "info", logLevel)

	configFile, err := cmd.PersistentFlags().GetString("config")
	require.NoError(t, err)
	assert.Empty(t, configFile)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"mismatch", auth.ErrAuthorizationFailed, exitFailure},
		{"plain error", errors.New("boom"), exitFailure},
		{"undecodable record", oops.Code(auth.CodeInvalidHash).Errorf("bad record"), exitInvalidRecord},
		{"bad policy", oops.Code(auth.CodeInvalidPolicy).Errorf("bad policy"), exitConfig},
		{"bad pattern", oops.Code(username.CodeInvalidPattern).Errorf("bad pattern"), exitConfig},
		{"wrapped config error", oops.Wrapf(oops.Code("CONFIG_INVALID").Errorf("x"), "invalid configuration"), exitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestLogFlagsApply(t *testing.T) {
	r := execute(t, nil, cheapEnv, "pw\n", "--log-format=text", "--log-level=debug", "hash")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "password hashed")
	assert.Contains(t, r.stderr, "service=shuttlecraft")
}
