// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlecraft/shuttlecraft/internal/username/postgres"
)

var listEnv = []string{
	"SHUTTLECRAFT_USERNAME__BLACKLIST__WORDS=admin,root,moderator*",
	"SHUTTLECRAFT_USERNAME__PROFANITY__WORDS=heck",
	"SHUTTLECRAFT_USERNAME__REGISTERED__WORDS=alice",
}

func TestCheckUsername_Text(t *testing.T) {
	r := execute(t, nil, listEnv, "", "check-username", "ZebraFinch42", "admin", "Alice", "heck_yes")
	require.Error(t, r.err)
	assert.Equal(t, exitFailure, exitCode(r.err))
	assert.Contains(t, r.err.Error(), "3 of 4 usernames rejected")

	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^ZebraFinch42\s+accepted$`, lines[0])
	assert.Regexp(t, `^admin\s+rejected: blacklisted$`, lines[1])
	assert.Regexp(t, `^Alice\s+rejected: case_collision$`, lines[2])
	assert.Regexp(t, `^heck_yes\s+rejected: profane$`, lines[3])
}

func TestCheckUsername_AllAccepted(t *testing.T) {
	r := execute(t, nil, listEnv, "", "check-username", "ZebraFinch42", "alicia")
	require.NoError(t, r.err)
	assert.Equal(t, exitOK, exitCode(r.err))
}

func TestCheckUsername_JSON(t *testing.T) {
	r := execute(t, nil, listEnv, "", "check-username", "--json", "ＡＤＭＩＮ", "  Zoë ")
	require.Error(t, r.err)

	dec := json.NewDecoder(strings.NewReader(r.stdout))
	var got []UsernameResult
	for dec.More() {
		var res UsernameResult
		require.NoError(t, dec.Decode(&res))
		got = append(got, res)
	}

	assert.Equal(t, []UsernameResult{
		{Candidate: "ＡＤＭＩＮ", Normalized: "ADMIN", Accepted: false, Reason: "blacklisted"},
		{Candidate: "  Zoë ", Normalized: "Zoë", Accepted: true},
	}, got)
}

func TestCheckUsername_RegisteredFromDatabase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "username" FROM "users" WHERE "username" IS NOT NULL`)).
		WillReturnRows(pgxmock.NewRows([]string{"username"}).AddRow("carol"))

	deps := &Deps{
		DatabaseOpener: func(context.Context, string) (postgres.Pool, error) { return mock, nil },
	}
	env := []string{"SHUTTLECRAFT_USERNAME__REGISTERED__DATABASE__URL=postgres://db/app"}

	r := execute(t, deps, env, "", "check-username", "CAROL")
	require.Error(t, r.err)
	assert.Contains(t, r.stdout, "rejected: case_collision")
}

func TestCheckUsername_InvalidPattern(t *testing.T) {
	env := []string{"SHUTTLECRAFT_USERNAME__BLACKLIST__WORDS=re:("}

	r := execute(t, nil, env, "", "check-username", "alice")
	require.Error(t, r.err)
	assert.Equal(t, exitConfig, exitCode(r.err))
	assert.Empty(t, r.stdout)
}

func TestCheckUsername_RequiresName(t *testing.T) {
	r := execute(t, nil, nil, "", "check-username")
	require.Error(t, r.err)
}
