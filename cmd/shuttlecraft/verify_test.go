// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlecraft/shuttlecraft/internal/auth"
)

func TestVerify(t *testing.T) {
	encoded := hashed(t, cheapEnv, "correct-password")
	heavy := hashed(t, []string{
		"SHUTTLECRAFT_PASSWORD__MEMORY=2048",
		"SHUTTLECRAFT_PASSWORD__TIME=1",
		"SHUTTLECRAFT_PASSWORD__ADMISSION_KIB=2048",
	}, "correct-password")

	tests := []struct {
		name     string
		env      []string
		record   string
		password string
		wantOut  string
		wantCode int
	}{
		{
			name:     "correct password",
			env:      cheapEnv,
			record:   encoded,
			password: "correct-password",
			wantOut:  "ok\n",
			wantCode: exitOK,
		},
		{
			name:     "wrong password",
			env:      cheapEnv,
			record:   encoded,
			password: "wrong-password",
			wantCode: exitFailure,
		},
		{
			name:     "malformed record",
			env:      cheapEnv,
			record:   "$argon2i$v=19$garbage",
			password: "correct-password",
			wantCode: exitInvalidRecord,
		},
		{
			name:     "argon2d record",
			env:      cheapEnv,
			record:   strings.Replace(encoded, "$argon2i$", "$argon2d$", 1),
			password: "correct-password",
			wantCode: exitInvalidRecord,
		},
		{
			name:     "policy changed since hashing",
			env:      append([]string{"SHUTTLECRAFT_PASSWORD__VARIANT=argon2id"}, cheapEnv...),
			record:   encoded,
			password: "correct-password",
			wantOut:  "ok (rehash recommended)\n",
			wantCode: exitOK,
		},
		{
			name: "policy lowered below the record's memory cost",
			env: []string{
				"SHUTTLECRAFT_PASSWORD__MEMORY=64",
				"SHUTTLECRAFT_PASSWORD__TIME=1",
				"SHUTTLECRAFT_PASSWORD__ADMISSION_KIB=1024",
			},
			record:   heavy,
			password: "correct-password",
			wantOut:  "ok (rehash recommended)\n",
			wantCode: exitOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, nil, tt.env, tt.password+"\n", "verify", tt.record)
			assert.Equal(t, tt.wantCode, exitCode(r.err), "err: %v", r.err)
			assert.Equal(t, tt.wantOut, r.stdout)
		})
	}
}

func TestVerify_MismatchIsAuthorizationFailure(t *testing.T) {
	encoded := hashed(t, cheapEnv, "correct-password")

	r := execute(t, nil, cheapEnv, "wrong-password\n", "verify", encoded)
	require.Error(t, r.err)
	assert.True(t, auth.IsAuthorizationFailed(r.err))
	assert.False(t, auth.IsDecodeError(r.err))
}

func TestVerify_LogsUndecodableRecordWithCode(t *testing.T) {
	r := execute(t, nil, cheapEnv, "hunter2-secret\n", "verify", "$argon2i$v=19$garbage")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "hash record rejected")
	assert.Contains(t, r.stderr, `"code":"AUTH_INVALID_HASH"`)
	assert.NotContains(t, r.stderr, "hunter2-secret")
}

func TestVerify_RequiresRecord(t *testing.T) {
	r := execute(t, nil, cheapEnv, "pw\n", "verify")
	require.Error(t, r.err)
}
