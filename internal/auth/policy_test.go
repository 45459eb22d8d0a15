// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlecraft/shuttlecraft/internal/auth"
	"github.com/shuttlecraft/shuttlecraft/pkg/errutil"
)

func TestDefaultPolicy(t *testing.T) {
	p := auth.DefaultPolicy()
	require.NoError(t, p.Validate())
	assert.Equal(t, auth.Argon2i, p.Variant)
	assert.Equal(t, uint64(4096*1024), p.WorkingSetBytes())
}

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name    string
		variant auth.Variant
		memory  uint32
		time    uint32
		lanes   int
		wantErr bool
	}{
		{"minimal", auth.Argon2i, 8, 1, 1, false},
		{"hybrid", auth.Argon2id, 65536, 3, 4, false},
		{"memory exactly 8 per lane", auth.Argon2i, 32, 1, 4, false},
		{"memory below 8 per lane", auth.Argon2i, 31, 1, 4, true},
		{"zero time", auth.Argon2i, 64, 0, 1, true},
		{"zero lanes", auth.Argon2i, 64, 1, 0, true},
		{"too many lanes", auth.Argon2i, 65536, 1, 256, true},
		{"memory above limit", auth.Argon2i, auth.MaxMemory + 1, 1, 1, true},
		{"time at limit", auth.Argon2i, 64, auth.MaxTime, 1, false},
		{"time above limit", auth.Argon2i, 64, auth.MaxTime + 1, 1, true},
		{"argon2d unavailable", auth.Argon2d, 64, 1, 1, true},
		{"unknown variant", auth.Variant("scrypt"), 64, 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := auth.NewPolicy(tt.variant, tt.memory, tt.time, tt.lanes)
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, auth.CodeInvalidPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.memory, p.Memory)
			assert.Equal(t, uint8(tt.lanes), p.Lanes)
		})
	}
}

func TestParseVariant(t *testing.T) {
	for _, name := range []string{"argon2i", "argon2d", "argon2id"} {
		v, err := auth.ParseVariant(name)
		require.NoError(t, err)
		assert.Equal(t, auth.Variant(name), v)
	}

	_, err := auth.ParseVariant("Argon2ID")
	require.Error(t, err)
	errutil.AssertErrorContext(t, err, "variant", "Argon2ID")
}
