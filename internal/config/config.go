// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

// Package config loads and validates shuttlecraft configuration.
package config

import (
	"bytes"
	"encoding/json"

	"github.com/samber/oops"

	"github.com/shuttlecraft/shuttlecraft/internal/auth"
	"github.com/shuttlecraft/shuttlecraft/internal/logging"
	"github.com/shuttlecraft/shuttlecraft/internal/username"
	"github.com/shuttlecraft/shuttlecraft/pkg/errutil"
)

// CodeInvalid marks configuration that cannot be used.
const CodeInvalid = "CONFIG_INVALID"

// DefaultAdmissionKiB is the default concurrent KDF memory budget (64 MiB).
const DefaultAdmissionKiB int64 = 64 << 10

// Config is the full configuration document.
type Config struct {
	Password PasswordConfig `json:"password" jsonschema:"description=Argon2 hashing policy for new passwords"`
	Username UsernameConfig `json:"username" jsonschema:"description=Username legality tables"`
	Log      LogConfig      `json:"log"`
}

// PasswordConfig is the hashing policy plus the admission budget.
type PasswordConfig struct {
	Variant      string `json:"variant" jsonschema:"enum=argon2i,enum=argon2id,default=argon2i"`
	Memory       uint32 `json:"memory" jsonschema:"minimum=8,maximum=4194304,default=4096,description=Memory cost in KiB"`
	Time         uint32 `json:"time" jsonschema:"minimum=1,maximum=256,default=3,description=Number of passes"`
	Lanes        int    `json:"lanes" jsonschema:"minimum=1,maximum=255,default=1"`
	AdmissionKiB int64  `json:"admission_kib" jsonschema:"minimum=8,description=KDF memory allowed in flight across concurrent calls"`
}

// UsernameConfig names where each filter table comes from.
type UsernameConfig struct {
	Blacklist  ListConfig `json:"blacklist"`
	Profanity  ListConfig `json:"profanity"`
	Registered ListConfig `json:"registered"`
}

// ListConfig combines inline words, a file, and a database table.
// Every configured source contributes entries.
type ListConfig struct {
	Words    []string        `json:"words,omitempty"`
	File     string          `json:"file,omitempty" jsonschema:"description=Plain text (one entry per line) or YAML list"`
	Database *DatabaseConfig `json:"database,omitempty"`
}

// DatabaseConfig reads list entries from one column of a PostgreSQL table.
type DatabaseConfig struct {
	URL    string `json:"url" jsonschema:"required"`
	Table  string `json:"table,omitempty" jsonschema:"default=users"`
	Column string `json:"column,omitempty" jsonschema:"default=username"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Format string `json:"format" jsonschema:"enum=json,enum=text,default=json"`
	Level  string `json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	p := auth.DefaultPolicy()
	return Config{
		Password: PasswordConfig{
			Variant:      string(p.Variant),
			Memory:       p.Memory,
			Time:         p.Time,
			Lanes:        int(p.Lanes),
			AdmissionKiB: DefaultAdmissionKiB,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
	}
}

// Policy builds the hashing policy.
func (c *Config) Policy() (auth.Policy, error) {
	variant, err := auth.ParseVariant(c.Password.Variant)
	if err != nil {
		return auth.Policy{}, invalid(err, "password.variant")
	}
	p, err := auth.NewPolicy(variant, c.Password.Memory, c.Password.Time, c.Password.Lanes)
	if err != nil {
		return auth.Policy{}, invalid(err, "password")
	}
	return p, nil
}

// Limiter builds a hasher under Policy gated by the admission budget.
func (c *Config) Limiter() (*auth.Limiter, error) {
	p, err := c.Policy()
	if err != nil {
		return nil, err
	}
	h, err := auth.NewHasher(p)
	if err != nil {
		return nil, invalid(err, "password")
	}
	l, err := auth.NewLimiter(h, c.Password.AdmissionKiB)
	if err != nil {
		return nil, invalid(err, "password.admission_kib")
	}
	return l, nil
}

// Validate checks every field that can be checked without I/O.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Password.AdmissionKiB < int64(c.Password.Memory) {
		return oops.Code(CodeInvalid).
			With("field", "password.admission_kib").
			Errorf("admission budget (%d KiB) must cover one hash (%d KiB)", c.Password.AdmissionKiB, c.Password.Memory)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code(CodeInvalid).
			With("field", "log.format").
			Errorf("log format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid(err, "log.level")
	}
	for name, l := range c.Username.lists() {
		if l.Database != nil && l.Database.URL == "" {
			return oops.Code(CodeInvalid).
				With("field", "username."+name+".database.url").
				Errorf("database url is required")
		}
	}
	return nil
}

func (u UsernameConfig) lists() map[string]ListConfig {
	return map[string]ListConfig{
		"blacklist":  u.Blacklist,
		"profanity":  u.Profanity,
		"registered": u.Registered,
	}
}

func invalid(err error, field string) error {
	return oops.Code(CodeInvalid).With("field", field).Wrap(err)
}

// IsConfigurationError reports whether err was raised for unusable
// configuration, including invalid hashing policies and filter patterns.
func IsConfigurationError(err error) bool {
	if auth.IsConfigurationError(err) || username.IsConfigurationError(err) {
		return true
	}
	return errutil.Code(err) == CodeInvalid
}

// MarshalYAML renders the config as a YAML document using its JSON field names.
func (c Config) MarshalYAML() (any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, oops.Wrapf(err, "marshal config")
	}
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, oops.Wrapf(err, "marshal config")
	}
	return doc, nil
}
