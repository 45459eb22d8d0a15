// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import (
	"crypto/subtle"
	"time"
)

// equalizeSalt stands in for a real salt when a record cannot be decoded.
const equalizeSalt = "shuttlecraft-equalize-salt-00000"

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces an encoded record for the password.
	Hash(password string) (string, error)

	// Verify returns nil when password matches the record,
	// ErrAuthorizationFailed on mismatch, or a decode error for a malformed record.
	Verify(encoded, password string) error

	// NeedsRehash reports whether the record was produced under different parameters.
	NeedsRehash(encoded string) (bool, error)
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithSaltSource replaces GenerateSalt.
func WithSaltSource(src SaltSource) Option {
	return func(h *Hasher) {
		h.salt = src
	}
}

// Hasher implements PasswordHasher with Argon2 under a fixed Policy.
// It is immutable after construction and safe for concurrent use.
//
// Empty passwords are hashed like any other; rejecting them is up to the caller.
type Hasher struct {
	policy Policy
	salt   SaltSource
}

// NewHasher validates policy and returns a Hasher bound to it.
func NewHasher(policy Policy, opts ...Option) (*Hasher, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	h := &Hasher{
		policy: policy,
		salt:   GenerateSalt,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Policy returns the parameters used for new hashes.
func (h *Hasher) Policy() Policy {
	return h.policy
}

// Hash derives a KeyLen digest from password and a fresh salt and returns the
// encoded record.
func (h *Hasher) Hash(password string) (string, error) {
	start := time.Now()

	salt, err := h.salt()
	if err != nil {
		return "", err
	}

	rec := Record{
		Variant: h.policy.Variant,
		Version: h.policy.Version,
		Memory:  h.policy.Memory,
		Time:    h.policy.Time,
		Lanes:   h.policy.Lanes,
		Salt:    []byte(salt),
	}
	rec.Digest, err = rec.derive([]byte(password), KeyLen)
	if err != nil {
		return "", err
	}

	observeHash(rec.Variant, time.Since(start))
	return rec.Encode(), nil
}

// Verify re-derives the digest with the parameters stored in the record, not
// the current policy, and compares in constant time.
//
// A record that cannot be decoded still costs one derivation under the current
// policy, so callers that map both failures to the same response leak nothing
// through timing.
func (h *Hasher) Verify(encoded, password string) error {
	rec, err := DecodeRecord(encoded)
	if err == nil {
		var computed []byte
		computed, err = rec.derive([]byte(password), KeyLen)
		if err == nil {
			if subtle.ConstantTimeCompare(computed, rec.Digest) == 1 {
				observeVerify(verifyOK)
				return nil
			}
			observeVerify(verifyMismatch)
			return ErrAuthorizationFailed
		}
	}

	h.equalize(password)
	observeVerify(verifyInvalid)
	return err
}

// NeedsRehash reports whether the record differs from the current policy.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	rec, err := DecodeRecord(encoded)
	if err != nil {
		return false, err
	}
	return !h.policy.matches(rec), nil
}

func (h *Hasher) equalize(password string) {
	rec := Record{
		Variant: h.policy.Variant,
		Memory:  h.policy.Memory,
		Time:    h.policy.Time,
		Lanes:   h.policy.Lanes,
		Salt:    []byte(equalizeSalt),
	}
	_, _ = rec.derive([]byte(password), KeyLen)
}
