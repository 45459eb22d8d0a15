// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import (
	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// Variant names an Argon2 flavour as it appears in an encoded record.
type Variant string

// Known Argon2 variants.
const (
	Argon2i  Variant = "argon2i"
	Argon2d  Variant = "argon2d"
	Argon2id Variant = "argon2id"
)

// Supported reports whether digests of this variant can be derived.
// golang.org/x/crypto/argon2 does not expose Argon2d.
func (v Variant) Supported() bool {
	return v == Argon2i || v == Argon2id
}

// ParseVariant maps a variant name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Argon2i, Argon2d, Argon2id:
		return Variant(s), nil
	}
	return "", oops.Code(CodeInvalidPolicy).With("variant", s).Errorf("unknown argon2 variant %q", s)
}

// Hashing cost defaults and limits. Memory is in KiB.
const (
	DefaultMemory uint32 = 4096
	DefaultTime   uint32 = 3
	DefaultLanes  uint8  = 1

	// KeyLen is the digest length in bytes.
	KeyLen = 32

	// MaxMemory bounds the memory cost accepted from policies and records (4 GiB).
	MaxMemory uint32 = 4 << 20

	// MaxTime bounds the number of passes accepted from policies and records.
	MaxTime uint32 = 256
)

// Policy holds the cost parameters applied to new hashes.
type Policy struct {
	Variant Variant
	Version uint32
	Memory  uint32
	Time    uint32
	Lanes   uint8
}

// DefaultPolicy returns argon2i v19 with m=4096, t=3, p=1.
func DefaultPolicy() Policy {
	return Policy{
		Variant: Argon2i,
		Version: argon2.Version,
		Memory:  DefaultMemory,
		Time:    DefaultTime,
		Lanes:   DefaultLanes,
	}
}

// NewPolicy builds and validates a policy at the current Argon2 version.
func NewPolicy(variant Variant, memory, time uint32, lanes int) (Policy, error) {
	if lanes < 1 || lanes > 255 {
		return Policy{}, oops.Code(CodeInvalidPolicy).
			With("lanes", lanes).
			Errorf("lanes must be between 1 and 255, got %d", lanes)
	}
	p := Policy{
		Variant: variant,
		Version: argon2.Version,
		Memory:  memory,
		Time:    time,
		Lanes:   uint8(lanes),
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects parameters the KDF cannot honour as given.
func (p Policy) Validate() error {
	if !p.Variant.Supported() {
		return oops.Code(CodeInvalidPolicy).
			With("variant", string(p.Variant)).
			Errorf("argon2 variant %q cannot be used for new hashes", p.Variant)
	}
	if p.Version != argon2.Version {
		return oops.Code(CodeInvalidPolicy).
			With("version", p.Version).
			Errorf("argon2 version must be %d, got %d", argon2.Version, p.Version)
	}
	if p.Time < 1 {
		return oops.Code(CodeInvalidPolicy).Errorf("time cost must be at least 1")
	}
	if p.Time > MaxTime {
		return oops.Code(CodeInvalidPolicy).
			With("time", p.Time).
			Errorf("time cost %d exceeds %d", p.Time, MaxTime)
	}
	if p.Lanes < 1 {
		return oops.Code(CodeInvalidPolicy).Errorf("lanes must be at least 1")
	}
	if p.Memory < 8*uint32(p.Lanes) {
		return oops.Code(CodeInvalidPolicy).
			With("memory", p.Memory).
			With("lanes", p.Lanes).
			Errorf("memory cost (%d KiB) must be at least 8*lanes (%d KiB)", p.Memory, 8*uint32(p.Lanes))
	}
	if p.Memory > MaxMemory {
		return oops.Code(CodeInvalidPolicy).
			With("memory", p.Memory).
			Errorf("memory cost (%d KiB) exceeds %d KiB", p.Memory, MaxMemory)
	}
	return nil
}

// WorkingSetBytes is the memory one hash under this policy allocates.
// Callers size their concurrency limits from it.
func (p Policy) WorkingSetBytes() uint64 {
	return uint64(p.Memory) * 1024
}

func (p Policy) matches(r Record) bool {
	return r.Variant == p.Variant &&
		r.Version == p.Version &&
		r.Memory == p.Memory &&
		r.Time == p.Time &&
		r.Lanes == p.Lanes &&
		len(r.Digest) == KeyLen
}
