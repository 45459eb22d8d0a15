// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// recordEncoding is unpadded standard base64. Strict mode rejects
// non-canonical trailing bits so a decoded record re-encodes identically.
var recordEncoding = base64.RawStdEncoding.Strict()

// Record is a decoded hash record. Everything needed to verify a password
// travels with it, so policy changes never invalidate stored records.
type Record struct {
	Variant Variant
	Version uint32
	Memory  uint32
	Time    uint32
	Lanes   uint8
	Salt    []byte
	Digest  []byte
}

// Encode renders the record as
//
//	$<variant>$v=<version>$m=<memory>,t=<time>,p=<lanes>$<salt>$<digest>
func (r Record) Encode() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		r.Variant,
		r.Version,
		r.Memory,
		r.Time,
		r.Lanes,
		recordEncoding.EncodeToString(r.Salt),
		recordEncoding.EncodeToString(r.Digest),
	)
}

// DecodeRecord parses an encoded record. All failures carry CodeInvalidHash.
func DecodeRecord(encoded string) (Record, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Record{}, invalidHash("expected 5 segments, got %d", len(parts)-1)
	}

	variant := Variant(parts[1])
	switch variant {
	case Argon2i, Argon2d, Argon2id:
	default:
		return Record{}, invalidHash("unknown variant %q", parts[1])
	}

	version, err := parseField(parts[2], "v", 32)
	if err != nil {
		return Record{}, err
	}
	if version != argon2.Version {
		return Record{}, invalidHash("unsupported version %d", version)
	}

	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return Record{}, invalidHash("expected m,t,p parameters, got %q", parts[3])
	}
	memory, err := parseField(params[0], "m", 32)
	if err != nil {
		return Record{}, err
	}
	time, err := parseField(params[1], "t", 32)
	if err != nil {
		return Record{}, err
	}
	lanes, err := parseField(params[2], "p", 8)
	if err != nil {
		return Record{}, err
	}
	if time < 1 || lanes < 1 {
		return Record{}, invalidHash("time and lanes must be at least 1")
	}
	if time > uint64(MaxTime) {
		return Record{}, invalidHash("time cost %d exceeds %d", time, MaxTime)
	}
	if memory < 8*lanes || memory > uint64(MaxMemory) {
		return Record{}, invalidHash("memory %d KiB out of range for %d lanes", memory, lanes)
	}

	salt, err := recordEncoding.DecodeString(parts[4])
	if err != nil {
		return Record{}, oops.Code(CodeInvalidHash).With("segment", "salt").Wrap(err)
	}
	if len(salt) == 0 {
		return Record{}, invalidHash("empty salt")
	}

	digest, err := recordEncoding.DecodeString(parts[5])
	if err != nil {
		return Record{}, oops.Code(CodeInvalidHash).With("segment", "digest").Wrap(err)
	}
	if len(digest) != KeyLen {
		return Record{}, invalidHash("digest must be %d bytes, got %d", KeyLen, len(digest))
	}

	return Record{
		Variant: variant,
		Version: uint32(version),
		Memory:  uint32(memory),
		Time:    uint32(time),
		Lanes:   uint8(lanes),
		Salt:    salt,
		Digest:  digest,
	}, nil
}

// derive runs the KDF with the record's own parameters.
func (r Record) derive(password []byte, keyLen uint32) ([]byte, error) {
	switch r.Variant {
	case Argon2i:
		return argon2.Key(password, r.Salt, r.Time, r.Memory, r.Lanes, keyLen), nil
	case Argon2id:
		return argon2.IDKey(password, r.Salt, r.Time, r.Memory, r.Lanes, keyLen), nil
	default:
		return nil, oops.Code(CodeInvalidHash).
			With("variant", string(r.Variant)).
			Errorf("variant %s cannot be verified by this build", r.Variant)
	}
}

// parseField parses "<key>=<decimal>" and rejects non-canonical numbers such
// as leading zeros or a sign.
func parseField(s, key string, bits int) (uint64, error) {
	value, ok := strings.CutPrefix(s, key+"=")
	if !ok {
		return 0, invalidHash("expected %s= in %q", key, s)
	}
	n, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, oops.Code(CodeInvalidHash).With("field", key).Wrap(err)
	}
	if strconv.FormatUint(n, 10) != value {
		return 0, invalidHash("non-canonical %s value %q", key, value)
	}
	return n, nil
}

func invalidHash(format string, args ...any) error {
	return oops.Code(CodeInvalidHash).Errorf(format, args...)
}
