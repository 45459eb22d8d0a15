// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import (
	"crypto/rand"
	"io"

	"github.com/samber/oops"
)

// SaltLen is the number of characters in a generated salt.
const SaltLen = 32

const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Salt is per-password random material. It is only ever stored inside the
// hash record it produced.
type Salt string

// SaltSource produces a fresh salt for every call.
type SaltSource func() (Salt, error)

// GenerateSalt returns SaltLen alphanumeric characters read from crypto/rand.
func GenerateSalt() (Salt, error) {
	return generateSalt(rand.Reader)
}

// generateSalt draws characters uniformly from saltAlphabet. Bytes at or above
// the largest multiple of the alphabet size are discarded so every character
// is equally likely.
func generateSalt(r io.Reader) (Salt, error) {
	const limit = 256 - 256%len(saltAlphabet)

	out := make([]byte, 0, SaltLen)
	buf := make([]byte, SaltLen*2)
	for len(out) < SaltLen {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", oops.Code(CodeSaltFailed).Wrap(err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, saltAlphabet[int(b)%len(saltAlphabet)])
			if len(out) == SaltLen {
				break
			}
		}
	}
	return Salt(out), nil
}
