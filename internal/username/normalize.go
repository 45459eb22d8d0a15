// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/secure/precis"
	"golang.org/x/text/unicode/norm"
)

// Name is a username in comparison form. It is never stored in place of the
// display name the user typed.
type Name string

// Normalize applies NFKC and trims surrounding white space, so composed and
// decomposed or compatibility forms of the same name compare equal.
// Normalize(string(Normalize(x))) == Normalize(x).
func Normalize(candidate string) Name {
	return Name(strings.TrimSpace(norm.NFKC.String(candidate)))
}

// CaseKey maps a name to the key used for case-insensitive comparison.
// The PRECIS UsernameCaseMapped profile (RFC 8265) is applied when it accepts
// the name; names it refuses, such as those containing spaces, pass through
// unchanged. Either way the result is Unicode case folded and NFKC
// normalized, so "STRASSE" and "straße", or "ΣΑΣ" and "σας", share a key.
func CaseKey(n Name) string {
	s := string(n)
	if mapped, err := precis.UsernameCaseMapped.String(s); err == nil {
		s = mapped
	}
	return norm.NFKC.String(cases.Fold().String(s))
}
