// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username

import "fmt"

// Reason explains why a username was rejected.
type Reason int

// Rejection reasons, in the order tables are evaluated.
const (
	Blacklisted Reason = iota + 1
	Profane
	CaseCollision
)

func (r Reason) String() string {
	switch r {
	case Blacklisted:
		return "blacklisted"
	case Profane:
		return "profane"
	case CaseCollision:
		return "case_collision"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Verdict is the outcome of classifying one name.
type Verdict struct {
	Accepted bool
	Reason   Reason
}

// Accept is the verdict for a name no table matched.
var Accept = Verdict{Accepted: true}

func (v Verdict) String() string {
	if v.Accepted {
		return "accepted"
	}
	return "rejected: " + v.Reason.String()
}

// RejectedError is returned by Check for a rejected name. Its message names
// the reason and nothing else.
type RejectedError struct {
	Reason Reason
}

func (e *RejectedError) Error() string {
	return "username rejected: " + e.Reason.String()
}

// Matcher reports whether a normalized name falls in a table.
type Matcher interface {
	Match(n Name) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(Name) bool

// Match calls f.
func (f MatcherFunc) Match(n Name) bool { return f(n) }

// Table pairs a matcher with the reason reported when it matches.
type Table struct {
	Reason  Reason
	Matcher Matcher
}

// Filter evaluates tables in order; the first match decides the verdict.
// A Filter is read-only after construction and safe for concurrent use.
type Filter struct {
	tables []Table
}

// NewFilter returns a Filter that evaluates tables in the given order.
func NewFilter(tables ...Table) *Filter {
	return &Filter{tables: append([]Table(nil), tables...)}
}

// Classify returns the verdict for an already normalized name.
func (f *Filter) Classify(n Name) Verdict {
	for _, t := range f.tables {
		if t.Matcher.Match(n) {
			recordVerdict(t.Reason.String())
			return Verdict{Reason: t.Reason}
		}
	}
	recordVerdict("accepted")
	return Accept
}

// Check normalizes candidate and classifies it. It returns the normalized
// name and a *RejectedError when a table matched.
func (f *Filter) Check(candidate string) (Name, error) {
	n := Normalize(candidate)
	if v := f.Classify(n); !v.Accepted {
		return n, &RejectedError{Reason: v.Reason}
	}
	return n, nil
}
