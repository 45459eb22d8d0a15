// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// regexPrefix marks a list entry as a raw regular expression.
const regexPrefix = "re:"

// globChars are the characters that make a blacklist entry a glob.
const globChars = "*?[{"

var never = MatcherFunc(func(Name) bool { return false })

// Lists holds the raw entries the three tables are compiled from.
type Lists struct {
	Blacklist  []string
	Profanity  []string
	Registered []string
}

// Compile builds a Filter that checks the blacklist, then profanity, then
// collisions with registered names.
func Compile(l Lists) (*Filter, error) {
	blacklist, err := BlacklistTable(l.Blacklist)
	if err != nil {
		return nil, err
	}
	profanity, err := ProfanityTable(l.Profanity)
	if err != nil {
		return nil, err
	}
	return NewFilter(blacklist, profanity, CollisionTable(l.Registered)), nil
}

type blacklist struct {
	exact    map[string]struct{}
	globs    []glob.Glob
	patterns []*regexp.Regexp
}

func (b *blacklist) Match(n Name) bool {
	key := CaseKey(n)
	if _, ok := b.exact[key]; ok {
		return true
	}
	for _, g := range b.globs {
		if g.Match(key) {
			return true
		}
	}
	for _, re := range b.patterns {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// BlacklistTable matches reserved names. Plain entries match the whole name
// case-insensitively. Entries containing glob characters ("admin*") are
// compiled as globs; entries prefixed "re:" are regular expressions matched
// against the case key.
func BlacklistTable(entries []string) (Table, error) {
	b := &blacklist{exact: make(map[string]struct{})}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if expr, ok := strings.CutPrefix(entry, regexPrefix); ok {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return Table{}, invalidPattern("blacklist", entry, err)
			}
			b.patterns = append(b.patterns, re)
			continue
		}

		key := CaseKey(Normalize(entry))
		if strings.ContainsAny(key, globChars) {
			g, err := glob.Compile(key)
			if err != nil {
				return Table{}, invalidPattern("blacklist", entry, err)
			}
			b.globs = append(b.globs, g)
			continue
		}
		b.exact[key] = struct{}{}
	}
	return Table{Reason: Blacklisted, Matcher: b}, nil
}

// ProfanityTable matches names containing a listed word delimited by
// anything other than a letter, so digits, "_", "-" and "." split words
// but a listed word inside a longer word does not match.
func ProfanityTable(words []string) (Table, error) {
	alts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if expr, ok := strings.CutPrefix(w, regexPrefix); ok {
			if _, err := regexp.Compile(expr); err != nil {
				return Table{}, invalidPattern("profanity", w, err)
			}
			alts = append(alts, "(?:"+expr+")")
			continue
		}
		alts = append(alts, regexp.QuoteMeta(CaseKey(Normalize(w))))
	}
	if len(alts) == 0 {
		return Table{Reason: Profane, Matcher: never}, nil
	}

	re, err := regexp.Compile(`(?i)(?:^|\PL)(?:` + strings.Join(alts, "|") + `)(?:\PL|$)`)
	if err != nil {
		return Table{}, invalidPattern("profanity", "", err)
	}
	return Table{
		Reason: Profane,
		Matcher: MatcherFunc(func(n Name) bool {
			return re.MatchString(CaseKey(n))
		}),
	}, nil
}

// CollisionTable matches names whose case key equals that of a registered name.
func CollisionTable(registered []string) Table {
	keys := make(map[string]struct{}, len(registered))
	for _, u := range registered {
		if n := Normalize(u); n != "" {
			keys[CaseKey(n)] = struct{}{}
		}
	}
	return Table{
		Reason: CaseCollision,
		Matcher: MatcherFunc(func(n Name) bool {
			_, ok := keys[CaseKey(n)]
			return ok
		}),
	}
}

func invalidPattern(table, entry string, err error) error {
	return oops.Code(CodeInvalidPattern).
		With("table", table).
		With("entry", entry).
		Wrap(err)
}
