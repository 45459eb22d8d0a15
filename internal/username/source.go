// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Source supplies the entries of one table.
type Source interface {
	Load(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed list of entries.
type StaticSource []string

// Load returns a copy of the list.
func (s StaticSource) Load(_ context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// FileSource reads entries from a file. Files ending in .yaml or .yml hold a
// YAML sequence of strings; anything else is read one entry per line, with
// blank lines and lines starting with "#" skipped.
type FileSource struct {
	Path string
}

// Load reads and parses the file.
func (s FileSource) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, oops.Code(CodeSourceFailed).With("path", s.Path).Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		var entries []string
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, oops.Code(CodeSourceFailed).With("path", s.Path).Wrap(err)
		}
		return entries, nil
	default:
		return parseLines(data)
	}
}

func parseLines(data []byte) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.Code(CodeSourceFailed).Wrap(err)
	}
	return entries, nil
}

// MultiSource concatenates the entries of several sources.
type MultiSource []Source

// Load loads every source in order and stops at the first error.
func (m MultiSource) Load(ctx context.Context) ([]string, error) {
	var out []string
	for _, src := range m {
		entries, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// Sources names where each table's entries come from. A nil Source yields
// an empty table.
type Sources struct {
	Blacklist  Source
	Profanity  Source
	Registered Source
}

// Load reads all three sources and compiles the Filter.
func Load(ctx context.Context, src Sources) (*Filter, error) {
	var lists Lists
	for _, s := range []struct {
		name   string
		source Source
		dst    *[]string
	}{
		{"blacklist", src.Blacklist, &lists.Blacklist},
		{"profanity", src.Profanity, &lists.Profanity},
		{"registered", src.Registered, &lists.Registered},
	} {
		if s.source == nil {
			continue
		}
		entries, err := s.source.Load(ctx)
		if err != nil {
			return nil, oops.With("table", s.name).Wrap(err)
		}
		*s.dst = entries
	}

	filter, err := Compile(lists)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "username tables compiled",
		"blacklist", len(lists.Blacklist),
		"profanity", len(lists.Profanity),
		"registered", len(lists.Registered),
	)
	return filter, nil
}
