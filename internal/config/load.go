// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/shuttlecraft/shuttlecraft/internal/xdg"
)

// EnvPrefix prefixes environment overrides. Nested keys are joined with a
// double underscore: SHUTTLECRAFT_PASSWORD__MEMORY sets password.memory.
const EnvPrefix = "SHUTTLECRAFT_"

const envNesting = "__"

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"log-format": "log.format",
	"log-level":  "log.level",
}

// Options control where Load reads from.
type Options struct {
	// Path is the config file. Empty means the XDG default, which may be absent.
	Path string
	// Flags are applied last. Only flags set on the command line override.
	Flags *pflag.FlagSet
	// Environ replaces os.Environ.
	Environ func() []string
}

// Load layers defaults, the config file, SHUTTLECRAFT_* environment
// variables and command line flags, then validates the result.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	path, required := opts.Path, true
	if path == "" {
		path, required = xdg.ConfigFile(), false
	}
	if err := loadFile(k, path, required); err != nil {
		return nil, err
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "load environment")
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, flagKey), nil); err != nil {
			return nil, oops.Code(CodeInvalid).Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return oops.Code(CodeInvalid).With("path", path).Wrapf(err, "config file")
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code(CodeInvalid).With("path", path).Wrapf(err, "parse config file")
	}
	return nil
}

// envKey turns SHUTTLECRAFT_USERNAME__BLACKLIST__WORDS into
// username.blacklist.words. Word lists are comma separated.
func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	k = strings.ReplaceAll(k, envNesting, ".")
	if strings.HasSuffix(k, ".words") {
		var words []string
		for w := range strings.SplitSeq(v, ",") {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		return k, words
	}
	return k, v
}

func flagKey(f *pflag.Flag) (string, any) {
	key, ok := flagKeys[f.Name]
	if !ok || !f.Changed {
		return "", nil
	}
	return key, f.Value.String()
}
