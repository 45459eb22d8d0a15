// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

// Package errutil holds helpers for inspecting and logging oops errors.
package errutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
)

// Code returns the oops error code carried by err, or "" if there is none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	switch code := any(oopsErr.Code()).(type) {
	case nil:
		return ""
	case string:
		return code
	default:
		return fmt.Sprint(code)
	}
}

// LogError logs err at error level. See Log.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error) {
	Log(ctx, logger, slog.LevelError, msg, err)
}

// Log logs err at level with attrs appended. For oops errors the code and
// context are logged as separate attributes; other errors log their string.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error, attrs ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]any, 0, len(attrs)+6)
	if oopsErr, ok := oops.AsOops(err); ok {
		out = append(out, "error", oopsErr.Error())
		if code := Code(err); code != "" {
			out = append(out, "code", code)
		}
		if kv := oopsErr.Context(); len(kv) > 0 {
			out = append(out, "context", kv)
		}
	} else {
		out = append(out, "error", err)
	}
	logger.Log(ctx, level, msg, append(out, attrs...)...)
}
