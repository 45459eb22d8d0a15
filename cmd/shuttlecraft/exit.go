// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package main

import (
	"github.com/shuttlecraft/shuttlecraft/internal/auth"
	"github.com/shuttlecraft/shuttlecraft/internal/config"
)

// Process exit codes.
const (
	exitOK = 0
	// exitFailure covers password mismatches, rejected usernames and
	// anything else that is not more specific.
	exitFailure = 1
	// exitInvalidRecord means the encoded hash could not be decoded.
	exitInvalidRecord = 2
	// exitConfig means startup aborted on unusable configuration.
	exitConfig = 3
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case config.IsConfigurationError(err):
		return exitConfig
	case auth.IsDecodeError(err):
		return exitInvalidRecord
	default:
		return exitFailure
	}
}
