// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes carried by configuration errors from this package.
const (
	CodeInvalidPattern = "USERNAME_INVALID_PATTERN"
	CodeSourceFailed   = "USERNAME_SOURCE_FAILED"
)

// IsConfigurationError reports whether err came from a malformed pattern or
// an unreadable list source.
func IsConfigurationError(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	code := oopsErr.Code()
	return code == CodeInvalidPattern || code == CodeSourceFailed
}

// RejectionReason extracts the reason from an error returned by Check.
func RejectionReason(err error) (Reason, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason, true
	}
	return 0, false
}
