// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import "github.com/samber/oops"

// Error codes carried by errors from this package.
const (
	CodeInvalidPolicy      = "AUTH_INVALID_POLICY"
	CodeInvalidHash        = "AUTH_INVALID_HASH"
	CodeAuthFailed         = "AUTH_FAILED"
	CodeSaltFailed         = "AUTH_SALT_FAILED"
	CodeAdmissionCancelled = "AUTH_ADMISSION_CANCELLED"
)

// ErrAuthorizationFailed is returned by Verify when the password does not
// match the record. It carries no detail about the record or the password.
var ErrAuthorizationFailed = oops.Code(CodeAuthFailed).Errorf("authorization failed")

// IsDecodeError reports whether err came from a malformed or unsupported hash record.
func IsDecodeError(err error) bool {
	return hasCode(err, CodeInvalidHash)
}

// IsAuthorizationFailed reports whether err is a password mismatch.
func IsAuthorizationFailed(err error) bool {
	return hasCode(err, CodeAuthFailed)
}

// IsConfigurationError reports whether err came from an invalid hashing policy
// or admission budget.
func IsConfigurationError(err error) bool {
	return hasCode(err, CodeInvalidPolicy)
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
