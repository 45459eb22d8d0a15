// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

// Package auth hashes and verifies passwords with Argon2.
//
// # Records
//
// Hash returns a self-describing record:
//
//	$argon2i$v=19$m=4096,t=3,p=1$<salt>$<digest>
//
// Verify reads the cost parameters back out of the record, so records issued
// under an older Policy keep verifying after the policy changes. NeedsRehash
// tells the caller when a record should be replaced on next login.
//
// # Errors
//
// Verify distinguishes a malformed record (IsDecodeError) from a wrong
// password (IsAuthorizationFailed). Both take about the same time; callers
// facing end users should report them identically.
//
// # Admission
//
// Each hash allocates Policy.Memory KiB. Limiter bounds the total in flight
// so bursts of logins cannot exhaust memory.
package auth
