// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

// Package username decides whether a candidate username may be registered.
//
// A candidate is normalized (NFKC) and then checked against three tables in
// fixed order: reserved names, profanity, and names already registered that
// differ only by case or Unicode form. The first table that matches supplies
// the rejection reason.
//
// Tables are compiled once at startup from word lists (see Source). A list
// that fails to compile is a configuration error; no request is served
// without all three tables.
package username
