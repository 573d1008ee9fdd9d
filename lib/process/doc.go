// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers shared by the deskbridge
// binaries: the structured logger every binary installs at startup,
// and the stderr report used when main() fails before or after that
// logger exists.
package process
