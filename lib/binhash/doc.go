// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes content digests of executables.
//
// The supervisor records the BLAKE3 digest of the backend executable it
// launches so that the status line and logs identify exactly which
// build is running, independent of the path it was started from.
//
//   - [HashFile] streams a file through BLAKE3 with constant memory
//   - [FormatDigest] renders a digest as lowercase hex
//   - [ParseDigest] parses the hex form back, as used for digests
//     pinned in configuration
package binhash
