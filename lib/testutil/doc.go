// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so individual tests never block forever on a channel that a
// broken implementation fails to signal. [SocketDir] returns a short
// directory for Unix sockets, whose paths are limited to 108 bytes.
//
// Helpers call t.Fatalf on failure.
package testutil
