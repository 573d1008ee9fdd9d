// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides network I/O helpers shared by the backend
// client and the gateway.
//
// HTTP body helpers (ReadResponse, ErrorBody) bound
// every read at MaxResponseSize so that a misbehaving backend cannot
// make the UI process allocate without limit. Connection helpers
// (IsExpectedCloseError) classify errors that are normal during socket
// teardown.
package netutil

import (
	"io"
	"strings"
)

// MaxResponseSize bounds backend response body reads: 16 MB. The
// largest legitimate response is a directory listing.
const MaxResponseSize int64 = 16 << 20

// maxErrorBody bounds the part of an error body kept for messages.
const maxErrorBody = 4 << 10

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an error response body for use in a diagnostic
// message. Read errors are ignored; the text is trimmed and capped.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return strings.TrimSpace(string(data))
}
