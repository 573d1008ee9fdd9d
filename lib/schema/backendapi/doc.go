// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package backendapi defines the backend service's HTTP contract: the
// endpoint paths, the JSON bodies exchanged on them, and the bounds the
// compute endpoint enforces. The backend service (package backendsvc)
// produces these bodies and the backend client (package backend)
// consumes them; neither defines its own copy.
//
// All bodies are JSON with camelCase field names. Timestamps are
// RFC 3339 strings.
package backendapi
