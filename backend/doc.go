// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend is the UI-side client for the backend service.
//
// Every backend operation is described once in a static endpoint table
// ([Endpoints]): its HTTP method, path, and the fields a successful
// response must carry. [Client] builds each request from that table,
// sends exactly one HTTP request, and classifies the outcome into one
// of four failure kinds carried by [*CallError]:
//
//   - Unreachable: the request never produced a response (connection
//     refused, reset, DNS failure, or a body cut off mid-read)
//   - BackendRejected: the backend answered with a non-2xx status
//   - Malformed: the body is not JSON, or a required field is absent
//   - Validation: the input was rejected locally; no request was sent
//
// Each kind has a sentinel ([ErrUnreachable], [ErrBackendRejected],
// [ErrMalformed], [ErrValidation]) so callers can branch with
// errors.Is without unpacking the error.
//
// The client never retries and never queues. A call made while the
// backend is still starting, or after it has exited, fails immediately
// as Unreachable.
package backend
