// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the HTTP serving scaffold used by the
// deskbridge backend binary.
//
// [HTTPServer] binds its listener before serving so that a port
// conflict is reported as an error from Serve instead of a log line,
// closes [HTTPServer.Ready] once connections are being accepted, and
// drains in-flight requests when its context is cancelled. The caller
// supplies the http.Handler.
package service
