// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package backendsvc implements the HTTP handlers of the backend
// service that the desktop host supervises.
//
// The service answers the five operations of the backend contract
// (see package backendapi): a health check, host system information, a
// greeting, a deliberately slow Fibonacci computation, and a listing of
// the service's root directory. Every response carries permissive CORS
// headers so that a UI loaded from a file:// origin can call it, and
// OPTIONS preflights are answered without reaching a handler.
//
// [New] returns the http.Handler; cmd/deskbridge-backend binds it to
// the loopback port the host passes in the PORT variable.
package backendsvc
