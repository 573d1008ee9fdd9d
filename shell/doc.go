// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell is the desktop host: it ties the supervisor, the
// gateway and the UI process together.
//
// [Run] is the host's whole lifetime. It launches the backend, waits
// for its health endpoint, serves the gateway socket, optionally runs
// the UI command as a child process, and on the way out always shuts
// the backend down. Backend failures degrade the host but never end
// it: a missing executable or a backend that never becomes ready is
// logged, and the UI still starts with backend features reporting
// Unreachable.
//
// [Host] is the gateway's view of the host state. [ResolveExecutable]
// turns the configured backend name into the platform-specific path
// the supervisor is given.
package shell
