// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package supervisor owns the lifecycle of the backend service process.
//
// A [Supervisor] manages at most one current [BackendProcess]. The
// lifecycle of each process is a one-way state machine:
//
//	Starting ──WaitReady──▶ Running ──exit──▶ Exited(code)
//	    │                                        ▲
//	    └───────────────exit─────────────────────┘
//
//	(spawn error) ──▶ FailedToStart(reason)
//
// A process never returns to Starting; launching again creates a new
// BackendProcess. Exited and FailedToStart are terminal.
//
// [Supervisor.Start] resolves nothing: the caller passes the
// platform-specific executable path. The child inherits the host
// environment plus the configured extras and the port variable (PORT
// by default). Its stdout and stderr are split into lines, appended to
// an ordered in-memory log ([BackendProcess.Output]) and forwarded to
// the supervisor's logger. Output capture never blocks the child.
//
// Readiness is an explicit handshake: [BackendProcess.WaitReady] polls
// a check (normally the backend's health endpoint) with exponential
// backoff up to a maximum wait, and returns an error matching
// [ErrReadinessTimeout] if the backend never answers. An exit during
// the wait returns [*UnexpectedExitError] immediately.
//
// A background reaper waits on the child, records its exit code (-1
// for signal deaths), clears the supervisor's reference and closes
// [BackendProcess.Done]. [Supervisor.Stop] is idempotent and does not
// wait. [Supervisor.Shutdown] stops, waits a grace period, then kills.
// On Unix the child runs in its own process group and every signal
// targets the group; on Linux the child additionally receives SIGKILL
// if the host dies without shutting down.
package supervisor
