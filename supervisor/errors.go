// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned by Start while a process is
	// current.
	ErrAlreadyRunning = errors.New("backend already running")

	// ErrDigestMismatch is wrapped in the SpawnError for an executable
	// whose digest differs from the pinned one.
	ErrDigestMismatch = errors.New("backend executable digest mismatch")

	// ErrReadinessTimeout matches the error WaitReady returns when the
	// backend did not become ready within the policy's maximum wait.
	ErrReadinessTimeout = errors.New("backend readiness timeout")
)

// SpawnError reports that the backend executable could not be
// launched, either because it is missing or because the OS refused
// to run it.
type SpawnError struct {
	ExecutablePath string
	Err            error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning backend %s: %v", e.ExecutablePath, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// UnexpectedExitError reports that the backend exited while the caller
// was still depending on it.
type UnexpectedExitError struct {
	PID      int
	ExitCode int
}

func (e *UnexpectedExitError) Error() string {
	return fmt.Sprintf("backend (pid %d) exited unexpectedly with code %d", e.PID, e.ExitCode)
}
