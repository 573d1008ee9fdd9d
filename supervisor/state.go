// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import "fmt"

// State is the lifecycle state of a backend process.
type State int

const (
	// StateNone means no backend has been launched.
	StateNone State = iota
	StateStarting
	StateRunning
	StateExited
	StateFailedToStart
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateFailedToStart:
		return "failed to start"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateExited || s == StateFailedToStart
}

// Status is a point-in-time snapshot of a backend process.
type Status struct {
	State State

	// PID is zero when the process never started.
	PID int

	// Port is the port the backend was told to bind.
	Port int

	// ExitCode is meaningful only in StateExited. Signal deaths
	// report -1.
	ExitCode int

	// Reason describes a FailedToStart state.
	Reason string
}

func (s Status) String() string {
	switch s.State {
	case StateExited:
		return fmt.Sprintf("exited(%d)", s.ExitCode)
	case StateFailedToStart:
		return fmt.Sprintf("failed to start: %s", s.Reason)
	case StateStarting, StateRunning:
		return fmt.Sprintf("%s (pid %d, port %d)", s.State, s.PID, s.Port)
	}
	return s.State.String()
}
