// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/deskbridge/deskbridge/lib/binhash"
	"github.com/deskbridge/deskbridge/lib/clock"
)

// BackendProcess is the handle for one launched backend. Only the
// supervisor's reaper and WaitReady mutate it; every exported method
// is a read and is safe for concurrent use.
type BackendProcess struct {
	executablePath string
	port           int
	digest         binhash.Digest
	clock          clock.Clock
	logger         *slog.Logger

	// process is nil in tests that exercise the state machine without
	// a child.
	process *os.Process
	pid     int

	// wait blocks until the child has exited and its output has been
	// drained. Called only by the reaper.
	wait func() error

	output *outputLog
	done   chan struct{}

	mutex         sync.Mutex
	state         State
	exitCode      int
	stopRequested bool
}

func newBackendProcess(executablePath string, port int, digest binhash.Digest, clk clock.Clock, logger *slog.Logger) *BackendProcess {
	return &BackendProcess{
		executablePath: executablePath,
		port:           port,
		digest:         digest,
		clock:          clk,
		logger:         logger,
		output:         &outputLog{},
		done:           make(chan struct{}),
		state:          StateStarting,
	}
}

// PID returns the operating-system process ID.
func (p *BackendProcess) PID() int { return p.pid }

// Port returns the port the backend was told to bind.
func (p *BackendProcess) Port() int { return p.port }

// Address returns the backend's base URL on the loopback interface.
func (p *BackendProcess) Address() string {
	return fmt.Sprintf("http://127.0.0.1:%d", p.port)
}

// ExecutablePath returns the path the backend was launched from.
func (p *BackendProcess) ExecutablePath() string { return p.executablePath }

// Digest returns the BLAKE3 digest of the executable taken just before
// launch.
func (p *BackendProcess) Digest() binhash.Digest { return p.digest }

// Done is closed after the process has exited and been reaped.
func (p *BackendProcess) Done() <-chan struct{} { return p.done }

// Output returns a copy of every line captured so far, in arrival
// order.
func (p *BackendProcess) Output() []OutputLine { return p.output.snapshot() }

// State returns the current lifecycle state.
func (p *BackendProcess) State() State {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.state
}

// Status returns a snapshot of the process state.
func (p *BackendProcess) Status() Status {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return Status{
		State:    p.state,
		PID:      p.pid,
		Port:     p.port,
		ExitCode: p.exitCode,
	}
}

// markRunning moves Starting to Running. It reports false if the
// process already exited or a stop was requested.
func (p *BackendProcess) markRunning() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.state != StateStarting || p.stopRequested {
		return false
	}
	p.state = StateRunning
	return true
}

// recordExit moves to Exited and reports the state the process was in
// and whether a stop had been requested.
func (p *BackendProcess) recordExit(exitCode int) (previous State, stopRequested bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	previous = p.state
	p.state = StateExited
	p.exitCode = exitCode
	return previous, p.stopRequested
}

// requestStop flags the process as deliberately stopped. It reports
// false if the process has already exited.
func (p *BackendProcess) requestStop() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.state.Terminal() {
		return false
	}
	p.stopRequested = true
	return true
}

func (p *BackendProcess) unexpectedExit() *UnexpectedExitError {
	status := p.Status()
	return &UnexpectedExitError{PID: status.PID, ExitCode: status.ExitCode}
}
