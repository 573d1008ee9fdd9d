// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/deskbridge/deskbridge/lib/binhash"
	"github.com/deskbridge/deskbridge/lib/clock"
)

// DefaultPortVariable is the environment variable that tells the
// backend which port to bind.
const DefaultPortVariable = "PORT"

// outputWaitDelay bounds how long the reaper waits for the output
// pipes to drain after the backend exits. A grandchild that inherited
// stdout would otherwise hold the reaper forever.
const outputWaitDelay = 2 * time.Second

// Config configures a Supervisor.
type Config struct {
	// Logger receives lifecycle records and forwarded backend output.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Clock drives readiness backoff and the shutdown grace period.
	// Defaults to clock.Real().
	Clock clock.Clock
}

// LaunchSpec describes one backend launch.
type LaunchSpec struct {
	// ExecutablePath is the resolved, platform-specific path of the
	// backend binary.
	ExecutablePath string

	Arguments []string

	// ExpectedDigest, when non-zero, must equal the executable's
	// digest or the launch fails with ErrDigestMismatch.
	ExpectedDigest binhash.Digest

	// Port is passed to the backend in PortVariable.
	Port int

	// PortVariable defaults to DefaultPortVariable.
	PortVariable string

	// Environment is added to the host environment. Entries here win
	// over inherited ones; the port variable wins over both.
	Environment map[string]string

	// WorkingDirectory defaults to the host's.
	WorkingDirectory string
}

// Supervisor owns at most one current backend process.
type Supervisor struct {
	logger *slog.Logger
	clock  clock.Clock

	mutex   sync.Mutex
	current *BackendProcess
	last    Status
}

// New creates a Supervisor with no backend.
func New(config Config) *Supervisor {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Supervisor{logger: logger, clock: clk}
}

// Current returns the live backend process, or nil if none is running.
func (s *Supervisor) Current() *BackendProcess {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.current
}

// Status returns the state of the current process, or of the last one
// if none is current.
func (s *Supervisor) Status() Status {
	s.mutex.Lock()
	current, last := s.current, s.last
	s.mutex.Unlock()
	if current != nil {
		return current.Status()
	}
	return last
}

// Start launches the backend. The returned process is in
// StateStarting; call WaitReady before treating it as Running.
//
// An executable that is missing or cannot be run returns a
// *SpawnError and records StateFailedToStart. Start returns
// ErrAlreadyRunning while a previous process is current.
func (s *Supervisor) Start(launch LaunchSpec) (*BackendProcess, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.current != nil {
		return nil, ErrAlreadyRunning
	}

	process, err := s.spawn(launch)
	if err != nil {
		s.last = Status{State: StateFailedToStart, Port: launch.Port, Reason: err.Error()}
		s.logger.Error("backend failed to start",
			"executable", launch.ExecutablePath,
			"error", err,
		)
		return nil, &SpawnError{ExecutablePath: launch.ExecutablePath, Err: err}
	}

	s.current = process
	go s.reap(process)

	s.logger.Info("backend started",
		"pid", process.pid,
		"port", process.port,
		"executable", process.executablePath,
		"digest", process.digest.Short(),
	)
	return process, nil
}

func (s *Supervisor) spawn(launch LaunchSpec) (*BackendProcess, error) {
	if launch.ExecutablePath == "" {
		return nil, errors.New("no executable path")
	}
	if launch.Port < 1 || launch.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range", launch.Port)
	}

	digest, err := binhash.HashFile(launch.ExecutablePath)
	if err != nil {
		return nil, err
	}
	if !launch.ExpectedDigest.IsZero() && digest != launch.ExpectedDigest {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrDigestMismatch, digest, launch.ExpectedDigest)
	}

	logger := s.logger.With("backend", filepath.Base(launch.ExecutablePath))
	process := newBackendProcess(launch.ExecutablePath, launch.Port, digest, s.clock, logger)

	stdout := &lineWriter{stream: Stdout, log: process.output, clock: s.clock, logger: logger}
	stderr := &lineWriter{stream: Stderr, log: process.output, clock: s.clock, logger: logger}

	command := exec.Command(launch.ExecutablePath, launch.Arguments...)
	command.Dir = launch.WorkingDirectory
	command.Env = launchEnvironment(os.Environ(), launch)
	command.Stdout = stdout
	command.Stderr = stderr
	command.SysProcAttr = processAttributes()
	command.WaitDelay = outputWaitDelay

	if err := command.Start(); err != nil {
		return nil, err
	}
	process.process = command.Process
	process.pid = command.Process.Pid

	process.wait = func() error {
		err := command.Wait()
		stdout.flush()
		stderr.flush()
		return err
	}
	return process, nil
}

// launchEnvironment merges the host environment, the launch extras and
// the port variable. Later entries win.
func launchEnvironment(host []string, launch LaunchSpec) []string {
	portVariable := launch.PortVariable
	if portVariable == "" {
		portVariable = DefaultPortVariable
	}

	environment := make([]string, 0, len(host)+len(launch.Environment)+1)
	environment = append(environment, host...)
	for _, name := range slices.Sorted(maps.Keys(launch.Environment)) {
		environment = append(environment, name+"="+launch.Environment[name])
	}
	return append(environment, portVariable+"="+strconv.Itoa(launch.Port))
}

// reap waits for the process, records its exit and clears the
// supervisor's reference.
func (s *Supervisor) reap(process *BackendProcess) {
	waitError := process.wait()
	exitCode := 0
	if waitError != nil {
		var exitError *exec.ExitError
		if errors.As(waitError, &exitError) {
			exitCode = exitError.ExitCode()
		} else {
			exitCode = -1
		}
	}

	previous, stopRequested := process.recordExit(exitCode)

	s.mutex.Lock()
	if s.current == process {
		s.current = nil
	}
	s.last = process.Status()
	s.mutex.Unlock()

	if stopRequested {
		s.logger.Info("backend exited",
			"pid", process.pid,
			"exit_code", exitCode,
		)
	} else {
		s.logger.Warn("backend exited unexpectedly",
			"pid", process.pid,
			"exit_code", exitCode,
			"state", previous.String(),
			"error", waitError,
		)
	}
	close(process.done)
}

// Stop asks the current backend to terminate and returns without
// waiting. Safe to call at any time, any number of times.
func (s *Supervisor) Stop() {
	process := s.Current()
	if process == nil {
		return
	}
	if !process.requestStop() {
		return
	}
	if err := terminateProcess(process.process); err != nil {
		s.logger.Warn("signalling backend failed", "pid", process.pid, "error", err)
	}
}

// Shutdown stops the current backend and waits up to grace for it to
// exit, then kills it and waits for the reaper. When ctx is cancelled
// during the grace period the kill happens immediately. On return no
// backend process remains.
func (s *Supervisor) Shutdown(ctx context.Context, grace time.Duration) error {
	process := s.Current()
	if process == nil {
		return nil
	}

	s.Stop()
	select {
	case <-process.Done():
		return nil
	case <-s.clock.After(grace):
		s.logger.Warn("backend ignored termination, killing",
			"pid", process.pid,
			"grace", grace,
		)
	case <-ctx.Done():
		s.logger.Warn("shutdown cancelled, killing backend", "pid", process.pid)
	}

	if err := killProcess(process.process); err != nil {
		return fmt.Errorf("killing backend pid %d: %w", process.pid, err)
	}
	<-process.Done()
	return nil
}
