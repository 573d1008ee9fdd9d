// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package supervisor

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// terminateProcess sends SIGTERM to the backend's process group so
// that anything the backend spawned goes down with it.
func terminateProcess(process *os.Process) error {
	return signalGroup(process, unix.SIGTERM)
}

// killProcess sends SIGKILL to the backend's process group.
func killProcess(process *os.Process) error {
	return signalGroup(process, unix.SIGKILL)
}

func signalGroup(process *os.Process, signal syscall.Signal) error {
	err := unix.Kill(-process.Pid, signal)
	if errors.Is(err, unix.ESRCH) {
		// Group already gone.
		return nil
	}
	return err
}
