// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"errors"
	"os"
	"syscall"
)

func processAttributes() *syscall.SysProcAttr {
	return nil
}

// terminateProcess has no graceful equivalent on Windows; the process
// is killed.
func terminateProcess(process *os.Process) error {
	return killProcess(process)
}

func killProcess(process *os.Process) error {
	err := process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
