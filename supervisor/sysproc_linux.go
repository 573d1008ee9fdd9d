// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// processAttributes places the backend in its own process group and
// asks the kernel to SIGKILL it if the host dies first.
func processAttributes() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: unix.SIGKILL,
	}
}
