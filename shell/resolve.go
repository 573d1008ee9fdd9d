// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ResolveExecutable turns the configured backend executable into the
// path to launch on goos.
//
// On Windows ".exe" is appended when missing. Absolute paths are
// returned as is. A relative path with a directory part resolves
// against the first search directory. A bare name is looked for in
// each search directory in order, then on PATH; failing both it
// resolves against the first search directory so that the launch
// error names a concrete path.
func ResolveExecutable(executable, goos string, searchDirectories []string) string {
	if executable == "" {
		return ""
	}
	if goos == "windows" && !strings.EqualFold(filepath.Ext(executable), ".exe") {
		executable += ".exe"
	}
	if filepath.IsAbs(executable) {
		return executable
	}

	base := "."
	if len(searchDirectories) > 0 {
		base = searchDirectories[0]
	}
	if strings.ContainsAny(executable, `/\`) {
		return filepath.Join(base, executable)
	}

	for _, directory := range searchDirectories {
		candidate := filepath.Join(directory, executable)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	if found, err := exec.LookPath(executable); err == nil {
		if absolute, err := filepath.Abs(found); err == nil {
			return absolute
		}
		return found
	}
	return filepath.Join(base, executable)
}
