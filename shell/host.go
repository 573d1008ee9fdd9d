// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/deskbridge/deskbridge/lib/config"
	"github.com/deskbridge/deskbridge/lib/version"
	"github.com/deskbridge/deskbridge/supervisor"
)

// Host answers the gateway's capabilities from live host state.
type Host struct {
	appVersion string
	platform   string
	port       int
	supervisor *supervisor.Supervisor
}

// HostConfig configures a Host.
type HostConfig struct {
	AppVersion string

	// Platform defaults to runtime.GOOS.
	Platform string

	// Port is the configured backend port, reported when no backend
	// process is current.
	Port int

	// Supervisor is consulted on every BackendAddress call. Required.
	Supervisor *supervisor.Supervisor
}

// NewHost creates a Host. Panics without a supervisor.
func NewHost(hostConfig HostConfig) *Host {
	if hostConfig.Supervisor == nil {
		panic("shell.NewHost: Supervisor is required")
	}
	platform := hostConfig.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	return &Host{
		appVersion: hostConfig.AppVersion,
		platform:   platform,
		port:       hostConfig.Port,
		supervisor: hostConfig.Supervisor,
	}
}

// AppVersion returns the application version.
func (h *Host) AppVersion() string { return h.appVersion }

// Platform returns the operating system identifier.
func (h *Host) Platform() string { return h.platform }

// BackendAddress returns the current backend's base URL. With no
// backend running it still returns the configured address, so the UI
// gets Unreachable from its calls rather than having no address.
func (h *Host) BackendAddress() string {
	if process := h.supervisor.Current(); process != nil {
		return process.Address()
	}
	return fmt.Sprintf("http://127.0.0.1:%d", h.port)
}

// LoadAppVersion reads the version from the configured manifest,
// falling back to the build version when the manifest is missing or
// invalid.
func LoadAppVersion(cfg *config.Config, logger *slog.Logger) string {
	manifestPath := cfg.Resolve(cfg.App.Manifest)
	if manifestPath == "" {
		return version.Short()
	}
	manifest, err := config.LoadManifest(manifestPath)
	if err != nil {
		logger.Debug("using build version; manifest unavailable", "path", manifestPath, "error", err)
		return version.Short()
	}
	return manifest.Version
}
