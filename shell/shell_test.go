// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/deskbridge/deskbridge/backend"
	"github.com/deskbridge/deskbridge/gateway"
	"github.com/deskbridge/deskbridge/lib/config"
	"github.com/deskbridge/deskbridge/lib/testutil"
	"github.com/deskbridge/deskbridge/lib/version"
	"github.com/deskbridge/deskbridge/supervisor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// testConfig returns a config with a private socket, a free port and
// a fast readiness loop.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Backend.Port = freePort(t)
	cfg.Backend.Readiness = config.ReadinessConfig{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
		MaxWait:         10 * time.Second,
	}
	cfg.Backend.ShutdownGrace = 2 * time.Second
	cfg.Gateway.SocketPath = filepath.Join(testutil.SocketDir(t), "gateway.sock")
	cfg.App.Manifest = filepath.Join(t.TempDir(), "app.jsonc")
	return cfg
}

// runHost starts Run in the background and returns the Runtime it
// reports, a cancel function and Run's result channel.
func runHost(t *testing.T, options Options) (Runtime, context.CancelFunc, <-chan error) {
	t.Helper()
	ready := make(chan Runtime, 1)
	options.Logger = testLogger()
	options.OnReady = func(info Runtime) { ready <- info }

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- Run(ctx, options) }()
	t.Cleanup(cancel)

	select {
	case info := <-ready:
		return info, cancel, result
	case err := <-result:
		t.Fatalf("Run returned before ready: %v", err)
	case <-time.After(20 * time.Second):
		t.Fatal("host never became ready")
	}
	panic("unreachable")
}

func TestResolveExecutable(t *testing.T) {
	directory := t.TempDir()
	present := filepath.Join(directory, "present-backend")
	if err := os.WriteFile(present, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	other := t.TempDir()

	tests := []struct {
		name       string
		executable string
		goos       string
		search     []string
		want       string
	}{
		{"empty", "", "linux", []string{directory}, ""},
		{"absolute", "/opt/app/backend", "linux", []string{directory}, "/opt/app/backend"},
		{"windows suffix", "/opt/app/backend", "windows", nil, "/opt/app/backend.exe"},
		{"windows keeps suffix", "/opt/app/backend.EXE", "windows", nil, "/opt/app/backend.EXE"},
		{"relative with directory", "bin/backend", "linux", []string{directory}, filepath.Join(directory, "bin/backend")},
		{"bare found in later directory", "present-backend", "linux", []string{other, directory}, present},
		{"bare missing", "no-such-backend-anywhere", "linux", []string{other, directory}, filepath.Join(other, "no-such-backend-anywhere")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ResolveExecutable(test.executable, test.goos, test.search); got != test.want {
				t.Errorf("ResolveExecutable(%q, %q) = %q, want %q", test.executable, test.goos, got, test.want)
			}
		})
	}
}

func TestHostBackendAddressWithoutProcess(t *testing.T) {
	host := NewHost(HostConfig{
		AppVersion: "2.0.0",
		Port:       9123,
		Supervisor: supervisor.New(supervisor.Config{Logger: testLogger()}),
	})
	if got := host.BackendAddress(); got != "http://127.0.0.1:9123" {
		t.Errorf("BackendAddress = %q", got)
	}
	if got := host.Platform(); got != runtime.GOOS {
		t.Errorf("Platform = %q, want %q", got, runtime.GOOS)
	}
	if got := host.AppVersion(); got != "2.0.0" {
		t.Errorf("AppVersion = %q", got)
	}
}

func TestLoadAppVersion(t *testing.T) {
	cfg := config.Default()
	cfg.App.Manifest = filepath.Join(t.TempDir(), "app.jsonc")

	if got := LoadAppVersion(cfg, testLogger()); got != version.Short() {
		t.Errorf("missing manifest: version = %q, want build version %q", got, version.Short())
	}

	manifest := "{\n  // shipped version\n  \"name\": \"deskbridge\",\n  \"version\": \"3.1.4\",\n}\n"
	if err := os.WriteFile(cfg.App.Manifest, []byte(manifest), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := LoadAppVersion(cfg, testLogger()); got != "3.1.4" {
		t.Errorf("manifest version = %q, want 3.1.4", got)
	}
}

func TestRunWithoutBackendStaysUsable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Executable = filepath.Join(t.TempDir(), "missing-backend")

	runtimeInfo, cancel, result := runHost(t, Options{Config: cfg})
	if runtimeInfo.BackendStatus.State != supervisor.StateFailedToStart {
		t.Errorf("backend state = %s, want failed to start", runtimeInfo.BackendStatus.State)
	}

	// The gateway still answers.
	client := gateway.NewClient(runtimeInfo.SocketPath)
	platform, err := client.Platform(context.Background())
	if err != nil || platform != runtime.GOOS {
		t.Errorf("Platform = %q, %v; want %q", platform, err, runtime.GOOS)
	}
	address, err := client.BackendAddress(context.Background())
	if err != nil {
		t.Fatalf("BackendAddress: %v", err)
	}

	// Backend actions report Unreachable instead of hanging.
	backendClient, err := backend.New(address, backend.Options{Logger: testLogger()})
	if err != nil {
		t.Fatalf("backend.New(%q): %v", address, err)
	}
	if _, err := backendClient.Greet(context.Background(), "Ada"); !errors.Is(err, backend.ErrUnreachable) {
		t.Errorf("Greet without backend = %v, want unreachable", err)
	}

	cancel()
	if err := testutil.RequireReceive(t, result, 10*time.Second, "Run result"); err != nil {
		t.Errorf("Run: %v", err)
	}
	if _, err := os.Stat(runtimeInfo.SocketPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("gateway socket left behind: %v", err)
	}
}

func TestRunSupervisesBackend(t *testing.T) {
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	cfg := testConfig(t)
	cfg.Backend.Executable = executable
	cfg.Backend.Environment = map[string]string{helperVariable: "serve"}

	runtimeInfo, cancel, result := runHost(t, Options{Config: cfg})
	if runtimeInfo.BackendStatus.State != supervisor.StateRunning {
		t.Fatalf("backend state = %s, want running", runtimeInfo.BackendStatus.State)
	}

	address, err := gateway.NewClient(runtimeInfo.SocketPath).BackendAddress(context.Background())
	if err != nil {
		t.Fatalf("BackendAddress: %v", err)
	}
	client, err := backend.New(address, backend.Options{Logger: testLogger()})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	computed, err := client.Compute(context.Background(), 10)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if computed.Result != 55 {
		t.Errorf("Compute(10) = %d, want 55", computed.Result)
	}

	cancel()
	if err := testutil.RequireReceive(t, result, 15*time.Second, "Run result"); err != nil {
		t.Errorf("Run: %v", err)
	}

	// Host exit took the backend with it.
	if _, err := client.Health(context.Background()); !errors.Is(err, backend.ErrUnreachable) {
		t.Errorf("Health after host exit = %v, want unreachable", err)
	}
}

func TestRunEndsWhenUIExits(t *testing.T) {
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	output := filepath.Join(t.TempDir(), "ui-report")
	t.Setenv(helperVariable, "ui")
	t.Setenv(uiOutputVariable, output)

	cfg := testConfig(t)
	cfg.Backend.Executable = filepath.Join(t.TempDir(), "missing-backend")
	if err := os.WriteFile(cfg.App.Manifest, []byte(`{"version": "0.9.0"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err = Run(context.Background(), Options{
		Config:    cfg,
		Logger:    testLogger(),
		UICommand: []string{executable},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	report, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading UI report: %v", err)
	}
	if got, want := strings.TrimSpace(string(report)), runtime.GOOS+" 0.9.0"; got != want {
		t.Errorf("UI saw %q, want %q", got, want)
	}
}

func TestRunReportsUIFailure(t *testing.T) {
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	t.Setenv(helperVariable, "ui-fail")

	cfg := testConfig(t)
	cfg.Backend.Executable = filepath.Join(t.TempDir(), "missing-backend")

	err = Run(context.Background(), Options{
		Config:    cfg,
		Logger:    testLogger(),
		UICommand: []string{executable},
	})
	var exitError *exec.ExitError
	if !errors.As(err, &exitError) || exitError.ExitCode() != 7 {
		t.Errorf("Run error = %v, want UI exit code 7", err)
	}
}
