// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/deskbridge/deskbridge/backend"
	"github.com/deskbridge/deskbridge/gateway"
	"github.com/deskbridge/deskbridge/lib/clock"
	"github.com/deskbridge/deskbridge/lib/config"
	"github.com/deskbridge/deskbridge/supervisor"
)

// Options configures Run.
type Options struct {
	// Config is the loaded host configuration. Required.
	Config *config.Config

	// Logger is required.
	Logger *slog.Logger

	// UICommand is the UI process and its arguments. When set, the
	// host lives as long as the UI does. When empty, the host runs
	// until its context is cancelled.
	UICommand []string

	// Clock drives readiness backoff and shutdown grace. Defaults to
	// clock.Real().
	Clock clock.Clock

	// OnReady, if set, is called once the gateway is serving and the
	// backend has been launched and checked (successfully or not).
	OnReady func(Runtime)
}

// Runtime describes the running host, for OnReady.
type Runtime struct {
	SocketPath     string
	BackendAddress string
	BackendStatus  supervisor.Status
}

// Run runs the host until ctx is cancelled or the UI command exits.
// The backend is shut down before Run returns, whatever the reason.
func Run(ctx context.Context, options Options) error {
	if options.Config == nil {
		panic("shell.Run: Config is required")
	}
	if options.Logger == nil {
		panic("shell.Run: Logger is required")
	}
	cfg := options.Config
	logger := options.Logger

	backendSupervisor := supervisor.New(supervisor.Config{Logger: logger, Clock: options.Clock})
	host := NewHost(HostConfig{
		AppVersion: LoadAppVersion(cfg, logger),
		Port:       cfg.Backend.Port,
		Supervisor: backendSupervisor,
	})

	serveContext, stopServing := context.WithCancel(context.Background())
	server := gateway.NewServer(gateway.ServerConfig{
		SocketPath: cfg.Gateway.SocketPath,
		Gateway:    gateway.New(host, logger),
		Logger:     logger,
	})
	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(serveContext) }()

	defer func() {
		stopServing()
		if err := <-serveDone; err != nil {
			logger.Error("gateway server failed", "error", err)
		}
	}()
	defer func() {
		shutdownContext, cancel := context.WithTimeout(context.Background(), 2*cfg.Backend.ShutdownGrace)
		defer cancel()
		if err := backendSupervisor.Shutdown(shutdownContext, cfg.Backend.ShutdownGrace); err != nil {
			logger.Error("backend shutdown failed", "error", err)
		}
	}()

	select {
	case <-server.Ready():
	case err := <-serveDone:
		return fmt.Errorf("starting gateway: %w", err)
	case <-ctx.Done():
		return nil
	}

	startBackend(ctx, cfg, backendSupervisor, logger)

	if options.OnReady != nil {
		options.OnReady(Runtime{
			SocketPath:     server.SocketPath(),
			BackendAddress: host.BackendAddress(),
			BackendStatus:  backendSupervisor.Status(),
		})
	}

	if len(options.UICommand) == 0 {
		<-ctx.Done()
		logger.Info("host shutting down")
		return nil
	}
	return runUI(ctx, options.UICommand, server.SocketPath(), logger)
}

// startBackend launches the backend and waits for it to answer its
// health endpoint. Every failure here is logged and absorbed.
func startBackend(ctx context.Context, cfg *config.Config, backendSupervisor *supervisor.Supervisor, logger *slog.Logger) {
	searchDirectories := []string{cfg.Resolve(".")}
	if hostExecutable, err := os.Executable(); err == nil {
		searchDirectories = append(searchDirectories, filepath.Dir(hostExecutable))
	}

	process, err := backendSupervisor.Start(supervisor.LaunchSpec{
		ExecutablePath:   ResolveExecutable(cfg.Backend.Executable, runtime.GOOS, searchDirectories),
		Arguments:        cfg.Backend.Arguments,
		ExpectedDigest:   cfg.BackendDigest(),
		Port:             cfg.Backend.Port,
		PortVariable:     cfg.Backend.PortVariable,
		Environment:      cfg.Backend.Environment,
		WorkingDirectory: cfg.Resolve(cfg.Backend.WorkingDirectory),
	})
	if err != nil {
		logger.Warn("continuing without backend", "error", err)
		return
	}

	client, err := backend.New(process.Address(), backend.Options{Logger: logger})
	if err != nil {
		logger.Error("backend address unusable", "address", process.Address(), "error", err)
		return
	}
	check := func(checkContext context.Context) error {
		_, err := client.Health(checkContext)
		return err
	}
	policy := supervisor.ReadinessPolicy{
		InitialInterval: cfg.Backend.Readiness.InitialInterval,
		MaxInterval:     cfg.Backend.Readiness.MaxInterval,
		MaxWait:         cfg.Backend.Readiness.MaxWait,
	}

	err = process.WaitReady(ctx, check, policy)
	var exitError *supervisor.UnexpectedExitError
	switch {
	case err == nil:
	case errors.Is(err, supervisor.ErrReadinessTimeout):
		logger.Warn("backend not ready; UI will start degraded", "error", err)
	case errors.As(err, &exitError):
		logger.Warn("backend exited during startup", "exit_code", exitError.ExitCode)
	case ctx.Err() != nil:
	default:
		logger.Warn("backend readiness check failed", "error", err)
	}
}

// runUI runs the UI command with the gateway socket in its environment
// and waits for it. Cancelling ctx kills the UI.
func runUI(ctx context.Context, command []string, socketPath string, logger *slog.Logger) error {
	ui := exec.CommandContext(ctx, command[0], command[1:]...)
	ui.Env = append(os.Environ(), gateway.SocketEnvironmentVariable+"="+socketPath)
	ui.Stdin = os.Stdin
	ui.Stdout = os.Stdout
	ui.Stderr = os.Stderr

	if err := ui.Start(); err != nil {
		return fmt.Errorf("starting UI %s: %w", command[0], err)
	}
	logger.Info("ui started", "command", command[0], "pid", ui.Process.Pid)

	err := ui.Wait()
	if ctx.Err() != nil {
		logger.Info("host shutting down")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ui %s: %w", command[0], err)
	}
	logger.Info("ui exited; host shutting down")
	return nil
}
