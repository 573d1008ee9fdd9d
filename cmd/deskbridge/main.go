// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Deskbridge is the desktop host. It serves the capability gateway on
// a Unix socket, launches and supervises the backend, and optionally
// runs a UI process that talks to both.
//
// Usage:
//
//	deskbridge [flags] [-- ui-command [args...]]
//
// Without a UI command the host runs until interrupted and logs to
// stderr. With one, the UI owns the terminal and host logs go to
// log.file instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/deskbridge/deskbridge/lib/config"
	"github.com/deskbridge/deskbridge/lib/process"
	"github.com/deskbridge/deskbridge/lib/version"
	"github.com/deskbridge/deskbridge/shell"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		executable  string
		port        int
		socketPath  string
		verbose     bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("deskbridge", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config (default: $"+config.EnvironmentVariable+" or built-in defaults)")
	flagSet.StringVar(&executable, "backend", "", "backend executable, overriding backend.executable")
	flagSet.IntVar(&port, "port", 0, "backend port, overriding backend.port")
	flagSet.StringVar(&socketPath, "socket", "", "gateway socket path, overriding gateway.socket_path")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		version.Print("deskbridge")
		return nil
	}

	var uiCommand []string
	if dash := flagSet.ArgsLenAtDash(); dash >= 0 {
		if dash > 0 {
			return fmt.Errorf("unexpected argument: %s", flagSet.Args()[0])
		}
		uiCommand = flagSet.Args()
	} else if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s (put the UI command after --)", flagSet.Arg(0))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if executable != "" {
		cfg.Backend.Executable = executable
	}
	if port != 0 {
		cfg.Backend.Port = port
	}
	if socketPath != "" {
		cfg.Gateway.SocketPath = socketPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, known := process.ParseLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	logger, closeLog, err := hostLogger(cfg, level, len(uiCommand) > 0)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	slog.SetDefault(logger)
	if len(uiCommand) > 0 {
		fmt.Fprintf(os.Stderr, "deskbridge: logging to %s\n", cfg.Log.File)
	}
	if !known {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
	}

	logger.Info("starting deskbridge",
		"version", version.Info(),
		"environment", cfg.Environment,
		"config", cfg.Path(),
		"backend", cfg.Backend.Executable,
		"port", cfg.Backend.Port,
		"socket_path", cfg.Gateway.SocketPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return shell.Run(ctx, shell.Options{
		Config:    cfg,
		Logger:    logger,
		UICommand: uiCommand,
		OnReady: func(info shell.Runtime) {
			logger.Info("deskbridge ready",
				"socket_path", info.SocketPath,
				"backend_address", info.BackendAddress,
				"backend_status", info.BackendStatus.String(),
			)
		},
	})
}

// hostLogger returns the stderr logger, or a logger on cfg.Log.File
// when a UI process will own the terminal. The closer releases the
// log file.
func hostLogger(cfg *config.Config, level slog.Level, withUI bool) (*slog.Logger, io.Closer, error) {
	if !withUI {
		return process.NewLogger(level), io.NopCloser(nil), nil
	}
	if cfg.Log.File == "" {
		return nil, nil, errors.New("log.file is required when running a UI command")
	}
	logger, file, err := process.NewFileLogger(cfg.Log.File, level)
	if err != nil {
		return nil, nil, err
	}
	return logger, file, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
