// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Deskbridge-backend is the local HTTP backend launched by the host.
// It listens on 127.0.0.1 at the port named by $PORT (default 8080)
// and serves the health, system, greet, compute and files endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/deskbridge/deskbridge/backend"
	"github.com/deskbridge/deskbridge/backendsvc"
	"github.com/deskbridge/deskbridge/lib/process"
	"github.com/deskbridge/deskbridge/lib/schema/backendapi"
	"github.com/deskbridge/deskbridge/lib/service"
	"github.com/deskbridge/deskbridge/lib/version"
)

const defaultPort = 8080

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

// options holds the parsed flags.
type options struct {
	root        string
	portName    string
	verbose     bool
	showVersion bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("deskbridge-backend", pflag.ContinueOnError)
	flagSet.StringVar(&opts.root, "root", ".", "directory listed by "+backendapi.PathFiles)
	flagSet.StringVar(&opts.portName, "port-env", "PORT", "environment variable holding the listen port")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	return flagSet
}

func run() error {
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.showVersion {
		version.Print("deskbridge-backend")
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	port, err := listenPort(os.Getenv(opts.portName))
	if err != nil {
		return fmt.Errorf("$%s: %w", opts.portName, err)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := process.NewLogger(level)
	slog.SetDefault(logger)

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address: net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		Handler: backendsvc.New(backendsvc.Config{
			Root:    opts.root,
			Version: version.Short(),
			Logger:  logger,
		}),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		select {
		case <-server.Ready():
		case <-ctx.Done():
			return
		}
		logger.Info("backend listening", "address", server.Addr().String(), "version", version.Info())
		for _, endpoint := range backend.Endpoints() {
			logger.Debug("endpoint", "operation", endpoint.Operation, "method", endpoint.Method, "path", endpoint.Path)
		}
	}()

	return server.Serve(ctx)
}

// listenPort parses the port variable. Empty means the default.
func listenPort(raw string) (int, error) {
	if raw == "" {
		return defaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", raw)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}
