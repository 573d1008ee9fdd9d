// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"testing"

	"github.com/deskbridge/deskbridge/backendsvc"
	"github.com/deskbridge/deskbridge/gateway"
	"github.com/deskbridge/deskbridge/lib/service"
)

// helperVariable switches the test binary into a fake backend or a
// fake UI.
const helperVariable = "DESKBRIDGE_SHELL_HELPER"

// uiOutputVariable names the file the fake UI reports into.
const uiOutputVariable = "DESKBRIDGE_SHELL_UI_OUTPUT"

func TestMain(m *testing.M) {
	if mode := os.Getenv(helperVariable); mode != "" {
		os.Exit(runHelper(mode))
	}
	os.Exit(m.Run())
}

func runHelper(mode string) int {
	switch mode {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
		defer stop()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		server := service.NewHTTPServer(service.HTTPServerConfig{
			Address: "127.0.0.1:" + os.Getenv("PORT"),
			Handler: backendsvc.New(backendsvc.Config{Logger: logger}),
			Logger:  logger,
		})
		if err := server.Serve(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "ui":
		client, err := gateway.NewClientFromEnvironment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		platform, err := client.Platform(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		version, err := client.AppVersion(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		report := fmt.Sprintf("%s %s\n", platform, version)
		if err := os.WriteFile(os.Getenv(uiOutputVariable), []byte(report), 0o600); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "ui-fail":
		return 7
	}
	fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", mode)
	return 2
}
