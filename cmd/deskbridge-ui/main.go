// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Deskbridge-ui is the terminal front end. The host starts it with
// the gateway socket in $DESKBRIDGE_GATEWAY_SOCKET; from there it
// learns the backend address and calls the backend directly.
//
// Usage:
//
//	deskbridge-ui [flags] [command] [args]
//
// Commands are info, status, system, greet [--name] [name], compute <n>,
// files and dashboard. Global flags go before the command. With no
// command the interactive dashboard runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/deskbridge/deskbridge/gateway"
	"github.com/deskbridge/deskbridge/lib/process"
	"github.com/deskbridge/deskbridge/lib/version"
	"github.com/deskbridge/deskbridge/ui"
)

// exitCode ends the program with a status but no error report; the
// failure has already been rendered.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitCode) ExitCode() int { return int(e) }

func main() {
	if err := run(); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

// invocation is the parsed command line.
type invocation struct {
	socketPath  string
	noColor     bool
	verbose     bool
	showVersion bool
	help        bool

	command   string
	name      string
	arguments []string
}

// parseArguments parses global flags up to the command, then the
// command's own arguments. Compute arguments are taken verbatim so that
// a negative number reaches the range check instead of the flag parser.
func parseArguments(args []string) (*invocation, error) {
	parsed := &invocation{command: "dashboard"}

	flagSet := pflag.NewFlagSet("deskbridge-ui", pflag.ContinueOnError)
	flagSet.StringVar(&parsed.socketPath, "socket", "", "gateway socket (default: $"+gateway.SocketEnvironmentVariable+")")
	flagSet.BoolVar(&parsed.noColor, "no-color", false, "disable colors")
	flagSet.BoolVarP(&parsed.verbose, "verbose", "v", false, "log at debug level")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")
	flagSet.SetInterspersed(false)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			parsed.help = true
			return parsed, nil
		}
		return nil, err
	}
	if flagSet.NArg() == 0 {
		return parsed, nil
	}
	parsed.command, parsed.arguments = flagSet.Arg(0), flagSet.Args()[1:]

	switch parsed.command {
	case "greet":
		greetFlags := pflag.NewFlagSet("greet", pflag.ContinueOnError)
		greetFlags.StringVar(&parsed.name, "name", "", "name to greet (default: World)")
		if err := greetFlags.Parse(parsed.arguments); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				parsed.help = true
				return parsed, nil
			}
			return nil, fmt.Errorf("greet: %w", err)
		}
		parsed.arguments = nil
		if parsed.name == "" {
			parsed.name = strings.Join(greetFlags.Args(), " ")
		} else if greetFlags.NArg() > 0 {
			return nil, fmt.Errorf("greet: use either --name or a positional name")
		}
	case "compute":
		arguments := parsed.arguments
		if len(arguments) > 0 && arguments[0] == "--" {
			arguments = arguments[1:]
		}
		if len(arguments) != 1 {
			return nil, fmt.Errorf("usage: deskbridge-ui compute <n>")
		}
		parsed.arguments = arguments
	case "info", "status", "system", "files", "dashboard":
		if len(parsed.arguments) > 0 {
			return nil, fmt.Errorf("%s takes no arguments", parsed.command)
		}
	default:
		return nil, fmt.Errorf("unknown command %q (want info, status, system, greet, compute, files or dashboard)", parsed.command)
	}
	return parsed, nil
}

func run() error {
	parsed, err := parseArguments(os.Args[1:])
	if err != nil {
		return err
	}
	if parsed.help {
		return nil
	}
	if parsed.showVersion {
		version.Print("deskbridge-ui")
		return nil
	}

	level := slog.LevelWarn
	if parsed.verbose {
		level = slog.LevelDebug
	}
	logger := process.NewLogger(level)

	client, err := gatewayClient(parsed.socketPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := ui.NewOrchestrator(client, ui.Options{Logger: logger})
	styles := ui.NewStyles(os.Stdout, parsed.noColor || os.Getenv("NO_COLOR") != "")

	if parsed.command == "dashboard" {
		program := tea.NewProgram(ui.NewDashboard(ctx, orchestrator, styles), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}

	info, status := orchestrator.Connect(ctx)
	var result ui.Result
	switch parsed.command {
	case "info":
		fmt.Fprintln(os.Stdout, styles.RenderInfo(info))
		return nil
	case "status":
		result = status
	case "system":
		result = orchestrator.SystemInfo(ctx)
	case "greet":
		result = orchestrator.Greet(ctx, parsed.name)
	case "compute":
		result = orchestrator.ComputeInput(ctx, parsed.arguments[0])
	case "files":
		result = orchestrator.ListFiles(ctx)
	}
	return printResult(os.Stdout, styles, result)
}

func gatewayClient(socketPath string) (*gateway.Client, error) {
	if socketPath != "" {
		return gateway.NewClient(socketPath), nil
	}
	client, err := gateway.NewClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("%w; pass --socket to connect directly", err)
	}
	return client, nil
}

func printResult(writer io.Writer, styles ui.Styles, result ui.Result) error {
	fmt.Fprintln(writer, styles.Render(result, 0))
	if result.Notice != "" {
		fmt.Fprintln(writer, styles.Faint.Render(result.Notice))
	}
	if result.Failed() {
		return exitCode(1)
	}
	return nil
}
