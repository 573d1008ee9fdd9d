// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/deskbridge/deskbridge/backend"
	"github.com/deskbridge/deskbridge/lib/schema/backendapi"
)

// Gateway is the host surface the UI may use. *gateway.Client
// implements it.
type Gateway interface {
	AppVersion(ctx context.Context) (string, error)
	Platform(ctx context.Context) (string, error)
	BackendAddress(ctx context.Context) (string, error)
}

// ResultKind marks a Result as a success or a failure.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultError
)

// Result is the user-visible outcome of one action.
type Result struct {
	Title string
	Kind  ResultKind
	Lines []string

	// Notice is a short one-line summary suitable for a toast.
	Notice string
}

// Failed reports whether the result describes a failure.
func (r Result) Failed() bool {
	return r.Kind == ResultError
}

// HostInfo is what the gateway reported at Connect.
type HostInfo struct {
	AppVersion     string
	Platform       string
	BackendAddress string
}

// PlatformName returns the display name of the host platform.
func (h HostInfo) PlatformName() string {
	return PlatformName(h.Platform)
}

// Options configures an Orchestrator.
type Options struct {
	// HTTPClient is passed to the backend client.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Orchestrator runs UI actions. Actions may run concurrently; each one
// issues at most one backend call.
type Orchestrator struct {
	gateway    Gateway
	httpClient *http.Client
	logger     *slog.Logger

	mutex  sync.Mutex
	info   HostInfo
	client *backend.Client
}

// NewOrchestrator creates an orchestrator over gateway. Call Connect
// before any backend action.
func NewOrchestrator(gateway Gateway, options Options) *Orchestrator {
	if gateway == nil {
		panic("ui.NewOrchestrator: gateway is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gateway:    gateway,
		httpClient: options.HTTPClient,
		logger:     logger,
	}
}

// Info returns the host information from the last Connect.
func (o *Orchestrator) Info() HostInfo {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.info
}

// Connect reads the host information through the gateway, points the
// backend client at the reported address and checks its health. The
// returned Result is the backend status.
func (o *Orchestrator) Connect(ctx context.Context) (HostInfo, Result) {
	var info HostInfo
	var errs []error

	version, err := o.gateway.AppVersion(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	info.AppVersion = version

	platform, err := o.gateway.Platform(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	info.Platform = platform

	address, err := o.gateway.BackendAddress(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	info.BackendAddress = address

	var client *backend.Client
	if address != "" {
		client, err = backend.New(address, backend.Options{HTTPClient: o.httpClient, Logger: o.logger})
		if err != nil {
			errs = append(errs, err)
		}
	}

	o.mutex.Lock()
	o.info = info
	o.client = client
	o.mutex.Unlock()

	if len(errs) > 0 {
		err := errors.Join(errs...)
		o.logger.Warn("reading host information failed", "error", err)
		return info, Result{
			Title:  "Host",
			Kind:   ResultError,
			Lines:  []string{"Could not reach the host: " + err.Error()},
			Notice: "Host not available",
		}
	}
	return info, o.Status(ctx)
}

func (o *Orchestrator) backendClient() *backend.Client {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.client
}

// Status checks the backend's health endpoint.
func (o *Orchestrator) Status(ctx context.Context) Result {
	const title = "Backend status"
	client := o.backendClient()
	if client == nil {
		return notConnected(title)
	}

	health, err := client.Health(ctx)
	if err != nil {
		result := o.failure(title, backend.OperationHealth, err)
		result.Lines = append([]string{"Backend not available ✗"}, result.Lines...)
		result.Notice = "Backend is not running"
		return result
	}
	lines := []string{"Connected to backend ✓", "Server: " + client.BaseURL()}
	if health.Message != "" {
		lines = append(lines, health.Message)
	}
	return Result{Title: title, Kind: ResultSuccess, Lines: lines}
}

// SystemInfo fetches the backend's system information.
func (o *Orchestrator) SystemInfo(ctx context.Context) Result {
	const title = "System information"
	client := o.backendClient()
	if client == nil {
		return notConnected(title)
	}

	info, err := client.SystemInfo(ctx)
	if err != nil {
		return o.failure(title, backend.OperationSystemInfo, err)
	}
	return Result{
		Title: title,
		Kind:  ResultSuccess,
		Lines: []string{
			"Operating System: " + PlatformName(info.OS),
			"Architecture: " + info.Architecture,
			"CPU Cores: " + strconv.Itoa(info.CPUCount),
			"Backend Version: " + info.BackendVersion,
		},
		Notice: "System info retrieved successfully!",
	}
}

// Greet asks the backend to greet name. A blank name is greeted as
// World by the backend.
func (o *Orchestrator) Greet(ctx context.Context, name string) Result {
	const title = "Greeting"
	client := o.backendClient()
	if client == nil {
		return notConnected(title)
	}

	greeting, err := client.Greet(ctx, name)
	if err != nil {
		return o.failure(title, backend.OperationGreet, err)
	}
	return Result{
		Title: title,
		Kind:  ResultSuccess,
		Lines: []string{
			greeting.Greeting,
			"Time: " + greeting.Timestamp.Local().Format(time.DateTime),
		},
	}
}

// ComputeInput parses raw as the Fibonacci input and computes it.
// Non-numeric and out-of-range input is rejected without a call.
func (o *Orchestrator) ComputeInput(ctx context.Context, raw string) Result {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return computeRangeError()
	}
	return o.Compute(ctx, number)
}

// Compute asks the backend for Fibonacci(number).
func (o *Orchestrator) Compute(ctx context.Context, number int) Result {
	const title = "Fibonacci"
	if backend.ValidateComputeInput(number) != nil {
		return computeRangeError()
	}
	client := o.backendClient()
	if client == nil {
		return notConnected(title)
	}

	result, err := client.Compute(ctx, number)
	if err != nil {
		return o.failure(title, backend.OperationCompute, err)
	}
	return Result{
		Title: title,
		Kind:  ResultSuccess,
		Lines: []string{
			fmt.Sprintf("Fibonacci(%d) = %d", result.Input, result.Result),
			fmt.Sprintf("Computation time: %dms", result.ElapsedMs),
		},
		Notice: fmt.Sprintf("Computed in %dms!", result.ElapsedMs),
	}
}

// ListFiles lists the backend's working directory.
func (o *Orchestrator) ListFiles(ctx context.Context) Result {
	const title = "Files"
	client := o.backendClient()
	if client == nil {
		return notConnected(title)
	}

	files, err := client.ListFiles(ctx)
	if err != nil {
		return o.failure(title, backend.OperationListFiles, err)
	}
	if len(files) == 0 {
		return Result{Title: title, Kind: ResultSuccess, Lines: []string{"No files found"}}
	}

	lines := make([]string, 0, len(files)+1)
	lines = append(lines, "Files in backend directory:")
	for _, file := range files {
		lines = append(lines, fileLine(file))
	}
	return Result{
		Title:  title,
		Kind:   ResultSuccess,
		Lines:  lines,
		Notice: fmt.Sprintf("Found %d files/folders", len(files)),
	}
}

func fileLine(file backendapi.FileEntry) string {
	if file.IsDirectory {
		return "📁 " + file.Name
	}
	return fmt.Sprintf("📄 %s (%s)", file.Name, FormatBytes(file.Size))
}

// failure converts a backend error into a Result and logs it.
func (o *Orchestrator) failure(title string, operation backend.Operation, err error) Result {
	o.logger.Debug("backend action failed", "operation", operation, "error", err)
	return Result{
		Title: title,
		Kind:  ResultError,
		Lines: []string{"Error: " + DescribeError(err)},
	}
}

// DescribeError returns the user-facing text for a backend call error.
func DescribeError(err error) string {
	var callError *backend.CallError
	if !errors.As(err, &callError) {
		return err.Error()
	}
	switch callError.Kind {
	case backend.KindUnreachable:
		return "backend not available"
	case backend.KindBackendRejected:
		if callError.Message != "" {
			return fmt.Sprintf("backend returned HTTP %d: %s", callError.StatusCode, callError.Message)
		}
		return fmt.Sprintf("backend returned HTTP %d", callError.StatusCode)
	case backend.KindMalformed:
		return "backend sent an unexpected response"
	case backend.KindValidation:
		return callError.Message
	}
	return err.Error()
}

func computeRangeError() Result {
	return Result{
		Title: "Fibonacci",
		Kind:  ResultError,
		Lines: []string{fmt.Sprintf("Please enter a number between %d and %d",
			backendapi.MinComputeInput, backendapi.MaxComputeInput)},
	}
}

func notConnected(title string) Result {
	return Result{
		Title: title,
		Kind:  ResultError,
		Lines: []string{"Error: backend not available (address unknown)"},
	}
}
