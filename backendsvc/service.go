// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backendsvc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/deskbridge/deskbridge/lib/clock"
	"github.com/deskbridge/deskbridge/lib/schema/backendapi"
	"github.com/deskbridge/deskbridge/lib/version"
)

// maxRequestBody bounds POST bodies. The only body is {"number": n}.
const maxRequestBody = 4 << 10

// Config configures the service handlers.
type Config struct {
	// Root is the directory listed by GET /files. Defaults to the
	// process working directory.
	Root string

	// Version is reported as backendVersion by GET /system. Defaults
	// to version.Short().
	Version string

	// Clock times the compute endpoint. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives per-request debug records. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Service holds the handler state.
type Service struct {
	root    string
	version string
	clock   clock.Clock
	logger  *slog.Logger
}

// New returns the service's handler.
func New(config Config) http.Handler {
	service := &Service{
		root:    config.Root,
		version: config.Version,
		clock:   config.Clock,
		logger:  config.Logger,
	}
	if service.root == "" {
		service.root = "."
	}
	if service.version == "" {
		service.version = version.Short()
	}
	if service.clock == nil {
		service.clock = clock.Real()
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+backendapi.PathHealth, service.handleHealth)
	mux.HandleFunc("GET "+backendapi.PathSystem, service.handleSystem)
	mux.HandleFunc("GET "+backendapi.PathGreet, service.handleGreet)
	mux.HandleFunc("POST "+backendapi.PathCompute, service.handleCompute)
	mux.HandleFunc("GET "+backendapi.PathFiles, service.handleFiles)
	return withCORS(service.logRequests(mux))
}

// withCORS adds permissive CORS headers and answers preflights.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		header := writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type")

		if request.Method == http.MethodOptions {
			writer.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		s.logger.Debug("request", "method", request.Method, "path", request.URL.Path)
		next.ServeHTTP(writer, request)
	})
}

func (s *Service) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, s.logger, backendapi.HealthStatus{
		Status:    "ok",
		Message:   "backend is running",
		Timestamp: s.clock.Now().UTC(),
	})
}

func (s *Service) handleSystem(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, s.logger, backendapi.SystemInfo{
		OS:             runtime.GOOS,
		Architecture:   runtime.GOARCH,
		CPUCount:       runtime.NumCPU(),
		BackendVersion: s.version,
	})
}

func (s *Service) handleGreet(writer http.ResponseWriter, request *http.Request) {
	name := strings.TrimSpace(request.URL.Query().Get(backendapi.GreetNameParameter))
	if name == "" {
		name = backendapi.DefaultGreetName
	}
	writeJSON(writer, s.logger, backendapi.Greeting{
		Greeting:  fmt.Sprintf("Hello, %s!", name),
		Timestamp: s.clock.Now().UTC(),
	})
}

func (s *Service) handleCompute(writer http.ResponseWriter, request *http.Request) {
	var body backendapi.ComputeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxRequestBody))
	if err := decoder.Decode(&body); err != nil || body.Number == nil {
		http.Error(writer, "Invalid request body", http.StatusBadRequest)
		return
	}

	number := *body.Number
	if number < backendapi.MinComputeInput || number > backendapi.MaxComputeInput {
		http.Error(writer, fmt.Sprintf("Number must be between %d and %d",
			backendapi.MinComputeInput, backendapi.MaxComputeInput), http.StatusBadRequest)
		return
	}

	start := s.clock.Now()
	result := Fibonacci(number)
	elapsed := s.clock.Now().Sub(start)

	writeJSON(writer, s.logger, backendapi.ComputeResult{
		Input:     number,
		Result:    result,
		ElapsedMs: elapsed.Milliseconds(),
	})
}

func (s *Service) handleFiles(writer http.ResponseWriter, request *http.Request) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.logger.Error("listing files failed", "root", s.root, "error", err)
		http.Error(writer, "cannot list directory", http.StatusInternalServerError)
		return
	}

	files := make([]backendapi.FileEntry, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		modTime := info.ModTime().UTC()
		files = append(files, backendapi.FileEntry{
			Name:        entry.Name(),
			IsDirectory: entry.IsDir(),
			Size:        info.Size(),
			ModTime:     &modTime,
		})
	}
	writeJSON(writer, s.logger, files)
}

func writeJSON(writer http.ResponseWriter, logger *slog.Logger, value any) {
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(value); err != nil {
		logger.Debug("writing response failed", "error", err)
	}
}
