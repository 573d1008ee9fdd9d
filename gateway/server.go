// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/deskbridge/deskbridge/lib/codec"
	"github.com/deskbridge/deskbridge/lib/netutil"
)

// SocketEnvironmentVariable carries the gateway socket path from the
// host to the UI process.
const SocketEnvironmentVariable = "DESKBRIDGE_GATEWAY_SOCKET"

// readTimeout bounds how long a connected client may take to send its
// request.
const readTimeout = 10 * time.Second

// writeTimeout bounds writing the response.
const writeTimeout = 10 * time.Second

// maxRequestSize bounds a request. The only field is a short name.
const maxRequestSize = 4 << 10

// ErrSocketInUse is returned by Serve when another server already
// answers on the socket path.
var ErrSocketInUse = errors.New("gateway socket already in use")

// request is the wire format of one invocation.
type request struct {
	Capability string `cbor:"capability"`
}

// response is the wire format of one result.
type response struct {
	OK     bool   `cbor:"ok"`
	Value  string `cbor:"value,omitempty"`
	Denied bool   `cbor:"denied,omitempty"`
	Error  string `cbor:"error,omitempty"`
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// SocketPath is where the Unix socket is created. Required. The
	// parent directory is created with mode 0700 if missing.
	SocketPath string

	// Gateway answers every request. Required.
	Gateway *Gateway

	// Logger is required.
	Logger *slog.Logger
}

// Server exposes a Gateway on a Unix socket.
type Server struct {
	socketPath string
	gateway    *Gateway
	logger     *slog.Logger

	ready chan struct{}

	// activeConnections lets Serve drain in-flight requests.
	activeConnections sync.WaitGroup
}

// NewServer creates a server for config. Panics on a missing required
// field.
func NewServer(config ServerConfig) *Server {
	if config.SocketPath == "" {
		panic("gateway.Server: SocketPath is required")
	}
	if config.Gateway == nil {
		panic("gateway.Server: Gateway is required")
	}
	if config.Logger == nil {
		panic("gateway.Server: Logger is required")
	}
	return &Server{
		socketPath: config.SocketPath,
		gateway:    config.Gateway,
		logger:     config.Logger,
		ready:      make(chan struct{}),
	}
}

// SocketPath returns the socket file path.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Ready is closed once the socket accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens on the socket until ctx is cancelled, then stops
// accepting and waits for in-flight requests. A stale socket file is
// removed before listening; the socket file is removed on return. If
// a live server already answers on the path, Serve returns
// ErrSocketInUse and leaves it alone.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("creating socket directory: %w", err)
	}
	if connection, err := net.DialTimeout("unix", s.socketPath, time.Second); err == nil {
		connection.Close()
		return fmt.Errorf("%w: %s", ErrSocketInUse, s.socketPath)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		return fmt.Errorf("restricting socket %s: %w", s.socketPath, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("gateway listening", "path", s.socketPath)
	close(s.ready)

	for {
		connection, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("gateway accept failed", "error", err)
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(connection)
		}()
	}

	s.activeConnections.Wait()
	s.logger.Info("gateway stopped")
	return nil
}

func (s *Server) handleConnection(connection net.Conn) {
	defer connection.Close()

	connection.SetReadDeadline(time.Now().Add(readTimeout))

	var incoming request
	if err := codec.NewDecoder(io.LimitReader(connection, maxRequestSize)).Decode(&incoming); err != nil {
		if netutil.IsExpectedCloseError(err) {
			return
		}
		s.write(connection, response{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	value, err := s.gateway.Invoke(Capability(incoming.Capability))
	if err != nil {
		s.write(connection, response{
			Denied: errors.Is(err, ErrCapabilityDenied),
			Error:  err.Error(),
		})
		return
	}
	s.write(connection, response{OK: true, Value: value})
}

func (s *Server) write(connection net.Conn, outgoing response) {
	connection.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(connection).Encode(outgoing); err != nil && !netutil.IsExpectedCloseError(err) {
		s.logger.Debug("writing gateway response failed", "error", err)
	}
}
