// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/deskbridge/deskbridge/lib/codec"
)

// dialTimeout bounds connecting to the gateway socket.
const dialTimeout = 5 * time.Second

// responseTimeout bounds waiting for the host's answer.
const responseTimeout = 10 * time.Second

// maxResponseSize bounds a response.
const maxResponseSize = 64 << 10

// RemoteError is a failure reported by the host.
type RemoteError struct {
	Capability Capability
	Message    string
	denied     bool
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("gateway %s: %s", e.Capability, e.Message)
}

// Is matches ErrCapabilityDenied when the host denied the call.
func (e *RemoteError) Is(target error) bool {
	return e.denied && target == ErrCapabilityDenied
}

// Client invokes host capabilities over the gateway socket. Each call
// opens its own connection; a Client is safe for concurrent use.
type Client struct {
	socketPath string
}

// NewClient returns a client for the socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// NewClientFromEnvironment returns a client for the socket named by
// SocketEnvironmentVariable.
func NewClientFromEnvironment() (*Client, error) {
	socketPath := os.Getenv(SocketEnvironmentVariable)
	if socketPath == "" {
		return nil, fmt.Errorf("%s is not set (is the UI running under the deskbridge host?)", SocketEnvironmentVariable)
	}
	return NewClient(socketPath), nil
}

// AppVersion returns the application version.
func (c *Client) AppVersion(ctx context.Context) (string, error) {
	return c.invoke(ctx, CapabilityAppVersion)
}

// Platform returns the host operating system identifier, e.g.
// "linux", "darwin" or "windows".
func (c *Client) Platform(ctx context.Context) (string, error) {
	return c.invoke(ctx, CapabilityPlatform)
}

// BackendAddress returns the backend's base URL.
func (c *Client) BackendAddress(ctx context.Context) (string, error) {
	return c.invoke(ctx, CapabilityBackendAddress)
}

func (c *Client) invoke(ctx context.Context, capability Capability) (string, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	connection, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return "", fmt.Errorf("connecting to gateway %s: %w", c.socketPath, err)
	}
	defer connection.Close()

	if err := codec.NewEncoder(connection).Encode(request{Capability: string(capability)}); err != nil {
		return "", fmt.Errorf("writing gateway request: %w", err)
	}
	if unixConnection, ok := connection.(*net.UnixConn); ok {
		unixConnection.CloseWrite()
	}

	connection.SetReadDeadline(time.Now().Add(responseTimeout))
	var incoming response
	if err := codec.NewDecoder(io.LimitReader(connection, maxResponseSize)).Decode(&incoming); err != nil {
		return "", fmt.Errorf("reading gateway response: %w", err)
	}
	if !incoming.OK {
		return "", &RemoteError{Capability: capability, Message: incoming.Error, denied: incoming.Denied}
	}
	return incoming.Value, nil
}
