// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"fmt"
	"log/slog"
)

// Gateway dispatches capability invocations to a Host.
type Gateway struct {
	handlers map[Capability]func() string
	logger   *slog.Logger
}

// New builds a gateway over host. Panics if host is nil.
func New(host Host, logger *slog.Logger) *Gateway {
	if host == nil {
		panic("gateway.New: host is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		handlers: map[Capability]func() string{
			CapabilityAppVersion:     host.AppVersion,
			CapabilityPlatform:       host.Platform,
			CapabilityBackendAddress: host.BackendAddress,
		},
		logger: logger,
	}
}

// Invoke runs capability and returns its value. Names outside the
// closed set fail with an error matching ErrCapabilityDenied.
func (g *Gateway) Invoke(capability Capability) (string, error) {
	handler, ok := g.handlers[capability]
	if !ok {
		g.logger.Warn("capability denied", "capability", string(capability))
		return "", fmt.Errorf("%w: %q", ErrCapabilityDenied, capability)
	}
	value := handler()
	g.logger.Debug("capability invoked", "capability", string(capability))
	return value, nil
}
