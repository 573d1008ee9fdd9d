// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	"fmt"
	"time"
)

// Check reports whether the backend is accepting requests. A nil
// return means ready.
type Check func(ctx context.Context) error

// ReadinessPolicy bounds the readiness handshake. Zero fields take the
// defaults from DefaultReadinessPolicy.
type ReadinessPolicy struct {
	// InitialInterval is the wait after the first failed check.
	InitialInterval time.Duration

	// MaxInterval caps the doubling backoff.
	MaxInterval time.Duration

	// MaxWait is the total time allowed before ErrReadinessTimeout.
	MaxWait time.Duration

	// CheckTimeout bounds each individual check.
	CheckTimeout time.Duration
}

// DefaultReadinessPolicy returns 50ms initial backoff doubling to 1s,
// with a 10s overall budget.
func DefaultReadinessPolicy() ReadinessPolicy {
	return ReadinessPolicy{
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxWait:         10 * time.Second,
		CheckTimeout:    time.Second,
	}
}

func (p ReadinessPolicy) withDefaults() ReadinessPolicy {
	defaults := DefaultReadinessPolicy()
	if p.InitialInterval <= 0 {
		p.InitialInterval = defaults.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = defaults.MaxInterval
	}
	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = p.InitialInterval
	}
	if p.MaxWait <= 0 {
		p.MaxWait = defaults.MaxWait
	}
	if p.CheckTimeout <= 0 {
		p.CheckTimeout = defaults.CheckTimeout
	}
	return p
}

// WaitReady polls check until it succeeds, then moves the process from
// Starting to Running. Between failed checks it waits with exponential
// backoff, never past the policy's MaxWait.
//
// Errors: ErrReadinessTimeout (wrapped with the last check error) when
// MaxWait elapses, *UnexpectedExitError when the process exits or is
// stopped first, ctx.Err() on cancellation. WaitReady on a process that
// is already Running returns nil without probing.
func (p *BackendProcess) WaitReady(ctx context.Context, check Check, policy ReadinessPolicy) error {
	policy = policy.withDefaults()

	switch p.State() {
	case StateRunning:
		return nil
	case StateExited:
		return p.unexpectedExit()
	}

	start := p.clock.Now()
	deadline := start.Add(policy.MaxWait)
	interval := policy.InitialInterval
	attempts := 0

	for {
		select {
		case <-p.done:
			return p.unexpectedExit()
		default:
		}

		attempts++
		checkContext, cancel := context.WithTimeout(ctx, policy.CheckTimeout)
		err := check(checkContext)
		cancel()

		if err == nil {
			if !p.markRunning() {
				return p.unexpectedExit()
			}
			p.logger.Info("backend ready",
				"pid", p.pid,
				"address", p.Address(),
				"attempts", attempts,
				"elapsed", p.clock.Now().Sub(start),
			)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		remaining := deadline.Sub(p.clock.Now())
		if remaining <= 0 {
			p.logger.Warn("backend did not become ready",
				"pid", p.pid,
				"attempts", attempts,
				"max_wait", policy.MaxWait,
				"error", err,
			)
			return fmt.Errorf("%w after %v (%d attempts): %w", ErrReadinessTimeout, policy.MaxWait, attempts, err)
		}
		p.logger.Debug("backend not ready yet", "attempt", attempts, "error", err)

		select {
		case <-p.done:
			return p.unexpectedExit()
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(min(interval, remaining)):
		}
		interval = min(interval*2, policy.MaxInterval)
	}
}
