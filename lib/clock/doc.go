// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that waits (readiness backoff in the supervisor, for example)
// takes a [Clock] instead of calling time.Now or time.After directly.
// Production wiring uses [Real]; tests use [Fake], whose time moves
// only when [FakeClock.Advance] is called.
//
// A goroutine blocked in After on a FakeClock registers a
// pending timer. Tests call [FakeClock.WaitForTimers] before Advance
// so that the advance cannot race ahead of the registration:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go supervisor.WaitReady(ctx, check, policy)
//	fake.WaitForTimers(1)
//	fake.Advance(time.Second)
package clock
