// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package ui is the terminal user interface: an orchestrator that
// turns user actions into gateway and backend calls, and the views
// that render its results.
//
// [Orchestrator] is the only piece that talks to the outside. It asks
// the host gateway for the application version, platform and backend
// address, then drives a [backend.Client] against that address. Every
// action returns a [Result]; backend failures are converted into
// user-facing messages and never escape as errors.
//
// [Styles] renders Results as lipgloss boxes for one-shot commands.
// [Dashboard] is the interactive bubbletea program built on the same
// orchestrator.
package ui
