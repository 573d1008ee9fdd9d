// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	SystemInfo key.Binding
	Greet      key.Binding
	Compute    key.Binding
	ListFiles  key.Binding
	Refresh    key.Binding

	// Input mode.
	Submit key.Binding
	Cancel key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	SystemInfo: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "system info"),
	),
	Greet: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "greet"),
	),
	Compute: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "fibonacci"),
	),
	ListFiles: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "files"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reconnect"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) commandHelp() []key.Binding {
	return []key.Binding{k.SystemInfo, k.Greet, k.Compute, k.ListFiles, k.Refresh, k.Quit}
}

func (k KeyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}
