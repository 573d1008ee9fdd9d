// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputMode is which text field, if any, has focus.
type inputMode int

const (
	inputNone inputMode = iota
	inputGreet
	inputCompute
)

// connectedMsg carries the outcome of Connect.
type connectedMsg struct {
	info   HostInfo
	status Result
}

// resultMsg carries the outcome of one action.
type resultMsg struct {
	result Result
}

// Dashboard is the interactive bubbletea model.
type Dashboard struct {
	orchestrator *Orchestrator
	ctx          context.Context
	styles       Styles
	keys         KeyMap

	info      HostInfo
	status    Result
	connected bool
	result    *Result

	mode         inputMode
	nameInput    textinput.Model
	computeInput textinput.Model

	spinner spinner.Model
	pending int

	width int
}

// NewDashboard creates the dashboard. ctx bounds every action it
// issues.
func NewDashboard(ctx context.Context, orchestrator *Orchestrator, styles Styles) Dashboard {
	nameInput := textinput.New()
	nameInput.Placeholder = "World"
	nameInput.Prompt = "Name: "
	nameInput.CharLimit = 64

	computeInput := textinput.New()
	computeInput.Placeholder = "0-45"
	computeInput.Prompt = "n: "
	computeInput.CharLimit = 3

	busy := spinner.New()
	busy.Spinner = spinner.Dot

	return Dashboard{
		orchestrator: orchestrator,
		ctx:          ctx,
		styles:       styles,
		keys:         DefaultKeyMap,
		nameInput:    nameInput,
		computeInput: computeInput,
		spinner:      busy,
		pending:      1,
	}
}

// Init connects and starts the spinner.
func (m Dashboard) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.connect())
}

func (m Dashboard) connect() tea.Cmd {
	return func() tea.Msg {
		info, status := m.orchestrator.Connect(m.ctx)
		return connectedMsg{info: info, status: status}
	}
}

// run wraps an orchestrator action as a command.
func (m Dashboard) run(action func(context.Context) Result) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{result: action(ctx)}
	}
}

// Update handles messages.
func (m Dashboard) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		return m, nil

	case connectedMsg:
		m.pending--
		m.info = message.info
		m.status = message.status
		m.connected = !message.status.Failed()
		return m, nil

	case resultMsg:
		m.pending--
		result := message.result
		m.result = &result
		return m, nil

	case spinner.TickMsg:
		var command tea.Cmd
		m.spinner, command = m.spinner.Update(message)
		return m, command

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(message)
		}
		return m.updateCommand(message)
	}
	return m, nil
}

func (m Dashboard) updateCommand(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(message, m.keys.SystemInfo):
		m.pending++
		return m, m.run(m.orchestrator.SystemInfo)
	case key.Matches(message, m.keys.ListFiles):
		m.pending++
		return m, m.run(m.orchestrator.ListFiles)
	case key.Matches(message, m.keys.Refresh):
		m.pending++
		return m, m.connect()
	case key.Matches(message, m.keys.Greet):
		m.mode = inputGreet
		m.nameInput.SetValue("")
		return m, m.nameInput.Focus()
	case key.Matches(message, m.keys.Compute):
		m.mode = inputCompute
		m.computeInput.SetValue("")
		return m, m.computeInput.Focus()
	}
	return m, nil
}

func (m Dashboard) updateInput(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Cancel):
		m.blur()
		return m, nil
	case key.Matches(message, m.keys.Submit):
		mode := m.mode
		name, number := m.nameInput.Value(), m.computeInput.Value()
		m.blur()
		m.pending++
		if mode == inputGreet {
			return m, m.run(func(ctx context.Context) Result { return m.orchestrator.Greet(ctx, name) })
		}
		return m, m.run(func(ctx context.Context) Result { return m.orchestrator.ComputeInput(ctx, number) })
	}

	var command tea.Cmd
	if m.mode == inputGreet {
		m.nameInput, command = m.nameInput.Update(message)
	} else {
		m.computeInput, command = m.computeInput.Update(message)
	}
	return m, command
}

func (m *Dashboard) blur() {
	m.mode = inputNone
	m.nameInput.Blur()
	m.computeInput.Blur()
}

// View renders the dashboard.
func (m Dashboard) View() string {
	var builder strings.Builder

	if m.info.AppVersion != "" || m.info.BackendAddress != "" {
		builder.WriteString(m.styles.RenderInfo(m.info))
		builder.WriteString("\n")
	}

	switch {
	case m.status.Title == "":
		builder.WriteString(m.styles.Faint.Render("Connecting to backend…"))
	case m.connected:
		builder.WriteString(m.styles.StatusOnline.Render("● Connected to backend"))
	default:
		builder.WriteString(m.styles.StatusOffline.Render("● Backend not available"))
	}
	if m.pending > 0 {
		builder.WriteString(" " + m.spinner.View())
	}
	builder.WriteString("\n\n")

	switch m.mode {
	case inputGreet:
		builder.WriteString(m.nameInput.View() + "\n\n")
	case inputCompute:
		builder.WriteString(m.computeInput.View() + "\n\n")
	}

	if m.result != nil {
		builder.WriteString(m.styles.Render(*m.result, m.width))
		builder.WriteString("\n")
		if m.result.Notice != "" {
			builder.WriteString(m.styles.Faint.Render(m.result.Notice) + "\n")
		}
	} else if m.status.Failed() {
		builder.WriteString(m.styles.Render(m.status, m.width) + "\n")
	}

	builder.WriteString("\n" + m.help())
	return builder.String()
}

func (m Dashboard) help() string {
	bindings := m.keys.commandHelp()
	if m.mode != inputNone {
		bindings = m.keys.inputHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " · "))
}
