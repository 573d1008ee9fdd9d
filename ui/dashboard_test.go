// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// send delivers message and returns the updated dashboard.
func send(t *testing.T, model Dashboard, message tea.Msg) (Dashboard, tea.Cmd) {
	t.Helper()
	updated, command := model.Update(message)
	dashboard, ok := updated.(Dashboard)
	if !ok {
		t.Fatalf("Update returned %T, want Dashboard", updated)
	}
	return dashboard, command
}

// finish runs an action command and feeds its message back.
func finish(t *testing.T, model Dashboard, command tea.Cmd) Dashboard {
	t.Helper()
	if command == nil {
		t.Fatal("expected a command")
	}
	model, _ = send(t, model, command())
	return model
}

func connectedDashboard(t *testing.T) Dashboard {
	t.Helper()
	address, _ := startBackend(t)
	orchestrator := NewOrchestrator(&stubGateway{address: address}, Options{Logger: discardLogger()})
	model := NewDashboard(context.Background(), orchestrator, plainStyles())
	return finish(t, model, model.connect())
}

func TestDashboardConnect(t *testing.T) {
	model := connectedDashboard(t)
	if !model.connected {
		t.Fatalf("dashboard not connected: %q", model.status.Lines)
	}
	if model.pending != 0 {
		t.Errorf("pending = %d after connect", model.pending)
	}
	view := model.View()
	for _, want := range []string{"deskbridge v2.0.1", "macOS", "Connected to backend", "s system info"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDashboardOffline(t *testing.T) {
	orchestrator := NewOrchestrator(&stubGateway{address: closedAddress(t)}, Options{Logger: discardLogger()})
	model := NewDashboard(context.Background(), orchestrator, plainStyles())
	if !strings.Contains(model.View(), "Connecting to backend") {
		t.Errorf("initial view does not say it is connecting:\n%s", model.View())
	}

	model = finish(t, model, model.connect())
	if model.connected {
		t.Fatal("dashboard connected to a closed port")
	}
	if !strings.Contains(model.View(), "Backend not available") {
		t.Errorf("view does not report the backend offline:\n%s", model.View())
	}
}

func TestDashboardGreet(t *testing.T) {
	model := connectedDashboard(t)

	model, _ = send(t, model, runes("g"))
	if model.mode != inputGreet {
		t.Fatalf("mode = %d after g, want greet input", model.mode)
	}
	// Keys go to the input while it has focus.
	model, _ = send(t, model, runes("Ada"))
	model, _ = send(t, model, runes("q"))
	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := model.nameInput.Value(); got != "Ada" {
		t.Fatalf("name input = %q, want Ada", got)
	}

	model, command := send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.mode != inputNone {
		t.Errorf("input still focused after enter")
	}
	model = finish(t, model, command)
	if !strings.Contains(model.View(), "Hello, Ada!") {
		t.Errorf("view missing greeting:\n%s", model.View())
	}
}

func TestDashboardComputeValidation(t *testing.T) {
	model := connectedDashboard(t)

	model, _ = send(t, model, runes("c"))
	model, _ = send(t, model, runes("99"))
	model, command := send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model = finish(t, model, command)

	if model.result == nil || !model.result.Failed() {
		t.Fatalf("out-of-range input did not fail: %+v", model.result)
	}
	if !strings.Contains(model.View(), "Please enter a number between 0 and 45") {
		t.Errorf("view missing range message:\n%s", model.View())
	}
}

func TestDashboardFiles(t *testing.T) {
	model := connectedDashboard(t)
	model, command := send(t, model, runes("f"))
	if model.pending != 1 {
		t.Errorf("pending = %d while listing files", model.pending)
	}
	model = finish(t, model, command)

	view := model.View()
	for _, want := range []string{"📁 data", "notes.txt (1.5 KB)", "Found 2 files/folders"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDashboardCancelInput(t *testing.T) {
	model := connectedDashboard(t)
	model, _ = send(t, model, runes("c"))
	model, command := send(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.mode != inputNone || command != nil {
		t.Errorf("esc left mode %d with command %v", model.mode, command)
	}
	if model.result != nil {
		t.Errorf("cancelled input produced a result")
	}
}

func TestDashboardQuit(t *testing.T) {
	model := connectedDashboard(t)
	for _, message := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, command := send(t, model, message)
		if command == nil {
			t.Fatalf("%s returned no command", message)
		}
		if _, ok := command().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", message)
		}
	}
}

func TestDashboardWindowSize(t *testing.T) {
	model := connectedDashboard(t)
	model, _ = send(t, model, tea.WindowSizeMsg{Width: 12, Height: 40})
	model, command := send(t, model, runes("s"))
	model = finish(t, model, command)
	if model.result == nil || model.result.Failed() {
		t.Fatalf("system info failed: %+v", model.result)
	}

	for _, line := range strings.Split(model.View(), "\n") {
		if strings.HasPrefix(line, "│") && len([]rune(line)) > 12 {
			t.Errorf("box line wider than window: %q", line)
		}
	}
}
