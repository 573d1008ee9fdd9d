// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"io"
	"strings"
	"testing"
)

func plainStyles() Styles {
	return NewStyles(io.Discard, true)
}

func TestRenderBox(t *testing.T) {
	output := plainStyles().Render(Result{
		Title: "Greeting",
		Lines: []string{"Hello, Ada!"},
	}, 0)

	lines := strings.Split(output, "\n")
	if len(lines) != 4 {
		t.Fatalf("rendered %d lines, want 4:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[0], "╭") || !strings.HasPrefix(lines[3], "╰") {
		t.Errorf("missing rounded border:\n%s", output)
	}
	if !strings.Contains(lines[1], "Greeting") || !strings.Contains(lines[2], "Hello, Ada!") {
		t.Errorf("unexpected content:\n%s", output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("plain styles emitted escape sequences: %q", output)
	}
}

func TestRenderTruncatesToWidth(t *testing.T) {
	output := plainStyles().Render(Result{
		Title: "Files",
		Lines: []string{"abcdefghijklmnop"},
	}, 10)

	if strings.Contains(output, "abcdefghijklmnop") {
		t.Fatalf("line was not truncated:\n%s", output)
	}
	if !strings.Contains(output, "abcde…") {
		t.Errorf("truncated line missing ellipsis:\n%s", output)
	}
}

func TestRenderInfo(t *testing.T) {
	output := plainStyles().RenderInfo(HostInfo{
		AppVersion:     "2.0.1",
		Platform:       "win32",
		BackendAddress: "http://127.0.0.1:8080",
	})
	want := "deskbridge v2.0.1  Windows · http://127.0.0.1:8080"
	if output != want {
		t.Errorf("RenderInfo = %q, want %q", output, want)
	}
}
