// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Palette colors, ANSI 256.
var (
	colorText    = lipgloss.Color("252")
	colorFaint   = lipgloss.Color("245")
	colorBorder  = lipgloss.Color("240")
	colorAccent  = lipgloss.Color("75")
	colorSuccess = lipgloss.Color("114")
	colorError   = lipgloss.Color("196")
	colorHelp    = lipgloss.Color("241")
)

// Styles holds the lipgloss styles for one output.
type Styles struct {
	Header        lipgloss.Style
	Faint         lipgloss.Style
	Help          lipgloss.Style
	SuccessTitle  lipgloss.Style
	ErrorTitle    lipgloss.Style
	SuccessBox    lipgloss.Style
	ErrorBox      lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
}

// NewStyles builds styles for writer. When noColor is set (or the
// writer is not a terminal) output is plain ASCII.
func NewStyles(writer io.Writer, noColor bool) Styles {
	renderer := lipgloss.NewRenderer(writer)
	if noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return stylesFor(renderer)
}

func stylesFor(renderer *lipgloss.Renderer) Styles {
	box := renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(colorText)
	return Styles{
		Header:        renderer.NewStyle().Bold(true).Foreground(colorAccent),
		Faint:         renderer.NewStyle().Foreground(colorFaint),
		Help:          renderer.NewStyle().Foreground(colorHelp),
		SuccessTitle:  renderer.NewStyle().Bold(true).Foreground(colorSuccess),
		ErrorTitle:    renderer.NewStyle().Bold(true).Foreground(colorError),
		SuccessBox:    box.BorderForeground(colorBorder),
		ErrorBox:      box.BorderForeground(colorError),
		StatusOnline:  renderer.NewStyle().Foreground(colorSuccess),
		StatusOffline: renderer.NewStyle().Foreground(colorError),
	}
}

// Render draws result as a titled box. Lines longer than width are
// truncated by display width; width <= 0 disables truncation.
func (s Styles) Render(result Result, width int) string {
	titleStyle, boxStyle := s.SuccessTitle, s.SuccessBox
	if result.Failed() {
		titleStyle, boxStyle = s.ErrorTitle, s.ErrorBox
	}

	// Border and padding take four columns.
	inner := width - 4
	lines := make([]string, 0, len(result.Lines)+1)
	lines = append(lines, titleStyle.Render(truncate(result.Title, inner)))
	for _, line := range result.Lines {
		lines = append(lines, truncate(line, inner))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func truncate(line string, width int) string {
	if width > 0 && ansi.StringWidth(line) > width {
		return ansi.Truncate(line, width, "…")
	}
	return line
}

// RenderInfo draws the application header line.
func (s Styles) RenderInfo(info HostInfo) string {
	return s.Header.Render("deskbridge v"+info.AppVersion) + "  " +
		s.Faint.Render(info.PlatformName()+" · "+info.BackendAddress)
}
