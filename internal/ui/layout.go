package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ComposeLayout joins the main panel and the sightings panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, mainPanel, sidePanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, sidePanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// clampLines pads or truncates a rendered block to exactly height lines.
// lipgloss Height() only sets a minimum; it won't truncate overflow.
func clampLines(rendered string, height int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if w < 0 {
		w = 0
	}
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}

// fill pads s with spaces to width w, measured in terminal cells.
func fill(s string, w int) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
