// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for stage summary headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for zero-failure counts
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for failure counts
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the stage summary box
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// countPair is one labelled count in a stage summary.
type countPair struct {
	label string
	value int
	bad   bool // render non-zero values in the error style
}

// formatStageSummary renders a boxed summary for one pipeline stage.
func formatStageSummary(w io.Writer, stage string, pairs []countPair) {
	lines := make([]string, 0, len(pairs)+1)
	lines = append(lines, titleStyle.Render(stage))
	for _, p := range pairs {
		value := fmt.Sprintf("%d", p.value)
		switch {
		case p.bad && p.value > 0:
			value = errorStyle.Render(value)
		case !p.bad:
			value = successStyle.Render(value)
		}
		lines = append(lines, fmt.Sprintf("%s %s", dimStyle.Render(p.label+":"), value))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
