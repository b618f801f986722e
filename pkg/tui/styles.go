// Package tui implements the interactive claim-intake chat interface.
// It renders the conversation transcript in a scrollable viewport with a
// phase and progress header, and reads user turns from a textarea.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

// --- Header styles ---

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan).
	Padding(0, 1)

var phaseBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorYellow).
	Padding(0, 1)

var escalatedBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorRed).
	Padding(0, 1)

var completeBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorGreen).
	Padding(0, 1)

var progressStyle = lipgloss.NewStyle().
	Foreground(colorDim).
	Padding(0, 1)

// --- Transcript styles ---

var (
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	userTextStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	thinkingStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(colorDim)
)

// --- Key bar styles ---

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	keyBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// --- Error style ---

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)
