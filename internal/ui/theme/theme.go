package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Roadmap
var (
	Phase = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	WeekLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Bullet = lipgloss.NewStyle().
		Foreground(Accent)
)

// Quiz
var (
	Question = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	Option = lipgloss.NewStyle().
		Foreground(Text).
		PaddingLeft(2)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true).
		PaddingLeft(2)
)
