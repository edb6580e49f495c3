package repl

import "github.com/charmbracelet/lipgloss"

var (
	// bannerStyle for the welcome header
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	// errorStyle for recoverable failures
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// noticeStyle for muted status lines
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for confirmations
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)
