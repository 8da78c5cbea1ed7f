package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/taskblaster/internal/board"
)

// Border styles
var (
	StyleFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	StyleUnfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)

// Column header styles
var (
	StyleStatusTodo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)

	StyleStatusInProgress = lipgloss.NewStyle().
				Foreground(lipgloss.Color("yellow")).
				Bold(true)

	StyleStatusInReview = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)

	StyleStatusDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true)
)

// Card styles
var (
	StyleCard = lipgloss.NewStyle().
			Padding(0, 1)

	StyleCardSelected = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("236")).
				Bold(true)

	StyleBlocked = lipgloss.NewStyle().
			Foreground(lipgloss.Color("red"))
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

func statusStyle(s board.Status) lipgloss.Style {
	switch s {
	case board.StatusInProgress:
		return StyleStatusInProgress
	case board.StatusInReview:
		return StyleStatusInReview
	case board.StatusDone:
		return StyleStatusDone
	default:
		return StyleStatusTodo
	}
}

func priorityStyle(p board.Priority) lipgloss.Style {
	switch p {
	case board.PriorityCritical:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	case board.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	case board.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	}
}
