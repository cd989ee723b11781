package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

const (
	colorPrimary = "#3B82F6"
	colorSuccess = "#16A34A"
	colorWarning = "#EA580C"
	colorError   = "#DC2626"
	colorInfo    = "#6B7280"
	colorBorder  = "#93C5FD"
)

var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPrimary)).
		MarginBottom(1)

	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorInfo))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorError))

	SuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSuccess))

	FocusStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorPrimary))

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorBorder)).
		Padding(1, 2)
)

var tierColors = map[string]string{
	"green":  colorSuccess,
	"orange": colorWarning,
	"red":    colorError,
}

func tierStyle(tier domain.ScoreTier) lipgloss.Style {
	color, ok := tierColors[tier.Color]
	if !ok {
		color = colorInfo
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}
