package tui

import (
	"fmt"
	"strings"
)

const progressBarWidth = 30

// FormatSizeKB renders a byte count in KB with two decimals.
func FormatSizeKB(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * progressBarWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}

func checkbox(done bool, label string) string {
	if done {
		return SuccessStyle.Render("[x] " + label)
	}
	return InfoStyle.Render("[ ] " + label)
}

func maskPassword(password string) string {
	return strings.Repeat("•", len([]rune(password)))
}
