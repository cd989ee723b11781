package tui

import "github.com/kirillkom/plagiarism-report/internal/core/domain"

type loggedInMsg struct {
	Session *domain.Session
	Err     error
}

type fileSelectedMsg struct {
	Path string
	Name string
	Size int64
	Err  error
}

type uploadedMsg struct {
	Document *domain.DocumentSummary
	Err      error
}

type progressMsg struct {
	Progress *ProgressView
	Err      error
}

type pollTickMsg struct {
	DocumentID string
}

type completionDoneMsg struct {
	DocumentID string
}

type dashboardMsg struct {
	Board *domain.Dashboard
	Err   error
}

type reportMsg struct {
	DocumentID string
	Report     *domain.Report
	Err        error
}
