package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

const requestTimeout = 30 * time.Second

func loginCmd(api API, email, password string, register bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if register {
			if err := api.Register(ctx, email, password); err != nil {
				return loggedInMsg{Err: err}
			}
		}
		session, err := api.Login(ctx, email, password)
		return loggedInMsg{Session: session, Err: err}
	}
}

// selectFileCmd rejects anything but a .pdf before it reaches the API.
func selectFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		path = strings.TrimSpace(path)
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return fileSelectedMsg{Path: path, Err: domain.NewUserError(domain.ErrUnsupportedFile, domain.MsgPDFRequired, nil)}
		}
		info, err := os.Stat(path)
		if err != nil {
			return fileSelectedMsg{Path: path, Err: err}
		}
		if info.IsDir() {
			return fileSelectedMsg{Path: path, Err: domain.NewUserError(domain.ErrUnsupportedFile, domain.MsgPDFRequired, nil)}
		}
		return fileSelectedMsg{Path: path, Name: info.Name(), Size: info.Size()}
	}
}

func uploadCmd(api API, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		doc, err := api.Upload(ctx, path)
		return uploadedMsg{Document: doc, Err: err}
	}
}

func pollProgressCmd(api API, documentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		progress, err := api.Progress(ctx, documentID)
		if err == nil && progress.DocumentID == "" {
			progress.DocumentID = documentID
		}
		return progressMsg{Progress: progress, Err: err}
	}
}

func pollTickCmd(interval time.Duration, documentID string) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{DocumentID: documentID}
	})
}

func completionCmd(delay time.Duration, documentID string) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return completionDoneMsg{DocumentID: documentID}
	})
}

func dashboardCmd(api API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		board, err := api.Dashboard(ctx)
		return dashboardMsg{Board: board, Err: err}
	}
}

func reportCmd(api API, documentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		report, err := api.Report(ctx, documentID)
		return reportMsg{DocumentID: documentID, Report: report, Err: err}
	}
}
