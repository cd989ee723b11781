package tui

import (
	"errors"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case loggedInMsg:
		return m.handleLoggedIn(msg)
	case fileSelectedMsg:
		return m.handleFileSelected(msg)
	case uploadedMsg:
		return m.handleUploaded(msg)
	case progressMsg:
		return m.handleProgress(msg)
	case pollTickMsg:
		if m.Screen != ScreenProgress || m.Document == nil || m.Document.ID != msg.DocumentID {
			return m, nil
		}
		return m, pollProgressCmd(m.api, msg.DocumentID)
	case completionDoneMsg:
		if m.Screen != ScreenProgress {
			return m, nil
		}
		m.Busy = true
		return m, dashboardCmd(m.api)
	case dashboardMsg:
		return m.handleDashboard(msg)
	case reportMsg:
		return m.handleReport(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.Screen {
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenUpload:
		return m.handleUploadKey(msg)
	case ScreenProgress:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if msg.String() == "esc" && m.Progress != nil && m.Progress.State == domain.AnalysisFailed {
			return m.resetUpload(), nil
		}
	case ScreenDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		return m, nil
	case "enter", "ctrl+r":
		if strings.TrimSpace(m.Email) == "" || m.Password == "" {
			m.Err = "Email et mot de passe requis"
			return m, nil
		}
		m.Busy = true
		m.Err = ""
		m.Notice = ""
		return m, loginCmd(m.api, m.Email, m.Password, msg.String() == "ctrl+r")
	}
	if m.focus == focusEmail {
		m.Email = editText(m.Email, msg)
	} else {
		m.Password = editText(m.Password, msg)
	}
	return m, nil
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.PathInput)
		if path == "" {
			m.Err = domain.MsgPDFRequired
			return m, nil
		}
		if m.File != nil && m.File.Path == path {
			m.Busy = true
			m.Err = ""
			return m, uploadCmd(m.api, path)
		}
		return m, selectFileCmd(path)
	case "ctrl+d":
		m.Busy = true
		return m, dashboardCmd(m.api)
	case "esc":
		m.PathInput = ""
		m.File = nil
		m.Err = ""
		return m, nil
	}
	m.PathInput = editText(m.PathInput, msg)
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "s":
		return m.signOut(), nil
	case "n":
		return m.resetUpload(), nil
	case "r":
		m.Busy = true
		return m, dashboardCmd(m.api)
	case "up", "k":
		return m.selectDocument(m.Selected - 1)
	case "down", "j":
		return m.selectDocument(m.Selected + 1)
	}
	return m, nil
}

func (m Model) selectDocument(index int) (tea.Model, tea.Cmd) {
	if m.Board == nil || index < 0 || index >= len(m.Board.Documents) || index == m.Selected {
		return m, nil
	}
	m.Selected = index
	m.Report = nil
	m.Notice = ""
	m.Err = ""
	return m, reportCmd(m.api, m.selectedDocumentID())
}

func (m Model) handleLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	m.Busy = false
	if msg.Err != nil {
		m.Err = errorText(msg.Err)
		return m, nil
	}
	m.Session = msg.Session
	m.Password = ""
	return m.resetUpload(), nil
}

func (m Model) handleFileSelected(msg fileSelectedMsg) (tea.Model, tea.Cmd) {
	if msg.Path != strings.TrimSpace(m.PathInput) {
		return m, nil
	}
	if msg.Err != nil {
		m.File = nil
		m.Err = errorText(msg.Err)
		return m, nil
	}
	m.File = &selectedFile{Path: msg.Path, Name: msg.Name, Size: msg.Size}
	m.Err = ""
	return m, nil
}

func (m Model) handleUploaded(msg uploadedMsg) (tea.Model, tea.Cmd) {
	m.Busy = false
	if msg.Err != nil {
		m.Err = errorText(msg.Err)
		return m, nil
	}
	m.Screen = ScreenProgress
	m.Document = msg.Document
	m.Progress = nil
	m.Err = ""
	return m, pollProgressCmd(m.api, msg.Document.ID)
}

func (m Model) handleProgress(msg progressMsg) (tea.Model, tea.Cmd) {
	if m.Screen != ScreenProgress || m.Document == nil {
		return m, nil
	}
	if msg.Err != nil {
		m.Err = errorText(msg.Err)
		return m, pollTickCmd(m.opts.PollInterval, m.Document.ID)
	}
	if msg.Progress.DocumentID != m.Document.ID {
		return m, nil
	}
	// Never show the bar going backwards.
	if m.Progress != nil && msg.Progress.Percent < m.Progress.Percent {
		msg.Progress.Percent = m.Progress.Percent
		msg.Progress.Milestones = m.Progress.Milestones
	}
	m.Progress = msg.Progress
	m.Err = ""

	switch msg.Progress.State {
	case domain.AnalysisFailed:
		m.Err = msg.Progress.Error
		if m.Err == "" {
			m.Err = "L'analyse a échoué"
		}
		return m, nil
	case domain.AnalysisCompleted:
		m.Notice = "Analyse terminée"
		return m, completionCmd(m.opts.CompletionDelay, m.Document.ID)
	}
	return m, pollTickCmd(m.opts.PollInterval, m.Document.ID)
}

func (m Model) handleDashboard(msg dashboardMsg) (tea.Model, tea.Cmd) {
	m.Busy = false
	if msg.Err != nil {
		m.Err = errorText(msg.Err)
		if isStatus(msg.Err, http.StatusUnauthorized) {
			return m.signOut(), nil
		}
		return m, nil
	}
	m.Screen = ScreenDashboard
	m.Board = msg.Board
	m.Report = msg.Board.Report
	m.Selected = 0
	for i, doc := range msg.Board.Documents {
		if doc.ID == msg.Board.SelectedID {
			m.Selected = i
			break
		}
	}
	m.Err = ""
	m.Notice = ""
	return m, nil
}

func (m Model) handleReport(msg reportMsg) (tea.Model, tea.Cmd) {
	if msg.DocumentID != m.selectedDocumentID() {
		return m, nil
	}
	if msg.Err != nil {
		if isStatus(msg.Err, http.StatusNotFound) {
			m.Notice = "Analyse en cours pour ce document"
			return m, nil
		}
		m.Err = errorText(msg.Err)
		return m, nil
	}
	m.Report = msg.Report
	return m, nil
}

func editText(value string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return value + string(msg.Runes)
	case tea.KeySpace:
		return value + " "
	case tea.KeyBackspace:
		runes := []rune(value)
		if len(runes) == 0 {
			return value
		}
		return string(runes[:len(runes)-1])
	}
	return value
}

func errorText(err error) string {
	return domain.UserMessage(err, err.Error())
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
