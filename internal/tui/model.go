// Package tui is the terminal client: login, upload, analysis progress and
// the report dashboard.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// API is the part of Client the model drives.
type API interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Upload(ctx context.Context, path string) (*domain.DocumentSummary, error)
	Progress(ctx context.Context, documentID string) (*ProgressView, error)
	Report(ctx context.Context, documentID string) (*domain.Report, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	SetToken(token string)
}

type Screen int

const (
	ScreenLogin Screen = iota
	ScreenUpload
	ScreenProgress
	ScreenDashboard
)

const (
	focusEmail = iota
	focusPassword
)

type Options struct {
	CompletionDelay time.Duration
	PollInterval    time.Duration
}

type selectedFile struct {
	Path string
	Name string
	Size int64
}

type Model struct {
	api  API
	opts Options

	Screen Screen
	Busy   bool
	Err    string
	Notice string

	Email    string
	Password string
	focus    int
	Session  *domain.Session

	PathInput string
	File      *selectedFile

	Document *domain.DocumentSummary
	Progress *ProgressView

	Board    *domain.Dashboard
	Selected int
	Report   *domain.Report
}

func NewModel(api API, opts Options) Model {
	if opts.CompletionDelay <= 0 {
		opts.CompletionDelay = 1500 * time.Millisecond
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	return Model{api: api, opts: opts, Screen: ScreenLogin}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) selectedDocumentID() string {
	if m.Board == nil || m.Selected < 0 || m.Selected >= len(m.Board.Documents) {
		return ""
	}
	return m.Board.Documents[m.Selected].ID
}

// signOut drops the session and every per-user view.
func (m Model) signOut() Model {
	m.api.SetToken("")
	return Model{api: m.api, opts: m.opts, Screen: ScreenLogin, Notice: "Déconnecté"}
}

func (m Model) resetUpload() Model {
	m.Screen = ScreenUpload
	m.PathInput = ""
	m.File = nil
	m.Document = nil
	m.Progress = nil
	m.Err = ""
	m.Busy = false
	return m
}
