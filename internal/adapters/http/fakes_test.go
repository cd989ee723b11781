package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

const testToken = "good-token"

type uploaderFake struct {
	err        error
	lastUserID string
}

func (f *uploaderFake) Upload(_ context.Context, userID, filename, _ string, body io.Reader) (*domain.Document, error) {
	f.lastUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return &domain.Document{
		ID:        "doc-1",
		UserID:    userID,
		Filename:  filename,
		FileSize:  int64(len(raw)),
		Content:   "extracted",
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type reportsFake struct {
	docs      []domain.DocumentSummary
	doc       *domain.Document
	report    *domain.Report
	err       error
	lastLimit int
	lastOff   int
}

func (f *reportsFake) ListDocuments(_ context.Context, _ string, limit, offset int) ([]domain.DocumentSummary, error) {
	f.lastLimit, f.lastOff = limit, offset
	return f.docs, f.err
}

func (f *reportsFake) GetDocument(context.Context, string, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.doc == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("missing"))
	}
	return f.doc, nil
}

func (f *reportsFake) GetReport(context.Context, string, string) (*domain.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.report == nil {
		return nil, domain.WrapError(domain.ErrResultNotFound, "get result", errors.New("pending"))
	}
	return f.report, nil
}

func (f *reportsFake) Dashboard(context.Context, string) (*domain.Dashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	board := &domain.Dashboard{Documents: f.docs, Report: f.report}
	if len(f.docs) > 0 {
		board.SelectedID = f.docs[0].ID
	}
	return board, nil
}

type progressFake struct {
	progress *domain.Progress
	err      error
}

func (f *progressFake) GetProgress(context.Context, string, string) (*domain.Progress, error) {
	return f.progress, f.err
}

type exporterFake struct {
	err error
}

func (f *exporterFake) ContentType() string { return "application/test" }

func (f *exporterFake) Export(_ context.Context, userID string, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("rows-for-" + userID))
	return err
}

type filesFake struct {
	doc        *domain.Document
	body       string
	err        error
	lastUserID string
	lastID     string
}

func (f *filesFake) OpenOriginal(_ context.Context, userID, documentID string) (*domain.Document, io.ReadCloser, error) {
	f.lastUserID, f.lastID = userID, documentID
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.doc, io.NopCloser(strings.NewReader(f.body)), nil
}

type authFake struct {
	registerErr error
	loginErr    error
}

func (f *authFake) Register(_ context.Context, email, _ string) (*domain.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: "u-1", Email: email, CreatedAt: time.Now().UTC()}, nil
}

func (f *authFake) Login(_ context.Context, email, _ string) (*domain.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &domain.Session{Token: testToken, UserID: "u-1", Email: email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *authFake) Authenticate(_ context.Context, token string) (string, error) {
	if token != testToken {
		return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", errors.New("bad token"))
	}
	return "u-1", nil
}

type metricsFake struct {
	noopMetrics
	mu      sync.Mutex
	uploads []string
	views   []string
}

func (m *metricsFake) RecordUpload(_ string, outcome string, _ int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, outcome)
}

func (m *metricsFake) RecordReportView(_ string, tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, tier)
}

type testDeps struct {
	uploader *uploaderFake
	reports  *reportsFake
	progress *progressFake
	exporter *exporterFake
	files    *filesFake
	auth     *authFake
	metrics  *metricsFake
}

func newTestDeps() *testDeps {
	return &testDeps{
		uploader: &uploaderFake{},
		reports:  &reportsFake{},
		progress: &progressFake{},
		exporter: &exporterFake{},
		files:    &filesFake{},
		auth:     &authFake{},
		metrics:  &metricsFake{},
	}
}

func newTestHandler(t *testing.T, cfg config.Config, deps *testDeps) http.Handler {
	t.Helper()
	router, err := NewRouter(cfg, Dependencies{
		Uploader: deps.uploader,
		Reports:  deps.reports,
		Progress: deps.progress,
		Exporter: deps.exporter,
		Files:    deps.files,
		Auth:     deps.auth,
		Metrics:  deps.metrics,
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return router.Handler()
}

func authorize(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}
