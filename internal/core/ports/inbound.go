package ports

import (
	"context"
	"io"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// DocumentUploader is the inbound contract for the upload screen.
type DocumentUploader interface {
	Upload(ctx context.Context, userID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentAnalyzer runs the simulated analysis for one uploaded document.
type DocumentAnalyzer interface {
	AnalyzeByID(ctx context.Context, documentID string) error
}

// ReportReader is the read model behind the dashboard.
type ReportReader interface {
	ListDocuments(ctx context.Context, userID string, limit, offset int) ([]domain.DocumentSummary, error)
	GetDocument(ctx context.Context, userID, documentID string) (*domain.Document, error)
	GetReport(ctx context.Context, userID, documentID string) (*domain.Report, error)
	Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error)
}

// DocumentFileReader streams the original upload back to its owner.
type DocumentFileReader interface {
	OpenOriginal(ctx context.Context, userID, documentID string) (*domain.Document, io.ReadCloser, error)
}

// ReportExporter renders a user's reports into a downloadable file.
type ReportExporter interface {
	ContentType() string
	Export(ctx context.Context, userID string, w io.Writer) error
}

// ProgressReader exposes the analysis progress of a document to its owner.
type ProgressReader interface {
	GetProgress(ctx context.Context, userID, documentID string) (*domain.Progress, error)
}

// Authenticator covers registration, login and bearer token checks.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (string, error)
}
