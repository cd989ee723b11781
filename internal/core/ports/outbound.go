package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// DocumentRepository persists uploaded documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error
	Delete(ctx context.Context, id string) error
}

// ResultRepository persists generated plagiarism results.
type ResultRepository interface {
	Create(ctx context.Context, result *domain.PlagiarismResult) error
	GetByDocumentID(ctx context.Context, documentID string) (*domain.PlagiarismResult, error)
	// ListByDocumentIDs returns the results found, keyed by document id.
	ListByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]domain.PlagiarismResult, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ObjectStorage stores original uploads.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from an uploaded file.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// ProgressTracker stores progress snapshots shared between worker and API.
// Raise never lowers the percent and never exceeds 100.
type ProgressTracker interface {
	Init(ctx context.Context, documentID, step string) error
	Raise(ctx context.Context, documentID string, delta int) (int, error)
	SetStep(ctx context.Context, documentID string, index int, label string) error
	Finish(ctx context.Context, documentID string, state domain.AnalysisState, errMessage string) error
	Get(ctx context.Context, documentID string) (*domain.Progress, error)
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// ReportRenderer writes exported report rows in a file format.
type ReportRenderer interface {
	ContentType() string
	Render(w io.Writer, rows []domain.ReportRow) error
}
