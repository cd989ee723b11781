package domain

import "time"

type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusCompleted DocumentStatus = "completed"
)

const MimeTypePDF = "application/pdf"

type Document struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Filename   string         `json:"filename"`
	FileSize   int64          `json:"file_size"`
	Content    string         `json:"content,omitempty"`
	StorageKey string         `json:"-"`
	Status     DocumentStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DocumentSummary is the list view of a document; extracted text is never listed.
type DocumentSummary struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	FileSize  int64          `json:"file_size"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

func (d Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:        d.ID,
		Filename:  d.Filename,
		FileSize:  d.FileSize,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}
