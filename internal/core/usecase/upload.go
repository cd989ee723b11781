package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

type UploadDocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	progress  ports.ProgressTracker
	queue     ports.MessageQueue
	firstStep string
	now       func() time.Time
}

func NewUploadDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	progress ports.ProgressTracker,
	queue ports.MessageQueue,
	steps []domain.AnalysisStep,
) *UploadDocumentUseCase {
	firstStep := ""
	if len(steps) > 0 {
		firstStep = steps[0].Label
	}
	return &UploadDocumentUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		progress:  progress,
		queue:     queue,
		firstStep: firstStep,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IsPDF accepts a file when either its declared type or its extension says PDF.
func IsPDF(filename, mimeType string) bool {
	if strings.EqualFold(strings.TrimSpace(mimeType), domain.MimeTypePDF) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func (uc *UploadDocumentUseCase) Upload(
	ctx context.Context,
	userID, filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.WrapError(domain.ErrUnauthorized, "upload", errors.New("missing user"))
	}
	if !IsPDF(filename, mimeType) {
		return nil, domain.NewUserError(domain.ErrUnsupportedFile, domain.MsgPDFRequired, nil)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("empty file"))
	}

	content, err := uc.extractor.Extract(ctx, filename, raw)
	if err != nil {
		return nil, domain.NewUserError(domain.ErrExtraction, err.Error(), nil)
	}

	id := uuid.NewString()
	storageKey := StorageKey(id, filename)
	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(raw)); err != nil {
		return nil, domain.NewUserError(domain.ErrTemporary, domain.MsgUploadFailed, fmt.Errorf("save to object storage: %w", err))
	}

	doc := &domain.Document{
		ID:         id,
		UserID:     userID,
		Filename:   filename,
		FileSize:   int64(len(raw)),
		Content:    content,
		StorageKey: storageKey,
		Status:     domain.StatusPending,
		CreatedAt:  uc.now(),
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		uc.unwindStorage(ctx, storageKey)
		return nil, domain.NewUserError(domain.ErrTemporary, domain.MsgUploadFailed, fmt.Errorf("create document: %w", err))
	}

	if err := uc.progress.Init(ctx, doc.ID, uc.firstStep); err != nil {
		slog.Warn("progress_init_failed", "document_id", doc.ID, "error", err)
	}

	// An unpublished document is never analyzed; remove it with its file.
	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		uc.unwindDocument(ctx, doc.ID)
		uc.unwindStorage(ctx, storageKey)
		return nil, domain.NewUserError(domain.ErrTemporary, domain.MsgUploadFailed, fmt.Errorf("publish upload event: %w", err))
	}

	return doc, nil
}

func (uc *UploadDocumentUseCase) unwindDocument(ctx context.Context, id string) {
	if err := uc.repo.Delete(ctx, id); err != nil {
		slog.Warn("document_unwind_failed", "document_id", id, "error", err)
	}
}

func (uc *UploadDocumentUseCase) unwindStorage(ctx context.Context, key string) {
	if err := uc.storage.Delete(ctx, key); err != nil {
		slog.Warn("storage_unwind_failed", "key", key, "error", err)
	}
}

func StorageKey(documentID, filename string) string {
	return fmt.Sprintf("%s_%s", documentID, sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.pdf"
	}
	return base
}
