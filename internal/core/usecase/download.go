package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

type DownloadDocumentUseCase struct {
	docs    ports.DocumentRepository
	storage ports.ObjectStorage
}

func NewDownloadDocumentUseCase(docs ports.DocumentRepository, storage ports.ObjectStorage) *DownloadDocumentUseCase {
	return &DownloadDocumentUseCase{docs: docs, storage: storage}
}

// OpenOriginal returns the owned document and a reader over its uploaded PDF.
// The caller closes the reader.
func (uc *DownloadDocumentUseCase) OpenOriginal(ctx context.Context, userID, documentID string) (*domain.Document, io.ReadCloser, error) {
	doc, err := ownedDocument(ctx, uc.docs, userID, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.StorageKey == "" {
		return nil, nil, domain.WrapError(domain.ErrDocumentNotFound, "open original", errors.New("no stored file"))
	}

	body, err := uc.storage.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open original %s: %w", doc.StorageKey, err)
	}
	return doc, body, nil
}
