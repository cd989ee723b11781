package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ReportUseCase struct {
	docs    ports.DocumentRepository
	results ports.ResultRepository
}

func NewReportUseCase(docs ports.DocumentRepository, results ports.ResultRepository) *ReportUseCase {
	return &ReportUseCase{docs: docs, results: results}
}

func (uc *ReportUseCase) ListDocuments(ctx context.Context, userID string, limit, offset int) ([]domain.DocumentSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := uc.docs.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]domain.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Summary())
	}
	return out, nil
}

// GetDocument hides documents of other users behind ErrDocumentNotFound.
func (uc *ReportUseCase) GetDocument(ctx context.Context, userID, documentID string) (*domain.Document, error) {
	return ownedDocument(ctx, uc.docs, userID, documentID)
}

func (uc *ReportUseCase) GetReport(ctx context.Context, userID, documentID string) (*domain.Report, error) {
	if _, err := ownedDocument(ctx, uc.docs, userID, documentID); err != nil {
		return nil, err
	}
	result, err := uc.results.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	report := domain.NewReport(*result)
	return &report, nil
}

// Dashboard lists the user's documents and preselects the newest one.
func (uc *ReportUseCase) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	docs, err := uc.ListDocuments(ctx, userID, defaultListLimit, 0)
	if err != nil {
		return nil, err
	}

	board := &domain.Dashboard{Documents: docs}
	if len(docs) == 0 {
		return board, nil
	}

	board.SelectedID = docs[0].ID
	result, err := uc.results.GetByDocumentID(ctx, board.SelectedID)
	switch {
	case err == nil:
		report := domain.NewReport(*result)
		board.Report = &report
	case errors.Is(err, domain.ErrResultNotFound):
	default:
		return nil, fmt.Errorf("get selected result: %w", err)
	}
	return board, nil
}

func ownedDocument(ctx context.Context, docs ports.DocumentRepository, userID, documentID string) (*domain.Document, error) {
	doc, err := docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.UserID != userID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", documentID))
	}
	return doc, nil
}
