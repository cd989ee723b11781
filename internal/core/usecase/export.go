package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

type ExportReportsUseCase struct {
	docs     ports.DocumentRepository
	results  ports.ResultRepository
	renderer ports.ReportRenderer
}

func NewExportReportsUseCase(
	docs ports.DocumentRepository,
	results ports.ResultRepository,
	renderer ports.ReportRenderer,
) *ExportReportsUseCase {
	return &ExportReportsUseCase{docs: docs, results: results, renderer: renderer}
}

func (uc *ExportReportsUseCase) ContentType() string {
	return uc.renderer.ContentType()
}

func (uc *ExportReportsUseCase) Export(ctx context.Context, userID string, w io.Writer) error {
	docs, err := uc.allDocuments(ctx, userID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	results, err := uc.results.ListByDocumentIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	rows := make([]domain.ReportRow, 0, len(docs))
	for _, doc := range docs {
		row := domain.ReportRow{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			FileSize:   doc.FileSize,
			CreatedAt:  doc.CreatedAt,
			Status:     doc.Status,
		}
		if result, ok := results[doc.ID]; ok {
			row.HasResult = true
			row.Score = result.Score
			row.Tier = domain.TierForScore(result.Score)
			row.SourceCount = len(result.Sources)
			row.UniqueContent = result.Details.UniqueContent
			row.TotalWords = result.Details.TotalWords
		}
		rows = append(rows, row)
	}

	if err := uc.renderer.Render(w, rows); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// allDocuments pages through the user's documents until a short page.
func (uc *ExportReportsUseCase) allDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	out := make([]domain.Document, 0)
	for offset := 0; ; offset += maxListLimit {
		page, err := uc.docs.ListByUser(ctx, userID, maxListLimit, offset)
		if err != nil {
			return nil, fmt.Errorf("list documents at offset %d: %w", offset, err)
		}
		out = append(out, page...)
		if len(page) < maxListLimit {
			return out, nil
		}
	}
}
