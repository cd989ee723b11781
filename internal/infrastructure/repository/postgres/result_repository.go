package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts the result; a second result for the same document is
// reported as ErrConflict.
func (r *ResultRepository) Create(ctx context.Context, result *domain.PlagiarismResult) error {
	sources := result.Sources
	if sources == nil {
		sources = []domain.SourceMatch{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}
	detailsJSON, err := json.Marshal(result.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO plagiarism_results (id, document_id, plagiarism_score, sources_found, details, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, result.ID, result.DocumentID, result.Score, sourcesJSON, detailsJSON, result.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WrapError(domain.ErrConflict, "insert result", err)
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.PlagiarismResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, document_id, plagiarism_score, sources_found, details, created_at
FROM plagiarism_results
WHERE document_id = $1
`, documentID)

	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrResultNotFound, "get result", fmt.Errorf("document_id=%s", documentID))
		}
		return nil, err
	}
	return result, nil
}

// ListByDocumentIDs fetches every existing result for documentIDs in one query.
func (r *ResultRepository) ListByDocumentIDs(ctx context.Context, documentIDs []string) (map[string]domain.PlagiarismResult, error) {
	out := make(map[string]domain.PlagiarismResult, len(documentIDs))
	if len(documentIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, plagiarism_score, sources_found, details, created_at
FROM plagiarism_results
WHERE document_id = ANY($1)
`, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out[result.DocumentID] = *result
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.PlagiarismResult, error) {
	var result domain.PlagiarismResult
	var sourcesRaw, detailsRaw []byte
	err := row.Scan(&result.ID, &result.DocumentID, &result.Score, &sourcesRaw, &detailsRaw, &result.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}

	if err := json.Unmarshal(sourcesRaw, &result.Sources); err != nil {
		return nil, fmt.Errorf("unmarshal sources: %w", err)
	}
	if err := json.Unmarshal(detailsRaw, &result.Details); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	return &result, nil
}
