package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

type ProgressUseCase struct {
	docs    ports.DocumentRepository
	tracker ports.ProgressTracker
	steps   []domain.AnalysisStep
}

func NewProgressUseCase(docs ports.DocumentRepository, tracker ports.ProgressTracker, steps []domain.AnalysisStep) *ProgressUseCase {
	if len(steps) == 0 {
		steps = domain.DefaultAnalysisSteps()
	}
	return &ProgressUseCase{docs: docs, tracker: tracker, steps: steps}
}

func (uc *ProgressUseCase) GetProgress(ctx context.Context, userID, documentID string) (*domain.Progress, error) {
	doc, err := ownedDocument(ctx, uc.docs, userID, documentID)
	if err != nil {
		return nil, err
	}

	progress, err := uc.tracker.Get(ctx, documentID)
	if err == nil {
		if doc.Status == domain.StatusCompleted && progress.State != domain.AnalysisCompleted {
			return uc.completed(doc), nil
		}
		return progress, nil
	}
	if !errors.Is(err, domain.ErrProgressNotFound) {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	// Tracker entries expire; fall back to the persisted status.
	if doc.Status == domain.StatusCompleted {
		return uc.completed(doc), nil
	}
	return &domain.Progress{
		DocumentID: doc.ID,
		Percent:    domain.ProgressMin,
		Step:       uc.steps[0].Label,
		State:      domain.AnalysisRunning,
		UpdatedAt:  doc.CreatedAt,
	}, nil
}

func (uc *ProgressUseCase) completed(doc *domain.Document) *domain.Progress {
	last := len(uc.steps) - 1
	return &domain.Progress{
		DocumentID: doc.ID,
		Percent:    domain.ProgressMax,
		Step:       uc.steps[last].Label,
		StepIndex:  last,
		State:      domain.AnalysisCompleted,
		UpdatedAt:  doc.CreatedAt,
	}
}
