package usecase

import (
	"context"
	"testing"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

func TestGetProgressReturnsTrackerSnapshot(t *testing.T) {
	docs := newDocRepoFake(domain.Document{ID: "d", UserID: "u-1", Status: domain.StatusPending})
	tracker := newTrackerFake()
	_ = tracker.Init(context.Background(), "d", "first")
	_, _ = tracker.Raise(context.Background(), "d", 40)
	uc := NewProgressUseCase(docs, tracker, nil)

	p, err := uc.GetProgress(context.Background(), "u-1", "d")
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.Percent != 40 || p.Step != "first" {
		t.Fatalf("unexpected progress %+v", p)
	}
	m := p.Milestones()
	if !m.Uploaded || !m.ContentAnalyzed || m.SourcesFound || m.ReportGenerated {
		t.Fatalf("unexpected milestones %+v", m)
	}
}

func TestGetProgressFallsBackToCompletedStatus(t *testing.T) {
	docs := newDocRepoFake(domain.Document{ID: "d", UserID: "u-1", Status: domain.StatusCompleted})
	uc := NewProgressUseCase(docs, newTrackerFake(), nil)

	p, err := uc.GetProgress(context.Background(), "u-1", "d")
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.Percent != 100 || p.State != domain.AnalysisCompleted {
		t.Fatalf("expected completed progress, got %+v", p)
	}
}

func TestGetProgressPendingWithoutTrackerEntry(t *testing.T) {
	docs := newDocRepoFake(domain.Document{ID: "d", UserID: "u-1", Status: domain.StatusPending})
	uc := NewProgressUseCase(docs, newTrackerFake(), nil)

	p, err := uc.GetProgress(context.Background(), "u-1", "d")
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if p.Percent != 0 || p.State != domain.AnalysisRunning {
		t.Fatalf("expected zero running progress, got %+v", p)
	}
}

func TestGetProgressRejectsForeignDocument(t *testing.T) {
	docs := newDocRepoFake(domain.Document{ID: "d", UserID: "u-2"})
	uc := NewProgressUseCase(docs, newTrackerFake(), nil)

	if _, err := uc.GetProgress(context.Background(), "u-1", "d"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
