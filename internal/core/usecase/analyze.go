package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

// AnalysisTiming drives the simulated analysis. The step loop and the percent
// ticker run independently.
type AnalysisTiming struct {
	Steps        []domain.AnalysisStep
	TickInterval time.Duration
	TickStep     int
}

func DefaultAnalysisTiming() AnalysisTiming {
	return AnalysisTiming{
		Steps:        domain.DefaultAnalysisSteps(),
		TickInterval: 100 * time.Millisecond,
		TickStep:     2,
	}
}

func (t AnalysisTiming) normalize() AnalysisTiming {
	def := DefaultAnalysisTiming()
	if len(t.Steps) == 0 {
		t.Steps = def.Steps
	}
	if t.TickInterval <= 0 {
		t.TickInterval = def.TickInterval
	}
	if t.TickStep <= 0 {
		t.TickStep = def.TickStep
	}
	return t
}

type AnalyzeDocumentUseCase struct {
	docs        ports.DocumentRepository
	results     ports.ResultRepository
	progress    ports.ProgressTracker
	synthesizer *ResultSynthesizer
	timing      AnalysisTiming
	now         func() time.Time
	onResult    func(domain.PlagiarismResult)
}

func NewAnalyzeDocumentUseCase(
	docs ports.DocumentRepository,
	results ports.ResultRepository,
	progress ports.ProgressTracker,
	synthesizer *ResultSynthesizer,
	timing AnalysisTiming,
) *AnalyzeDocumentUseCase {
	if synthesizer == nil {
		synthesizer = NewResultSynthesizer(nil)
	}
	return &AnalyzeDocumentUseCase{
		docs:        docs,
		results:     results,
		progress:    progress,
		synthesizer: synthesizer,
		timing:      timing.normalize(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// OnResult registers a hook called after a result has been persisted.
func (uc *AnalyzeDocumentUseCase) OnResult(hook func(domain.PlagiarismResult)) {
	uc.onResult = hook
}

func (uc *AnalyzeDocumentUseCase) AnalyzeByID(ctx context.Context, documentID string) error {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if doc.Status == domain.StatusCompleted {
		if _, err := uc.results.GetByDocumentID(ctx, documentID); err == nil {
			slog.Info("analysis_skipped", "document_id", documentID, "reason", "already completed")
			uc.finish(ctx, documentID, domain.AnalysisCompleted, "")
			return nil
		}
	}

	tickCtx, stopTicker := context.WithCancel(ctx)
	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		uc.runTicker(tickCtx, documentID)
	}()

	err = uc.runSteps(ctx, documentID)
	if err == nil {
		err = uc.complete(ctx, doc)
	}

	stopTicker()
	<-tickerDone

	if err != nil {
		uc.finish(ctx, documentID, domain.AnalysisFailed, err.Error())
		return err
	}
	uc.finish(ctx, documentID, domain.AnalysisCompleted, "")
	return nil
}

func (uc *AnalyzeDocumentUseCase) runTicker(ctx context.Context, documentID string) {
	ticker := time.NewTicker(uc.timing.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			percent, err := uc.progress.Raise(ctx, documentID, uc.timing.TickStep)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("progress_tick_failed", "document_id", documentID, "error", err)
				}
				continue
			}
			if percent >= domain.ProgressMax {
				return
			}
		}
	}
}

func (uc *AnalyzeDocumentUseCase) runSteps(ctx context.Context, documentID string) error {
	for i, step := range uc.timing.Steps {
		if err := uc.progress.SetStep(ctx, documentID, i, step.Label); err != nil {
			slog.Warn("progress_step_failed", "document_id", documentID, "step", i, "error", err)
		}
		if err := sleepContext(ctx, step.Duration); err != nil {
			return fmt.Errorf("analysis step %d interrupted: %w", i, err)
		}
	}
	return nil
}

// complete persists the generated result before flipping the document status,
// so a completed document always has a result row.
func (uc *AnalyzeDocumentUseCase) complete(ctx context.Context, doc *domain.Document) error {
	result := uc.synthesizer.Synthesize(doc.ID, uc.now())
	err := uc.results.Create(ctx, &result)
	switch {
	case err == nil:
		if uc.onResult != nil {
			uc.onResult(result)
		}
	case domain.IsKind(err, domain.ErrConflict):
		slog.Info("result_already_exists", "document_id", doc.ID)
	default:
		return fmt.Errorf("insert plagiarism result: %w", err)
	}

	if err := uc.docs.UpdateStatus(ctx, doc.ID, domain.StatusCompleted); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

func (uc *AnalyzeDocumentUseCase) finish(ctx context.Context, documentID string, state domain.AnalysisState, errMessage string) {
	if err := uc.progress.Finish(context.WithoutCancel(ctx), documentID, state, errMessage); err != nil {
		slog.Warn("progress_finish_failed", "document_id", documentID, "state", state, "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
