package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillkom/plagiarism-report/internal/bootstrap"
	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/observability/logging"
	"github.com/kirillkom/plagiarism-report/internal/observability/metrics"
)

const (
	serviceName     = "worker"
	analysisTimeout = 2 * time.Minute
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app.AnalyzeUC.OnResult(func(result domain.PlagiarismResult) {
		workerMetrics.ObserveResult(serviceName, result.Score, len(result.Sources))
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		if doc, err := app.Docs.GetByID(handlerCtx, documentID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(doc.CreatedAt))
		}

		analysisCtx, cancel := context.WithTimeout(handlerCtx, analysisTimeout)
		defer cancel()

		workerMetrics.StartAnalysis()
		started := time.Now()
		err := app.AnalyzeUC.AnalyzeByID(analysisCtx, documentID)
		workerMetrics.FinishAnalysis(serviceName, time.Since(started), err)
		if err != nil {
			return err
		}
		logger.Info("analysis completed", "document_id", documentID, "duration_ms", time.Since(started).Milliseconds())
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker subscribe error", "error", err)
		os.Exit(1)
	}
}
