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
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	httpadapter "github.com/kirillkom/plagiarism-report/internal/adapters/http"
	"github.com/kirillkom/plagiarism-report/internal/bootstrap"
	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/observability/logging"
	"github.com/kirillkom/plagiarism-report/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router, err := httpadapter.NewRouter(cfg, httpadapter.Dependencies{
		Uploader: app.UploadUC,
		Reports:  app.ReportUC,
		Progress: app.ProgressUC,
		Exporter: app.ExportUC,
		Files:    app.DownloadUC,
		Auth:     app.AuthUC,
		Metrics:  metrics.NewHTTPServerMetrics("api"),
	})
	if err != nil {
		logger.Error("router init error", "error", err)
		os.Exit(1)
	}

	handler := router.Handler()
	if cfg.APIH2CEnabled {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort, "h2c", cfg.APIH2CEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
