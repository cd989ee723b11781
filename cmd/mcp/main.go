package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	mcpadapter "github.com/kirillkom/plagiarism-report/internal/adapters/mcp"
	"github.com/kirillkom/plagiarism-report/internal/bootstrap"
	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	token := flag.String("token", os.Getenv("PLAGCHECK_TOKEN"), "bearer token of the user whose reports are exposed")
	flag.Parse()

	// stdout carries the MCP protocol.
	logger := logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	userID, err := app.AuthUC.Authenticate(ctx, *token)
	if err != nil {
		logger.Error("mcp token rejected", "error", err)
		os.Exit(1)
	}

	logger.Info("mcp server ready", "user_id", userID)
	if err := mcpadapter.NewServer(app.ReportUC, app.ProgressUC, userID).ServeStdio(); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
