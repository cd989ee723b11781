package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
	"github.com/kirillkom/plagiarism-report/internal/core/usecase"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/auth"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/extractor/pdftext"
	progressredis "github.com/kirillkom/plagiarism-report/internal/infrastructure/progress/redis"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/queue/nats"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/resilience"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/storage/minio"
)

type App struct {
	Config  config.Config
	Profile config.AnalysisProfile

	Queue ports.MessageQueue
	Docs  ports.DocumentRepository

	UploadUC   ports.DocumentUploader
	AnalyzeUC  *usecase.AnalyzeDocumentUseCase
	ReportUC   ports.ReportReader
	ProgressUC ports.ProgressReader
	ExportUC   ports.ReportExporter
	DownloadUC ports.DocumentFileReader
	AuthUC     ports.Authenticator

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	profile, err := config.ResolveAnalysisProfile(cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	results := postgres.NewResultRepository(db)
	users := postgres.NewUserRepository(db)

	storage, err := newObjectStorage(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{ResilienceExecutor: executor})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	redisClient, err := progressredis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init progress store: %w", err)
	}
	tracker := progressredis.NewTracker(redisClient, progressredis.Options{
		TTL:      time.Duration(cfg.ProgressTTLSeconds) * time.Second,
		Executor: executor,
	})

	uploadUC := usecase.NewUploadDocumentUseCase(docs, storage, pdftext.NewExtractor(), tracker, queue, profile.Steps)
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(docs, results, tracker, usecase.NewResultSynthesizer(nil), usecase.AnalysisTiming{
		Steps:        profile.Steps,
		TickInterval: profile.TickInterval,
		TickStep:     profile.TickStep,
	})
	reportUC := usecase.NewReportUseCase(docs, results)
	progressUC := usecase.NewProgressUseCase(docs, tracker, profile.Steps)
	exportUC := usecase.NewExportReportsUseCase(docs, results, xlsx.NewRenderer())
	downloadUC := usecase.NewDownloadDocumentUseCase(docs, storage)
	authUC := usecase.NewAuthUseCase(users, auth.NewBcryptHasher(0), tokens)

	return &App{
		Config:  cfg,
		Profile: profile,
		Queue:   queue,
		Docs:    docs,

		UploadUC:   uploadUC,
		AnalyzeUC:  analyzeUC,
		ReportUC:   reportUC,
		ProgressUC: progressUC,
		ExportUC:   exportUC,
		DownloadUC: downloadUC,
		AuthUC:     authUC,

		closeFn: func() {
			queue.Close()
			_ = redisClient.Close()
			_ = db.Close()
		},
	}, nil
}

func newObjectStorage(ctx context.Context, cfg config.Config) (ports.ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageBackend)) {
	case "", "localfs":
		return localfs.New(cfg.StoragePath)
	case "minio":
		return minio.New(ctx, minio.Options{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
