package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/routers"
	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/plagiarism-report/internal/config"
	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

const (
	serviceName        = "api"
	multipartMemory    = 8 << 20
	backpressureWait   = 250 * time.Millisecond
	defaultMaxUploadMB = 20
)

// Metrics is the part of the Prometheus recorder the router reports to.
type Metrics interface {
	Middleware(service string, next http.Handler) http.Handler
	Handler() http.Handler
	RecordUpload(service, outcome string, size int64)
	RecordAuthAttempt(service, action string, err error)
	RecordExport(service string, err error)
	RecordReportView(service, tier string)
}

type Dependencies struct {
	Uploader ports.DocumentUploader
	Reports  ports.ReportReader
	Progress ports.ProgressReader
	Exporter ports.ReportExporter
	Files    ports.DocumentFileReader
	Auth     ports.Authenticator
	Metrics  Metrics
}

type Router struct {
	uploader ports.DocumentUploader
	reports  ports.ReportReader
	progress ports.ProgressReader
	exporter ports.ReportExporter
	files    ports.DocumentFileReader
	auth     ports.Authenticator
	metrics  Metrics
	openAPI  routers.Router

	maxUploadBytes int64
	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
}

func NewRouter(cfg config.Config, deps Dependencies) (*Router, error) {
	openAPI, err := loadOpenAPIRouter(context.Background())
	if err != nil {
		return nil, err
	}
	maxUploadMB := cfg.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Router{
		uploader:       deps.Uploader,
		reports:        deps.Reports,
		progress:       deps.Progress,
		exporter:       deps.Exporter,
		files:          deps.Files,
		auth:           deps.Auth,
		metrics:        metrics,
		openAPI:        openAPI,
		maxUploadBytes: int64(maxUploadMB) << 20,
		rateLimitRPS:   cfg.APIRateLimitRPS,
		rateLimitBurst: cfg.APIRateLimitBurst,
		maxInFlight:    cfg.APIMaxInFlight,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.yaml", rt.openAPISpec)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/auth/register", rt.register)
	mux.HandleFunc("/v1/auth/login", rt.login)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/dashboard", rt.dashboard)

	var handler http.Handler = mux
	handler = authMiddleware(rt.auth, handler)
	handler = openAPIValidationMiddleware(rt.openAPI, handler)
	handler = backpressureMiddleware(handler, rt.maxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		return req, domain.WrapError(domain.ErrInvalidInput, "decode credentials", err)
	}
	return req, nil
}

func (rt *Router) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := rt.auth.Register(r.Context(), req.Email, req.Password)
	rt.metrics.RecordAuthAttempt(serviceName, "register", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := rt.auth.Login(r.Context(), req.Email, req.Password)
	rt.metrics.RecordAuthAttempt(serviceName, "login", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		rt.metrics.RecordUpload(serviceName, "rejected", 0)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("file exceeds %d MB", rt.maxUploadBytes>>20),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.uploader.Upload(
		r.Context(),
		userIDFromContext(r.Context()),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		rt.metrics.RecordUpload(serviceName, uploadOutcome(err), 0)
		writeError(w, r, err)
		return
	}

	rt.metrics.RecordUpload(serviceName, "accepted", doc.FileSize)
	writeJSON(w, http.StatusAccepted, doc.Summary())
}

func uploadOutcome(err error) string {
	switch mapErrorToHTTPStatus(err) {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "rejected"
	default:
		return "error"
	}
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	var limit, offset int
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &limit); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "bind limit", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", query, &offset); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "bind offset", err))
		return
	}

	docs, err := rt.reports.ListDocuments(r.Context(), userIDFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	board, err := rt.reports.Dashboard(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if board.Report != nil {
		rt.metrics.RecordReportView(serviceName, board.Report.Tier.Label)
	}
	writeJSON(w, http.StatusOK, board)
}

// documentByID serves /v1/documents/{id}[/file|/progress|/result] and the export.
func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/documents/"), "/")
	if rest == "export.xlsx" {
		rt.exportReports(w, r)
		return
	}

	rawID, action, _ := strings.Cut(rest, "/")
	var documentID string
	err := runtime.BindStyledParameterWithOptions("simple", "document_id", rawID, &documentID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || documentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch action {
	case "":
		rt.getDocument(w, r, documentID)
	case "file":
		rt.downloadOriginal(w, r, documentID)
	case "progress":
		rt.getProgress(w, r, documentID)
	case "result":
		rt.getReport(w, r, documentID)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request, documentID string) {
	doc, err := rt.reports.GetDocument(r.Context(), userIDFromContext(r.Context()), documentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) downloadOriginal(w http.ResponseWriter, r *http.Request, documentID string) {
	doc, body, err := rt.files.OpenOriginal(r.Context(), userIDFromContext(r.Context()), documentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", domain.MimeTypePDF)
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("download_copy_failed", "document_id", documentID, "error", err)
	}
}

type progressResponse struct {
	*domain.Progress
	Milestones domain.Milestones `json:"milestones"`
}

func (rt *Router) getProgress(w http.ResponseWriter, r *http.Request, documentID string) {
	progress, err := rt.progress.GetProgress(r.Context(), userIDFromContext(r.Context()), documentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressResponse{Progress: progress, Milestones: progress.Milestones()})
}

func (rt *Router) getReport(w http.ResponseWriter, r *http.Request, documentID string) {
	report, err := rt.reports.GetReport(r.Context(), userIDFromContext(r.Context()), documentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.metrics.RecordReportView(serviceName, report.Tier.Label)
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) exportReports(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := rt.exporter.Export(r.Context(), userIDFromContext(r.Context()), &buf)
	rt.metrics.RecordExport(serviceName, err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", rt.exporter.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="rapports.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type noopMetrics struct{}

func (noopMetrics) Middleware(_ string, next http.Handler) http.Handler { return next }

func (noopMetrics) Handler() http.Handler { return http.NotFoundHandler() }

func (noopMetrics) RecordUpload(string, string, int64) {}

func (noopMetrics) RecordAuthAttempt(string, string, error) {}

func (noopMetrics) RecordExport(string, error) {}

func (noopMetrics) RecordReportView(string, string) {}
