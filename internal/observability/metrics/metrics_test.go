package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/v1/documents":              "/v1/documents",
		"/v1/documents/export.xlsx":  "/v1/documents/export.xlsx",
		"/v1/documents/abc":          "/v1/documents/{document_id}",
		"/v1/documents/abc/progress": "/v1/documents/{document_id}/progress",
		"/v1/documents/abc/result":   "/v1/documents/{document_id}/result",
		"/v1/dashboard":              "/v1/dashboard",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMiddlewareCountsByStatus(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/documents", nil))

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodPost, "/v1/documents", "202"))
	if got != 1 {
		t.Fatalf("expected one counted request, got %v", got)
	}
}

func TestRecordUploadOutcomes(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.RecordUpload("api", "accepted", 2048)
	m.RecordUpload("api", "rejected", 0)
	m.RecordUpload("api", "rejected", 0)

	if got := testutil.ToFloat64(m.uploadsTotal.WithLabelValues("api", "rejected")); got != 2 {
		t.Fatalf("expected 2 rejected uploads, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "plagiarism_upload_size_bytes_count") {
		t.Fatalf("expected upload size histogram in exposition")
	}
}

func TestWorkerMetricsFinishAnalysis(t *testing.T) {
	m := NewWorkerMetrics("worker")
	m.StartAnalysis()
	m.FinishAnalysis("worker", 6*time.Second, errors.New("boom"))
	m.ObserveResult("worker", 22, 3)

	if got := testutil.ToFloat64(m.analysisTotal.WithLabelValues("worker", "error")); got != 1 {
		t.Fatalf("expected one failed analysis, got %v", got)
	}
	if got := testutil.ToFloat64(m.analysisInFlight); got != 0 {
		t.Fatalf("expected no in-flight analyses, got %v", got)
	}
}
