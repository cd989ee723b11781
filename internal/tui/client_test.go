package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

func TestClientLoginStoresToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var creds map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "a@b.fr", creds["email"])
			_ = json.NewEncoder(w).Encode(domain.Session{Token: "tok-1", UserID: "u-1", Email: "a@b.fr"})
		case "/v1/dashboard":
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(domain.Dashboard{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	session, err := client.Login(context.Background(), "a@b.fr", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)

	_, err = client.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestClientUploadSendsMultipartFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "these.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 body"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/documents", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		raw, _ := io.ReadAll(file)
		assert.Equal(t, "these.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 body", string(raw))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(domain.DocumentSummary{ID: "doc-1", Filename: header.Filename, Status: domain.StatusPending})
	}))
	defer srv.Close()

	doc, err := NewClient(srv.URL).Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
}

func TestClientSurfacesAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"malformed PDF: missing xref"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o600))

	_, err := NewClient(srv.URL).Upload(context.Background(), path)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "malformed PDF: missing xref", err.Error())
}

func TestClientProgressDecodesMilestones(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/documents/doc-1/progress", r.URL.Path)
		_, _ = w.Write([]byte(`{"document_id":"doc-1","percent":64,"step":"Recherche","state":"analyzing","milestones":{"uploaded":true,"content_analyzed":true,"sources_found":true,"report_generated":false}}`))
	}))
	defer srv.Close()

	progress, err := NewClient(srv.URL).Progress(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 64, progress.Percent)
	assert.Equal(t, domain.AnalysisRunning, progress.State)
	assert.True(t, progress.Milestones.SourcesFound)
	assert.False(t, progress.Milestones.ReportGenerated)
}
