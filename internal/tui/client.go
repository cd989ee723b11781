package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

// ProgressView is the progress payload served by the API.
type ProgressView struct {
	domain.Progress
	Milestones domain.Milestones `json:"milestones"`
}

// APIError carries the user-facing message returned by the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// Client is a thin HTTP client for the report API.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.postJSON(ctx, "/v1/auth/register", credentials(email, password), nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var session domain.Session
	if err := c.postJSON(ctx, "/v1/auth/login", credentials(email, password), &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// Upload sends the file at path as the multipart "file" field.
func (c *Client) Upload(ctx context.Context, path string) (*domain.DocumentSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(raw); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/documents", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc domain.DocumentSummary
	if err := c.do(req, http.StatusAccepted, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) Progress(ctx context.Context, documentID string) (*ProgressView, error) {
	var progress ProgressView
	if err := c.get(ctx, "/v1/documents/"+url.PathEscape(documentID)+"/progress", &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (c *Client) Report(ctx context.Context, documentID string) (*domain.Report, error) {
	var report domain.Report
	if err := c.get(ctx, "/v1/documents/"+url.PathEscape(documentID)+"/result", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var board domain.Dashboard
	if err := c.get(ctx, "/v1/dashboard", &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func credentials(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusOK, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, 0, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do expects wantStatus, or any 2xx when wantStatus is zero.
func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode == wantStatus
	if wantStatus == 0 {
		ok = resp.StatusCode >= 200 && resp.StatusCode < 300
	}
	if !ok {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(body))
	}
	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}
