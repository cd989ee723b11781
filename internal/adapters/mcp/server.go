// Package mcpadapter exposes read-only plagiarism reports as MCP tools so an
// assistant can inspect a user's documents over stdio.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

const (
	serverName       = "plagiarism-report"
	serverVersion    = "1.0.0"
	defaultListLimit = 20
	maxListLimit     = 200
)

type Server struct {
	reports  ports.ReportReader
	progress ports.ProgressReader
	userID   string
}

// NewServer binds the tools to a single authenticated user.
func NewServer(reports ports.ReportReader, progress ports.ProgressReader, userID string) *Server {
	return &Server{reports: reports, progress: progress, userID: userID}
}

func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List uploaded documents, newest first"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents (1-200)")),
		mcp.WithNumber("offset", mcp.Description("Number of documents to skip")),
	), s.listDocuments)

	srv.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Get the plagiarism report of an analyzed document"),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
	), s.getReport)

	srv.AddTool(mcp.NewTool("get_progress",
		mcp.WithDescription("Get the analysis progress of a document"),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Document identifier")),
	), s.getProgress)

	srv.AddTool(mcp.NewTool("dashboard",
		mcp.WithDescription("Get the dashboard: documents and the most recent report"),
	), s.dashboard)

	return srv
}

// ServeStdio blocks until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer())
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultListLimit)
	offset := req.GetInt("offset", 0)
	if limit < 1 || limit > maxListLimit || offset < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be within 1..%d and offset must not be negative", maxListLimit)), nil
	}

	docs, err := s.reports.ListDocuments(ctx, s.userID, limit, offset)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"documents": docs})
}

func (s *Server) getReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.reports.GetReport(ctx, s.userID, documentID)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(report)
}

func (s *Server) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	progress, err := s.progress.GetProgress(ctx, s.userID, documentID)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{
		"progress":   progress,
		"milestones": progress.Milestones(),
	})
}

func (s *Server) dashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	board, err := s.reports.Dashboard(ctx, s.userID)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(board)
}

// toolError reports domain failures to the client and keeps protocol errors
// for everything else.
func toolError(err error) (*mcp.CallToolResult, error) {
	for _, kind := range []error{
		domain.ErrDocumentNotFound,
		domain.ErrResultNotFound,
		domain.ErrInvalidInput,
		domain.ErrUnauthorized,
	} {
		if domain.IsKind(err, kind) {
			return mcp.NewToolResultError(domain.UserMessage(err, kind.Error())), nil
		}
	}
	return nil, err
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
