package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/SlapDrone/slopify/internal/config"
	"github.com/SlapDrone/slopify/internal/errors"
	"github.com/SlapDrone/slopify/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{cfg: cfg, logger: logger}
}

// ExportRequest represents the arguments for slop_export.
type ExportRequest struct {
	Paths     []string `json:"paths"`
	Base      string   `json:"base,omitempty"`
	Output    string   `json:"output,omitempty"`
	Recursive bool     `json:"recursive,omitempty"`
	Inline    bool     `json:"inline,omitempty"`
}

// ImportRequest represents the arguments for slop_import.
type ImportRequest struct {
	Path   string `json:"path,omitempty"`
	Text   string `json:"text,omitempty"`
	Base   string `json:"base,omitempty"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// HandleExport handles the slop_export tool.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.cfg, ops.ExportInput{
		Paths:     args.Paths,
		Base:      args.Base,
		Output:    args.Output,
		Recursive: args.Recursive,
		ToStdout:  args.Inline,
		Logger:    h.logger,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the slop_import tool.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.cfg, ops.ImportInput{
		Path:   args.Path,
		Text:   args.Text,
		Base:   args.Base,
		DryRun: args.DryRun,
		Logger: h.logger,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var slopErr *errors.SlopError
	if stderrors.As(err, &slopErr) {
		errorObj := map[string]any{
			"code":    slopErr.Code,
			"message": slopErr.Message,
			"status":  slopErr.Status,
		}
		// Internal errors may carry raw OS details; keep them out of the payload
		if slopErr.Code != errors.ErrInternal && slopErr.Details != nil {
			errorObj["details"] = slopErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
