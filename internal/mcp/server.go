// Package mcp exposes the analyzer over the Model Context Protocol so AI
// assistants can request complexity reports through stdio. Tool failures are
// reported inside the result body with IsError set, not as protocol errors,
// so the model can see what went wrong and adjust.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/ccx/internal/config"
	"github.com/standardbeagle/ccx/internal/debug"
	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/report"
	"github.com/standardbeagle/ccx/internal/scan"
	"github.com/standardbeagle/ccx/internal/version"
)

// Server wraps one MCP stdio server around the scan pipeline.
type Server struct {
	registry *lang.Registry
	scanner  *scan.Scanner
	server   *mcp.Server
}

// NewServer builds the server and registers its tools.
func NewServer(registry *lang.Registry) *Server {
	s := &Server{
		registry: registry,
		scanner:  scan.New(registry),
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "ccx",
		Version: version.Version,
	}, nil)
	s.registerTools()
	return s
}

// Start serves MCP over stdio until ctx is canceled or the client
// disconnects.
func (s *Server) Start(ctx context.Context) error {
	debug.LogMCP("starting stdio transport\n")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "analyze_complexity",
		Description: "Scan a codebase and return the full complexity report as JSON: " +
			"per-language file counts, cyclomatic/cognitive totals, complexity " +
			"distribution, and the most complex functions.",
		InputSchema: AnalyzeSchema(),
	}, s.handleAnalyze)

	s.server.AddTool(&mcp.Tool{
		Name: "complexity_summary",
		Description: "Scan a codebase and return a short plain-text complexity summary: " +
			"size bucket, totals, and the most complex function.",
		InputSchema: SummarySchema(),
	}, s.handleSummary)
}

// AnalyzeSchema describes analyze_complexity's arguments. Exported so the
// schema command can print it.
func AnalyzeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"path": {
				Type:        "string",
				Description: "Directory to scan",
			},
			"include_files": {
				Type:        "boolean",
				Description: "Include the per-file breakdown in the report",
			},
			"top": {
				Type:        "integer",
				Description: "Length of the ranked complex-function list",
			},
			"workers": {
				Type:        "integer",
				Description: "Parser pool size (default: CPU count)",
			},
			"timeout_seconds": {
				Type:        "integer",
				Description: "Abort the scan after this many seconds",
			},
			"languages": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "Restrict the scan to these languages (e.g. [\"go\", \"python\"])",
			},
		},
		Required: []string{"path"},
	}
}

// SummarySchema describes complexity_summary's arguments.
func SummarySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"path": {
				Type:        "string",
				Description: "Directory to scan",
			},
		},
		Required: []string{"path"},
	}
}

type analyzeParams struct {
	Path           string   `json:"path"`
	IncludeFiles   bool     `json:"include_files"`
	Top            int      `json:"top"`
	Workers        int      `json:"workers"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	Languages      []string `json:"languages"`
}

type summaryParams struct {
	Path string `json:"path"`
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params analyzeParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult("analyze_complexity", fmt.Errorf("invalid parameters: %w", err))
	}
	if strings.TrimSpace(params.Path) == "" {
		return errorResult("analyze_complexity", fmt.Errorf("path is required"))
	}

	opts, err := s.scanOptions(params)
	if err != nil {
		return errorResult("analyze_complexity", err)
	}

	res, err := s.scanner.Scan(ctx, params.Path, opts)
	if err != nil {
		return errorResult("analyze_complexity", err)
	}

	out, err := report.Render(res.Report)
	if err != nil {
		return nil, err
	}
	return textResult(string(out)), nil
}

func (s *Server) handleSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params summaryParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult("complexity_summary", fmt.Errorf("invalid parameters: %w", err))
	}
	if strings.TrimSpace(params.Path) == "" {
		return errorResult("complexity_summary", fmt.Errorf("path is required"))
	}

	opts, err := s.scanOptions(analyzeParams{Path: params.Path})
	if err != nil {
		return errorResult("complexity_summary", err)
	}

	res, err := s.scanner.Scan(ctx, params.Path, opts)
	if err != nil {
		return errorResult("complexity_summary", err)
	}
	return textResult(report.Summary(res.Report)), nil
}

// scanOptions resolves the scan configuration for one tool call: the
// target's .ccx.kdl layers load first, then the call's arguments override.
func (s *Server) scanOptions(params analyzeParams) (scan.Options, error) {
	cfg, err := config.Load(params.Path)
	if err != nil {
		return scan.Options{}, err
	}
	if len(params.Languages) > 0 {
		cfg.Languages = params.Languages
	}

	opts, err := scan.OptionsFromConfig(cfg, s.registry)
	if err != nil {
		return scan.Options{}, err
	}
	opts.IncludeFiles = params.IncludeFiles
	if params.Top > 0 {
		opts.Top = params.Top
	}
	if params.Workers > 0 {
		opts.Workers = params.Workers
	}
	if params.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(params.TimeoutSeconds) * time.Second
	}
	return opts, nil
}

// textResult wraps tool output as MCP text content.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult reports a tool failure inside the result body.
func errorResult(operation string, err error) (*mcp.CallToolResult, error) {
	payload, marshalErr := json.Marshal(map[string]interface{}{
		"success":   false,
		"operation": operation,
		"error":     err.Error(),
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	result := textResult(string(payload))
	result.IsError = true
	return result, nil
}
