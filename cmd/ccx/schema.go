package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/urfave/cli/v2"

	ccxmcp "github.com/standardbeagle/ccx/internal/mcp"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the report JSON schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tool",
				Usage: "Print an MCP tool's input schema instead (analyze_complexity or complexity_summary)",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(c *cli.Context) error {
	var schema *jsonschema.Schema
	switch tool := c.String("tool"); tool {
	case "":
		schema = reportSchema()
	case "analyze_complexity":
		schema = ccxmcp.AnalyzeSchema()
	case "complexity_summary":
		schema = ccxmcp.SummarySchema()
	default:
		return fmt.Errorf("unknown tool %q (analyze_complexity or complexity_summary)", tool)
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

// reportSchema describes the report document emitted by a scan. The wire
// format itself is fixed by the ordered structs in internal/types; this is
// the machine-readable contract for consumers (schema version 1).
func reportSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "ccx complexity report, schema version 1",
		Properties: map[string]*jsonschema.Schema{
			"repository": {
				Type:        "string",
				Description: "Repository name",
			},
			"scan_time_ms": {
				Type:        "integer",
				Description: "Wall-clock scan duration in milliseconds",
			},
			"summary": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"total_files": {
						Type:        "integer",
						Description: "Source files that entered the pipeline",
					},
					"total_functions": {
						Type:        "integer",
						Description: "Function units across all parsed files",
					},
					"languages": {
						Type:        "object",
						Description: "File count per language, keys sorted",
					},
					"total_cyclomatic_complexity": {
						Type: "integer",
					},
					"avg_cyclomatic_complexity": {
						Type:        "number",
						Description: "Mean cyclomatic complexity per function, rounded to 2 decimals",
					},
					"complexity_bucket": {
						Type:        "string",
						Description: "One of: simple, medium, large, complex",
					},
					"description": {
						Type:        "string",
						Description: "Human-readable effort description for the bucket",
					},
					"parse_success_rate": {
						Type:        "number",
						Description: "Parsed files over attempted, 0 to 1, rounded to 4 decimals",
					},
				},
				Required: []string{
					"total_files", "total_functions", "languages",
					"total_cyclomatic_complexity", "avg_cyclomatic_complexity",
					"complexity_bucket", "description", "parse_success_rate",
				},
			},
			"distribution": {
				Type:        "object",
				Description: "Per-function cyclomatic complexity histogram",
				Properties: map[string]*jsonschema.Schema{
					"low":    {Type: "integer", Description: "Functions with cyclomatic 1-5"},
					"medium": {Type: "integer", Description: "Functions with cyclomatic 6-15"},
					"high":   {Type: "integer", Description: "Functions with cyclomatic above 15"},
				},
				Required: []string{"low", "medium", "high"},
			},
			"top_complex_functions": {
				Type:        "array",
				Description: "Functions ranked by cyclomatic complexity, ties by path then line",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"file":                  {Type: "string"},
						"name":                  {Type: "string"},
						"line":                  {Type: "integer", Description: "1-based line of the function's first token"},
						"cyclomatic_complexity": {Type: "integer"},
						"cognitive_complexity":  {Type: "integer"},
					},
					Required: []string{"file", "name", "line", "cyclomatic_complexity", "cognitive_complexity"},
				},
			},
			"files": {
				Type:        "array",
				Description: "Per-file breakdown, present with --include-files",
				Items:       fileMetricsSchema(),
			},
		},
		Required: []string{"repository", "scan_time_ms", "summary", "distribution", "top_complex_functions"},
	}
}

func fileMetricsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"path":           {Type: "string", Description: "Root-relative path with forward slashes"},
			"language":       {Type: "string"},
			"lines_of_code":  {Type: "integer"},
			"function_count": {Type: "integer"},
			"class_count":    {Type: "integer"},
			"avg_complexity": {Type: "number"},
			"max_complexity": {Type: "integer"},
			"parse_success":  {Type: "boolean"},
			"parse_error":    {Type: "string", Description: "Failure reason, omitted on success"},
			"functions": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"file":                  {Type: "string"},
						"name":                  {Type: "string"},
						"line":                  {Type: "integer", Description: "1-based line of the function's first token"},
						"end_line":              {Type: "integer"},
						"cyclomatic_complexity": {Type: "integer"},
						"cognitive_complexity":  {Type: "integer"},
						"max_nesting_depth":     {Type: "integer"},
						"lines_of_code":         {Type: "integer"},
						"parameter_count":       {Type: "integer"},
					},
					Required: []string{
						"file", "name", "line", "end_line", "cyclomatic_complexity",
						"cognitive_complexity", "max_nesting_depth", "lines_of_code",
						"parameter_count",
					},
				},
			},
		},
		Required: []string{
			"path", "language", "lines_of_code", "function_count", "class_count",
			"avg_complexity", "max_complexity", "parse_success", "functions",
		},
	}
}
