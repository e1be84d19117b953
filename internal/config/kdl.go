package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// fileConfig is what one .ccx.kdl contributes: only the keys the file
// actually sets, so layering never resets values the file is silent on.
type fileConfig struct {
	exclude       []string
	include       []string
	languages     []string
	maxFileSize   *int64
	workers       *int
	timeout       *time.Duration
	top           *int
	includeHidden *bool
}

// knownKeys is shared with validation so both agree on the schema.
var knownKeys = map[string]bool{
	"exclude":        true,
	"include":        true,
	"languages":      true,
	"max-file-size":  true,
	"workers":        true,
	"timeout":        true,
	"top":            true,
	"include-hidden": true,
}

// parseKDL reads one config document. Unknown keys are ignored here and
// reported by Validate, so old binaries keep working with newer files.
func parseKDL(content string) (*fileConfig, error) {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	fc := &fileConfig{}
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "exclude":
			fc.exclude = append(fc.exclude, collectStringArgs(n)...)
		case "include":
			fc.include = collectStringArgs(n)
		case "languages":
			fc.languages = collectStringArgs(n)
		case "max-file-size":
			if v, ok := firstIntArg(n); ok {
				size := int64(v)
				fc.maxFileSize = &size
			} else if s, ok := firstStringArg(n); ok {
				size, err := parseSize(s)
				if err != nil {
					return nil, fmt.Errorf("max-file-size %q: %w", s, err)
				}
				fc.maxFileSize = &size
			}
		case "workers":
			if v, ok := firstIntArg(n); ok {
				fc.workers = &v
			}
		case "top":
			if v, ok := firstIntArg(n); ok {
				fc.top = &v
			}
		case "timeout":
			if s, ok := firstStringArg(n); ok {
				d, err := time.ParseDuration(s)
				if err != nil {
					return nil, fmt.Errorf("timeout %q: %w", s, err)
				}
				fc.timeout = &d
			} else if v, ok := firstIntArg(n); ok {
				// A bare number means seconds.
				d := time.Duration(v) * time.Second
				fc.timeout = &d
			}
		case "include-hidden":
			if b, ok := firstBoolArg(n); ok {
				fc.includeHidden = &b
			}
		}
	}
	return fc, nil
}

// applyTo layers this file's keys over cfg. Excludes accumulate; includes
// and languages replace; scalars overwrite only when the file set them.
func (fc *fileConfig) applyTo(cfg *Config) {
	cfg.Exclude = append(cfg.Exclude, fc.exclude...)
	if fc.include != nil {
		cfg.Include = fc.include
	}
	if fc.languages != nil {
		cfg.Languages = fc.languages
	}
	if fc.maxFileSize != nil {
		cfg.MaxFileSize = *fc.maxFileSize
	}
	if fc.workers != nil {
		cfg.Workers = *fc.workers
	}
	if fc.timeout != nil {
		cfg.Timeout = *fc.timeout
	}
	if fc.top != nil {
		cfg.Top = *fc.top
	}
	if fc.includeHidden != nil {
		cfg.IncludeHidden = *fc.includeHidden
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs gathers strings from inline arguments, or from child
// nodes when the key uses block form:
//
//	exclude "a" "b"
//	exclude { "a"; "b" }
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}
