package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	kdl "github.com/sblinch/kdl-go"
)

// maxReasonableFileSize guards against configs that would make the scanner
// swallow archives and media wholesale.
const maxReasonableFileSize = 100 * 1024 * 1024

// Issue is one validation finding, tied to the file that caused it.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Validate checks every config file that would load for a scan of root:
// KDL syntax, unknown keys, glob syntax, and value ranges. It returns the
// files it found; an empty issues slice means the configuration is valid.
func Validate(root string) (files []string, issues []Issue) {
	for _, path := range configPaths(root) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		files = append(files, path)
		issues = append(issues, validateFile(path, string(data))...)
	}
	return files, issues
}

func validateFile(path, content string) []Issue {
	var issues []Issue
	add := func(format string, args ...interface{}) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		add("not valid KDL: %v", err)
		return issues
	}
	for _, n := range doc.Nodes {
		if name := nodeName(n); !knownKeys[name] {
			add("unknown key %q", name)
		}
	}

	fc, err := parseKDL(content)
	if err != nil {
		add("%v", err)
		return issues
	}

	if fc.maxFileSize != nil {
		switch {
		case *fc.maxFileSize <= 0:
			add("max-file-size must be positive, got %d", *fc.maxFileSize)
		case *fc.maxFileSize > maxReasonableFileSize:
			add("max-file-size should not exceed 100MB, got %d", *fc.maxFileSize)
		}
	}
	if fc.workers != nil && *fc.workers < 0 {
		add("workers cannot be negative, got %d", *fc.workers)
	}
	if fc.timeout != nil && *fc.timeout < 0 {
		add("timeout cannot be negative, got %s", *fc.timeout)
	}
	for _, pattern := range fc.include {
		if !doublestar.ValidatePattern(pattern) {
			add("invalid include glob %q", pattern)
		}
	}
	for _, pattern := range fc.exclude {
		if strings.TrimSpace(pattern) == "" {
			add("empty exclude pattern")
		}
	}
	for _, name := range fc.languages {
		if strings.TrimSpace(name) == "" {
			add("empty language name")
		}
	}
	return issues
}
