// Package config loads .ccx.kdl files and resolves the effective scan
// configuration. A project file at the scan root layers over the user's
// global file; command-line flags layer over both in the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/standardbeagle/ccx/internal/debug"
	"github.com/standardbeagle/ccx/internal/types"
)

// FileName is the config file looked up at the scan root and in the user's
// home directory.
const FileName = ".ccx.kdl"

// Config is the effective scan configuration after all layers merge.
type Config struct {
	// Exclude holds gitignore-style patterns layered on the defaults and
	// the root's .gitignore. Layers accumulate rather than replace.
	Exclude []string

	// Include, when non-empty, keeps only files matching at least one
	// doublestar glob. A later layer replaces an earlier one.
	Include []string

	// Languages, when non-empty, restricts the scan to the named
	// languages. A later layer replaces an earlier one.
	Languages []string

	// MaxFileSize in bytes; larger files are skipped like binaries.
	MaxFileSize int64

	// Workers bounds the parse pool. Zero selects the CPU count.
	Workers int

	// Timeout is the wall-clock limit for one scan. Zero means none.
	Timeout time.Duration

	// Top is the ranked complex-function list length.
	Top int

	// IncludeHidden also scans dot-files and dot-directories.
	IncludeHidden bool
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		MaxFileSize: types.DefaultMaxFileSize,
		Top:         types.DefaultTopFunctions,
	}
}

// Load resolves the effective configuration for a scan of root: defaults,
// then ~/.ccx.kdl, then <root>/.ccx.kdl, then build-artifact exclusions
// detected from the project's manifests. Missing files are fine; a file
// that exists but does not parse is an error.
func Load(root string) (*Config, error) {
	cfg := Default()

	for _, path := range configPaths(root) {
		layer, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if layer != nil {
			layer.applyTo(cfg)
			debug.Log("CONFIG", "loaded %s\n", path)
		}
	}

	cfg.Exclude = dedupe(append(cfg.Exclude, DetectBuildArtifacts(root)...))
	return cfg, nil
}

// configPaths returns the candidate files in merge order, global first.
func configPaths(root string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	paths = append(paths, filepath.Join(root, FileName))
	return paths
}

// loadFile parses one config file. A missing file returns (nil, nil).
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	layer, err := parseKDL(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return layer, nil
}

// Render returns the effective configuration in KDL form, as printed by
// `ccx config show`.
func (c *Config) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "max-file-size %d\n", c.MaxFileSize)
	fmt.Fprintf(&b, "workers %d\n", c.Workers)
	fmt.Fprintf(&b, "timeout %q\n", c.Timeout.String())
	fmt.Fprintf(&b, "top %d\n", c.Top)
	fmt.Fprintf(&b, "include-hidden %v\n", c.IncludeHidden)
	if len(c.Languages) > 0 {
		fmt.Fprintf(&b, "languages %s\n", quoteAll(c.Languages))
	}
	if len(c.Include) > 0 {
		fmt.Fprintf(&b, "include %s\n", quoteAll(c.Include))
	}
	if len(c.Exclude) > 0 {
		fmt.Fprintf(&b, "exclude %s\n", quoteAll(c.Exclude))
	}
	return b.String()
}

func quoteAll(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, " ")
}

// Starter is the commented template written by `ccx config init`.
func Starter() string {
	return `// ccx configuration
// Project file: .ccx.kdl at the scan root. Global file: ~/.ccx.kdl.
// The project file layers over the global one; flags layer over both.

// Cap single-file size; larger files are skipped like binaries.
//max-file-size "10MB"

// Parser pool size. Defaults to the CPU count.
//workers 8

// Wall-clock limit for one scan. An exceeded deadline aborts the scan.
//timeout "90s"

// Length of the ranked complex-function list.
//top 10

// Also scan dot-files and dot-directories.
//include-hidden false

// Restrict the scan to these languages.
//languages "go" "python"

// Extra ignore patterns, gitignore syntax, layered on .gitignore.
//exclude "testdata/" "*.gen.go"

// Keep only paths matching these doublestar globs.
//include "src/**"
`
}

// dedupe drops empty and repeated patterns, keeping first occurrences in
// order.
func dedupe(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
