package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/ccx/internal/debug"
)

// DetectBuildArtifacts inspects the project manifests at root and returns
// extra gitignore-style exclusions for their build output directories.
// Detection is best-effort: an unreadable or malformed manifest contributes
// nothing. Defaults like target/ and node_modules/ are handled elsewhere;
// this only picks up directories the project configured itself.
func DetectBuildArtifacts(root string) []string {
	var patterns []string
	patterns = append(patterns, detectNodeOutputs(root)...)
	patterns = append(patterns, detectRustOutputs(root)...)
	patterns = append(patterns, detectPythonOutputs(root)...)
	if len(patterns) > 0 {
		debug.Log("CONFIG", "manifest exclusions: %v\n", patterns)
	}
	return dedupe(patterns)
}

// detectNodeOutputs reads package.json and tsconfig.json for configured
// output directories.
func detectNodeOutputs(root string) []string {
	var patterns []string

	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		var pkg struct {
			Scripts map[string]string `json:"scripts"`
			Build   struct {
				OutDir string `json:"outDir"`
			} `json:"build"`
		}
		if json.Unmarshal(data, &pkg) == nil {
			if dir := outputPattern(pkg.Build.OutDir); dir != "" {
				patterns = append(patterns, dir)
			}
			for _, script := range pkg.Scripts {
				patterns = append(patterns, scriptOutDirs(script)...)
			}
		}
	}

	// tsconfig.json commonly carries comments, which strict JSON rejects;
	// those projects just fall back to the defaults.
	if data, err := os.ReadFile(filepath.Join(root, "tsconfig.json")); err == nil {
		var tsconfig struct {
			CompilerOptions struct {
				OutDir string `json:"outDir"`
			} `json:"compilerOptions"`
		}
		if json.Unmarshal(data, &tsconfig) == nil {
			if dir := outputPattern(tsconfig.CompilerOptions.OutDir); dir != "" {
				patterns = append(patterns, dir)
			}
		}
	}

	return patterns
}

// detectRustOutputs reads Cargo.toml for a custom target directory. The
// default target/ needs no handling here.
func detectRustOutputs(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return nil
	}
	var cargo struct {
		Build struct {
			TargetDir string `toml:"target-dir"`
		} `toml:"build"`
		Profile map[string]struct {
			TargetDir string `toml:"target-dir"`
		} `toml:"profile"`
	}
	if toml.Unmarshal(data, &cargo) != nil {
		return nil
	}

	var patterns []string
	if dir := outputPattern(cargo.Build.TargetDir); dir != "" {
		patterns = append(patterns, dir)
	}
	for _, profile := range cargo.Profile {
		if dir := outputPattern(profile.TargetDir); dir != "" {
			patterns = append(patterns, dir)
		}
	}
	return patterns
}

// detectPythonOutputs reads pyproject.toml for configured build
// directories.
func detectPythonOutputs(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var pyproject struct {
		Tool struct {
			Poetry struct {
				Build struct {
					TargetDir string `toml:"target-dir"`
				} `toml:"build"`
			} `toml:"poetry"`
			Hatch struct {
				Build struct {
					Directory string `toml:"directory"`
				} `toml:"build"`
			} `toml:"hatch"`
		} `toml:"tool"`
	}
	if toml.Unmarshal(data, &pyproject) != nil {
		return nil
	}

	var patterns []string
	if dir := outputPattern(pyproject.Tool.Poetry.Build.TargetDir); dir != "" {
		patterns = append(patterns, dir)
	}
	if dir := outputPattern(pyproject.Tool.Hatch.Build.Directory); dir != "" {
		patterns = append(patterns, dir)
	}
	return patterns
}

// scriptOutDirs pulls --outDir arguments out of an npm build script.
func scriptOutDirs(script string) []string {
	var patterns []string
	parts := strings.Fields(script)
	for i, part := range parts {
		if (part == "--outDir" || part == "-outDir") && i+1 < len(parts) {
			if dir := outputPattern(strings.Trim(parts[i+1], `"'`)); dir != "" {
				patterns = append(patterns, dir)
			}
		}
	}
	return patterns
}

// outputPattern normalizes a configured output directory into a
// gitignore-style directory pattern. Anything escaping the project root is
// dropped.
func outputPattern(dir string) string {
	dir = strings.TrimSpace(dir)
	dir = strings.TrimPrefix(dir, "./")
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." || strings.HasPrefix(dir, "..") {
		return ""
	}
	return dir + "/"
}
