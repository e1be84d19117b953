package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccx/internal/types"
)

func TestParseKDL_Empty(t *testing.T) {
	fc, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, fc)

	assert.Empty(t, fc.exclude)
	assert.Nil(t, fc.include)
	assert.Nil(t, fc.languages)
	assert.Nil(t, fc.maxFileSize)
	assert.Nil(t, fc.workers)
	assert.Nil(t, fc.timeout)
	assert.Nil(t, fc.top)
	assert.Nil(t, fc.includeHidden)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
max-file-size "5MB"
workers 8
timeout "90s"
top 25
include-hidden true
languages "go" "python"
include "src/**" "lib/**"
exclude "testdata/" "*.gen.go"
`
	fc, err := parseKDL(kdlContent)
	require.NoError(t, err)

	require.NotNil(t, fc.maxFileSize)
	assert.Equal(t, int64(5*1024*1024), *fc.maxFileSize)
	require.NotNil(t, fc.workers)
	assert.Equal(t, 8, *fc.workers)
	require.NotNil(t, fc.timeout)
	assert.Equal(t, 90*time.Second, *fc.timeout)
	require.NotNil(t, fc.top)
	assert.Equal(t, 25, *fc.top)
	require.NotNil(t, fc.includeHidden)
	assert.True(t, *fc.includeHidden)
	assert.Equal(t, []string{"go", "python"}, fc.languages)
	assert.Equal(t, []string{"src/**", "lib/**"}, fc.include)
	assert.Equal(t, []string{"testdata/", "*.gen.go"}, fc.exclude)
}

func TestParseKDL_NumericForms(t *testing.T) {
	fc, err := parseKDL("max-file-size 1048576\ntimeout 90\n")
	require.NoError(t, err)

	require.NotNil(t, fc.maxFileSize)
	assert.Equal(t, int64(1048576), *fc.maxFileSize)
	require.NotNil(t, fc.timeout)
	assert.Equal(t, 90*time.Second, *fc.timeout, "bare timeout numbers are seconds")
}

func TestParseKDL_BlockForm(t *testing.T) {
	kdlContent := `
exclude {
    "vendor/"
    "*.min.js"
}
`
	fc, err := parseKDL(kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/", "*.min.js"}, fc.exclude)
}

func TestParseKDL_BadValues(t *testing.T) {
	_, err := parseKDL(`timeout "ninety seconds"`)
	assert.Error(t, err)

	_, err = parseKDL(`max-file-size "10XB"`)
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "bytes suffix", input: "512B", want: 512},
		{name: "kilobytes", input: "10KB", want: 10 * 1024},
		{name: "megabytes", input: "5MB", want: 5 * 1024 * 1024},
		{name: "gigabytes", input: "1GB", want: 1024 * 1024 * 1024},
		{name: "lowercase", input: "2mb", want: 2 * 1024 * 1024},
		{name: "bare number", input: "4096", want: 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyTo_Layering(t *testing.T) {
	cfg := Default()

	global, err := parseKDL(`
workers 4
exclude "global-skip/"
languages "go"
`)
	require.NoError(t, err)
	global.applyTo(cfg)

	project, err := parseKDL(`
top 5
exclude "project-skip/"
languages "python" "rust"
`)
	require.NoError(t, err)
	project.applyTo(cfg)

	assert.Equal(t, 4, cfg.Workers, "project file is silent on workers")
	assert.Equal(t, 5, cfg.Top)
	assert.Equal(t, []string{"global-skip/", "project-skip/"}, cfg.Exclude,
		"excludes accumulate across layers")
	assert.Equal(t, []string{"python", "rust"}, cfg.Languages,
		"languages replace across layers")
	assert.Equal(t, int64(types.DefaultMaxFileSize), cfg.MaxFileSize)
}

func TestLoad_MissingFilesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, int64(types.DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, types.DefaultTopFunctions, cfg.Top)
	assert.Zero(t, cfg.Workers)
	assert.Zero(t, cfg.Timeout)
	assert.False(t, cfg.IncludeHidden)
}

func TestLoad_ProjectOverGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName),
		[]byte("workers 2\ntop 3\nexclude \"global/\"\n"), 0644))

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte("top 7\nexclude \"local/\"\n"), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 7, cfg.Top)
	assert.Equal(t, []string{"global/", "local/"}, cfg.Exclude)
}

func TestLoad_MalformedProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte("workers \"not a number\ntimeout"), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestLoad_ArtifactEnrichment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"),
		[]byte(`{"compilerOptions": {"outDir": "lib"}}`), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Contains(t, cfg.Exclude, "lib/")
}

func TestDetectBuildArtifacts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"),
		[]byte(`{"scripts": {"build": "tsc --outDir dist-out"}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"),
		[]byte(`{"compilerOptions": {"outDir": "./lib"}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"),
		[]byte("[build]\ntarget-dir = \"custom-target\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"),
		[]byte("[tool.hatch.build]\ndirectory = \"wheelhouse\"\n"), 0644))

	patterns := DetectBuildArtifacts(root)

	assert.Contains(t, patterns, "dist-out/")
	assert.Contains(t, patterns, "lib/")
	assert.Contains(t, patterns, "custom-target/")
	assert.Contains(t, patterns, "wheelhouse/")
}

func TestDetectBuildArtifacts_MalformedManifests(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"),
		[]byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"),
		[]byte("[[[["), 0644))

	assert.Empty(t, DetectBuildArtifacts(root))
}

func TestDetectBuildArtifacts_EscapingPathsDropped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"),
		[]byte(`{"compilerOptions": {"outDir": "../elsewhere"}}`), 0644))

	assert.Empty(t, DetectBuildArtifacts(root))
}

func TestValidate_CleanFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte("workers 4\ninclude \"src/**\"\n"), 0644))

	files, issues := Validate(root)
	assert.Len(t, files, 1)
	assert.Empty(t, issues)
}

func TestValidate_Findings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName),
		[]byte(`
wrokers 4
workers -2
max-file-size "200MB"
include "src/[oops"
`), 0644))

	_, issues := Validate(root)

	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, `unknown key "wrokers"`)
	assert.Contains(t, messages, "workers cannot be negative, got -2")
	assert.Contains(t, messages, "max-file-size should not exceed 100MB, got 209715200")
	assert.Contains(t, messages, `invalid include glob "src/[oops"`)
}

func TestValidate_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	files, issues := Validate(t.TempDir())
	assert.Empty(t, files)
	assert.Empty(t, issues)
}

// TestStarterIsValid keeps the init template in sync with the parser and
// the validator.
func TestStarterIsValid(t *testing.T) {
	fc, err := parseKDL(Starter())
	require.NoError(t, err)
	assert.Nil(t, fc.workers, "starter keys must all be commented out")
	assert.Empty(t, validateFile(FileName, Starter()))
}

func TestRender(t *testing.T) {
	cfg := Default()
	cfg.Workers = 6
	cfg.Timeout = 90 * time.Second
	cfg.Languages = []string{"go"}
	cfg.Exclude = []string{"gen/"}

	out := cfg.Render()

	assert.Contains(t, out, "max-file-size 10485760\n")
	assert.Contains(t, out, "workers 6\n")
	assert.Contains(t, out, "timeout \"1m30s\"\n")
	assert.Contains(t, out, "top 10\n")
	assert.Contains(t, out, "include-hidden false\n")
	assert.Contains(t, out, "languages \"go\"\n")
	assert.Contains(t, out, "exclude \"gen/\"\n")
	assert.NotContains(t, out, "include \"")
}
