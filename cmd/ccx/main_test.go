package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccx/internal/config"
	ccxerrors "github.com/standardbeagle/ccx/internal/errors"
	"github.com/standardbeagle/ccx/internal/types"
	"github.com/standardbeagle/ccx/internal/version"
)

// runCCX runs the app in-process with captured stdout and stderr.
func runCCX(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"ccx"}, args...))
	return out.String(), errOut.String(), err
}

func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, "main.go", `package main

func main() {
	if true {
		println("hi")
	}
}
`)
	writeFixture(t, root, "util.py", `def helper(flag):
    if flag:
        return 1
    return 0
`)
	return root
}

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func parseReport(t *testing.T, raw string) types.Report {
	t.Helper()
	var rep types.Report
	require.NoError(t, json.Unmarshal([]byte(raw), &rep))
	return rep
}

func TestScanWritesReport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)

	stdout, stderr, err := runCCX(t, root)
	require.NoError(t, err)

	rep := parseReport(t, stdout)
	assert.Equal(t, 2, rep.Summary.TotalFiles)
	assert.Equal(t, 2, rep.Summary.TotalFunctions)
	assert.Equal(t, 4, rep.Summary.TotalCyclomatic)

	assert.Contains(t, stderr, "Scanning "+root)
	assert.Contains(t, stderr, "Found 2 source files")
	assert.Contains(t, stderr, "Parsed 2/2 files")
	assert.Contains(t, stderr, "=== Scan Summary ===")
	assert.Contains(t, stderr, "Files:       2 (0 failed)")
	assert.Contains(t, stderr, "Total CC:    4 (simple)")
}

func TestScanQuiet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)

	stdout, stderr, err := runCCX(t, "-q", root)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	parseReport(t, stdout)
}

func TestScanOutputFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)
	outPath := filepath.Join(t.TempDir(), "report.json")

	stdout, _, err := runCCX(t, "-q", "-o", outPath, root)
	require.NoError(t, err)
	assert.Empty(t, stdout, "report goes to the file, not stdout")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	rep := parseReport(t, string(raw))
	assert.Equal(t, 2, rep.Summary.TotalFiles)
}

func TestScanIncludeFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)

	stdout, _, err := runCCX(t, "-q", "--include-files", root)
	require.NoError(t, err)

	rep := parseReport(t, stdout)
	require.Len(t, rep.Files, 2)
	assert.Equal(t, "main.go", rep.Files[0].Path)
	assert.Equal(t, "util.py", rep.Files[1].Path)
}

func TestScanNameFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)

	stdout, _, err := runCCX(t, "-q", "--name", "custom-name", root)
	require.NoError(t, err)
	assert.Equal(t, "custom-name", parseReport(t, stdout).Repository)
}

func TestScanLanguageFilter(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)

	stdout, _, err := runCCX(t, "-q", "-l", "go", root)
	require.NoError(t, err)

	rep := parseReport(t, stdout)
	assert.Equal(t, 1, rep.Summary.TotalFiles)
	assert.Equal(t, map[types.Language]int{types.LangGo: 1}, rep.Summary.Languages)
}

func TestScanUnknownLanguage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)

	_, _, err := runCCX(t, "-l", "pythn", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown language "pythn"`)
	assert.Contains(t, err.Error(), `did you mean "python"`)
}

func TestScanExcludeFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := fixtureRepo(t)
	writeFixture(t, root, "sub/extra.go", "package sub\n\nfunc f() {}\n")

	stdout, _, err := runCCX(t, "-q", "-e", "sub/", root)
	require.NoError(t, err)
	assert.Equal(t, 2, parseReport(t, stdout).Summary.TotalFiles)
}

func TestScanRootNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := runCCX(t, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	kind, ok := ccxerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ccxerrors.KindRootNotFound, kind)
}

func TestScanTooManyArgs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := runCCX(t, "one", "two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one path")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCCX(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ccx "+version.Version)
}

func TestSchemaCommand(t *testing.T) {
	stdout, _, err := runCCX(t, "schema")
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"repository", "scan_time_ms", "summary", "distribution", "top_complex_functions", "files"} {
		assert.Contains(t, props, key)
	}
}

func TestSchemaToolFlag(t *testing.T) {
	stdout, _, err := runCCX(t, "schema", "--tool", "analyze_complexity")
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Contains(t, schema["required"], "path")

	_, _, err = runCCX(t, "schema", "--tool", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tool "nope"`)
}

func TestConfigInit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	stdout, _, err := runCCX(t, "config", "init", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote")

	content, err := os.ReadFile(filepath.Join(root, config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "// ccx configuration")

	_, _, err = runCCX(t, "config", "init", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName),
		[]byte("workers 6\n"), 0644))

	stdout, _, err := runCCX(t, "config", "show", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "workers 6\n")
	assert.Contains(t, stdout, "max-file-size 10485760\n")
}

func TestConfigValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName),
		[]byte("workers 4\n"), 0644))
	stdout, _, err := runCCX(t, "config", "validate", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration is valid")

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, config.FileName),
		[]byte("wrokers 4\nworkers -2\n"), 0644))
	stdout, _, err = runCCX(t, "config", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, stdout, `unknown key "wrokers"`)
	assert.Contains(t, stdout, "workers cannot be negative")

	empty := t.TempDir()
	stdout, _, err = runCCX(t, "config", "validate", empty)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No config files found")
}

func TestConfigValidateLanguages(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName),
		[]byte(`languages "go" "pythn"`), 0644))

	stdout, _, err := runCCX(t, "config", "validate", root)
	require.Error(t, err)
	assert.Contains(t, stdout, `unknown language "pythn"`)
}

func TestFailedCount(t *testing.T) {
	units := []types.SourceFile{
		{Status: types.StatusSuccess},
		{Status: types.StatusParseFailure},
		{Status: types.StatusParseFailure},
	}
	assert.Equal(t, 2, failedCount(units))
	assert.Zero(t, failedCount(nil))
}
