// Package report serializes scan results into their canonical JSON form and
// the short text summaries shown on stderr and over MCP.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/standardbeagle/ccx/internal/types"
)

// Render encodes the report as two-space indented JSON with a trailing
// newline. Struct field order fixes the key order, and the languages
// histogram marshals with sorted keys, so identical scans produce
// byte-identical documents apart from the scan time.
func Render(r *types.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(data, '\n'), nil
}

// Fprint renders the report to w.
func Fprint(w io.Writer, r *types.Report) error {
	data, err := Render(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Save renders the report into the named file, creating or truncating it.
func Save(path string, r *types.Report) error {
	data, err := Render(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Summary returns the compact text form of a report: totals, bucket, and
// the single most complex function.
func Summary(r *types.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d files, %d functions\n",
		r.Repository, r.Summary.TotalFiles, r.Summary.TotalFunctions)
	fmt.Fprintf(&b, "Total cyclomatic complexity: %d (%s)\n",
		r.Summary.TotalCyclomatic, r.Summary.ComplexityBucket)
	fmt.Fprintf(&b, "%s\n", r.Summary.Description)
	fmt.Fprintf(&b, "Average complexity: %.2f, parse success: %.1f%%\n",
		r.Summary.AvgCyclomatic, r.Summary.ParseSuccessRate*100)
	if len(r.TopComplexFunctions) > 0 {
		top := r.TopComplexFunctions[0]
		fmt.Fprintf(&b, "Most complex: %s (%s:%d) cyclomatic %d\n",
			top.Name, top.File, top.Line, top.Cyclomatic)
	}
	return b.String()
}

// FprintScanSummary writes the completion block a scan prints to stderr.
// failed is the number of units that did not parse; the report only carries
// the rounded rate.
func FprintScanSummary(w io.Writer, r *types.Report, failed int) {
	fmt.Fprintln(w, "=== Scan Summary ===")
	fmt.Fprintf(w, "Files:       %d (%d failed)\n", r.Summary.TotalFiles, failed)
	fmt.Fprintf(w, "Functions:   %d\n", r.Summary.TotalFunctions)
	fmt.Fprintf(w, "Languages:   %s\n", languagesLine(r.Summary.Languages))
	fmt.Fprintf(w, "Total CC:    %d (%s)\n", r.Summary.TotalCyclomatic, r.Summary.ComplexityBucket)
	fmt.Fprintf(w, "Scan time:   %dms\n", r.ScanTimeMS)
}

func languagesLine(langs map[types.Language]int) string {
	if len(langs) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(langs))
	for id := range langs {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%d", id, langs[types.Language(id)]))
	}
	return strings.Join(parts, " ")
}
