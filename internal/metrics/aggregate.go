// Package metrics folds per-file analysis results into the repository
// report. Aggregation is a merge of independent partial summaries, so the
// final numbers do not depend on worker count or completion order.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/standardbeagle/ccx/internal/types"
)

// Partial accumulates results on one worker. Merge is associative and
// commutative up to file order; Report sorts before emitting, so any merge
// tree produces the same output.
type Partial struct {
	files           []types.FileMetrics
	languages       map[types.Language]int
	distribution    types.Distribution
	totalFunctions  int
	totalCyclomatic int
	parsed          int
}

// NewPartial returns an empty partial summary.
func NewPartial() *Partial {
	return &Partial{
		languages: make(map[types.Language]int),
	}
}

// AddFile folds one analyzed file into the partial. Files that failed to
// parse still count toward totals and drag down the parse success rate;
// their function list is empty.
func (p *Partial) AddFile(fm types.FileMetrics) {
	p.files = append(p.files, fm)
	p.languages[fm.Language]++
	if fm.ParseSuccess {
		p.parsed++
	}
	p.totalFunctions += len(fm.Functions)
	for i := range fm.Functions {
		cc := fm.Functions[i].Cyclomatic
		p.totalCyclomatic += cc
		p.distribution.Record(cc)
	}
}

// Merge folds other into p. other must not be used afterwards.
func (p *Partial) Merge(other *Partial) {
	if other == nil {
		return
	}
	p.files = append(p.files, other.files...)
	for id, n := range other.languages {
		p.languages[id] += n
	}
	p.distribution.Low += other.distribution.Low
	p.distribution.Medium += other.distribution.Medium
	p.distribution.High += other.distribution.High
	p.totalFunctions += other.totalFunctions
	p.totalCyclomatic += other.totalCyclomatic
	p.parsed += other.parsed
}

// FileCount returns the number of files folded in so far.
func (p *Partial) FileCount() int {
	return len(p.files)
}

// TotalCyclomatic returns the running cyclomatic sum.
func (p *Partial) TotalCyclomatic() int {
	return p.totalCyclomatic
}

// Report finalizes the aggregate into the wire report. Files are sorted by
// path and the top list is ranked by cyclomatic complexity descending with
// (file, line) breaking ties, so identical input bytes always produce an
// identical report apart from the scan time.
func (p *Partial) Report(repository string, scanTime time.Duration, topN int, includeFiles bool) *types.Report {
	sort.Slice(p.files, func(i, j int) bool {
		return p.files[i].Path < p.files[j].Path
	})

	avg := 0.0
	if p.totalFunctions > 0 {
		avg = round2(float64(p.totalCyclomatic) / float64(p.totalFunctions))
	}
	rate := 0.0
	if len(p.files) > 0 {
		rate = round4(float64(p.parsed) / float64(len(p.files)))
	}
	bucket := types.BucketForTotal(p.totalCyclomatic)

	report := &types.Report{
		Repository: repository,
		ScanTimeMS: scanTime.Milliseconds(),
		Summary: types.Summary{
			TotalFiles:       len(p.files),
			TotalFunctions:   p.totalFunctions,
			Languages:        p.languages,
			TotalCyclomatic:  p.totalCyclomatic,
			AvgCyclomatic:    avg,
			ComplexityBucket: bucket,
			Description:      bucket.Description(),
			ParseSuccessRate: rate,
		},
		Distribution:        p.distribution,
		TopComplexFunctions: p.topFunctions(topN),
	}
	if includeFiles {
		report.Files = p.files
	}
	return report
}

// topFunctions ranks every function across all files and keeps the first n.
func (p *Partial) topFunctions(n int) []types.TopFunction {
	all := make([]types.TopFunction, 0, p.totalFunctions)
	for i := range p.files {
		for _, fn := range p.files[i].Functions {
			all = append(all, types.TopFunction{
				File:       fn.File,
				Name:       fn.Name,
				Line:       fn.StartLine,
				Cyclomatic: fn.Cyclomatic,
				Cognitive:  fn.Cognitive,
			})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Cyclomatic != all[j].Cyclomatic {
			return all[i].Cyclomatic > all[j].Cyclomatic
		}
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}
		return all[i].Line < all[j].Line
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// FileAverages computes the per-file summary pair: the mean cyclomatic
// complexity rounded to two decimals and the maximum. Both are zero for a
// file with no functions.
func FileAverages(records []types.FunctionRecord) (avg float64, maxCyclomatic int) {
	if len(records) == 0 {
		return 0, 0
	}
	total := 0
	for i := range records {
		cc := records[i].Cyclomatic
		total += cc
		if cc > maxCyclomatic {
			maxCyclomatic = cc
		}
	}
	return round2(float64(total) / float64(len(records))), maxCyclomatic
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
