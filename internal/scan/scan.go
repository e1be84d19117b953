// Package scan runs the whole pipeline for one invocation: discover files,
// parse and measure them on a bounded worker pool, and reduce the per-worker
// partial summaries into the final report. Units share no mutable state;
// workers synchronize only at the reduction, so the report is identical for
// any worker count.
package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/ccx/internal/analysis"
	"github.com/standardbeagle/ccx/internal/config"
	"github.com/standardbeagle/ccx/internal/debug"
	"github.com/standardbeagle/ccx/internal/discovery"
	ccxerrors "github.com/standardbeagle/ccx/internal/errors"
	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/metrics"
	"github.com/standardbeagle/ccx/internal/parser"
	"github.com/standardbeagle/ccx/internal/types"
)

// progressInterval is how many finished units pass between progress calls.
const progressInterval = 50

// ProgressFunc receives completion counts while the scan runs. Workers call
// it concurrently; implementations must be safe for that.
type ProgressFunc func(done, total int)

// Options configure one scan run.
type Options struct {
	// Discovery narrows which files enter the pipeline.
	Discovery discovery.Options

	// Workers bounds the parse pool. Zero or negative selects NumCPU.
	Workers int

	// Timeout is the wall-clock limit for the whole scan. Zero means no
	// deadline. An exceeded deadline aborts with no partial report.
	Timeout time.Duration

	// Top is the length of the ranked complex-function list. Zero selects
	// the default; negative keeps every function.
	Top int

	// IncludeFiles adds the per-file breakdown to the report.
	IncludeFiles bool

	// Name labels the report. Empty derives it from the root's base name.
	Name string

	// Progress, when set, fires roughly every fifty finished units and
	// once more at completion.
	Progress ProgressFunc

	// OnDiscover, when set, is called once with the number of files that
	// entered the pipeline, before any parsing starts.
	OnDiscover func(n int)
}

// OptionsFromConfig maps the merged file configuration onto scan options.
// Language names are canonicalized against the registry; an unknown name
// errors rather than silently matching nothing.
func OptionsFromConfig(cfg *config.Config, registry *lang.Registry) (Options, error) {
	languages, err := registry.ResolveFilter(cfg.Languages)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Discovery: discovery.Options{
			IncludeHidden: cfg.IncludeHidden,
			MaxFileSize:   cfg.MaxFileSize,
			Excludes:      cfg.Exclude,
			Includes:      cfg.Include,
			Languages:     languages,
		},
		Workers: cfg.Workers,
		Timeout: cfg.Timeout,
		Top:     cfg.Top,
	}, nil
}

// Result bundles the report with the raw per-unit outcomes and the
// discovery tallies.
type Result struct {
	Report *types.Report
	Units  []types.SourceFile
	Stats  *discovery.Stats
}

// Scanner runs scans against one language registry. It is safe for
// concurrent use; every scan builds its own workers.
type Scanner struct {
	registry *lang.Registry
}

// New returns a scanner backed by the given registry.
func New(registry *lang.Registry) *Scanner {
	return &Scanner{registry: registry}
}

// Scan analyzes every discovered file under root and reduces the results
// into a report.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	files, stats, err := discovery.Discover(s.registry, root, opts.Discovery)
	if err != nil {
		return nil, err
	}
	total := len(files)
	if opts.OnDiscover != nil {
		opts.OnDiscover(total)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > total {
		workers = total
	}

	units := make([]types.SourceFile, total)
	partials := make([]*metrics.Partial, workers)

	if total > 0 {
		type task struct {
			idx  int
			file types.SourceFile
		}

		var done atomic.Int64
		tasks := make(chan task)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i := 0; i < workers; i++ {
			w := newWorker(s.registry)
			partials[i] = w.partial
			g.Go(func() error {
				defer w.close()
				for {
					select {
					case <-gctx.Done():
						return gctx.Err()
					case t, ok := <-tasks:
						if !ok {
							return nil
						}
						// A closed deadline and a ready task can race in
						// select; re-check so expiry always wins.
						if err := gctx.Err(); err != nil {
							return err
						}
						unit, fm := w.analyze(t.file)
						units[t.idx] = unit
						w.partial.AddFile(fm)
						n := int(done.Add(1))
						if opts.Progress != nil && (n%progressInterval == 0 || n == total) {
							opts.Progress(n, total)
						}
					}
				}
			})
		}

	feed:
		for i, f := range files {
			select {
			case tasks <- task{idx: i, file: f}:
			case <-gctx.Done():
				break feed
			}
		}
		close(tasks)

		if err := g.Wait(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ccxerrors.NewTimeout(root, err)
			}
			return nil, err
		}
	}

	merged := metrics.NewPartial()
	for _, p := range partials {
		merged.Merge(p)
	}

	top := opts.Top
	if top == 0 {
		top = types.DefaultTopFunctions
	}
	report := merged.Report(reportName(opts.Name, root), time.Since(start), top, opts.IncludeFiles)

	debug.LogScan("scan of %s: %d files, %d functions in %dms\n",
		root, report.Summary.TotalFiles, report.Summary.TotalFunctions, report.ScanTimeMS)

	return &Result{Report: report, Units: units, Stats: stats}, nil
}

// reportName resolves the repository label: an explicit name wins, otherwise
// the base name of the cleaned root path.
func reportName(name, root string) string {
	if name != "" {
		return name
	}
	if abs, err := filepath.Abs(root); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(filepath.Clean(root))
}

// worker owns one parser and one partial summary, so the hot path takes no
// locks. Each scan goroutine gets its own worker.
type worker struct {
	registry *lang.Registry
	parser   *parser.Parser
	partial  *metrics.Partial
}

func newWorker(registry *lang.Registry) *worker {
	return &worker{
		registry: registry,
		parser:   parser.New(registry),
		partial:  metrics.NewPartial(),
	}
}

func (w *worker) close() {
	w.parser.Close()
}

// analyze runs one unit through read, hash, parse, and measure. Panics are
// contained at this boundary so one pathological file degrades to a parse
// failure instead of killing the scan.
func (w *worker) analyze(file types.SourceFile) (unit types.SourceFile, fm types.FileMetrics) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogScan("panic analyzing %s: %v\n", file.Path, r)
			unit = failed(file, fmt.Sprintf("internal panic: %v", r))
			fm = failedMetrics(unit, 0)
		}
	}()

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		unit = failed(file, fmt.Sprintf("read: %v", err))
		return unit, failedMetrics(unit, 0)
	}
	file.ContentHash = xxhash.Sum64(content)
	loc := bytes.Count(content, []byte{'\n'}) + 1

	tree, err := w.parser.Parse(content, file.Language)
	if err != nil {
		unit = failed(file, err.Error())
		return unit, failedMetrics(unit, loc)
	}
	defer tree.Close()

	profile, ok := w.registry.Profile(file.Language)
	if !ok {
		unit = failed(file, fmt.Sprintf("no profile for language %q", file.Language))
		return unit, failedMetrics(unit, loc)
	}

	result := analysis.NewCalculator(profile).AnalyzeTree(tree.RootNode(), content, file.Path)
	functions := result.Functions
	if functions == nil {
		functions = []types.FunctionRecord{}
	}
	avg, maxCC := metrics.FileAverages(functions)

	file.Status = types.StatusSuccess
	return file, types.FileMetrics{
		Path:          file.Path,
		Language:      file.Language,
		LinesOfCode:   loc,
		FunctionCount: len(functions),
		ClassCount:    result.ClassCount,
		AvgComplexity: avg,
		MaxComplexity: maxCC,
		ParseSuccess:  true,
		Functions:     functions,
	}
}

// failed marks the unit as a parse failure with the given reason.
func failed(file types.SourceFile, reason string) types.SourceFile {
	file.Status = types.StatusParseFailure
	file.FailReason = reason
	return file
}

// failedMetrics keeps a failed file visible in the report with zero counts.
// loc is whatever was countable before the failure.
func failedMetrics(file types.SourceFile, loc int) types.FileMetrics {
	return types.FileMetrics{
		Path:         file.Path,
		Language:     file.Language,
		LinesOfCode:  loc,
		ParseSuccess: false,
		ParseError:   file.FailReason,
		Functions:    []types.FunctionRecord{},
	}
}
