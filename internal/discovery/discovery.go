// Package discovery walks a scan root and selects the source files worth
// parsing. Selection is deliberately filesystem-only: the walk never shells
// out to git, so the same tree yields the same file list whether or not it
// is a checkout. Ignore rules come from three layers folded into a single
// matcher: built-in patterns for generated and vendored artifacts, the
// root's .gitignore, and user-supplied excludes.
package discovery

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/standardbeagle/ccx/internal/debug"
	ccxerrors "github.com/standardbeagle/ccx/internal/errors"
	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/types"
)

// skipDirs are never descended into, independent of ignore patterns and the
// hidden-file option. VCS metadata and dependency trees dominate walk time
// in large checkouts and never hold first-party source.
var skipDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	"node_modules":  true,
	"vendor":        true,
	"target":        true,
	"dist":          true,
	"build":         true,
	"__pycache__":   true,
	"venv":          true,
	".venv":         true,
	".tox":          true,
	".idea":         true,
	".vscode":       true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	"zig-cache":     true,
	"zig-out":       true,
}

// defaultIgnorePatterns extend the repository's own .gitignore with
// artifacts that are technically source text but carry no authored logic.
var defaultIgnorePatterns = []string{
	"*.min.js",
	"*.bundle.js",
	"*.pyc",
	"*.egg-info/",
	".DS_Store",
}

// Options narrow the walk beyond the built-in exclusions.
type Options struct {
	// IncludeHidden also visits dot-files and dot-directories. VCS
	// metadata directories stay excluded regardless.
	IncludeHidden bool

	// MaxFileSize skips files above this many bytes. Zero or negative
	// selects the built-in default.
	MaxFileSize int64

	// Excludes are extra gitignore-style patterns layered on top of the
	// defaults and the root's .gitignore.
	Excludes []string

	// Includes, when non-empty, keep only files whose repo-relative path
	// matches at least one doublestar glob.
	Includes []string

	// Languages, when non-empty, keeps only files of the listed languages.
	Languages map[types.Language]bool
}

// Stats tallies everything the walk saw but left out, so the scan summary
// can say why a tree of ten thousand files produced two hundred units.
type Stats struct {
	Unrecognized int      // extension maps to no grammar
	Binary       int      // null byte in the leading window
	Oversize     int      // larger than the size cap
	Filtered     int      // dropped by language or include filters
	Ignored      int      // matched an ignore pattern
	Denied       []string // subtrees the walker could not read
}

// Discover walks root and returns the candidate source files sorted by
// repo-relative path. Unreadable subtrees are recorded in Stats.Denied and
// skipped; only a missing or non-directory root is an error.
func Discover(registry *lang.Registry, root string, opts Options) ([]types.SourceFile, *Stats, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, ccxerrors.NewRootNotFound(root, err)
	}
	if !info.IsDir() {
		return nil, nil, ccxerrors.NewRootNotFound(root, fmt.Errorf("not a directory"))
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = types.DefaultMaxFileSize
	}
	matcher := compileIgnore(root, opts.Excludes)

	stats := &Stats{}
	var files []types.SourceFile

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if ccxerrors.IsPermission(err) {
				stats.Denied = append(stats.Denied, path)
				debug.LogScan("permission denied, skipping: %s\n", path)
				return nil
			}
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if skipDirs[name] {
				return filepath.SkipDir
			}
			if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			// Trailing separator so patterns like "gen/" match.
			if matcher.MatchesPath(rel + "/") {
				stats.Ignored++
				return filepath.SkipDir
			}
			return nil
		}

		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if matcher.MatchesPath(rel) {
			stats.Ignored++
			return nil
		}

		profile, ok := registry.Resolve(name)
		if !ok {
			stats.Unrecognized++
			return nil
		}
		if len(opts.Languages) > 0 && !opts.Languages[profile.ID] {
			stats.Filtered++
			return nil
		}
		if len(opts.Includes) > 0 && !matchesAny(opts.Includes, rel) {
			stats.Filtered++
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			stats.Denied = append(stats.Denied, path)
			return nil
		}
		if fi.Size() > maxSize {
			stats.Oversize++
			debug.LogScan("oversize, skipping: %s (%d bytes)\n", rel, fi.Size())
			return nil
		}

		binary, err := sniffBinary(path)
		if err != nil {
			stats.Denied = append(stats.Denied, path)
			return nil
		}
		if binary {
			stats.Binary++
			return nil
		}

		files = append(files, types.SourceFile{
			Path:     rel,
			AbsPath:  path,
			Language: profile.ID,
			Size:     fi.Size(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	// WalkDir visits entries in directory order, which is not the same as
	// lexicographic path order once subdirectories interleave with files.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	debug.LogScan("discovered %d files under %s\n", len(files), root)
	return files, stats, nil
}

// compileIgnore folds the built-in patterns, the root's .gitignore, and the
// user excludes into one matcher. A missing .gitignore is not an error.
func compileIgnore(root string, excludes []string) *ignore.GitIgnore {
	lines := make([]string, 0, len(defaultIgnorePatterns)+len(excludes))
	lines = append(lines, defaultIgnorePatterns...)
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	lines = append(lines, excludes...)
	return ignore.CompileIgnoreLines(lines...)
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// sniffBinary reports whether the file's leading window contains a null
// byte, the same test git uses to classify blobs.
func sniffBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, types.BinarySniffBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
