// Package lang owns the language registry: extension resolution, the
// declarative node normalization tables, and lazily constructed tree-sitter
// grammar handles. One complexity algorithm runs over every language here;
// adding a language means adding a Profile, not new logic.
package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ccx/internal/types"
)

// Profile describes one supported language: which extensions select it, how
// its concrete grammar node kinds map onto the universal categories, and
// which node kinds count as parameters and class declarations.
type Profile struct {
	ID         types.Language
	Extensions []string

	// Kinds maps concrete node kind strings onto universal categories.
	// Kinds not listed normalize to Other and are invisible to the walk.
	Kinds map[string]types.NormalizedKind

	// BoolOps holds the operator token texts counted as short-circuit
	// decision points when found directly under a boolean/binary
	// expression node.
	BoolOps map[string]bool

	// ClassKinds are the node kinds tallied into the per-file class count.
	ClassKinds map[string]bool

	// ParamKinds are the node kinds that count as one declared formal
	// parameter inside a function's parameter list.
	ParamKinds map[string]bool

	grammar func() *tree_sitter.Language
}

// Classify maps a concrete node kind onto its universal category.
func (p *Profile) Classify(kind string) types.NormalizedKind {
	if k, ok := p.Kinds[kind]; ok {
		return k
	}
	return types.KindOther
}

// IsBoolOp reports whether the token text is a short-circuit operator in
// this language.
func (p *Profile) IsBoolOp(token string) bool {
	return p.BoolOps[token]
}

// IsClassKind reports whether the node kind declares a class.
func (p *Profile) IsClassKind(kind string) bool {
	return p.ClassKinds[kind]
}

// IsParamKind reports whether the node kind is one declared parameter.
func (p *Profile) IsParamKind(kind string) bool {
	return p.ParamKinds[kind]
}

type entry struct {
	profile *Profile
	once    sync.Once
	lang    *tree_sitter.Language
}

// Registry resolves file paths to language profiles and hands out grammar
// handles. Grammars are constructed on first use and cached, so scanning a
// single-language tree never pays for the other grammars. The registry is
// passed explicitly to whoever needs it; there is no package-level instance.
type Registry struct {
	byExt map[string]*entry
	byID  map[types.Language]*entry
	ids   []types.Language
}

// NewRegistry builds a registry over all built-in language profiles.
func NewRegistry() *Registry {
	r := &Registry{
		byExt: make(map[string]*entry),
		byID:  make(map[types.Language]*entry),
	}
	for _, p := range profiles() {
		e := &entry{profile: p}
		r.byID[p.ID] = e
		r.ids = append(r.ids, p.ID)
		for _, ext := range p.Extensions {
			r.byExt[ext] = e
		}
	}
	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r
}

// Resolve maps a file path to its language profile by extension. The second
// return is false for unrecognized extensions.
func (r *Registry) Resolve(path string) (*Profile, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	e, ok := r.byExt[ext]
	if !ok {
		return nil, false
	}
	return e.profile, true
}

// Profile returns the profile for a language id.
func (r *Registry) Profile(id types.Language) (*Profile, bool) {
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.profile, true
}

// Grammar returns the tree-sitter language for id, constructing it on first
// call. The handle is shared; tree-sitter languages are immutable and safe
// for concurrent parsers.
func (r *Registry) Grammar(id types.Language) (*tree_sitter.Language, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("no grammar registered for language %q", id)
	}
	e.once.Do(func() {
		e.lang = e.profile.grammar()
	})
	if e.lang == nil {
		return nil, fmt.Errorf("grammar for language %q failed to initialize", id)
	}
	return e.lang, nil
}

// Languages returns all registered language ids in sorted order.
func (r *Registry) Languages() []types.Language {
	out := make([]types.Language, len(r.ids))
	copy(out, r.ids)
	return out
}

// Common shorthand spellings accepted by --lang filters.
var aliases = map[string]types.Language{
	"py":     types.LangPython,
	"python": types.LangPython,
	"js":     types.LangJavaScript,
	"node":   types.LangJavaScript,
	"ts":     types.LangTypeScript,
	"golang": types.LangGo,
	"rs":     types.LangRust,
	"c":      types.LangCPP,
	"c++":    types.LangCPP,
	"cxx":    types.LangCPP,
	"c#":     types.LangCSharp,
	"cs":     types.LangCSharp,
	"csharp": types.LangCSharp,
}

// Canonical normalizes a user-supplied language name to a registered id.
func (r *Registry) Canonical(name string) (types.Language, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if id, ok := aliases[normalized]; ok {
		return id, true
	}
	if _, ok := r.byID[types.Language(normalized)]; ok {
		return types.Language(normalized), true
	}
	return "", false
}

// Suggest returns the registered language id closest to the unknown name,
// or empty when nothing is plausibly close (Levenshtein distance > 2).
func (r *Registry) Suggest(name string) types.Language {
	normalized := strings.ToLower(strings.TrimSpace(name))
	best := types.Language("")
	bestDistance := 1000
	for _, id := range r.ids {
		distance := edlib.LevenshteinDistance(normalized, string(id))
		if distance < bestDistance {
			bestDistance = distance
			best = id
		}
	}
	if bestDistance > 2 {
		return ""
	}
	return best
}

// ResolveFilter canonicalizes user-supplied language names into the
// scanner's filter set. Unknown names error rather than silently matching
// nothing, with a spelling suggestion when one is close. An empty list
// returns nil, meaning no filter.
func (r *Registry) ResolveFilter(names []string) (map[types.Language]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[types.Language]bool, len(names))
	for _, name := range names {
		id, ok := r.Canonical(name)
		if !ok {
			if hint := r.Suggest(name); hint != "" {
				return nil, fmt.Errorf("unknown language %q (did you mean %q?)", name, hint)
			}
			return nil, fmt.Errorf("unknown language %q", name)
		}
		set[id] = true
	}
	return set, nil
}
