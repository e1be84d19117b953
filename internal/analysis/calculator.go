// Package analysis turns parsed syntax trees into per-function complexity
// records. Traversal is iterative throughout; generated and minified sources
// nest deeper than recursive descent survives.
package analysis

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/types"
)

// FileResult holds everything the walk extracts from one parsed file.
type FileResult struct {
	Functions  []types.FunctionRecord
	ClassCount int
}

// Calculator computes complexity metrics for one language profile. It is
// stateless apart from the profile and safe for concurrent use.
type Calculator struct {
	profile *lang.Profile
}

// NewCalculator creates a calculator bound to a language profile.
func NewCalculator(profile *lang.Profile) *Calculator {
	return &Calculator{profile: profile}
}

// frame carries the cognitive nesting level alongside the node during the
// iterative walk.
type frame struct {
	node    *tree_sitter.Node
	nesting int
}

// AnalyzeTree walks the tree rooted at root and returns one record per
// function definition plus the file's class declaration count. Functions are
// emitted in source order; a nested function gets its own record. file is the
// repository-relative path stamped into each record.
func (c *Calculator) AnalyzeTree(root *tree_sitter.Node, source []byte, file string) FileResult {
	var result FileResult
	if root == nil {
		return result
	}

	stack := make([]*tree_sitter.Node, 0, 64)
	stack = append(stack, root)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kind := node.Kind()
		if c.profile.IsClassKind(kind) {
			result.ClassCount++
		}
		if c.profile.Classify(kind) == types.KindFunction {
			result.Functions = append(result.Functions, c.functionRecord(node, source, file))
		}

		// Children pushed in reverse so they pop in source order.
		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}
	return result
}

// functionRecord computes all metrics for a single function definition node.
func (c *Calculator) functionRecord(fn *tree_sitter.Node, source []byte, file string) types.FunctionRecord {
	startLine := int(fn.StartPosition().Row) + 1
	endLine := int(fn.EndPosition().Row) + 1
	cyclomatic, cognitive, maxNesting := c.walkMetrics(fn, source)

	return types.FunctionRecord{
		File:       file,
		Name:       c.FunctionName(fn, source),
		StartLine:  startLine,
		EndLine:    endLine,
		Cyclomatic: cyclomatic,
		Cognitive:  cognitive,
		MaxNesting: maxNesting,
		Lines:      endLine - startLine + 1,
		Parameters: c.ParameterCount(fn),
	}
}

// walkMetrics computes cyclomatic complexity, cognitive complexity, and
// maximum nesting depth for one function body in a single pass.
//
// Cyclomatic starts at 1 and adds one per decision construct and per
// short-circuit operator token. Cognitive starts at 0 and adds 1 plus the
// current nesting level per decision construct; decision constructs nest
// their children one level deeper. A descendant function definition is the
// boundary of its own record and is skipped here, so a closure's branches
// never inflate the enclosing function.
func (c *Calculator) walkMetrics(fn *tree_sitter.Node, source []byte) (cyclomatic, cognitive, maxNesting int) {
	cyclomatic = 1

	stack := make([]frame, 0, 64)
	for i := fn.ChildCount(); i > 0; i-- {
		if child := fn.Child(i - 1); child != nil {
			stack = append(stack, frame{node: child})
		}
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := f.node
		kind := c.profile.Classify(node.Kind())
		if kind == types.KindFunction {
			continue
		}

		childNesting := f.nesting
		if kind.IsDecisionPoint() {
			cyclomatic++
			cognitive += 1 + f.nesting
			childNesting++
			if childNesting > maxNesting {
				maxNesting = childNesting
			}
		}
		if lang.BoolOpParents[node.Kind()] {
			cyclomatic += c.countBoolOps(node, source)
		}

		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, frame{node: child, nesting: childNesting})
			}
		}
	}
	return cyclomatic, cognitive, maxNesting
}

// countBoolOps counts short-circuit operator tokens among the immediate
// children of a binary/boolean expression node. Each token is one extra
// execution path.
func (c *Calculator) countBoolOps(node *tree_sitter.Node, source []byte) int {
	count := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if c.profile.IsBoolOp(nodeText(child, source)) {
			count++
		}
	}
	return count
}

// nodeText returns the source text a node spans, or "" when the node's byte
// range does not fit the buffer.
func nodeText(node *tree_sitter.Node, source []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if start >= end || int(end) > len(source) {
		return ""
	}
	return string(source[start:end])
}
