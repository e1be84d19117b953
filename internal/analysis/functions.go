package analysis

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// FunctionName extracts the declared name of a function node. Most grammars
// hang the name off a "name" field; C-family definitions wrap it in a chain
// of declarator fields instead. Unnamed functions report as <anonymous>.
func (c *Calculator) FunctionName(fn *tree_sitter.Node, source []byte) string {
	for _, field := range []string{"name", "declarator"} {
		child := fn.ChildByFieldName(field)
		if child == nil {
			continue
		}
		// Unwrap pointer_declarator/function_declarator chains down to the
		// identifier.
		for {
			inner := child.ChildByFieldName("declarator")
			if inner == nil {
				break
			}
			child = inner
		}
		if name := nodeText(child, source); name != "" {
			return name
		}
	}

	for i := uint(0); i < fn.ChildCount(); i++ {
		child := fn.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "identifier" {
			if name := nodeText(child, source); name != "" {
				return name
			}
		}
	}
	return "<anonymous>"
}

// ParameterCount counts the declared formal parameters of a function node.
// Only children of the parameter list whose kind the profile lists as a
// parameter count; delimiters, comments, and type annotations do not. Arrow
// functions with a single bare parameter hang it off a singular "parameter"
// field instead of a list, and C-family definitions nest the list inside the
// declarator chain.
func (c *Calculator) ParameterCount(fn *tree_sitter.Node) int {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		for decl := fn.ChildByFieldName("declarator"); decl != nil; decl = decl.ChildByFieldName("declarator") {
			if p := decl.ChildByFieldName("parameters"); p != nil {
				params = p
				break
			}
		}
	}
	if params == nil {
		if single := fn.ChildByFieldName("parameter"); single != nil {
			return 1
		}
		return 0
	}

	count := 0
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		if c.profile.IsParamKind(child.Kind()) {
			count++
		}
	}
	return count
}
