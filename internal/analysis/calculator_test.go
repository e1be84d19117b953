package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/parser"
	"github.com/standardbeagle/ccx/internal/types"
)

// analyzeSource parses source in the given language and runs the full walk.
func analyzeSource(t *testing.T, id types.Language, source string) FileResult {
	t.Helper()

	registry := lang.NewRegistry()
	profile, ok := registry.Profile(id)
	require.True(t, ok, "no profile for %s", id)

	p := parser.New(registry)
	defer p.Close()

	tree, err := p.Parse([]byte(source), id)
	require.NoError(t, err)
	defer tree.Close()

	return NewCalculator(profile).AnalyzeTree(tree.RootNode(), []byte(source), "input."+string(id))
}

// singleFunction asserts the result holds exactly one record and returns it.
func singleFunction(t *testing.T, result FileResult) types.FunctionRecord {
	t.Helper()
	require.Len(t, result.Functions, 1)
	return result.Functions[0]
}

func TestAnalyzeTree_SimpleFunction(t *testing.T) {
	code := `package main

func add(a int, b int) int {
	return a + b
}`
	fn := singleFunction(t, analyzeSource(t, types.LangGo, code))

	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, 1, fn.Cyclomatic, "no decision points means base complexity")
	assert.Equal(t, 0, fn.Cognitive)
	assert.Equal(t, 0, fn.MaxNesting)
	assert.Equal(t, 3, fn.StartLine)
	assert.Equal(t, 5, fn.EndLine)
	assert.Equal(t, 3, fn.Lines)
	assert.Equal(t, 2, fn.Parameters)
}

func TestAnalyzeTree_NestedIf(t *testing.T) {
	code := `package main

func check(n int) bool {
	if n > 0 {
		if n > 10 {
			return true
		}
	}
	return false
}`
	fn := singleFunction(t, analyzeSource(t, types.LangGo, code))

	assert.Equal(t, 3, fn.Cyclomatic, "base + two ifs")
	assert.Equal(t, 3, fn.Cognitive, "outer if +1, inner if +2")
	assert.Equal(t, 2, fn.MaxNesting)
}

// Cognitive complexity separates flat decision chains from nested ones even
// when cyclomatic complexity cannot.
func TestAnalyzeTree_FlatVersusNested(t *testing.T) {
	flat := `package main

func flat(a, b, c bool) int {
	n := 0
	if a {
		n++
	}
	if b {
		n++
	}
	if c {
		n++
	}
	return n
}`
	nested := `package main

func nested(a, b, c bool) int {
	if a {
		if b {
			if c {
				return 3
			}
		}
	}
	return 0
}`
	flatFn := singleFunction(t, analyzeSource(t, types.LangGo, flat))
	nestedFn := singleFunction(t, analyzeSource(t, types.LangGo, nested))

	assert.Equal(t, flatFn.Cyclomatic, nestedFn.Cyclomatic, "same path count")
	assert.Equal(t, 3, flatFn.Cognitive)
	assert.Equal(t, 6, nestedFn.Cognitive, "1+2+3 with nesting penalty")
	assert.Equal(t, 1, flatFn.MaxNesting)
	assert.Equal(t, 3, nestedFn.MaxNesting)
}

func TestAnalyzeTree_BooleanOperators(t *testing.T) {
	code := `package main

func valid(a, b, c bool) bool {
	return a && b || c
}`
	fn := singleFunction(t, analyzeSource(t, types.LangGo, code))

	assert.Equal(t, 3, fn.Cyclomatic, "base + && + ||")
	assert.Equal(t, 0, fn.Cognitive, "operators add paths, not nesting load")
}

func TestAnalyzeTree_SwitchCountsPerArm(t *testing.T) {
	code := `package main

func describe(n int) string {
	switch n {
	case 1:
		return "one"
	case 2:
		return "two"
	default:
		return "many"
	}
}`
	fn := singleFunction(t, analyzeSource(t, types.LangGo, code))

	assert.Equal(t, 3, fn.Cyclomatic, "base + two case arms, default is not a branch")
	assert.Equal(t, 2, fn.Cognitive)
	assert.Equal(t, 1, fn.MaxNesting)
}

// A closure's branches belong to the closure's own record, not to the
// function that encloses it.
func TestAnalyzeTree_NestedFunctionsAreIndependent(t *testing.T) {
	code := `def outer():
    def inner(x):
        if x:
            return 1
        return 0
    return inner
`
	result := analyzeSource(t, types.LangPython, code)
	require.Len(t, result.Functions, 2)

	outer := result.Functions[0]
	inner := result.Functions[1]
	assert.Equal(t, "outer", outer.Name)
	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, 1, outer.Cyclomatic, "inner's if stays out of outer")
	assert.Equal(t, 0, outer.Cognitive)
	assert.Equal(t, 2, inner.Cyclomatic)
	assert.Equal(t, 1, inner.Cognitive)
	assert.Equal(t, 1, inner.Parameters)
}

func TestAnalyzeTree_PythonExceptAndWordOperators(t *testing.T) {
	code := `def safe_div(a, b):
    try:
        return a / b
    except ZeroDivisionError:
        return 0

def check(a, b):
    return a and b or a
`
	result := analyzeSource(t, types.LangPython, code)
	require.Len(t, result.Functions, 2)

	safeDiv := result.Functions[0]
	assert.Equal(t, 2, safeDiv.Cyclomatic, "except handler is a branch")
	assert.Equal(t, 1, safeDiv.Cognitive)
	assert.Equal(t, 1, safeDiv.MaxNesting)

	check := result.Functions[1]
	assert.Equal(t, 3, check.Cyclomatic, "base + and + or")
}

func TestAnalyzeTree_PythonElifChain(t *testing.T) {
	code := `def classify(n):
    if n < 0:
        return "negative"
    elif n == 0:
        return "zero"
    else:
        return "positive"
`
	fn := singleFunction(t, analyzeSource(t, types.LangPython, code))

	assert.Equal(t, 3, fn.Cyclomatic)
	// The elif clause hangs under the if statement, so it pays the
	// nesting penalty.
	assert.Equal(t, 3, fn.Cognitive)
	assert.Equal(t, 2, fn.MaxNesting)
}

func TestAnalyzeTree_JavaScriptTernary(t *testing.T) {
	code := `const pick = (a, b) => a ? a : b;`
	fn := singleFunction(t, analyzeSource(t, types.LangJavaScript, code))

	assert.Equal(t, "<anonymous>", fn.Name)
	assert.Equal(t, 2, fn.Cyclomatic, "ternary is a branch")
	assert.Equal(t, 1, fn.Cognitive)
	assert.Equal(t, 2, fn.Parameters)
}

func TestAnalyzeTree_ClassCount(t *testing.T) {
	code := `class Calculator {
    int max(int a, int b) {
        return a > b ? a : b;
    }
}`
	result := analyzeSource(t, types.LangJava, code)

	assert.Equal(t, 1, result.ClassCount)
	fn := singleFunction(t, result)
	assert.Equal(t, "max", fn.Name)
	assert.Equal(t, 2, fn.Cyclomatic)
	assert.Equal(t, 2, fn.Parameters)
}

func TestAnalyzeTree_RustMatchArms(t *testing.T) {
	code := `fn word(n: u8) -> &'static str {
    match n {
        0 => "zero",
        1 => "one",
        _ => "many",
    }
}`
	fn := singleFunction(t, analyzeSource(t, types.LangRust, code))

	assert.Equal(t, "word", fn.Name)
	assert.Equal(t, 4, fn.Cyclomatic, "base + three arms")
	assert.Equal(t, 3, fn.Cognitive)
	assert.Equal(t, 1, fn.Parameters)
}

func TestAnalyzeTree_PHPBooleanAndIf(t *testing.T) {
	code := `<?php
function check($a, $b) {
    if ($a && $b) {
        return 1;
    }
    return 0;
}`
	fn := singleFunction(t, analyzeSource(t, types.LangPHP, code))

	assert.Equal(t, "check", fn.Name)
	assert.Equal(t, 3, fn.Cyclomatic, "base + if + &&")
	assert.Equal(t, 1, fn.Cognitive)
	assert.Equal(t, 2, fn.Parameters)
}

func TestAnalyzeTree_CSharpLoopNesting(t *testing.T) {
	code := `class Parser {
    int Count(string s) {
        int n = 0;
        foreach (var c in s) {
            if (c == ',') {
                n++;
            }
        }
        return n;
    }
}`
	result := analyzeSource(t, types.LangCSharp, code)

	assert.Equal(t, 1, result.ClassCount)
	fn := singleFunction(t, result)
	assert.Equal(t, "Count", fn.Name)
	assert.Equal(t, 3, fn.Cyclomatic)
	assert.Equal(t, 3, fn.Cognitive, "loop +1, nested if +2")
	assert.Equal(t, 2, fn.MaxNesting)
	assert.Equal(t, 1, fn.Parameters)
}

func TestAnalyzeTree_TypeScriptOptionalParams(t *testing.T) {
	code := `function greet(name: string, formal?: boolean): string {
    return formal ? "Dear " + name : "Hi " + name;
}`
	fn := singleFunction(t, analyzeSource(t, types.LangTypeScript, code))

	assert.Equal(t, "greet", fn.Name)
	assert.Equal(t, 2, fn.Cyclomatic)
	assert.Equal(t, 2, fn.Parameters)
}

func TestAnalyzeTree_CPPDeclaratorChain(t *testing.T) {
	code := `int *alloc_buf(int size) {
	if (size > 0) {
		return new int[size];
	}
	return nullptr;
}`
	fn := singleFunction(t, analyzeSource(t, types.LangCPP, code))

	assert.Equal(t, "alloc_buf", fn.Name, "name sits under the pointer declarator")
	assert.Equal(t, 2, fn.Cyclomatic)
	assert.Equal(t, 1, fn.Parameters)
}

func TestAnalyzeTree_EmptySource(t *testing.T) {
	result := analyzeSource(t, types.LangGo, "package main\n")

	assert.Empty(t, result.Functions)
	assert.Zero(t, result.ClassCount)
}

// Two walks over the same source must produce identical records in
// identical order.
func TestAnalyzeTree_Deterministic(t *testing.T) {
	code := `package main

func first(a, b bool) bool {
	if a {
		return b
	}
	return a && b
}

func second(n int) int {
	for i := 0; i < n; i++ {
		n += i
	}
	return n
}`
	a := analyzeSource(t, types.LangGo, code)
	b := analyzeSource(t, types.LangGo, code)

	assert.Equal(t, a, b)
	require.Len(t, a.Functions, 2)
	assert.Equal(t, "first", a.Functions[0].Name, "records follow source order")
	assert.Equal(t, "second", a.Functions[1].Name)
}
