package lang

import (
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/ccx/internal/types"
)

// BoolOpParents are the node kinds whose immediate operator tokens are
// checked against a profile's BoolOps set. Grammars disagree on the parent
// kind (binary_expression vs boolean_operator) but nothing else ever holds a
// short-circuit operator token, so the pair is shared across languages.
var BoolOpParents = map[string]bool{
	"binary_expression": true,
	"boolean_operator":  true,
}

// shortCircuitOps for the &&/|| language family.
var shortCircuitOps = map[string]bool{"&&": true, "||": true}

// wordOps for languages that spell the operators and/or.
var wordOps = map[string]bool{"and": true, "or": true}

// profiles returns the full normalization table set. Node kind strings
// follow each language's pinned grammar version; a string the grammar never
// produces simply never matches.
func profiles() []*Profile {
	return []*Profile{
		{
			ID:         types.LangPython,
			Extensions: []string{".py"},
			Kinds: map[string]types.NormalizedKind{
				"function_definition":    types.KindFunction,
				"lambda":                 types.KindFunction,
				"if_statement":           types.KindIf,
				"elif_clause":            types.KindIf,
				"conditional_expression": types.KindIf,
				"for_statement":          types.KindLoop,
				"while_statement":        types.KindLoop,
				"case_clause":            types.KindSwitchCaseArm,
				"except_clause":          types.KindExceptionHandler,
			},
			BoolOps:    wordOps,
			ClassKinds: map[string]bool{"class_definition": true},
			ParamKinds: map[string]bool{
				"identifier":               true,
				"typed_parameter":          true,
				"default_parameter":        true,
				"typed_default_parameter":  true,
				"list_splat_pattern":       true,
				"dictionary_splat_pattern": true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_python.Language())
			},
		},
		{
			ID:         types.LangJavaScript,
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			Kinds: map[string]types.NormalizedKind{
				"function_declaration":           types.KindFunction,
				"function_expression":            types.KindFunction,
				"arrow_function":                 types.KindFunction,
				"method_definition":              types.KindFunction,
				"generator_function_declaration": types.KindFunction,
				"generator_function":             types.KindFunction,
				"if_statement":                   types.KindIf,
				"ternary_expression":             types.KindIf,
				"for_statement":                  types.KindLoop,
				"for_in_statement":               types.KindLoop,
				"while_statement":                types.KindLoop,
				"do_statement":                   types.KindLoop,
				"switch_case":                    types.KindSwitchCaseArm,
				"catch_clause":                   types.KindExceptionHandler,
			},
			BoolOps: shortCircuitOps,
			ClassKinds: map[string]bool{
				"class_declaration": true,
				"class":             true,
			},
			ParamKinds: map[string]bool{
				"identifier":         true,
				"assignment_pattern": true,
				"rest_pattern":       true,
				"object_pattern":     true,
				"array_pattern":      true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
			},
		},
		{
			// .tsx shares the typescript grammar; the TSX dialect only
			// changes how ambiguous casts parse, not the node vocabulary.
			ID:         types.LangTypeScript,
			Extensions: []string{".ts", ".tsx"},
			Kinds: map[string]types.NormalizedKind{
				"function_declaration":           types.KindFunction,
				"function_expression":            types.KindFunction,
				"arrow_function":                 types.KindFunction,
				"method_definition":              types.KindFunction,
				"generator_function_declaration": types.KindFunction,
				"generator_function":             types.KindFunction,
				"if_statement":                   types.KindIf,
				"ternary_expression":             types.KindIf,
				"for_statement":                  types.KindLoop,
				"for_in_statement":               types.KindLoop,
				"while_statement":                types.KindLoop,
				"do_statement":                   types.KindLoop,
				"switch_case":                    types.KindSwitchCaseArm,
				"catch_clause":                   types.KindExceptionHandler,
			},
			BoolOps: shortCircuitOps,
			ClassKinds: map[string]bool{
				"class_declaration":          true,
				"abstract_class_declaration": true,
				"class":                      true,
			},
			ParamKinds: map[string]bool{
				"required_parameter": true,
				"optional_parameter": true,
				"identifier":         true,
				"assignment_pattern": true,
				"rest_pattern":       true,
				"object_pattern":     true,
				"array_pattern":      true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
			},
		},
		{
			ID:         types.LangGo,
			Extensions: []string{".go"},
			Kinds: map[string]types.NormalizedKind{
				"function_declaration": types.KindFunction,
				"method_declaration":   types.KindFunction,
				"func_literal":         types.KindFunction,
				"if_statement":         types.KindIf,
				"for_statement":        types.KindLoop,
				"expression_case":      types.KindSwitchCaseArm,
				"type_case":            types.KindSwitchCaseArm,
				"communication_case":   types.KindSwitchCaseArm,
			},
			BoolOps:    shortCircuitOps,
			ClassKinds: map[string]bool{},
			ParamKinds: map[string]bool{
				"parameter_declaration":          true,
				"variadic_parameter_declaration": true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_go.Language())
			},
		},
		{
			ID:         types.LangRust,
			Extensions: []string{".rs"},
			Kinds: map[string]types.NormalizedKind{
				"function_item":      types.KindFunction,
				"closure_expression": types.KindFunction,
				// if_let/while_let merged into if/while with let_condition
				// in newer grammar revisions; both spellings stay listed.
				"if_expression":        types.KindIf,
				"if_let_expression":    types.KindIf,
				"for_expression":       types.KindLoop,
				"while_expression":     types.KindLoop,
				"while_let_expression": types.KindLoop,
				"loop_expression":      types.KindLoop,
				"match_arm":            types.KindSwitchCaseArm,
			},
			BoolOps:    shortCircuitOps,
			ClassKinds: map[string]bool{},
			ParamKinds: map[string]bool{
				"parameter":      true,
				"self_parameter": true,
				// closure_parameters holds bare identifiers for |x| closures
				"identifier": true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_rust.Language())
			},
		},
		{
			ID:         types.LangJava,
			Extensions: []string{".java"},
			Kinds: map[string]types.NormalizedKind{
				"method_declaration":      types.KindFunction,
				"constructor_declaration": types.KindFunction,
				"lambda_expression":       types.KindFunction,
				"if_statement":            types.KindIf,
				"ternary_expression":      types.KindIf,
				"for_statement":           types.KindLoop,
				"enhanced_for_statement":  types.KindLoop,
				"while_statement":         types.KindLoop,
				"do_statement":            types.KindLoop,
				"switch_label":            types.KindSwitchCaseArm,
				"catch_clause":            types.KindExceptionHandler,
			},
			BoolOps:    shortCircuitOps,
			ClassKinds: map[string]bool{"class_declaration": true},
			ParamKinds: map[string]bool{
				"formal_parameter": true,
				"spread_parameter": true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_java.Language())
			},
		},
		{
			ID:         types.LangCSharp,
			Extensions: []string{".cs"},
			Kinds: map[string]types.NormalizedKind{
				"method_declaration":       types.KindFunction,
				"constructor_declaration":  types.KindFunction,
				"local_function_statement": types.KindFunction,
				"lambda_expression":        types.KindFunction,
				"if_statement":             types.KindIf,
				"conditional_expression":   types.KindIf,
				"for_statement":            types.KindLoop,
				// grammar revisions disagree on the foreach spelling
				"for_each_statement":    types.KindLoop,
				"foreach_statement":     types.KindLoop,
				"while_statement":       types.KindLoop,
				"do_statement":          types.KindLoop,
				"switch_section":        types.KindSwitchCaseArm,
				"switch_expression_arm": types.KindSwitchCaseArm,
				"catch_clause":          types.KindExceptionHandler,
			},
			BoolOps: shortCircuitOps,
			ClassKinds: map[string]bool{
				"class_declaration":  true,
				"record_declaration": true,
			},
			ParamKinds: map[string]bool{"parameter": true},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_csharp.Language())
			},
		},
		{
			// Plain C parses under the C++ grammar; the node kinds used
			// here are shared between the two.
			ID:         types.LangCPP,
			Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".c", ".h"},
			Kinds: map[string]types.NormalizedKind{
				"function_definition":    types.KindFunction,
				"lambda_expression":      types.KindFunction,
				"if_statement":           types.KindIf,
				"conditional_expression": types.KindIf,
				"for_statement":          types.KindLoop,
				"for_range_loop":         types.KindLoop,
				"while_statement":        types.KindLoop,
				"do_statement":           types.KindLoop,
				"case_statement":         types.KindSwitchCaseArm,
				"catch_clause":           types.KindExceptionHandler,
			},
			BoolOps:    shortCircuitOps,
			ClassKinds: map[string]bool{"class_specifier": true},
			ParamKinds: map[string]bool{
				"parameter_declaration":          true,
				"optional_parameter_declaration": true,
				"variadic_parameter_declaration": true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
			},
		},
		{
			ID:         types.LangPHP,
			Extensions: []string{".php", ".phtml"},
			Kinds: map[string]types.NormalizedKind{
				"function_definition": types.KindFunction,
				"method_declaration":  types.KindFunction,
				"anonymous_function_creation_expression": types.KindFunction,
				"anonymous_function":                     types.KindFunction,
				"arrow_function":                         types.KindFunction,
				"if_statement":                           types.KindIf,
				"else_if_clause":                         types.KindIf,
				"conditional_expression":                 types.KindIf,
				"for_statement":                          types.KindLoop,
				"foreach_statement":                      types.KindLoop,
				"while_statement":                        types.KindLoop,
				"do_statement":                           types.KindLoop,
				"case_statement":                         types.KindSwitchCaseArm,
				"match_conditional_expression":           types.KindSwitchCaseArm,
				"match_default_expression":               types.KindSwitchCaseArm,
				"catch_clause":                           types.KindExceptionHandler,
			},
			// PHP allows both spellings with short-circuit semantics.
			BoolOps: map[string]bool{
				"&&": true, "||": true, "and": true, "or": true,
			},
			ClassKinds: map[string]bool{"class_declaration": true},
			ParamKinds: map[string]bool{
				"simple_parameter":             true,
				"variadic_parameter":           true,
				"property_promotion_parameter": true,
			},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
			},
		},
		{
			ID:         types.LangZig,
			Extensions: []string{".zig"},
			Kinds: map[string]types.NormalizedKind{
				"function_declaration": types.KindFunction,
				"if_statement":         types.KindIf,
				"if_expression":        types.KindIf,
				"for_statement":        types.KindLoop,
				"for_expression":       types.KindLoop,
				"while_statement":      types.KindLoop,
				"while_expression":     types.KindLoop,
				"switch_case":          types.KindSwitchCaseArm,
			},
			BoolOps:    wordOps,
			ClassKinds: map[string]bool{},
			ParamKinds: map[string]bool{"parameter": true},
			grammar: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_zig.Language())
			},
		},
	}
}
