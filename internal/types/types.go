package types

// Common scan limits
const (
	// DefaultMaxFileSize caps how many bytes of a single file are considered
	// source code. Files above the limit are treated like binaries.
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB per file

	// BinarySniffBytes is the size of the leading window inspected for null
	// bytes when classifying a file as text or binary.
	BinarySniffBytes = 1024

	// DefaultTopFunctions is how many entries the ranked function list keeps.
	DefaultTopFunctions = 10
)

// Language identifies a supported source language. The string value is the
// identifier used in reports and CLI filters.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangCSharp     Language = "csharp"
	LangCPP        Language = "cpp"
	LangPHP        Language = "php"
	LangZig        Language = "zig"
)

// ParseStatus records what happened to a file during the scan.
type ParseStatus uint8

const (
	StatusSuccess ParseStatus = iota
	StatusParseFailure
	StatusSkippedBinary
	StatusSkippedUnrecognized
)

func (s ParseStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusParseFailure:
		return "parse_failure"
	case StatusSkippedBinary:
		return "skipped_binary"
	case StatusSkippedUnrecognized:
		return "skipped_unrecognized"
	default:
		return "unknown"
	}
}

// NormalizedKind is the universal structural category a concrete grammar
// node is classified into. The complexity walk only reacts to these; every
// node kind missing from a language table is Other.
type NormalizedKind uint8

const (
	KindOther NormalizedKind = iota
	KindFunction
	KindIf
	KindLoop
	KindSwitchCaseArm
	KindExceptionHandler
	KindBoolOp
)

func (k NormalizedKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindIf:
		return "if"
	case KindLoop:
		return "loop"
	case KindSwitchCaseArm:
		return "switch_case_arm"
	case KindExceptionHandler:
		return "exception_handler"
	case KindBoolOp:
		return "boolean_short_circuit_op"
	default:
		return "other"
	}
}

// IsDecisionPoint reports whether the kind adds a unit of cyclomatic
// complexity and a nesting-weighted unit of cognitive complexity.
func (k NormalizedKind) IsDecisionPoint() bool {
	switch k {
	case KindIf, KindLoop, KindSwitchCaseArm, KindExceptionHandler:
		return true
	default:
		return false
	}
}

// SourceFile describes one candidate file discovered under the scan root.
// Path is repo-relative with forward slashes regardless of platform so
// reports compare across machines.
type SourceFile struct {
	Path        string
	AbsPath     string
	Language    Language
	Size        int64
	ContentHash uint64
	Status      ParseStatus
	FailReason  string
}

// FunctionRecord holds the metrics for a single function, method, or
// closure. Nested functions get their own record and never fold into the
// enclosing function's totals. The json tags are the wire names used in the
// per-file breakdown of the report.
type FunctionRecord struct {
	File       string `json:"file"`
	Name       string `json:"name"`
	StartLine  int    `json:"line"`
	EndLine    int    `json:"end_line"`
	Cyclomatic int    `json:"cyclomatic_complexity"`
	Cognitive  int    `json:"cognitive_complexity"`
	MaxNesting int    `json:"max_nesting_depth"`
	Lines      int    `json:"lines_of_code"`
	Parameters int    `json:"parameter_count"`
}
