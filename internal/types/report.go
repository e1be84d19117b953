package types

// Bucket is the coarse classification of a repository's total cyclomatic
// complexity. A given total always maps to exactly one bucket.
type Bucket string

const (
	BucketSimple  Bucket = "simple"
	BucketMedium  Bucket = "medium"
	BucketLarge   Bucket = "large"
	BucketComplex Bucket = "complex"
)

// Bucket breakpoints over total cyclomatic complexity.
const (
	BucketSimpleMax = 5000
	BucketMediumMax = 25000
	BucketLargeMax  = 100000
)

// BucketForTotal maps a repository-wide cyclomatic total to its bucket.
func BucketForTotal(totalCyclomatic int) Bucket {
	switch {
	case totalCyclomatic < BucketSimpleMax:
		return BucketSimple
	case totalCyclomatic < BucketMediumMax:
		return BucketMedium
	case totalCyclomatic < BucketLargeMax:
		return BucketLarge
	default:
		return BucketComplex
	}
}

// Description returns the human-readable effort description for the bucket.
func (b Bucket) Description() string {
	switch b {
	case BucketSimple:
		return "Small, focused codebase - minimal documentation needed"
	case BucketMedium:
		return "Medium codebase - moderate documentation effort"
	case BucketLarge:
		return "Large codebase - substantial documentation effort"
	case BucketComplex:
		return "Complex codebase - comprehensive documentation required"
	default:
		return ""
	}
}

// Distribution is the per-function cyclomatic complexity histogram.
type Distribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Per-function distribution boundaries: low 1-5, medium 6-15, high >15.
const (
	DistributionLowMax    = 5
	DistributionMediumMax = 15
)

// Record tallies one function's cyclomatic complexity into the histogram.
func (d *Distribution) Record(cyclomatic int) {
	switch {
	case cyclomatic <= DistributionLowMax:
		d.Low++
	case cyclomatic <= DistributionMediumMax:
		d.Medium++
	default:
		d.High++
	}
}

// Total returns the number of functions recorded.
func (d Distribution) Total() int {
	return d.Low + d.Medium + d.High
}

// Summary holds the repository-level aggregates of the report.
type Summary struct {
	TotalFiles       int              `json:"total_files"`
	TotalFunctions   int              `json:"total_functions"`
	Languages        map[Language]int `json:"languages"`
	TotalCyclomatic  int              `json:"total_cyclomatic_complexity"`
	AvgCyclomatic    float64          `json:"avg_cyclomatic_complexity"`
	ComplexityBucket Bucket           `json:"complexity_bucket"`
	Description      string           `json:"description"`
	ParseSuccessRate float64          `json:"parse_success_rate"`
}

// TopFunction is one entry of the ranked complex-function list.
type TopFunction struct {
	File       string `json:"file"`
	Name       string `json:"name"`
	Line       int    `json:"line"`
	Cyclomatic int    `json:"cyclomatic_complexity"`
	Cognitive  int    `json:"cognitive_complexity"`
}

// FileMetrics is the optional per-file breakdown emitted with
// --include-files. Parse failures keep their entry with zero counts so the
// file is still visible in the report.
type FileMetrics struct {
	Path          string           `json:"path"`
	Language      Language         `json:"language"`
	LinesOfCode   int              `json:"lines_of_code"`
	FunctionCount int              `json:"function_count"`
	ClassCount    int              `json:"class_count"`
	AvgComplexity float64          `json:"avg_complexity"`
	MaxComplexity int              `json:"max_complexity"`
	ParseSuccess  bool             `json:"parse_success"`
	ParseError    string           `json:"parse_error,omitempty"`
	Functions     []FunctionRecord `json:"functions"`
}

// Report is the canonical JSON document the analyzer emits. Field order is
// the wire order.
type Report struct {
	Repository          string        `json:"repository"`
	ScanTimeMS          int64         `json:"scan_time_ms"`
	Summary             Summary       `json:"summary"`
	Distribution        Distribution  `json:"distribution"`
	TopComplexFunctions []TopFunction `json:"top_complex_functions"`
	Files               []FileMetrics `json:"files,omitempty"`
}
