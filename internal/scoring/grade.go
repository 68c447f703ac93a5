package scoring

import (
	"math"
)

// Default benchmark calibration. These are fixed population constants, not
// derived from live data.
const (
	DefaultBenchmarkMean   = 42.0
	DefaultBenchmarkStdDev = 18.0
)

// Benchmark holds the population distribution used for percentile estimates.
type Benchmark struct {
	Mean   float64 `mapstructure:"mean" json:"mean"`
	StdDev float64 `mapstructure:"stddev" json:"stddev"`
}

// DefaultBenchmark returns the standard 42/18 calibration.
func DefaultBenchmark() Benchmark {
	return Benchmark{Mean: DefaultBenchmarkMean, StdDev: DefaultBenchmarkStdDev}
}

// normalized falls back to the default for an unusable standard deviation.
func (b Benchmark) normalized() Benchmark {
	if b.StdDev <= 0 || math.IsNaN(b.StdDev) || math.IsNaN(b.Mean) {
		return DefaultBenchmark()
	}
	return b
}

// Percentile estimates the population percentile of score using a logistic
// approximation of the normal CDF, clamped to [1, 99].
func (b Benchmark) Percentile(score int) int {
	b = b.normalized()
	z := (float64(score) - b.Mean) / b.StdDev
	p := 100 / (1 + math.Exp(-1.7*z))
	return int(math.Round(ClampFloat(p, 1, 99)))
}

// gradeBands are scanned from the highest threshold; first match wins.
var gradeBands = []struct {
	Min   int
	Grade string
}{
	{80, "A"},
	{65, "B"},
	{50, "C"},
	{35, "D"},
}

// GradeFromScore returns the letter grade for a 0-100 total score
func GradeFromScore(score int) string {
	for _, b := range gradeBands {
		if score >= b.Min {
			return b.Grade
		}
	}
	return "F"
}

// GradeRank orders grades so that A ranks highest; unknown grades rank 0.
func GradeRank(grade string) int {
	switch grade {
	case "A":
		return 5
	case "B":
		return 4
	case "C":
		return 3
	case "D":
		return 2
	case "F":
		return 1
	default:
		return 0
	}
}
