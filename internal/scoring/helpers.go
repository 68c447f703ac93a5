package scoring

import (
	"fmt"
	"math"
)

// Band maps a lower bound to the points awarded at or above it.
// Bands are scanned in order; first match wins.
type Band struct {
	Min    float64
	Points int
}

// ScoreBands returns the points of the first band whose Min is <= value,
// or 0 when no band matches.
func ScoreBands(value float64, bands []Band) int {
	for _, b := range bands {
		if value >= b.Min {
			return b.Points
		}
	}
	return 0
}

// Capped returns count*weight limited to limit.
func Capped(count int, weight, limit float64) float64 {
	return math.Min(float64(count)*weight, limit)
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RoundClamp rounds v half away from zero and clamps it to [0, max].
func RoundClamp(v float64, max int) int {
	return ClampInt(int(math.Round(v)), 0, max)
}

// Qualitative score bands used in rationale text.
const (
	BandStrong   = "Strong"
	BandAdequate = "Adequate"
	BandWeak     = "Weak"
	BandPoor     = "Poor"
)

// BandFor returns the qualitative band of score relative to max.
func BandFor(score, max int) string {
	if max <= 0 {
		return BandPoor
	}
	ratio := float64(score) / float64(max)
	switch {
	case ratio >= 0.8:
		return BandStrong
	case ratio >= 0.55:
		return BandAdequate
	case ratio >= 0.3:
		return BandWeak
	default:
		return BandPoor
	}
}

// factor is one contribution to a dimension score, used to name the
// dominant factor in the rationale.
type factor struct {
	name   string
	points float64
	limit  float64
}

// dominant returns the factor contributing the most points, or, when nothing
// scored, the factor with the largest headroom.
func dominant(factors []factor) factor {
	var best factor
	for _, f := range factors {
		if f.points > best.points {
			best = f
		}
	}
	if best.points > 0 {
		return best
	}
	for _, f := range factors {
		if f.limit > best.limit {
			best = f
		}
	}
	return best
}

// describe builds the rationale for a dimension. strong names what carries
// the score; weak names what is missing.
func describe(score, max int, factors []factor, summary string) string {
	band := BandFor(score, max)
	top := dominant(factors)
	switch band {
	case BandStrong, BandAdequate:
		return fmt.Sprintf("%s: %s, led by %s (%.1f pts)", band, summary, top.name, top.points)
	case BandWeak:
		return fmt.Sprintf("%s: %s; %s contributes most (%.1f pts)", band, summary, top.name, top.points)
	default:
		if top.points > 0 {
			return fmt.Sprintf("%s: %s; only %s scored (%.1f pts)", band, summary, top.name, top.points)
		}
		return fmt.Sprintf("%s: %s; nothing scored, start with %s", band, summary, top.name)
	}
}

// boolToInt converts a boolean to 0 or 1
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
