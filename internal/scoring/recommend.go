package scoring

import (
	"sort"
)

// Template is a candidate recommendation for one dimension. It applies once
// the dimension's gap reaches MinGap.
type Template struct {
	MinGap   int
	Category string
	Action   string
	Impact   string
	Effort   string
	Details  string
}

// Catalog maps a dimension key to its templates, ordered by decreasing impact.
type Catalog map[string][]Template

// secondPassDimensions is how many of the largest-gap dimensions may emit
// additional templates.
const secondPassDimensions = 3

// Recommend selects and prioritizes improvement actions for dims.
//
// Dimensions are ranked by gap, largest first. The first pass emits the first
// applicable template of every dimension with a positive gap. The second pass
// revisits the three largest-gap dimensions and emits their remaining
// applicable templates, skipping any action text already emitted. Priorities
// are assigned in emission order starting at 1.
func Recommend(dims []DimensionScore, catalog Catalog) []Recommendation {
	ranked := make([]DimensionScore, 0, len(dims))
	for _, d := range dims {
		if d.Gap() > 0 {
			ranked = append(ranked, d)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Gap() > ranked[j].Gap()
	})

	recs := []Recommendation{}
	emitted := make(map[string]bool)
	emit := func(t Template) {
		recs = append(recs, Recommendation{
			Priority: len(recs) + 1,
			Category: t.Category,
			Action:   t.Action,
			Impact:   t.Impact,
			Effort:   t.Effort,
			Details:  t.Details,
		})
		emitted[t.Action] = true
	}

	for _, d := range ranked {
		for _, t := range catalog[d.Key] {
			if t.MinGap <= d.Gap() {
				emit(t)
				break
			}
		}
	}

	for i, d := range ranked {
		if i >= secondPassDimensions {
			break
		}
		for _, t := range catalog[d.Key] {
			if t.MinGap <= d.Gap() && !emitted[t.Action] {
				emit(t)
			}
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs
}
