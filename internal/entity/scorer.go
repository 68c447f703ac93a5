// Package entity scores how clearly a page identifies its named entities and
// suggests sameAs links that disambiguate them.
package entity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/types"
)

// Sub-score weights of the overall entity score.
const (
	weightDensity = 0.25
	weightQuality = 0.35
	weightKeyword = 0.25
	weightSameAs  = 0.15
)

// densityLengthCap bounds the content length used for the expected entity count.
const densityLengthCap = 20000

// statusWeights is the quality weight per entity status.
var statusWeights = map[string]float64{
	types.EntityFound:   1.0,
	types.EntityWeak:    0.4,
	types.EntityMissing: 0.0,
}

// Recommendation texts, in evaluation order.
const (
	RecLowDensity     = "Mention more named entities (organizations, people, products, places) by their full names so answer engines can anchor the topic."
	RecMissing        = "Introduce the missing entities the topic expects; answer engines favour pages that cover the full entity set."
	RecWeak           = "Strengthen weakly described entities with a one-sentence definition or role the first time they appear."
	RecUnlinked       = "Add sameAs links in your JSON-LD for entities without authoritative profiles (Wikipedia, LinkedIn, Crunchbase)."
	RecKeywords       = "Cover the missing topic keywords in headings or body copy."
	RecLowQuality     = "Describe entities more precisely; vague references lower confidence that the page is about them."
	RecWellStructured = "Entity coverage is strong; keep sameAs links and about/mentions markup current as content changes."
)

// Entity is a named entity with its suggested sameAs links.
type Entity struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Suggestions []string `json:"suggestions"`
	SameAsLinks []string `json:"same_as_links"`
}

// Scores holds the sub-scores, each in [0,1].
type Scores struct {
	Density float64 `json:"density"`
	Quality float64 `json:"quality"`
	Keyword float64 `json:"keyword"`
	SameAs  float64 `json:"same_as"`
}

// Result is the outcome of entity scoring.
type Result struct {
	Entities         []Entity       `json:"entities"`
	Keywords         types.Keywords `json:"keywords"`
	AboutSuggestions []string       `json:"about_suggestions"`
	Scores           Scores         `json:"scores"`
	OverallScore     int            `json:"overall_score"`
	Recommendations  []string       `json:"recommendations"`
	SuggestedSchema  map[string]any `json:"suggested_schema,omitempty"`
	AnalyzedAt       string         `json:"analyzed_at,omitempty"`
}

// Score combines an extracted entity analysis with deterministic sub-scores.
// Existing schemas contribute sameAs links for entities they already name.
func Score(analysis types.EntityAnalysis, content string, existing []map[string]any) Result {
	known := existingSameAs(existing)

	entities := make([]Entity, 0, len(analysis.Entities))
	for _, e := range analysis.Entities {
		ent := Entity{
			Name:        strings.TrimSpace(e.Name),
			Type:        strings.TrimSpace(e.Type),
			Status:      NormalizeStatus(e.Status),
			Suggestions: nonNil(e.Suggestions),
			SameAsLinks: []string{},
		}
		if ent.Status != types.EntityMissing {
			if links, ok := known[strings.ToLower(ent.Name)]; ok && ent.Name != "" {
				ent.SameAsLinks = links
			} else {
				ent.SameAsLinks = SameAsLinks(ent.Name, ent.Type)
			}
		}
		entities = append(entities, ent)
	}

	kw := types.Keywords{
		Primary:   nonNil(analysis.Keywords.Primary),
		Secondary: nonNil(analysis.Keywords.Secondary),
		Missing:   nonNil(analysis.Keywords.Missing),
	}

	scores := Scores{
		Density: Density(len(entities), utf8.RuneCountInString(content)),
		Quality: Quality(entities),
		Keyword: KeywordCoverage(kw),
		SameAs:  SameAsCoverage(entities),
	}

	return Result{
		Entities:         entities,
		Keywords:         kw,
		AboutSuggestions: nonNil(analysis.AboutSuggestions),
		Scores:           scores,
		OverallScore:     Overall(scores),
		Recommendations:  Recommend(entities, kw, scores),
		SuggestedSchema:  AboutMentions(entities),
	}
}

// NormalizeStatus lowercases status; unrecognised values count as weak.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if _, ok := statusWeights[s]; ok {
		return s
	}
	return types.EntityWeak
}

// Density is the entity count relative to two expected entities per
// thousand characters, capped at 1.
func Density(entityCount, contentLength int) float64 {
	length := math.Min(float64(contentLength), densityLengthCap)
	expected := math.Max(1, math.Round(length/1000*2))
	return math.Min(1, float64(entityCount)/expected)
}

// Quality is the mean status weight, or 0 with no entities.
func Quality(entities []Entity) float64 {
	if len(entities) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entities {
		sum += statusWeights[e.Status]
	}
	return sum / float64(len(entities))
}

// KeywordCoverage is the covered share of all keywords, or 1 with none.
func KeywordCoverage(kw types.Keywords) float64 {
	covered := len(kw.Primary) + len(kw.Secondary)
	total := covered + len(kw.Missing)
	if total == 0 {
		return 1
	}
	return float64(covered) / float64(total)
}

// SameAsCoverage is the share of non-missing entities with at least one
// link, or 0 when every entity is missing.
func SameAsCoverage(entities []Entity) float64 {
	present, linked := 0, 0
	for _, e := range entities {
		if e.Status == types.EntityMissing {
			continue
		}
		present++
		if len(e.SameAsLinks) > 0 {
			linked++
		}
	}
	if present == 0 {
		return 0
	}
	return float64(linked) / float64(present)
}

// Overall weighs the sub-scores into a 0-100 score.
func Overall(s Scores) int {
	v := 100 * (s.Density*weightDensity + s.Quality*weightQuality + s.Keyword*weightKeyword + s.SameAs*weightSameAs)
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Recommend evaluates the fixed rule list; each rule adds at most one entry.
func Recommend(entities []Entity, kw types.Keywords, s Scores) []string {
	var missing, weak, unlinked bool
	for _, e := range entities {
		switch e.Status {
		case types.EntityMissing:
			missing = true
		case types.EntityWeak:
			weak = true
		}
		if e.Status != types.EntityMissing && len(e.SameAsLinks) == 0 {
			unlinked = true
		}
	}

	rules := []struct {
		hit  bool
		text string
	}{
		{s.Density < 0.5, RecLowDensity},
		{missing, RecMissing},
		{weak, RecWeak},
		{unlinked, RecUnlinked},
		{len(kw.Missing) > 0, RecKeywords},
		{s.Quality < 0.6, RecLowQuality},
	}

	recs := []string{}
	for _, r := range rules {
		if r.hit {
			recs = append(recs, r.text)
		}
	}
	if len(recs) == 0 {
		recs = append(recs, RecWellStructured)
	}
	return recs
}

// AboutMentions suggests about/mentions markup: the first found entity is
// the page's subject and the remaining non-missing entities are mentions.
// Returns nil when there is nothing to mark up.
func AboutMentions(entities []Entity) map[string]any {
	var about map[string]any
	var mentions []any
	for _, e := range entities {
		if e.Status == types.EntityMissing || e.Name == "" {
			continue
		}
		node := map[string]any{
			"@type": typeOrThing(e.Type),
			"name":  e.Name,
		}
		if len(e.SameAsLinks) > 0 {
			node["sameAs"] = e.SameAsLinks
		}
		if about == nil && e.Status == types.EntityFound {
			about = node
			continue
		}
		mentions = append(mentions, node)
	}
	if about == nil && len(mentions) == 0 {
		return nil
	}

	out := map[string]any{"@context": "https://schema.org"}
	if about != nil {
		out["about"] = about
	}
	if len(mentions) > 0 {
		out["mentions"] = mentions
	}
	return out
}

// existingSameAs indexes sameAs links of named objects in existing schemas
// by lowercased name.
func existingSameAs(existing []map[string]any) map[string][]string {
	out := make(map[string][]string)
	var visit func(obj map[string]any)
	visit = func(obj map[string]any) {
		if name, ok := jsonld.String(obj["name"]); ok && name != "" {
			if links := stringList(obj["sameAs"]); len(links) > 0 {
				out[strings.ToLower(name)] = links
			}
		}
		for k, v := range obj {
			if strings.HasPrefix(k, "@") {
				continue
			}
			for _, child := range jsonld.AsObjects(v) {
				visit(child)
			}
		}
	}
	for _, obj := range jsonld.Flatten(existing) {
		visit(obj)
	}
	return out
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return t
	}
	return nil
}

func typeOrThing(t string) string {
	if t == "" {
		return "Thing"
	}
	return t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
