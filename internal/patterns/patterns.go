// Package patterns holds the lexical pattern tables used by the scorers.
//
// The composite GEO profile and the readability profile keep separate tables.
// They overlap in vocabulary but are calibrated independently, so a change to
// one table must never leak into the other.
package patterns

import (
	"regexp"
	"strings"
)

// Set is a named group of patterns whose matches are counted together.
type Set struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Count returns the total number of non-overlapping matches of every pattern in text.
func (s Set) Count(text string) int {
	n := 0
	for _, re := range s.Patterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// Match reports whether any pattern in the set matches text.
func (s Set) Match(text string) bool {
	for _, re := range s.Patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func newSet(name string, exprs ...string) Set {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		res = append(res, regexp.MustCompile(e))
	}
	return Set{Name: name, Patterns: res}
}

// ListItem matches bulleted or numbered list lines.
var ListItem = regexp.MustCompile(`(?m)^\s*(?:[-*+•]|\d+[.)])\s+\S`)

// MarkdownHeading matches markdown ATX headings and captures the heading text.
var MarkdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s+(.+?)\s*#*\s*$`)

// Statistics shared by both profiles' statistic sets.
const (
	statPercent  = `\d+(?:\.\d+)?\s?%`
	statCurrency = `[$€£¥]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:k|m|bn|million|billion|thousand))?\b`
	statMultiple = `\b\d+(?:\.\d+)?x\b`
)

// GEOPatterns is the pattern table for the composite GEO profile.
type GEOPatterns struct {
	ProperNoun        *regexp.Regexp
	StopWords         map[string]bool
	Definition        Set
	URL               *regexp.Regexp
	DirectAnswer      Set
	Question          *regexp.Regexp
	Statistic         Set
	Citation          Set
	QuotedAttribution Set
	ResearchMention   Set
}

// NewGEOPatterns compiles the composite profile's pattern table.
func NewGEOPatterns() *GEOPatterns {
	return &GEOPatterns{
		ProperNoun: regexp.MustCompile(`\b[A-Z][a-zA-Z0-9'&-]*[a-zA-Z0-9](?:\s+[A-Z][a-zA-Z0-9'&-]*[a-zA-Z0-9])*\b`),
		StopWords: wordSet(
			"the", "a", "an", "this", "that", "these", "those", "what", "why", "how",
			"when", "where", "who", "which", "whose", "it", "its", "in", "on", "at",
			"for", "if", "but", "and", "or", "so", "we", "you", "i", "our", "your",
			"they", "their", "there", "here", "is", "are", "was", "were", "do", "does",
			"can", "will", "should", "would", "could", "to", "of", "with", "as", "by",
			"from", "yes", "no", "not", "all", "some", "many", "most", "each", "every",
			"he", "she", "his", "her", "my", "one", "also", "however", "then", "after",
			"before", "while", "because", "since", "step", "first", "second", "finally",
		),
		Definition: newSet("definition",
			`(?i)\b[a-z0-9][\w-]*\s+(?:is|are)\s+(?:a|an|the)\s`,
			`(?i)\bdefined\s+as\b`,
			`(?i)\brefers?\s+to\b`,
			`(?i)\bknown\s+as\b`,
			`(?i)\balso\s+called\b`,
		),
		URL: regexp.MustCompile(`https?://[^\s)\]>"']+`),
		DirectAnswer: newSet("direct-answer",
			`(?i)\bthe\s+answer\s+is\b`,
			`(?i)\bin\s+short\b`,
			`(?i)\bsimply\s+put\b`,
			`(?i)\bin\s+summary\b`,
			`(?i)\bto\s+summarize\b`,
			`(?im)^\s*(?:yes|no)[,.!]`,
			`(?i)\bthe\s+(?:best|main|key|primary|short)\s+(?:way|reason|difference|benefit|answer)s?\s+(?:is|are)\b`,
		),
		Question: regexp.MustCompile(`(?im)\b(?:what|how|why|when|where|who|which|can|does|do|is|are|should)\b[^?\n.!]*\?`),
		Statistic: newSet("statistic",
			statPercent,
			statCurrency,
			statMultiple,
		),
		Citation: newSet("citation",
			`(?i)\baccording\s+to\b`,
			`(?i)\bsource:`,
			`\[\d+\]`,
			`(?i)\bcited\s+(?:in|by)\b`,
			`(?i)\b(?:study|report|survey|analysis)\s+(?:by|from)\b`,
			`(?i)\bpublished\s+in\b`,
		),
		QuotedAttribution: newSet("quoted-attribution",
			`["“][^"”]{10,}["”]\s*[,—-]?\s*(?:said|says|explains|explained|notes|noted|wrote|according\s+to)\b`,
			`(?i)\b(?:said|says|explains|explained|notes|noted|wrote)\s*[,:]?\s*["“][^"”]{10,}["”]`,
		),
		ResearchMention: newSet("research",
			`(?i)\b(?:research|study|studies|data|survey|analysis|experiment|findings|statistics|report)\b`,
		),
	}
}

// IsStopWord reports whether word is excluded from proper-noun counting.
func (p *GEOPatterns) IsStopWord(word string) bool {
	return p.StopWords[strings.ToLower(word)]
}

// ReadabilityPatterns is the pattern table for the readability profile.
type ReadabilityPatterns struct {
	FillerWords     []*regexp.Regexp
	Definitive      *regexp.Regexp
	Hedge           *regexp.Regexp
	QuestionHeading *regexp.Regexp
	DirectAnswer    Set
	Statistic       Set
	Citation        Set
	ExpertiseMarker Set
}

// NewReadabilityPatterns compiles the readability profile's pattern table.
func NewReadabilityPatterns() *ReadabilityPatterns {
	fillers := []string{
		"very", "really", "just", "basically", "actually", "literally", "quite",
		"simply", "totally", "definitely", "certainly", "probably", "somewhat",
		"rather", "pretty", "kind of", "sort of", "in order to", "a lot", "stuff", "things",
	}
	res := make([]*regexp.Regexp, 0, len(fillers))
	for _, f := range fillers {
		res = append(res, regexp.MustCompile(`(?i)\b`+strings.ReplaceAll(regexp.QuoteMeta(f), " ", `\s+`)+`\b`))
	}
	return &ReadabilityPatterns{
		FillerWords:     res,
		Definitive:      regexp.MustCompile(`(?i)\b(?:is|are|means|provides|enables|reduces|increases|improves|requires|costs|takes|contains|includes)\b`),
		Hedge:           regexp.MustCompile(`(?i)\b(?:might|may|could|perhaps|possibly|maybe|seems|appears|i\s+think|we\s+believe)\b`),
		QuestionHeading: regexp.MustCompile(`(?i)^\s*(?:what|how|why|when|where|who|which|can|does|do|is|are|should)\b|\?\s*$`),
		DirectAnswer: newSet("direct-answer",
			`(?i)\bthe\s+answer\s+is\b`,
			`(?i)\bin\s+short\b`,
			`(?i)\bsimply\s+put\b`,
			`(?i)\bin\s+summary\b`,
			`(?i)\bthe\s+short\s+answer\b`,
			`(?im)^\s*(?:yes|no)[,.!]`,
			`(?im)^\s*(?:q|question)\s*[:.]`,
			`(?im)^\s*(?:a|answer)\s*[:.]`,
		),
		Statistic: newSet("statistic",
			statPercent,
			statCurrency,
			statMultiple,
			`(?i)\b\d[\d,.]*\s+(?:percent|million|billion|users|customers|people|companies)\b`,
		),
		Citation: newSet("citation",
			`(?i)\baccording\s+to\b`,
			`(?i)\bsource:`,
			`\[\d+\]`,
			`(?i)\bcited\s+(?:in|by)\b`,
			`(?i)\b(?:study|report|survey|paper)\s+(?:by|from|in)\b`,
			`(?i)\bet\s+al\.`,
		),
		ExpertiseMarker: newSet("expertise",
			`(?i)\bexperts?\b`,
			`\bPh\.?D\b`,
			`\bDr\.\s`,
			`(?i)\bcertified\b`,
			`(?i)\bprofessor\b`,
			`(?i)\bresearchers?\b`,
			`(?i)\bspecialists?\b`,
			`(?i)\byears\s+of\s+experience\b`,
			`(?i)\bpeer-reviewed\b`,
		),
	}
}

// FillerCount returns the number of filler-word occurrences in text.
func (p *ReadabilityPatterns) FillerCount(text string) int {
	n := 0
	for _, re := range p.FillerWords {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
