// Package textutil segments page text into sentences, words and paragraphs.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dotcommander/geolint/internal/patterns"
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+(?:["'”’)\]]*)(?:\s+|$)`)
	blankLine   = regexp.MustCompile(`\n\s*\n`)
	headingLine = regexp.MustCompile(`^\s*#{1,6}\s+`)
	listMarker  = regexp.MustCompile(`^\s*(?:[-*+•]|\d+[.)])\s+`)
)

// Metrics holds basic counts over a block of text.
type Metrics struct {
	Words             []string
	WordCount         int
	Sentences         []string
	SentenceCount     int
	Paragraphs        []string
	ParagraphCount    int
	ListItemCount     int
	AvgSentenceLength float64
	AvgParagraphWords float64
}

// Analyze segments text and computes its metrics.
func Analyze(text string) Metrics {
	m := Metrics{
		Words:      Words(text),
		Sentences:  Sentences(text),
		Paragraphs: Paragraphs(text),
	}
	m.WordCount = len(m.Words)
	m.SentenceCount = len(m.Sentences)
	m.ParagraphCount = len(m.Paragraphs)
	m.ListItemCount = len(patterns.ListItem.FindAllStringIndex(text, -1))

	if m.SentenceCount > 0 {
		total := 0
		for _, s := range m.Sentences {
			total += len(Words(s))
		}
		m.AvgSentenceLength = float64(total) / float64(m.SentenceCount)
	}
	if m.ParagraphCount > 0 {
		total := 0
		for _, p := range m.Paragraphs {
			total += len(Words(p))
		}
		m.AvgParagraphWords = float64(total) / float64(m.ParagraphCount)
	}
	return m
}

// Words returns whitespace tokens that contain at least one letter or digit.
func Words(text string) []string {
	var words []string
	for _, tok := range strings.Fields(text) {
		if hasWordRune(tok) {
			words = append(words, tok)
		}
	}
	return words
}

// Sentences splits text into sentences. Headings are skipped and each list
// item is its own segment; a sentence must contain at least one word.
func Sentences(text string) []string {
	var out []string
	for _, seg := range segments(text) {
		for _, s := range splitSentences(seg) {
			if len(Words(s)) > 0 {
				out = append(out, s)
			}
		}
	}
	return out
}

// Paragraphs returns blank-line separated prose blocks. Heading lines are
// dropped and blocks made only of list items are not paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, block := range blankLine.Split(normalizeNewlines(text), -1) {
		var prose []string
		for _, line := range strings.Split(block, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || headingLine.MatchString(line) || listMarker.MatchString(line) {
				continue
			}
			prose = append(prose, trimmed)
		}
		if len(prose) == 0 {
			continue
		}
		p := strings.Join(prose, " ")
		if len(Words(p)) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// FirstParagraph returns the first prose paragraph of text, or "".
func FirstParagraph(text string) string {
	ps := Paragraphs(text)
	if len(ps) == 0 {
		return ""
	}
	return ps[0]
}

// HeadingsFrom returns the text of markdown headings found in content.
func HeadingsFrom(content string) []string {
	var out []string
	for _, m := range patterns.MarkdownHeading.FindAllStringSubmatch(normalizeNewlines(content), -1) {
		if h := strings.TrimSpace(m[1]); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// segments groups lines into sentence-bearing runs: consecutive prose lines
// are joined, list items stand alone, headings are dropped.
func segments(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case headingLine.MatchString(line):
			flush()
		case listMarker.MatchString(line):
			flush()
			out = append(out, strings.TrimSpace(listMarker.ReplaceAllString(line, "")))
		default:
			cur = append(cur, trimmed)
		}
	}
	flush()
	return out
}

func splitSentences(seg string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(seg, -1) {
		if s := strings.TrimSpace(seg[start:loc[1]]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(seg[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
