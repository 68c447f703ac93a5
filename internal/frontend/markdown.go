package frontend

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/textutil"
	"github.com/dotcommander/geolint/internal/types"
)

var firstH1 = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*#*[ \t]*$`)

// metaAliases maps top-level frontmatter keys onto the metadata keys the
// scorers read. Earlier entries win when several keys are set.
var metaAliases = []struct{ key, meta string }{
	{"author", types.MetaAuthor},
	{"published_date", "published_date"},
	{"datePublished", "published_date"},
	{"date", "published_date"},
	{"published", "published_date"},
	{"date_modified", "date_modified"},
	{"dateModified", "date_modified"},
	{"updated", "date_modified"},
	{"description", "description"},
	{"image", "image"},
	{"publisher", "publisher"},
}

// LoadMarkdown builds a content unit from a markdown document. Frontmatter
// may carry url, title, headings, meta and schemas; common keys such as
// author and date are folded into meta. The title falls back to the first
// H1 and headings to those found in the body.
func LoadMarkdown(content, source string) (*types.ContentUnit, error) {
	fm, err := ParseYAMLFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid frontmatter: %w", source, err)
	}

	body := strings.TrimSpace(fm.Body)
	unit := &types.ContentUnit{
		URL:     stringField(fm.Data, "url"),
		Title:   stringField(fm.Data, "title"),
		Content: body,
		Meta:    make(map[string]string),
		Source:  source,
	}

	for _, a := range metaAliases {
		if _, set := unit.Meta[a.meta]; set {
			continue
		}
		if s := metaString(fm.Data[a.key]); s != "" {
			unit.Meta[a.meta] = s
		}
	}
	if m, ok := fm.Data["meta"].(map[string]interface{}); ok {
		for k, v := range m {
			if s := metaString(v); s != "" {
				unit.Meta[k] = s
			}
		}
	}
	if len(unit.Meta) == 0 {
		unit.Meta = nil
	}

	if hs := stringList(fm.Data["headings"]); len(hs) > 0 {
		unit.Headings = hs
	} else {
		unit.Headings = textutil.HeadingsFrom(body)
	}

	if unit.Title == "" {
		if m := firstH1.FindStringSubmatch(body); m != nil {
			unit.Title = strings.TrimSpace(m[1])
		} else if len(unit.Headings) > 0 {
			unit.Title = unit.Headings[0]
		}
	}

	if raw, ok := fm.Data["schemas"]; ok {
		unit.Schemas = jsonld.Flatten(normalizeYAML(raw))
	} else if raw, ok := fm.Data["schema"]; ok {
		unit.Schemas = jsonld.Flatten(normalizeYAML(raw))
	}

	return unit, nil
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return strings.TrimSpace(s)
}

// metaString renders a scalar frontmatter value as metadata text. Dates
// become YYYY-MM-DD; maps with a name (an author object) yield the name.
func metaString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format("2006-01-02")
	case map[string]interface{}:
		if name, ok := t["name"].(string); ok {
			return strings.TrimSpace(name)
		}
		return ""
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := metaString(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// normalizeYAML converts YAML-decoded values into the shapes encoding/json
// produces, so JSON-LD helpers see the same types for both sources.
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeYAML(e)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return t
	}
}
