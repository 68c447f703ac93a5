package schema

import (
	"github.com/dotcommander/geolint/internal/textutil"
	"github.com/dotcommander/geolint/internal/types"
)

// Generated is a JSON-LD object built for a page, with its validation result.
type Generated struct {
	ContentType string           `json:"content_type"`
	SchemaType  string           `json:"schema_type"`
	Schema      map[string]any   `json:"schema"`
	Validation  ValidationResult `json:"validation"`
	GeneratedAt string           `json:"generated_at,omitempty"`
}

// Extraction holds what the text analyzer extracted for schema generation.
type Extraction struct {
	ContentType string
	FAQs        []types.FAQ
	HowTo       types.HowTo
}

const schemaOrgContext = "https://schema.org"

// descriptionLimit bounds generated descriptions, in runes.
const descriptionLimit = 160

// Build creates a JSON-LD object for unit. Unrecognised content types
// produce an Article.
func Build(unit *types.ContentUnit, ex Extraction) map[string]any {
	switch ex.ContentType {
	case types.ContentTypeFAQ:
		return buildFAQPage(unit, ex.FAQs)
	case types.ContentTypeHowTo:
		return buildHowTo(unit, ex.HowTo)
	case types.ContentTypeProduct:
		return skeleton("Product", unit)
	case types.ContentTypeLocalBusiness:
		return skeleton("LocalBusiness", unit)
	default:
		return buildArticle(unit)
	}
}

// Generate builds a JSON-LD object and validates it.
func (v *Validator) Generate(unit *types.ContentUnit, ex Extraction) *Generated {
	contentType := ex.ContentType
	if !types.IsContentType(contentType) {
		contentType = types.ContentTypeArticle
	}
	obj := Build(unit, ex)
	res := v.Validate(obj)
	return &Generated{
		ContentType: contentType,
		SchemaType:  res.SchemaType,
		Schema:      obj,
		Validation:  res,
	}
}

func base(typeName string, unit *types.ContentUnit) map[string]any {
	obj := map[string]any{
		"@context": schemaOrgContext,
		"@type":    typeName,
	}
	if unit.URL != "" {
		obj["url"] = unit.URL
	}
	if d := describe(unit); d != "" {
		obj["description"] = d
	}
	return obj
}

func buildArticle(unit *types.ContentUnit) map[string]any {
	obj := base("Article", unit)
	obj["headline"] = unit.Title
	if unit.URL != "" {
		delete(obj, "url")
		obj["mainEntityOfPage"] = unit.URL
	}
	if author := unit.MetaValue(types.MetaAuthor); author != "" {
		obj["author"] = map[string]any{"@type": "Person", "name": author}
	}
	if published := unit.MetaValue(types.PublishedDateKeys...); published != "" {
		obj["datePublished"] = published
	}
	if modified := unit.MetaValue("date_modified", "dateModified", "modified_time"); modified != "" {
		obj["dateModified"] = modified
	}
	if image := unit.MetaValue("image", "og:image"); image != "" {
		obj["image"] = image
	}
	if publisher := unit.MetaValue("publisher", "og:site_name"); publisher != "" {
		obj["publisher"] = map[string]any{"@type": "Organization", "name": publisher}
	}
	return obj
}

func buildFAQPage(unit *types.ContentUnit, faqs []types.FAQ) map[string]any {
	obj := base("FAQPage", unit)
	obj["name"] = unit.Title
	items := make([]any, 0, len(faqs))
	for _, f := range faqs {
		if f.Question == "" || f.Answer == "" {
			continue
		}
		items = append(items, map[string]any{
			"@type": "Question",
			"name":  f.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  f.Answer,
			},
		})
	}
	obj["mainEntity"] = items
	return obj
}

func buildHowTo(unit *types.ContentUnit, howto types.HowTo) map[string]any {
	obj := base("HowTo", unit)
	obj["name"] = firstNonEmpty(howto.Name, unit.Title)
	if howto.Description != "" {
		obj["description"] = howto.Description
	}
	steps := make([]any, 0, len(howto.Steps))
	for i, s := range howto.Steps {
		step := map[string]any{"@type": "HowToStep", "position": i + 1}
		if s.Name != "" {
			step["name"] = s.Name
		}
		if s.Text != "" {
			step["text"] = s.Text
		}
		steps = append(steps, step)
	}
	obj["step"] = steps
	return obj
}

func skeleton(typeName string, unit *types.ContentUnit) map[string]any {
	obj := base(typeName, unit)
	obj["name"] = unit.Title
	return obj
}

// describe returns the meta description, or the start of the content.
func describe(unit *types.ContentUnit) string {
	if d := unit.MetaValue("description", "og:description"); d != "" {
		return d
	}
	return truncate(textutil.FirstParagraph(unit.Content), descriptionLimit)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
