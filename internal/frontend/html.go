package frontend

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/types"
)

// htmlMetaKeys maps meta tag names and properties onto metadata keys.
// Open Graph properties not listed are kept under their own name.
var htmlMetaKeys = map[string]string{
	"author":                 types.MetaAuthor,
	"article:author":         types.MetaAuthor,
	"description":            "description",
	"article:published_time": "published_time",
	"date":                   "published_date",
	"article:modified_time":  "modified_time",
	"publisher":              "publisher",
}

const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,pre,blockquote"

// LoadHTML builds a content unit from a rendered HTML page. Metadata,
// headings and JSON-LD blocks are read from the whole document; the body
// text comes from the main article as go-readability sees it, falling back
// to the page body. pageURL may be empty, in which case the canonical link
// or og:url is used.
func LoadHTML(content, source, pageURL string) (*types.ContentUnit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: cannot parse html: %w", source, err)
	}

	unit := &types.ContentUnit{
		URL:    strings.TrimSpace(pageURL),
		Meta:   readMeta(doc),
		Source: source,
	}
	if unit.URL == "" {
		unit.URL = firstNonBlank(
			attr(doc.Find(`link[rel="canonical"]`), "href"),
			unit.Meta["og:url"],
		)
	}

	unit.Title = firstNonBlank(
		normalizeText(doc.Find("title").First().Text()),
		unit.Meta["og:title"],
		normalizeText(doc.Find("h1").First().Text()),
	)

	doc.Find("h1,h2,h3,h4,h5,h6").Each(func(i int, s *goquery.Selection) {
		if text := normalizeText(s.Text()); text != "" {
			unit.Headings = append(unit.Headings, text)
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			unit.SchemaErrors = append(unit.SchemaErrors,
				fmt.Sprintf("ld+json block %d is not valid JSON: %v", i+1, err))
			return
		}
		unit.Schemas = append(unit.Schemas, jsonld.Flatten(v)...)
	})

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(content), parseURL(unit.URL))
	if err == nil {
		unit.Content = renderArticle(article.Content)
		if byline := normalizeText(article.Byline); byline != "" && unit.Meta[types.MetaAuthor] == "" {
			unit.Meta[types.MetaAuthor] = byline
		}
		if article.PublishedTime != nil && unit.MetaValue(types.PublishedDateKeys...) == "" {
			unit.Meta["published_date"] = article.PublishedTime.Format("2006-01-02")
		}
	}
	if unit.Content == "" {
		body := doc.Find("body")
		body.Find("script,style,noscript,nav,header,footer").Remove()
		unit.Content = render(body)
	}

	if len(unit.Meta) == 0 {
		unit.Meta = nil
	}
	return unit, nil
}

func readMeta(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta[name],meta[property]").Each(func(i int, s *goquery.Selection) {
		name := strings.ToLower(firstNonBlank(attr(s, "property"), attr(s, "name")))
		value := attr(s, "content")
		if name == "" || value == "" {
			return
		}
		key, ok := htmlMetaKeys[name]
		if !ok {
			if !strings.HasPrefix(name, "og:") {
				return
			}
			key = name
		}
		if _, set := meta[key]; !set {
			meta[key] = value
		}
	})
	return meta
}

// renderArticle converts readability's cleaned HTML into markdown-like text.
func renderArticle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return render(doc.Selection)
}

// render walks the block elements of sel and emits markdown-like text:
// headings keep their level, list items get markers, absolute links keep
// their target in parentheses.
func render(sel *goquery.Selection) string {
	sel.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href := attr(a, "href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return
		}
		a.SetText(fmt.Sprintf("%s (%s)", normalizeText(a.Text()), href))
	})

	var b strings.Builder
	prevList := false
	sel.Find(blockSelector).Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if s.ParentsFiltered("li").Length() > 0 {
			return
		}
		if tag != "blockquote" && s.ParentsFiltered("blockquote").Length() > 0 {
			return
		}

		text := normalizeText(s.Text())
		if tag == "pre" {
			text = strings.TrimSpace(s.Text())
		}
		if text == "" {
			return
		}

		var block string
		switch tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			block = strings.Repeat("#", int(tag[1]-'0')) + " " + text
		case "li":
			if goquery.NodeName(s.Parent()) == "ol" {
				block = fmt.Sprintf("%d. %s", s.Index()+1, text)
			} else {
				block = "- " + text
			}
		case "blockquote":
			block = "> " + text
		default:
			block = text
		}

		isList := tag == "li"
		if b.Len() > 0 {
			if isList && prevList {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(block)
		prevList = isList
	})
	return b.String()
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
			b.WriteString(strings.Join(fields, " "))
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

func parseURL(raw string) *url.URL {
	if u, err := url.Parse(raw); err == nil && raw != "" {
		return u
	}
	return &url.URL{}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
