package entity

import (
	"net/url"
	"strings"
	"unicode"
)

type linkTemplate func(name string) string

func wikipedia(name string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(name, " ", "_"))
}

func linkedInCompany(name string) string {
	return slugLink("https://www.linkedin.com/company/", name)
}

func linkedInProfile(name string) string {
	return slugLink("https://www.linkedin.com/in/", name)
}

func crunchbase(name string) string {
	return slugLink("https://www.crunchbase.com/organization/", name)
}

func googleSearch(name string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(name)
}

func g2(name string) string {
	return slugLink("https://www.g2.com/products/", name)
}

func trustpilot(name string) string {
	return "https://www.trustpilot.com/search?query=" + url.QueryEscape(name)
}

func googleMaps(name string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(name)
}

// linkTemplates maps a link family to its templates, in suggestion order.
var linkTemplates = map[string][]linkTemplate{
	"Organization": {wikipedia, linkedInCompany, crunchbase},
	"Person":       {wikipedia, linkedInProfile},
	"Product":      {googleSearch, g2, trustpilot},
	"Place":        {googleMaps, wikipedia},
	"Event":        {wikipedia, googleSearch},
}

// typeFamilies folds Schema.org subtypes onto a link family.
var typeFamilies = map[string]string{
	"Corporation":             "Organization",
	"EducationalOrganization": "Organization",
	"NGO":                     "Organization",
	"GovernmentOrganization":  "Organization",
	"LocalBusiness":           "Organization",
	"Brand":                   "Product",
	"SoftwareApplication":     "Product",
	"City":                    "Place",
	"Country":                 "Place",
	"AdministrativeArea":      "Place",
}

// SameAsLinks returns suggested sameAs URLs for an entity. Unknown types get
// a Wikipedia link only; blank names get none.
func SameAsLinks(name, typeName string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{}
	}
	family := strings.TrimSpace(typeName)
	if f, ok := typeFamilies[family]; ok {
		family = f
	}
	templates, ok := linkTemplates[family]
	if !ok {
		templates = []linkTemplate{wikipedia}
	}
	links := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		if link := tmpl(name); link != "" {
			links = append(links, link)
		}
	}
	return links
}

// slugLink appends the slug of name to base, or returns "" when name has
// no letters or digits.
func slugLink(base, name string) string {
	sl := slug(name)
	if sl == "" {
		return ""
	}
	return base + url.PathEscape(sl)
}

// slug lowercases name and joins its letter and digit runs with hyphens.
func slug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
