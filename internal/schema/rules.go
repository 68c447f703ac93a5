package schema

import (
	"fmt"

	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/types"
)

// rule runs type-specific structural checks. Errors it returns count as
// structural errors for completeness.
type rule func(obj map[string]any) ([]Error, []Warning)

// postalFields are the standard PostalAddress sub-fields.
var postalFields = []string{"streetAddress", "addressLocality", "addressRegion", "postalCode", "addressCountry"}

func structuralRules() map[string]rule {
	return map[string]rule{
		"FAQPage":       checkFAQPage,
		"HowTo":         checkHowTo,
		"Product":       checkProduct,
		"LocalBusiness": checkLocalBusiness,
		"Article":       checkArticle,
		"NewsArticle":   checkArticle,
		"BlogPosting":   checkArticle,
	}
}

// checkFAQPage requires mainEntity to be an array of Question items with a
// name and an acceptedAnswer. An absent or empty mainEntity is already
// reported as a missing required field.
func checkFAQPage(obj map[string]any) ([]Error, []Warning) {
	if !jsonld.FieldPresent(obj, "mainEntity") {
		return nil, nil
	}
	items, ok := obj["mainEntity"].([]any)
	if !ok {
		return []Error{{
			Field:    "mainEntity",
			Message:  "FAQPage mainEntity must be an array of Question items",
			Severity: types.SeverityError,
		}}, nil
	}

	var errs []Error
	for i, item := range items {
		field := fmt.Sprintf("mainEntity[%d]", i)
		q, ok := item.(map[string]any)
		if !ok || jsonld.TypeOf(q) != "Question" {
			errs = append(errs, Error{
				Field:    field,
				Message:  "FAQPage mainEntity items must be Question objects",
				Severity: types.SeverityError,
			})
			continue
		}
		if !jsonld.FieldPresent(q, "name") {
			errs = append(errs, Error{
				Field:    field + ".name",
				Message:  "Question is missing its name (the question text)",
				Severity: types.SeverityError,
			})
		}
		if !jsonld.FieldPresent(q, "acceptedAnswer") {
			errs = append(errs, Error{
				Field:    field + ".acceptedAnswer",
				Message:  "Question is missing acceptedAnswer",
				Severity: types.SeverityError,
			})
		}
	}
	return errs, nil
}

// checkHowTo requires step to be an array; each step should carry a name or text.
func checkHowTo(obj map[string]any) ([]Error, []Warning) {
	if !jsonld.FieldPresent(obj, "step") {
		return nil, nil
	}
	steps, ok := obj["step"].([]any)
	if !ok {
		return []Error{{
			Field:    "step",
			Message:  "HowTo step must be a non-empty array of HowToStep items",
			Severity: types.SeverityError,
		}}, nil
	}

	var warns []Warning
	for i, item := range steps {
		step, ok := item.(map[string]any)
		if !ok {
			if s, isString := item.(string); isString && jsonld.ValuePresent(s) {
				continue
			}
			step = map[string]any{}
		}
		if !jsonld.FieldPresent(step, "name") && !jsonld.FieldPresent(step, "text") {
			warns = append(warns, Warning{
				Field:      fmt.Sprintf("step[%d]", i),
				Message:    "Step has neither name nor text",
				Suggestion: "Give every HowToStep a short name and the instruction text",
			})
		}
	}
	return nil, warns
}

// checkProduct warns when offers lack a price or availability.
func checkProduct(obj map[string]any) ([]Error, []Warning) {
	if !jsonld.FieldPresent(obj, "offers") {
		return nil, nil
	}
	offers := jsonld.AsObjects(obj["offers"])
	if len(offers) == 0 {
		return nil, []Warning{{
			Field:      "offers",
			Message:    "offers should be an Offer object",
			Suggestion: "Describe offers as an Offer with price, priceCurrency and availability",
		}}
	}

	var warns []Warning
	for i, offer := range offers {
		prefix := "offers"
		if len(offers) > 1 {
			prefix = fmt.Sprintf("offers[%d]", i)
		}
		if !jsonld.FieldPresent(offer, "price") && !jsonld.FieldPresent(offer, "priceRange") {
			warns = append(warns, Warning{
				Field:      prefix + ".price",
				Message:    "Offer has no price or priceRange",
				Suggestion: "Add price and priceCurrency so answer engines can quote it",
			})
		}
		if !jsonld.FieldPresent(offer, "availability") {
			warns = append(warns, Warning{
				Field:      prefix + ".availability",
				Message:    "Offer has no availability",
				Suggestion: `Add availability, for example "https://schema.org/InStock"`,
			})
		}
	}
	return nil, warns
}

// checkLocalBusiness warns on every missing PostalAddress sub-field.
func checkLocalBusiness(obj map[string]any) ([]Error, []Warning) {
	if !jsonld.FieldPresent(obj, "address") {
		return nil, nil
	}
	addr, ok := obj["address"].(map[string]any)
	if !ok {
		return nil, []Warning{{
			Field:      "address",
			Message:    "address is not a PostalAddress object",
			Suggestion: "Use a PostalAddress with " + joinFields(postalFields),
		}}
	}

	var warns []Warning
	for _, f := range postalFields {
		if !jsonld.FieldPresent(addr, f) {
			warns = append(warns, Warning{
				Field:      "address." + f,
				Message:    fmt.Sprintf("address is missing %s", f),
				Suggestion: fmt.Sprintf("Add %s to the PostalAddress", f),
			})
		}
	}
	return nil, warns
}

// checkArticle warns on bare-string authors and publishers without a logo.
func checkArticle(obj map[string]any) ([]Error, []Warning) {
	var warns []Warning

	if jsonld.FieldPresent(obj, "author") {
		authors := obj["author"]
		list, isList := authors.([]any)
		if !isList {
			list = []any{authors}
		}
		for _, a := range list {
			if _, isString := a.(string); isString {
				warns = append(warns, Warning{
					Field:      "author",
					Message:    "author is a plain string",
					Suggestion: `Use a Person or Organization object, e.g. {"@type": "Person", "name": "..."}`,
				})
				break
			}
		}
	}

	if jsonld.FieldPresent(obj, "publisher") {
		pub, ok := obj["publisher"].(map[string]any)
		if !ok || !jsonld.FieldPresent(pub, "logo") {
			warns = append(warns, Warning{
				Field:      "publisher.logo",
				Message:    "publisher has no logo",
				Suggestion: "Give the publisher Organization a logo ImageObject",
			})
		}
	}
	return nil, warns
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		switch {
		case i == 0:
			out = f
		case i == len(fields)-1:
			out += " and " + f
		default:
			out += ", " + f
		}
	}
	return out
}
