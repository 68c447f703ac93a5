// Package jsonld provides the small primitives shared by every component that
// reads JSON-LD objects: type resolution, field presence and graph flattening.
package jsonld

import (
	"strings"
)

// UnknownType is returned when an object's @type cannot be resolved.
const UnknownType = "Unknown"

// ResolveType normalizes a @type value. A string is returned as is; for an
// array the first string entry other than "Thing" wins. Anything else
// resolves to UnknownType.
func ResolveType(v any) string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" && s != "Thing" {
				return strings.TrimSpace(s)
			}
		}
	case []string:
		for _, s := range t {
			if strings.TrimSpace(s) != "" && s != "Thing" {
				return strings.TrimSpace(s)
			}
		}
	}
	return UnknownType
}

// TypeOf resolves the @type of obj.
func TypeOf(obj map[string]any) string {
	if obj == nil {
		return UnknownType
	}
	return ResolveType(obj["@type"])
}

// FieldPresent reports whether field carries a value. Absent keys, nil,
// whitespace-only strings and empty arrays are not present; everything else
// is, including empty objects, zero and false.
func FieldPresent(obj map[string]any, field string) bool {
	v, ok := obj[field]
	if !ok {
		return false
	}
	return ValuePresent(v)
}

// ValuePresent applies the FieldPresent test to a bare value.
func ValuePresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case []map[string]any:
		return len(t) > 0
	}
	return true
}

// Flatten expands a decoded JSON-LD document into its objects. A single
// object, an array of objects and an @graph container are all accepted.
// Non-object entries are dropped.
func Flatten(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case map[string]any:
		if g, ok := t["@graph"].([]any); ok {
			ctx, hasCtx := t["@context"]
			for _, item := range g {
				obj, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if _, has := obj["@context"]; !has && hasCtx {
					obj = withContext(obj, ctx)
				}
				out = append(out, obj)
			}
			return out
		}
		out = append(out, t)
	case []any:
		for _, item := range t {
			out = append(out, Flatten(item)...)
		}
	case []map[string]any:
		for _, item := range t {
			out = append(out, Flatten(item)...)
		}
	}
	return out
}

// AsObjects returns v as a list of objects when it is an object or an array
// of objects; non-object array entries are skipped.
func AsObjects(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		var out []map[string]any
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case []map[string]any:
		return t
	}
	return nil
}

// String returns v as a trimmed string when it is one.
func String(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func withContext(obj map[string]any, ctx any) map[string]any {
	cp := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		cp[k] = v
	}
	cp["@context"] = ctx
	return cp
}
