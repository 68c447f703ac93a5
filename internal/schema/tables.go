package schema

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

const tablesFile = "schemas/schemaorg.cue"

// FieldTables holds the required and recommended fields per Schema.org type.
type FieldTables struct {
	Required    map[string][]string
	Recommended map[string][]string
}

// LoadFieldTables compiles the embedded CUE field tables.
func LoadFieldTables() (*FieldTables, error) {
	content, err := schemaFS.ReadFile(tablesFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded field tables: %w", err)
	}
	return CompileFieldTables(content)
}

// CompileFieldTables compiles CUE source declaring `required` and
// `recommended` tables and decodes them.
func CompileFieldTables(src []byte) (*FieldTables, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename("schemaorg.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling field tables: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating field tables: %w", err)
	}

	tables := &FieldTables{}
	if err := v.LookupPath(cue.ParsePath("required")).Decode(&tables.Required); err != nil {
		return nil, fmt.Errorf("decoding required fields: %w", err)
	}
	if err := v.LookupPath(cue.ParsePath("recommended")).Decode(&tables.Recommended); err != nil {
		return nil, fmt.Errorf("decoding recommended fields: %w", err)
	}
	if len(tables.Required) == 0 {
		return nil, fmt.Errorf("field tables declare no required fields")
	}
	for t := range tables.Recommended {
		if _, ok := tables.Required[t]; !ok {
			return nil, fmt.Errorf("type %s has recommended fields but no required entry", t)
		}
	}
	return tables, nil
}

// RequiredFor returns the required fields of typeName, defaulting to @type.
func (t *FieldTables) RequiredFor(typeName string) []string {
	if fields, ok := t.Required[typeName]; ok {
		return fields
	}
	return []string{"@type"}
}

// RecommendedFor returns the recommended fields of typeName, or nil.
func (t *FieldTables) RecommendedFor(typeName string) []string {
	return t.Recommended[typeName]
}

// Known reports whether typeName has an entry in the required table.
func (t *FieldTables) Known(typeName string) bool {
	_, ok := t.Required[typeName]
	return ok
}
