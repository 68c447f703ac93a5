package frontend

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/geolint/internal/discovery"
	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/types"
)

// Document is a loaded input file. Pages carry a content unit whose schemas
// are the page's embedded JSON-LD; schema files carry objects only.
type Document struct {
	Source  string
	Type    discovery.FileType
	Unit    *types.ContentUnit
	Schemas []map[string]any
}

// Load parses a discovered file according to its type.
func Load(f discovery.File) (*Document, error) {
	doc := &Document{Source: f.RelPath, Type: f.Type}
	switch f.Type {
	case discovery.FileTypeMarkdown:
		unit, err := LoadMarkdown(f.Contents, f.RelPath)
		if err != nil {
			return nil, err
		}
		doc.Unit, doc.Schemas = unit, unit.Schemas
	case discovery.FileTypeHTML:
		unit, err := LoadHTML(f.Contents, f.RelPath, "")
		if err != nil {
			return nil, err
		}
		doc.Unit, doc.Schemas = unit, unit.Schemas
	case discovery.FileTypeSchema:
		schemas, err := LoadSchemas(f.Contents, f.RelPath)
		if err != nil {
			return nil, err
		}
		doc.Schemas = schemas
	default:
		return nil, fmt.Errorf("%s: unsupported file type", f.RelPath)
	}
	return doc, nil
}

// LoadSchemas decodes a JSON-LD document from JSON or YAML, chosen by the
// source's extension, and flattens it into its objects.
func LoadSchemas(content, source string) ([]map[string]any, error) {
	var v any
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(content), &v); err != nil {
			return nil, fmt.Errorf("%s: invalid yaml: %w", source, err)
		}
		v = normalizeYAML(v)
	default:
		if err := json.Unmarshal([]byte(content), &v); err != nil {
			return nil, fmt.Errorf("%s: invalid json: %w", source, err)
		}
	}

	schemas := jsonld.Flatten(v)
	if len(schemas) == 0 {
		return nil, fmt.Errorf("%s: no JSON-LD objects found", source)
	}
	return schemas, nil
}
