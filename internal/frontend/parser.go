// Package frontend turns source files into content units: markdown with YAML
// frontmatter, rendered HTML pages and standalone JSON-LD documents.
package frontend

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents parsed frontmatter data
type Frontmatter struct {
	Data map[string]interface{}
	Body string
}

// ParseYAMLFrontmatter extracts YAML frontmatter from markdown content. The
// block must open the document; a later --- is body text.
func ParseYAMLFrontmatter(content string) (*Frontmatter, error) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---") {
		return &Frontmatter{
			Data: make(map[string]interface{}),
			Body: content,
		}, nil
	}

	// Split content by ---
	parts := strings.SplitN(trimmed, "---", 3)

	// An unterminated block is treated as body
	if len(parts) < 3 {
		return &Frontmatter{
			Data: make(map[string]interface{}),
			Body: content,
		}, nil
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal([]byte(parts[1]), &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[string]interface{})
	}

	return &Frontmatter{
		Data: data,
		Body: parts[2],
	}, nil
}
