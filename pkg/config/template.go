package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Template formats accepted by GenerateTemplate.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
	TemplateJSON = "json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml", "toml" or "json".
	Format string

	// Names seeds the names list. If empty, a short example list is used.
	Names []string
}

// exampleNames is used when no names are supplied.
func exampleNames() []string {
	return []string{"GitHub", "JavaScript", "Node.js"}
}

// GenerateTemplate creates a starter configuration file. The YAML form is
// commented; TOML and JSON carry the same settings without comments.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	names := opts.Names
	if len(names) == 0 {
		names = exampleNames()
	}

	switch opts.Format {
	case "", TemplateYAML:
		return yamlTemplate(names)
	case TemplateTOML:
		out, err := toml.Marshal(templateValues(names))
		if err != nil {
			return nil, fmt.Errorf("marshal toml: %w", err)
		}
		return out, nil
	case TemplateJSON:
		out, err := json.MarshalIndent(templateValues(names), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown template format %q", opts.Format)
	}
}

func templateValues(names []string) map[string]any {
	return map[string]any{
		"flavor": string(FlavorGFM),
		"ignore": []string{"vendor/**", "node_modules/**"},
		"rules": map[string]any{
			ProperNamesRuleID: map[string]any{
				"enabled": true,
				"options": map[string]any{
					"names":         names,
					"code_blocks":   true,
					"html_elements": true,
					"heading_id":    true,
				},
			},
		},
	}
}

func yamlTemplate(names []string) ([]byte, error) {
	list, err := yaml.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("marshal names: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor: commonmark or gfm
flavor: gfm

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"

# Output: text, json, sarif, diff or summary
# format: text

# Number of parallel workers (0 = auto)
# jobs: 0

rules:
  # Also accepted as "proper-names" or "enhanced-proper-names".
  MD044:
    enabled: true
    options:
      # Canonical spellings. Longer names win over names they contain.
      names:
`)
	for _, line := range strings.Split(strings.TrimRight(string(list), "\n"), "\n") {
		buf.WriteString("        " + line + "\n")
	}
	buf.WriteString(`      # Check inside code blocks and code spans.
      code_blocks: true
      # Check inside inline and block HTML.
      html_elements: true
      # Check inside heading IDs such as {#about-github}.
      heading_id: true
`)

	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdnames configuration
# See: https://github.com/yaklabco/mdnames`
}
