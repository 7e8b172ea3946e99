package configloader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdnames/pkg/config"
)

// topLevelKeys maps accepted spellings to the canonical YAML key.
//
//nolint:gochecknoglobals // Read-only lookup table.
var topLevelKeys = map[string]string{
	"flavor":          "flavor",
	"rules":           "rules",
	"ignore":          "ignore",
	"backups":         "backups",
	"backup":          "backups",
	"jobs":            "jobs",
	"format":          "format",
	"output":          "format",
	"rule_format":     "rule_format",
	"color":           "color",
	"follow_symlinks": "follow_symlinks",
	"max_fix_passes":  "max_fix_passes",
}

// ruleConfigKeys are the RuleConfig fields. Any other key inside a rule
// block is treated as an option, so markdownlint-style blocks such as
// {names: [...], code_blocks: false} are accepted as-is.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ruleConfigKeys = map[string]string{
	"enabled":  "enabled",
	"severity": "severity",
	"auto_fix": "auto_fix",
	"autofix":  "auto_fix",
	"options":  "options",
}

// loadConfigFile reads path and decodes it by extension.
func loadConfigFile(path string) (*config.Config, error) {
	raw, err := readRawConfig(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeConfigMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// readRawConfig decodes a YAML, TOML, JSON or JSONC file into a generic map.
func readRawConfig(path string) (map[string]any, error) {
	return readRawConfigAs(path, configFormat(path))
}

func readRawConfigAs(path, format string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw map[string]any
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &raw)
	case "toml":
		err = toml.Unmarshal(data, &raw)
	case "json":
		err = json.Unmarshal(data, &raw)
	case "jsonc":
		err = unmarshalJSONC(data, &raw)
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// decodeConfigMap normalizes key spellings and converts raw into a Config.
// The normalized map is re-encoded through yaml so every source format
// shares the Config struct tags.
func decodeConfigMap(raw map[string]any) (*config.Config, error) {
	normalized := make(map[string]any, len(raw))
	for key, value := range raw {
		canonical, ok := topLevelKeys[normalizeKey(key)]
		if !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}

		switch canonical {
		case "rules":
			rules, err := normalizeRules(value)
			if err != nil {
				return nil, err
			}
			value = rules
		case "backups":
			value = normalizeBackups(value)
		}
		normalized[canonical] = value
	}

	data, err := yaml.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeRules(value any) (map[string]any, error) {
	if value == nil {
		return nil, nil
	}
	block, err := toStringKeyMap(value)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	out := make(map[string]any, len(block))
	for ruleKey, ruleValue := range block {
		rc, err := normalizeRuleValue(ruleValue)
		if err != nil {
			return nil, fmt.Errorf("rules.%s: %w", ruleKey, err)
		}
		out[ruleKey] = rc
	}
	return out, nil
}

// normalizeRuleValue accepts a bool shorthand, null (disabled), or a map.
func normalizeRuleValue(value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return map[string]any{"enabled": false}, nil
	case bool:
		return map[string]any{"enabled": v}, nil
	}

	block, err := toStringKeyMap(value)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(block))
	var options map[string]any
	for key, val := range block {
		if canonical, ok := ruleConfigKeys[normalizeKey(key)]; ok {
			if canonical == "options" {
				opts, err := toStringKeyMap(val)
				if err != nil {
					return nil, fmt.Errorf("options: %w", err)
				}
				options = mergeOptions(options, opts)
				continue
			}
			out[canonical] = val
			continue
		}
		options = mergeOptions(options, map[string]any{normalizeKey(key): val})
	}
	if options != nil {
		out["options"] = options
	}
	return out, nil
}

func normalizeBackups(value any) any {
	if b, ok := value.(bool); ok {
		return map[string]any{"enabled": b}
	}
	block, err := toStringKeyMap(value)
	if err != nil {
		return value
	}
	out := make(map[string]any, len(block))
	for key, val := range block {
		out[normalizeKey(key)] = val
	}
	return out
}

func mergeOptions(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, val := range src {
		dst[normalizeKey(key)] = val
	}
	return dst
}

// normalizeKey lower-cases key and folds dashes to underscores.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

func toStringKeyMap(value any) (map[string]any, error) {
	switch m := value.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", value)
	}
}

// unmarshalJSONC decodes JSON with comments and trailing commas, the
// dialect markdownlint accepts in its config files.
func unmarshalJSONC(data []byte, v any) error {
	standard, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(standard, v)
}
