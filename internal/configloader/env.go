package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/propernames"
)

// envVarPrefix is the prefix for all mdnames environment variables.
const envVarPrefix = "MDNAMES_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config
// fields. Fields prefixed with "md044." are proper names rule options.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"NAMES":         {"md044." + propernames.OptionNames, envTypeSlice, "Comma-separated proper names"},
	"CODE_BLOCKS":   {"md044." + propernames.OptionCodeBlocks, envTypeBool, "Check code blocks and spans: true or false"},
	"HTML_ELEMENTS": {"md044." + propernames.OptionHTMLElements, envTypeBool, "Check HTML elements: true or false"},
	"HEADING_ID":    {"md044." + propernames.OptionHeadingID, envTypeBool, "Check heading IDs: true or false"},
	"FLAVOR":        {"flavor", envTypeString, "Markdown flavor: commonmark or gfm"},
	"FORMAT":        {"format", envTypeString, "Output format: text, json, sarif, diff or summary"},
	"COLOR":         {"color", envTypeString, "Color output: auto, always or never"},
	"JOBS":          {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"IGNORE":        {"ignore", envTypeSlice, "Comma-separated ignore globs"},
	"BACKUPS":       {"backups.enabled", envTypeBool, "Create backups when fixing: true or false"},
}

// LoadFromEnv applies MDNAMES_* overrides to cfg. Unset and empty
// variables are skipped.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + suffix
		value := strings.TrimSpace(os.Getenv(envVar))
		if value == "" {
			continue
		}
		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	var typed any
	switch mapping.typ {
	case envTypeString:
		typed = value
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		typed = b
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		typed = i
	case envTypeSlice:
		typed = parseSliceValue(value)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}

	return setField(cfg, mapping.field, typed)
}

func setField(cfg *config.Config, field string, value any) error {
	if option, ok := strings.CutPrefix(field, "md044."); ok {
		cfg.SetRuleOption(config.ProperNamesRuleID, option, value)
		return nil
	}

	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value.(string))
	case "format":
		cfg.Format = config.OutputFormat(value.(string))
	case "color":
		cfg.Color = config.ColorMode(value.(string))
	case "jobs":
		cfg.Jobs = value.(int)
	case "ignore":
		cfg.Ignore = value.([]string)
	case "backups.enabled":
		cfg.Backups.Enabled = value.(bool)
	default:
		return fmt.Errorf("unknown config field: %s", field)
	}
	return nil
}

// parseSliceValue splits a comma-separated list, trimming each element
// and dropping empty ones.
func parseSliceValue(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ListEnvVars returns every supported environment variable with a short
// description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.help
	}
	return out
}
