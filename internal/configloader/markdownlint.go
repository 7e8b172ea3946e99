package configloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/propernames"
)

// ErrJavaScriptConfig is returned for .cjs/.mjs markdownlint configs,
// which cannot be read without a JavaScript runtime.
var ErrJavaScriptConfig = errors.New("javascript markdownlint config cannot be imported")

// ImportResult is the outcome of reading a markdownlint config.
type ImportResult struct {
	// Config holds only the settings of rules known to the registry.
	Config *config.Config

	// SourcePath is the markdownlint file that was read.
	SourcePath string

	// Ignored lists the keys that belong to other markdownlint rules.
	Ignored []string

	// Warnings contains non-fatal issues.
	Warnings []string
}

// Names returns the proper names configured in the imported file.
func (r *ImportResult) Names() []string {
	if r == nil || r.Config == nil {
		return nil
	}
	return propernames.OptionsFromMap(r.Config.RuleOptions(config.ProperNamesRuleID)).Names
}

// ImportMarkdownlint reads a markdownlint config and keeps the blocks of
// rules the registry knows, under any of their IDs, names or aliases.
// A markdownlint rule value is true/false, null (disabled) or an options
// object; tag keys such as "spelling" toggle every rule with the tag.
func ImportMarkdownlint(path string, registry *lint.Registry) (*ImportResult, error) {
	format := configFormat(path)
	if format == "js" {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrJavaScriptConfig)
	}
	if format == "json" {
		// markdownlint accepts comments in .json files too.
		format = "jsonc"
	}

	raw, err := readRawConfigAs(path, format)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Config:     &config.Config{Rules: make(map[string]config.RuleConfig)},
		SourcePath: path,
	}

	defaultEnabled := true
	if v, ok := raw["default"].(bool); ok {
		defaultEnabled = v
	}
	if extends, ok := raw["extends"].(string); ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s: extends %q is not followed", filepath.Base(path), extends))
	}
	delete(raw, "default")
	delete(raw, "extends")
	delete(raw, "$schema")

	explicit := make(map[string]bool)
	for key, value := range raw {
		if id, _, ok := registry.Resolve(key); ok {
			rc, err := normalizeRuleValue(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", filepath.Base(path), key, err)
			}
			result.Config.Rules[id] = ruleConfigFromMap(rc)
			explicit[id] = true
			continue
		}
		if ids := registry.ResolveTag(key); len(ids) > 0 {
			enabled := markdownlintEnabled(value)
			for _, id := range ids {
				if explicit[id] {
					continue
				}
				rc := result.Config.Rules[id]
				rc.Enabled = &enabled
				result.Config.Rules[id] = rc
			}
			continue
		}
		result.Ignored = append(result.Ignored, key)
	}
	slices.Sort(result.Ignored)

	if !defaultEnabled {
		for _, rule := range registry.Rules() {
			rc := result.Config.Rules[rule.ID()]
			if rc.Enabled == nil {
				disabled := false
				rc.Enabled = &disabled
				result.Config.Rules[rule.ID()] = rc
			}
		}
	}

	return result, nil
}

// ruleConfigFromMap converts the output of normalizeRuleValue.
func ruleConfigFromMap(m map[string]any) config.RuleConfig {
	var rc config.RuleConfig
	if v, ok := m["enabled"].(bool); ok {
		rc.Enabled = &v
	}
	if v, ok := m["severity"].(string); ok {
		rc.Severity = &v
	}
	if v, ok := m["auto_fix"].(bool); ok {
		rc.AutoFix = &v
	}
	if opts, ok := m["options"].(map[string]any); ok {
		rc.Options = opts
		if rc.Enabled == nil {
			enabled := true
			rc.Enabled = &enabled
		}
	}
	return rc
}

func markdownlintEnabled(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}
