package configloader

import (
	"maps"

	"github.com/yaklabco/mdnames/pkg/config"
)

// merge combines two configurations, with override taking precedence.
//   - Scalars: override wins when non-zero.
//   - Booleans: only true overrides, so a layer cannot unset a flag.
//   - Rules: deep merge per rule, options merged key by key.
//   - Slices: override replaces base when non-nil.
//
// Neither input is modified.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.RuleFormat != "" {
		result.RuleFormat = override.RuleFormat
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxFixPasses != 0 {
		result.MaxFixPasses = override.MaxFixPasses
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	result.Fix = result.Fix || override.Fix
	result.DryRun = result.DryRun || override.DryRun
	result.FollowSymlinks = result.FollowSymlinks || override.FollowSymlinks
	result.Backups.Enabled = result.Backups.Enabled || override.Backups.Enabled

	result.Rules = mergeRules(base.Rules, override.Rules)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.EnableRules != nil {
		result.EnableRules = override.EnableRules
	}
	if override.DisableRules != nil {
		result.DisableRules = override.DisableRules
	}
	if override.FixRules != nil {
		result.FixRules = override.FixRules
	}

	return &result
}

func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	for key, val := range base {
		result[key] = val.Clone()
	}
	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val.Clone()
		}
	}
	return result
}

// mergeRuleConfig expects base to be a private copy.
func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	if override.AutoFix != nil {
		result.AutoFix = override.AutoFix
	}

	if override.Options != nil {
		if result.Options == nil {
			result.Options = make(map[string]any, len(override.Options))
		}
		maps.Copy(result.Options, override.Options)
	}

	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}
