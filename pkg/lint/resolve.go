package lint

import (
	"slices"

	"github.com/yaklabco/mdnames/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// AutoFix indicates whether auto-fix is enabled for this rule.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules with their resolved configuration.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		if rr := resolveRule(rule, cfg); rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// resolveRule applies, in order: rule defaults, --enable/--disable, the
// rule's own config block, the --fix-rules filter, and finally --fix or --dry-run.
func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}

	if cfg == nil {
		return rr
	}

	if slices.Contains(cfg.EnableRules, rule.ID()) {
		rr.Enabled = true
	}
	if slices.Contains(cfg.DisableRules, rule.ID()) {
		rr.Enabled = false
	}

	if ruleCfg, ok := cfg.Rules[rule.ID()]; ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	if len(cfg.FixRules) > 0 {
		rr.AutoFix = rule.CanFix() && slices.Contains(cfg.FixRules, rule.ID())
	}

	if !cfg.Fix && !cfg.DryRun {
		rr.AutoFix = false
	}

	return rr
}
