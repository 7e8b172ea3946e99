package lint

import "github.com/yaklabco/mdnames/pkg/config"

// BaseRule carries the static metadata every rule has. Embed it in a rule
// and implement Apply.
//
// Fields are unexported to avoid name collisions with interface methods.
type BaseRule struct {
	id       string
	name     string
	desc     string
	infoURL  string
	tags     []string
	fixable  bool
	enabled  bool
	severity config.Severity
}

// NewBaseRule creates a BaseRule that is enabled by default at warning
// severity.
func NewBaseRule(id, name, desc string, tags []string, fixable bool) BaseRule {
	return BaseRule{
		id:       id,
		name:     name,
		desc:     desc,
		tags:     tags,
		fixable:  fixable,
		enabled:  true,
		severity: config.SeverityWarning,
	}
}

// WithInfoURL sets the documentation link.
func (r BaseRule) WithInfoURL(url string) BaseRule {
	r.infoURL = url
	return r
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string { return r.id }

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string { return r.name }

// Description returns what the rule checks.
func (r *BaseRule) Description() string { return r.desc }

// InfoURL returns the documentation link, if any.
func (r *BaseRule) InfoURL() string { return r.infoURL }

// DefaultEnabled returns whether the rule is enabled by default.
func (r *BaseRule) DefaultEnabled() bool { return r.enabled }

// DefaultSeverity returns the default severity for this rule.
func (r *BaseRule) DefaultSeverity() config.Severity { return r.severity }

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string { return r.tags }

// CanFix returns whether this rule can auto-fix issues.
func (r *BaseRule) CanFix() bool { return r.fixable }
