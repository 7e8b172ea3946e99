// Package config defines the configuration types for mdnames.
// These are plain data structures; loading and merging live in
// internal/configloader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" json:"severity,omitempty"`
	AutoFix  *bool          `yaml:"auto_fix,omitempty" json:"auto_fix,omitempty"`
	Options  map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Mode    string `yaml:"mode" json:"mode"` // "sidecar"
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// OutputFormats lists every supported output format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatSARIF, FormatDiff, FormatSummary}
}

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "proper-names"
	RuleFormatID       RuleFormat = "id"       // "MD044"
	RuleFormatCombined RuleFormat = "combined" // "MD044/proper-names"
)

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether c is a known color mode.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// ProperNamesRuleID is the canonical ID of the proper names rule.
const ProperNamesRuleID = "MD044"

// Config is the root configuration structure for mdnames.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor,omitempty" json:"flavor,omitempty"`

	// Rules contains per-rule configuration keyed by canonical rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups" json:"backups"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs,omitempty" json:"jobs,omitempty"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format,omitempty" json:"format,omitempty"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"rule_format,omitempty" json:"rule_format,omitempty"`

	// Color controls colored output.
	Color ColorMode `yaml:"color,omitempty" json:"color,omitempty"`

	// FollowSymlinks makes discovery descend into symlinked directories.
	FollowSymlinks bool `yaml:"follow_symlinks,omitempty" json:"follow_symlinks,omitempty"`

	// MaxFixPasses bounds the fix loop; 0 means the pipeline default.
	MaxFixPasses int `yaml:"max_fix_passes,omitempty" json:"max_fix_passes,omitempty"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `yaml:"-" json:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-" json:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" json:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-" json:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `yaml:"-" json:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Flavor: FlavorGFM,
		Rules:  make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatCombined,
		Color:      ColorAuto,
	}
}

// RuleOptions returns the options map of ruleID, or nil.
func (c *Config) RuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.Rules[ruleID].Options
}

// SetRuleOption sets one option of ruleID, creating the rule entry if
// needed.
func (c *Config) SetRuleOption(ruleID, key string, value any) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}
	rc := c.Rules[ruleID]
	if rc.Options == nil {
		rc.Options = make(map[string]any)
	}
	rc.Options[key] = value
	c.Rules[ruleID] = rc
}
