package configloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/fsutil"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/propernames"
)

// ErrInvalidConfig is wrapped by every error Load returns for a
// configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g. "rules.MD044.options.names").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues such as unknown rules.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result, otherwise every error joined and
// wrapped with ErrInvalidConfig.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg against the default registry.
func Validate(cfg *config.Config) *ValidationResult {
	return ValidateWithRegistry(cfg, lint.DefaultRegistry)
}

// ValidateWithRegistry checks cfg, resolving rule keys against registry.
func ValidateWithRegistry(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && cfg.Flavor != config.FlavorCommonMark && cfg.Flavor != config.FlavorGFM {
		result.addError("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format, "invalid format %q; must be one of: %s", cfg.Format, joinFormats())
	}
	switch cfg.RuleFormat {
	case "", config.RuleFormatName, config.RuleFormatID, config.RuleFormatCombined:
	default:
		result.addError("rule_format", cfg.RuleFormat, "invalid rule format %q; must be one of: name, id, combined", cfg.RuleFormat)
	}
	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.addError("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.MaxFixPasses < 0 {
		result.addError("max_fix_passes", cfg.MaxFixPasses, "max_fix_passes must be >= 0")
	}
	switch fsutil.BackupMode(cfg.Backups.Mode) {
	case "", fsutil.BackupModeSidecar, fsutil.BackupModeNone:
	default:
		result.addError("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	validateRules(cfg, registry, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateRules(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	for ruleID, ruleCfg := range cfg.Rules {
		field := "rules." + ruleID
		if _, ok := registry.Get(ruleID); !ok {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   ruleID,
				Message: fmt.Sprintf("unknown rule %q; it will be ignored", ruleID),
			})
		}

		if ruleCfg.Severity != nil && !config.Severity(*ruleCfg.Severity).IsValid() {
			result.addError(field+".severity", *ruleCfg.Severity,
				"invalid severity %q; must be one of: error, warning, info", *ruleCfg.Severity)
		}

		if ruleID == config.ProperNamesRuleID {
			validateProperNamesOptions(field+".options", ruleCfg.Options, result)
		}
	}
}

// validateProperNamesOptions warns about option values the rule coerces:
// a names value that is not a list counts as empty, non-string items are
// skipped and a flag that is not a boolean is read by truthiness.
func validateProperNamesOptions(field string, opts map[string]any, result *ValidationResult) {
	if names, ok := opts[propernames.OptionNames]; ok {
		switch list := names.(type) {
		case nil, []string:
		case []any:
			for i, item := range list {
				if _, ok := item.(string); !ok {
					result.addWarning(fmt.Sprintf("%s.%s[%d]", field, propernames.OptionNames, i), item,
						"name must be a string, got %T; it is skipped", item)
				}
			}
		default:
			result.addWarning(field+"."+propernames.OptionNames, names,
				"names must be a list of strings, got %T; no names are checked", names)
		}
	}

	for _, key := range []string{propernames.OptionCodeBlocks, propernames.OptionHTMLElements, propernames.OptionHeadingID} {
		value, ok := opts[key]
		if !ok {
			continue
		}
		switch value.(type) {
		case nil, bool:
		default:
			result.addWarning(field+"."+key, value, "%s should be a boolean, got %T; read as %t",
				key, value, propernames.Truthy(value))
		}
	}
}

func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateFile validates cfg and attributes every finding to filePath.
func ValidateFile(cfg *config.Config, registry *lint.Registry, filePath string) *ValidationResult {
	result := ValidateWithRegistry(cfg, registry)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

func joinFormats() string {
	formats := config.OutputFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
