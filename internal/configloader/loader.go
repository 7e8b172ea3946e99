// Package configloader resolves the effective configuration. It implements
// XDG-style discovery, layered merging of YAML, TOML and JSON files,
// MDNAMES_* environment overrides, validation, and import of the proper
// names settings from an existing markdownlint config.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is a config file given with --config. It is merged over
	// the discovered files.
	ExplicitPath string

	// IgnoreUserConfig skips the user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips project configuration discovery.
	IgnoreProjectConfig bool

	// IgnoreEnv skips MDNAMES_* environment variables.
	IgnoreEnv bool

	// IgnoreMarkdownlint skips importing names from a markdownlint config.
	IgnoreMarkdownlint bool

	// CLIConfig contains configuration from CLI flags, the highest layer.
	CLIConfig *config.Config

	// Registry resolves rule names, aliases and tags. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were loaded, lowest precedence first.
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string

	// Imported is set when settings were taken from a markdownlint config.
	Imported *ImportResult
}

// Load resolves the final configuration. Precedence, highest first:
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDNAMES_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdnames.* upward search), or failing that the
//     proper names block of a markdownlint config
//  5. User config ($XDG_CONFIG_HOME/mdnames/config.*)
//  6. Defaults
//
// Rule keys in every layer are normalized to canonical IDs before merging,
// so "proper-names" in one file and "MD044" in another configure the same
// rule.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()
	logger := logging.FromContext(ctx)

	loadFile := func(path string) error {
		layer, err := loadConfigFile(path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		normalizeRuleKeys(layer, registry, result)

		validation := ValidateFile(layer, registry, path)
		if err := validation.Err(); err != nil {
			return err
		}
		for _, w := range validation.Warnings {
			result.Warnings = append(result.Warnings, w.Error())
		}

		cfg = merge(cfg, layer)
		result.LoadedFrom = append(result.LoadedFrom, path)
		logger.Debug("config loaded", logging.FieldConfig, path)
		return nil
	}

	if !opts.IgnoreUserConfig && paths.User != "" {
		if err := loadFile(paths.User); err != nil {
			return nil, err
		}
	}

	if !opts.IgnoreProjectConfig && paths.Project != "" {
		if err := loadFile(paths.Project); err != nil {
			return nil, err
		}
	} else if !opts.IgnoreMarkdownlint && paths.Markdownlint != "" {
		imported, err := ImportMarkdownlint(paths.Markdownlint, registry)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping %s: %v", paths.Markdownlint, err))
		} else {
			result.Imported = imported
			result.Warnings = append(result.Warnings, imported.Warnings...)
			for _, w := range ValidateFile(imported.Config, registry, paths.Markdownlint).Warnings {
				result.Warnings = append(result.Warnings, w.Error())
			}
			cfg = merge(cfg, imported.Config)
			result.LoadedFrom = append(result.LoadedFrom, paths.Markdownlint)
			logger.Debug("markdownlint config imported",
				logging.FieldConfig, paths.Markdownlint,
				logging.FieldNames, len(imported.Names()),
			)
		}
	}

	if opts.ExplicitPath != "" {
		if err := loadFile(opts.ExplicitPath); err != nil {
			return nil, err
		}
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if opts.CLIConfig != nil {
		cli := opts.CLIConfig.Clone()
		normalizeRuleKeys(cli, registry, result)
		cfg = merge(cfg, cli)
	}

	if err := ValidateWithRegistry(cfg, registry).Err(); err != nil {
		return nil, err
	}

	result.Config = cfg
	return result, nil
}

// normalizeRuleKeys rewrites rule keys to canonical IDs. A tag key
// applies its block to every rule carrying the tag; explicit rule keys
// are merged over tag blocks. Unknown keys are kept for validation to
// warn about.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	byTag := make(map[string]config.RuleConfig)
	byRule := make(map[string]config.RuleConfig, len(cfg.Rules))
	seen := make(map[string]string)

	for key, ruleCfg := range cfg.Rules {
		if id, _, ok := registry.Resolve(key); ok {
			if prev, dup := seen[id]; dup {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s", prev, key, id))
				ruleCfg = mergeRuleConfig(byRule[id].Clone(), ruleCfg)
			}
			seen[id] = key
			byRule[id] = ruleCfg
			continue
		}

		if ids := registry.ResolveTag(key); len(ids) > 0 {
			for _, id := range ids {
				byTag[id] = mergeRuleConfig(byTag[id].Clone(), ruleCfg)
			}
			continue
		}

		byRule[key] = ruleCfg
	}

	cfg.Rules = mergeRules(byTag, byRule)
}
