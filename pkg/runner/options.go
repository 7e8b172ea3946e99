// Package runner discovers Markdown files and lints them concurrently
// through a lint.Pipeline.
package runner

import (
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/mdnames/pkg/config"
)

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are the files or directories to process. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors glob matching.
	// Defaults to the process working directory.
	WorkingDir string

	// Extensions are the lower-case extensions, with leading dot, treated
	// as Markdown. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restricts discovery to matching paths when non-empty.
	IncludeGlobs []string

	// ExcludeGlobs skips matching files and directories. Config ignore
	// patterns and --ignore flags both end up here.
	ExcludeGlobs []string

	// IncludeVendor disables skipping of vendored directories such as
	// node_modules/ and vendor/.
	IncludeVendor bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the worker count; 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the extensions linguist assigns to Markdown.
func DefaultExtensions() []string {
	exts := enry.GetLanguageExtensions("Markdown")
	if len(exts) == 0 {
		return []string{".md", ".markdown"}
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.ToLower(ext))
	}
	return out
}

// OptionsFromConfig fills the discovery and concurrency fields from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg}
	if cfg != nil {
		opts.ExcludeGlobs = cfg.Ignore
		opts.FollowSymlinks = cfg.FollowSymlinks
		opts.Jobs = cfg.Jobs
	}
	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
