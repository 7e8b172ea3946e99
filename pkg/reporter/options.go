package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format selects the reporter.
	Format config.OutputFormat

	// Color controls colorized output.
	Color config.ColorMode

	// ShowContext prints the source line with a caret underline below each
	// text diagnostic.
	ShowContext bool

	// ShowSummary prints aggregate statistics after the results.
	ShowSummary bool

	// GroupByFile groups text diagnostics under a file header.
	GroupByFile bool

	// Compact disables indentation of JSON and SARIF output.
	Compact bool

	// MaxWidth bounds source context lines in cells; 0 means no limit.
	MaxWidth int

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat config.RuleFormat

	// WorkingDir is the directory paths are shown relative to. If empty,
	// paths are kept as they are.
	WorkingDir string

	// Registry supplies rule metadata for SARIF output. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry

	// ToolVersion is reported in JSON and SARIF output.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.FormatText,
		Color:       config.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  config.RuleFormatCombined,
		ToolVersion: "dev",
	}
}

// OptionsFromConfig returns DefaultOptions adjusted by cfg.
func OptionsFromConfig(cfg *config.Config, w io.Writer) Options {
	opts := DefaultOptions()
	opts.Writer = w
	if cfg == nil {
		return opts
	}
	if cfg.Format != "" {
		opts.Format = cfg.Format
	}
	if cfg.Color != "" {
		opts.Color = cfg.Color
	}
	if cfg.RuleFormat != "" {
		opts.RuleFormat = cfg.RuleFormat
	}
	return opts
}

func (o Options) registry() *lint.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return lint.DefaultRegistry
}

// displayPath returns path relative to WorkingDir with forward slashes,
// or path unchanged when it lies outside WorkingDir.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
