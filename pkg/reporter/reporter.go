// Package reporter writes runner results as styled text, JSON, SARIF,
// unified diffs or a count summary.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/runner"
)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for opts.Format. An empty format selects text.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatText:
		return NewTextReporter(opts), nil
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatSARIF:
		return NewSARIFReporter(opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	case config.FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// diagnosticsOf returns the diagnostics of a file outcome, or nil.
func diagnosticsOf(file runner.FileOutcome) []lint.Diagnostic {
	if file.Result == nil || file.Result.FileResult == nil {
		return nil
	}
	return file.Result.Diagnostics
}
