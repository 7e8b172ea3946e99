package reporter

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/mdnames/internal/ui/pretty"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/runner"
)

// SummaryReporter prints issue counts per file and per rule instead of the
// individual diagnostics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	if table := r.styles.FormatCountTable("File", "Issues", r.fileRows(result), r.opts.MaxWidth); table != "" {
		fmt.Fprintln(r.bw, table)
	}
	if table := r.styles.FormatCountTable("Rule", "Issues", r.ruleRows(result), r.opts.MaxWidth); table != "" {
		fmt.Fprintln(r.bw, table)
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return result.Stats.DiagnosticsTotal, nil
}

// fileRows lists files with issues, most issues first, then by path.
func (r *SummaryReporter) fileRows(result *runner.Result) []pretty.CountRow {
	var rows []pretty.CountRow
	for _, file := range result.Files {
		if n := len(diagnosticsOf(file)); n > 0 {
			rows = append(rows, pretty.CountRow{Label: r.opts.displayPath(file.Path), Count: n})
		}
	}
	sortRows(rows)
	return rows
}

// ruleRows lists rules with issues, labelled in the configured rule format.
func (r *SummaryReporter) ruleRows(result *runner.Result) []pretty.CountRow {
	names := make(map[string]string)
	for _, file := range result.Files {
		for _, diag := range diagnosticsOf(file) {
			names[diag.RuleID] = diag.RuleName
		}
	}

	rows := make([]pretty.CountRow, 0, len(result.Stats.DiagnosticsByRule))
	for id, n := range result.Stats.DiagnosticsByRule {
		name, ok := names[id]
		if !ok {
			if rule, found := r.opts.registry().Get(id); found {
				name = rule.Name()
			}
		}
		rows = append(rows, pretty.CountRow{Label: config.FormatRuleID(r.opts.RuleFormat, id, name), Count: n})
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []pretty.CountRow) {
	slices.SortFunc(rows, func(a, b pretty.CountRow) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
}
