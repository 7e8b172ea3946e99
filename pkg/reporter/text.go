package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/mdnames/internal/ui/pretty"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/mdast"
	"github.com/yaklabco/mdnames/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("report cancelled: %w", err)
		}
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	diagnostics := diagnosticsOf(file)
	if len(diagnostics) == 0 {
		return 0
	}

	indent := ""
	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))
		indent = "  "
	}

	for _, diag := range diagnostics {
		diag.FilePath = r.opts.displayPath(diag.FilePath)
		fmt.Fprint(r.bw, indent+r.styles.FormatDiagnostic(&diag, r.opts.RuleFormat))

		if r.opts.ShowContext {
			if line, ok := sourceLine(file.Result.Snapshot, diag.StartLine); ok {
				fmt.Fprint(r.bw, r.styles.FormatSourceContext(line, diag.StartLine, diag.StartColumn, endColumn(&diag), r.opts.MaxWidth))
			}
		}
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}
	return len(diagnostics)
}

// endColumn returns the last underlined column of diag on its start line.
func endColumn(diag *lint.Diagnostic) int {
	if diag.EndLine != diag.StartLine || diag.EndColumn < diag.StartColumn {
		return diag.StartColumn
	}
	return diag.EndColumn
}

// sourceLine returns 1-based line lineNum of snapshot.
func sourceLine(snapshot *mdast.FileSnapshot, lineNum int) (string, bool) {
	if snapshot == nil {
		return "", false
	}
	content := snapshot.LineContent(lineNum)
	if content == nil {
		return "", false
	}
	return string(content), true
}
