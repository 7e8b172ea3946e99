package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/runner"
)

const (
	summaryDividerWidth = 40
	heavySeparator      = "="
	lightSeparator      = "-"
	minLabelWidth       = 12
	columnGap           = "  "
)

// FormatSummaryOneLine formats run statistics as a single line, e.g.
// "3 issues (3 warnings) in 2 files, 3 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := s.Dim.Render(" (" + pluralize(stats.FilesProcessed, "file", "files") + " checked)")

	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") + checked
		if stats.DiagnosticsFixed > 0 {
			msg += ", " + s.fixedText(stats)
		}
		return msg + "\n"
	}

	issues := pluralize(stats.DiagnosticsTotal, "issue", "issues")
	if bySeverity := s.severityBreakdown(stats); bySeverity != "" {
		issues += " (" + bySeverity + ")"
	}

	parts := []string{
		issues,
		"in " + pluralize(stats.FilesWithIssues, "file", "files"),
	}
	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}
	if stats.DiagnosticsFixed > 0 {
		parts = append(parts, s.fixedText(stats))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(pluralize(stats.FilesErrored, "file", "files")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) fixedText(stats runner.Stats) string {
	return s.Success.Render(fmt.Sprintf("%d fixed in %s",
		stats.DiagnosticsFixed, pluralize(stats.FilesModified, "file", "files")))
}

func (s *Styles) severityBreakdown(stats runner.Stats) string {
	var parts []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		parts = append(parts, s.Error.Render(pluralize(n, "error", "errors")))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		parts = append(parts, s.Warning.Render(pluralize(n, "warning", "warnings")))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}
	return strings.Join(parts, ", ")
}

// FormatSummary formats run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat(lightSeparator, summaryDividerWidth) + "\n")

	row := func(label string, value int, style func(...string) string) {
		fmt.Fprintf(&b, "  %-19s%s\n", label+":", style(strconv.Itoa(value)))
	}

	row("Files checked", stats.FilesProcessed, s.SummaryValue.Render)
	if stats.FilesWithIssues > 0 {
		row("Files with issues", stats.FilesWithIssues, s.Failure.Render)
	}
	if stats.FilesModified > 0 {
		row("Files modified", stats.FilesModified, s.Success.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", stats.FilesErrored, s.Failure.Render)
	}
	b.WriteString("\n")

	row("Total issues", stats.DiagnosticsTotal, s.SummaryValue.Render)
	if stats.DiagnosticsFixable > 0 {
		row("Fixable", stats.DiagnosticsFixable, s.Success.Render)
	}
	if stats.DiagnosticsFixed > 0 {
		row("Fixed", stats.DiagnosticsFixed, s.Success.Render)
	}
	b.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0:
		b.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.DiagnosticsTotal > 0:
		b.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		b.WriteString(s.Success.Render("Lint passed"))
	}
	b.WriteString("\n")

	return b.String()
}

// CountRow is one line of a count table.
type CountRow struct {
	Label string
	Count int
}

// FormatCountTable renders rows under a two-column heading. Labels wider
// than maxWidth cells keep their tail, which for paths is the file name;
// maxWidth <= 0 disables truncation.
func (s *Styles) FormatCountTable(labelHeader, countHeader string, rows []CountRow, maxWidth int) string {
	if len(rows) == 0 {
		return ""
	}

	countWidth := len(countHeader)
	labelWidth := max(minLabelWidth, VisibleWidth(labelHeader))
	total := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, VisibleWidth(r.Label))
		countWidth = max(countWidth, len(strconv.Itoa(r.Count)))
		total += r.Count
	}
	if maxWidth > 0 {
		labelWidth = max(minLabelWidth, min(labelWidth, maxWidth-countWidth-len(columnGap)))
	}
	lineWidth := labelWidth + len(columnGap) + countWidth

	line := func(label, count string) string {
		label = truncateLeft(label, labelWidth)
		pad := strings.Repeat(" ", labelWidth-VisibleWidth(label))
		return label + pad + columnGap + fmt.Sprintf("%*s", countWidth, count)
	}

	var b strings.Builder
	b.WriteString(s.Bold.Render(line(labelHeader, countHeader)) + "\n")
	b.WriteString(s.Dim.Render(strings.Repeat(heavySeparator, lineWidth)) + "\n")
	for _, r := range rows {
		b.WriteString(line(r.Label, strconv.Itoa(r.Count)) + "\n")
	}
	b.WriteString(s.Dim.Render(strings.Repeat(lightSeparator, lineWidth)) + "\n")
	b.WriteString(s.SummaryValue.Render(line("total", strconv.Itoa(total))) + "\n")
	return b.String()
}
