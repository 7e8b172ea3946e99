package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

const (
	contextIndent = "    "
	caret         = "^"
)

// FormatDiagnostic renders the headline of a diagnostic:
//
//	path:line:col  MD044/proper-names  Expected: GitHub; Actual: Github
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, ruleFormat config.RuleFormat) string {
	location := s.FilePath.Render(diag.FilePath) +
		s.Location.Render(fmt.Sprintf(":%d:%d", diag.StartLine, diag.StartColumn))

	rule := s.severityStyle(diag.Severity).Render(
		config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName))

	return location + "  " + rule + "  " + s.FormatMessage(diag) + "\n"
}

// FormatMessage renders the diagnostic message, highlighting the expected
// and actual text when the diagnostic carries them.
func (s *Styles) FormatMessage(diag *lint.Diagnostic) string {
	if diag.Expected == "" && diag.Actual == "" {
		return s.Message.Render(diag.Message)
	}
	return "Expected: " + s.Expected.Render(diag.Expected) +
		"; Actual: " + s.Actual.Render(diag.Actual)
}

// FormatSeverity returns a styled severity label.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	if sev == "" {
		sev = config.SeverityWarning
	}
	return s.severityStyle(sev).Render(string(sev))
}

func (s *Styles) severityStyle(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Warning
	}
}

// FormatSourceContext renders source line lineNum with a caret underline
// below the byte columns startCol through endCol (1-based, inclusive).
// A line wider than maxWidth cells is cut around the underlined span;
// maxWidth <= 0 disables truncation.
func (s *Styles) FormatSourceContext(line string, lineNum, startCol, endCol, maxWidth int) string {
	line = strings.TrimRight(line, "\r\n")

	start := min(max(startCol-1, 0), len(line))
	end := min(max(endCol, start), len(line))

	// Tab expansion is prefix-stable, so each part is cut from the
	// expansion of everything up to its end.
	pre := expandTabs(line[:start])
	upToEnd := expandTabs(line[:end])
	span := upToEnd[len(pre):]
	post := expandTabs(line)[len(upToEnd):]

	spanWidth := max(VisibleWidth(span), 1)
	if maxWidth > 0 && VisibleWidth(pre)+VisibleWidth(span)+VisibleWidth(post) > maxWidth {
		pre, span, post = fitAround(pre, span, post, maxWidth)
		spanWidth = max(VisibleWidth(span), 1)
	}

	gutter := strconv.Itoa(lineNum)
	blank := strings.Repeat(" ", len(gutter))

	var b strings.Builder
	b.WriteString(contextIndent + s.Dim.Render(gutter+" | ") + s.SourceLine.Render(pre+span+post) + "\n")
	b.WriteString(contextIndent + s.Dim.Render(blank+" | ") +
		strings.Repeat(" ", VisibleWidth(pre)) +
		s.Caret.Render(strings.Repeat(caret, spanWidth)) + "\n")
	return b.String()
}

// fitAround shortens pre and post so the three parts fit in width cells,
// keeping the span visible and splitting the remaining room between its
// left and right context.
func fitAround(pre, span, post string, width int) (string, string, string) {
	spanWidth := VisibleWidth(span)
	if spanWidth >= width {
		return "", truncateRight(span, width), ""
	}

	room := width - spanWidth
	left := min(VisibleWidth(pre), room/2)
	right := room - left
	if postWidth := VisibleWidth(post); postWidth < right {
		left += right - postWidth
		right = postWidth
	}
	return truncateLeft(pre, left), span, truncateRight(post, right)
}

// FormatFileHeader formats the header line of a file group.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(" (" + pluralize(issueCount, "issue", "issues") + ")")
	}
	return header
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
