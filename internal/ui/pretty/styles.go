// Package pretty renders diagnostics, source context and run summaries for
// the terminal using lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/mdnames/pkg/config"
)

// Styles contains the styled renderers for CLI output.
type Styles struct {
	// Severity
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Diagnostic components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Expected   lipgloss.Style
	Actual     lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Diff
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style

	colored bool
}

// NewStyles returns colored styles, or plain ones when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newPlainStyles()
	}

	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &Styles{
		Error:   fg("9").Bold(true),
		Warning: fg("11").Bold(true),
		Info:    fg("12").Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true).Underline(true),
		Location:   fg("8"),
		RuleID:     fg("13"),
		Message:    lipgloss.NewStyle(),
		Expected:   fg("10").Bold(true),
		Actual:     fg("9"),
		SourceLine: fg("7"),
		Caret:      fg("9").Bold(true),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    fg("14"),
		DiffAdd:     fg("10"),
		DiffRemove:  fg("9"),
		DiffContext: fg("8"),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle().Bold(true),
		Success:      fg("10").Bold(true),
		Failure:      fg("9").Bold(true),

		Dim:  fg("8"),
		Bold: lipgloss.NewStyle().Bold(true),

		colored: true,
	}
}

func newPlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:        plain,
		Warning:      plain,
		Info:         plain,
		FilePath:     plain,
		Location:     plain,
		RuleID:       plain,
		Message:      plain,
		Expected:     plain,
		Actual:       plain,
		SourceLine:   plain,
		Caret:        plain,
		DiffHeader:   plain,
		DiffHunk:     plain,
		DiffAdd:      plain,
		DiffRemove:   plain,
		DiffContext:  plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// Colored reports whether the styles emit ANSI sequences.
func (s *Styles) Colored() bool {
	return s.colored
}

// IsColorEnabled resolves mode against writer. In auto mode (and for an
// empty or unknown mode) color is used only when NO_COLOR is unset and
// writer is a terminal.
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(writer)
}

// IsTerminal reports whether writer is an *os.File attached to a terminal.
func IsTerminal(writer io.Writer) bool {
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
