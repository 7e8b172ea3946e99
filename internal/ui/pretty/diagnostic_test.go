package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/internal/ui/pretty"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

func properNamesDiagnostic() *lint.Diagnostic {
	return &lint.Diagnostic{
		RuleID:      "MD044",
		RuleName:    "proper-names",
		Message:     "Expected: GitHub; Actual: Github",
		Severity:    config.SeverityWarning,
		FilePath:    "docs/guide.md",
		StartLine:   3,
		StartColumn: 11,
		EndLine:     3,
		EndColumn:   16,
		Expected:    "GitHub",
		Actual:      "Github",
	}
}

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := properNamesDiagnostic()

	tests := []struct {
		format config.RuleFormat
		want   string
	}{
		{config.RuleFormatCombined, "docs/guide.md:3:11  MD044/proper-names  Expected: GitHub; Actual: Github\n"},
		{config.RuleFormatID, "docs/guide.md:3:11  MD044  Expected: GitHub; Actual: Github\n"},
		{config.RuleFormatName, "docs/guide.md:3:11  proper-names  Expected: GitHub; Actual: Github\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatDiagnostic(diag, tt.format))
		})
	}
}

func TestFormatMessage_WithoutDetail(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &lint.Diagnostic{Message: "something else"}
	assert.Equal(t, "something else", styles.FormatMessage(diag))
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(config.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(config.SeverityWarning))
	assert.Equal(t, "info", styles.FormatSeverity(config.SeverityInfo))
	assert.Equal(t, "warning", styles.FormatSeverity(""))
}

// contextLines splits FormatSourceContext output into the source and
// caret lines with the gutter removed.
func contextLines(t *testing.T, out string) (string, string) {
	t.Helper()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	_, source, ok := strings.Cut(lines[0], " | ")
	require.True(t, ok)
	_, carets, ok := strings.Cut(lines[1], " | ")
	require.True(t, ok)
	return source, carets
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name       string
		line       string
		start, end int
		wantSource string
		wantCarets string
	}{
		{
			name:       "ascii",
			line:       "Hosted on Github.",
			start:      11,
			end:        16,
			wantSource: "Hosted on Github.",
			wantCarets: "          ^^^^^^",
		},
		{
			name:       "wide runes before the match",
			line:       "日本 github",
			start:      8,
			end:        13,
			wantSource: "日本 github",
			wantCarets: "     ^^^^^^",
		},
		{
			name:       "combining mark before the match",
			line:       "é github",
			start:      5,
			end:        10,
			wantSource: "é github",
			wantCarets: "  ^^^^^^",
		},
		{
			name:       "tab expanded",
			line:       "\tgithub",
			start:      2,
			end:        7,
			wantSource: "    github",
			wantCarets: "    ^^^^^^",
		},
		{
			name:       "wide match",
			line:       "見 日本語",
			start:      5,
			end:        13,
			wantSource: "見 日本語",
			wantCarets: "   ^^^^^^",
		},
		{
			name:       "empty span gets one caret",
			line:       "abc",
			start:      2,
			end:        1,
			wantSource: "abc",
			wantCarets: " ^",
		},
		{
			name:       "trailing newline dropped",
			line:       "github\r\n",
			start:      1,
			end:        6,
			wantSource: "github",
			wantCarets: "^^^^^^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source, carets := contextLines(t, styles.FormatSourceContext(tt.line, 3, tt.start, tt.end, 0))
			assert.Equal(t, tt.wantSource, source)
			assert.Equal(t, tt.wantCarets, carets)
		})
	}
}

func TestFormatSourceContext_Gutter(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatSourceContext("Hosted on Github.", 12, 11, 16, 0)
	assert.Equal(t, "    12 | Hosted on Github.\n       |           ^^^^^^\n", out)
}

func TestFormatSourceContext_Truncates(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	line := strings.Repeat("a", 50) + " Github " + strings.Repeat("b", 50)
	start := 52

	source, carets := contextLines(t, styles.FormatSourceContext(line, 1, start, start+5, 20))

	assert.LessOrEqual(t, pretty.VisibleWidth(source), 20)
	assert.True(t, strings.HasPrefix(source, "…"), source)
	assert.True(t, strings.HasSuffix(source, "…"), source)

	col := strings.Index(source, "Github")
	require.GreaterOrEqual(t, col, 0)
	assert.Equal(t, pretty.VisibleWidth(source[:col])+6, pretty.VisibleWidth(carets))
	assert.True(t, strings.HasSuffix(carets, "^^^^^^"))
}

func TestFormatSourceContext_SpanWiderThanLimit(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	source, _ := contextLines(t, styles.FormatSourceContext("x Kubernetes y", 1, 3, 12, 5))
	assert.LessOrEqual(t, pretty.VisibleWidth(source), 5)
	assert.True(t, strings.HasPrefix(source, "Kube"))
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "README.md (1 issue)", styles.FormatFileHeader("README.md", 1))
	assert.Equal(t, "README.md (4 issues)", styles.FormatFileHeader("README.md", 4))
	assert.Equal(t, "README.md", styles.FormatFileHeader("README.md", 0))
}

func TestVisibleWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6, pretty.VisibleWidth("GitHub"))
	assert.Equal(t, 4, pretty.VisibleWidth("日本"))
	assert.Equal(t, 1, pretty.VisibleWidth("é"))
	assert.Zero(t, pretty.VisibleWidth(""))
}
