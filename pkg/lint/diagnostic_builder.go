package lint

import (
	"github.com/yaklabco/mdnames/pkg/fix"
	"github.com/yaklabco/mdnames/pkg/mdast"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnosticAt starts building a diagnostic at a specific position.
func NewDiagnosticAt(ruleID, filePath string, pos mdast.SourcePosition, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			StartLine:   pos.StartLine,
			StartColumn: pos.StartColumn,
			EndLine:     pos.EndLine,
			EndColumn:   pos.EndColumn,
		},
	}
}

// SpanPosition converts a 0-based single-line span into the 1-based,
// end-inclusive position a Diagnostic uses.
func SpanPosition(line, col, length int) mdast.SourcePosition {
	return mdast.SourcePosition{
		StartLine:   line + 1,
		StartColumn: col + 1,
		EndLine:     line + 1,
		EndColumn:   col + max(length, 1),
	}
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithDetail records the expected and actual text of a mismatch.
func (b *DiagnosticBuilder) WithDetail(expected, actual string) *DiagnosticBuilder {
	b.diag.Expected = expected
	b.diag.Actual = actual
	return b
}

// WithEdit adds a single fix edit.
func (b *DiagnosticBuilder) WithEdit(edit fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edit)
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
