package rules

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/fix"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/mdast"
	"github.com/yaklabco/mdnames/pkg/propernames"
)

// ProperNamesInfoURL documents the proper names rule.
const ProperNamesInfoURL = "https://github.com/xiaogaozi/markdownlint-rule-enhanced-proper-names"

// ProperNamesRule reports proper names with the wrong capitalization. It
// never looks inside URLs, link destinations or link reference definitions,
// and can be told to skip code, HTML and heading IDs.
type ProperNamesRule struct {
	lint.BaseRule

	checker propernames.Checker
}

// NewProperNamesRule creates the proper-names rule. With no names
// configured it reports nothing.
func NewProperNamesRule() *ProperNamesRule {
	return &ProperNamesRule{
		BaseRule: lint.NewBaseRule(
			config.ProperNamesRuleID,
			"proper-names",
			"Proper names should have the correct capitalization",
			[]string{"spelling"},
			true,
		).WithInfoURL(ProperNamesInfoURL),
	}
}

// Apply checks every line of the file against the configured names.
func (r *ProperNamesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	opts := propernames.OptionsFromMap(ctx.Options())
	if len(opts.Names) == 0 {
		return nil, nil
	}

	logging.FromContext(ctx.Ctx).Debug("checking proper names",
		logging.FieldPath, ctx.File.Path,
		logging.FieldNames, len(opts.Names),
	)

	records, err := r.checker.Check(ctx.Ctx, snapshotDocument{ctx.File}, opts)
	if err != nil {
		return nil, fmt.Errorf("rule cancelled: %w", err)
	}

	diags := make([]lint.Diagnostic, 0, len(records))
	for _, rec := range records {
		start := ctx.File.Lines[rec.Line].StartOffset + rec.Column

		diags = append(diags, lint.NewDiagnosticAt(
			r.ID(),
			ctx.File.Path,
			lint.SpanPosition(rec.Line, rec.Column, rec.Length),
			"Expected: "+rec.Expected+"; Actual: "+rec.Actual,
		).
			WithDetail(rec.Expected, rec.Actual).
			WithSuggestion("Replace with "+strconv.Quote(rec.Expected)).
			WithEdit(fix.TextEdit{
				StartOffset: start,
				EndOffset:   start + rec.Length,
				NewText:     rec.Expected,
			}).
			Build())
	}

	return diags, nil
}

// snapshotDocument exposes a parsed file to the propernames checker.
type snapshotDocument struct {
	file *mdast.FileSnapshot
}

func (d snapshotDocument) Lines() []mdast.LineMetadata { return d.file.Meta }

func (d snapshotDocument) CodeRanges() []propernames.Range { return toRanges(d.file.CodeRanges()) }

func (d snapshotDocument) HTMLRanges() []propernames.Range { return toRanges(d.file.HTMLRanges()) }

func toRanges(spans []mdast.LineSpan) []propernames.Range {
	out := make([]propernames.Range, len(spans))
	for i, s := range spans {
		out[i] = propernames.Range{Line: s.Line, Column: s.Column, Length: s.Length}
	}
	return out
}
