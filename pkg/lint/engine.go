package lint

import (
	"context"
	"fmt"
	"time"

	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/fix"
	"github.com/yaklabco/mdnames/pkg/mdast"
)

// FileResult contains the results of linting a single file.
type FileResult struct {
	// Snapshot is the parsed file.
	Snapshot *mdast.FileSnapshot

	// Diagnostics contains all issues found.
	Diagnostics []Diagnostic

	// Edits contains validated, sorted edits for auto-fix.
	// Empty if no fixes are available or fixing was not requested.
	Edits []fix.TextEdit

	// SkippedEdits contains edits dropped because they overlapped an
	// earlier edit. A later fix pass may still apply them.
	SkippedEdits []fix.TextEdit

	// RuleErrors contains any errors from rule execution, by rule ID.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any fixes are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// FixableCount returns the number of diagnostics with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			count++
		}
	}
	return count
}

// Engine coordinates parsing and rule execution for linting.
type Engine struct {
	// Parser parses Markdown files into FileSnapshots.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// LintFile parses and lints a single file.
func (e *Engine) LintFile(ctx context.Context, path string, content []byte, cfg *config.Config) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return e.LintSnapshot(ctx, snapshot, cfg)
}

// LintSnapshot runs every enabled rule against an already parsed file.
func (e *Engine) LintSnapshot(ctx context.Context, snapshot *mdast.FileSnapshot, cfg *config.Config) (*FileResult, error) {
	logger := logging.FromContext(ctx)

	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	var allEdits []fix.TextEdit

	for _, rr := range ResolveRules(e.Registry, cfg) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		start := time.Now()
		diags, err := rr.Rule.Apply(NewRuleContext(ctx, snapshot, cfg, rr.Config))
		logger.Debug("rule applied",
			logging.FieldRule, rr.Rule.ID(),
			logging.FieldPath, snapshot.Path,
			logging.FieldIssues, len(diags),
			logging.FieldDuration, time.Since(start),
		)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for i := range diags {
			diags[i].Severity = rr.Severity
			if diags[i].FilePath == "" {
				diags[i].FilePath = snapshot.Path
			}
			if diags[i].RuleName == "" {
				diags[i].RuleName = rr.Rule.Name()
			}
			if rr.AutoFix {
				allEdits = append(allEdits, diags[i].FixEdits...)
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	if len(allEdits) > 0 {
		accepted, skipped, err := fix.PrepareEditsFiltered(allEdits, len(snapshot.Content))
		if err != nil {
			// Out-of-bounds edits mean a rule bug; report without fixing.
			logger.Warn("discarding invalid edits", logging.FieldPath, snapshot.Path, "error", err)
		} else {
			result.Edits = accepted
			result.SkippedEdits = skipped
		}
	}

	return result, nil
}
