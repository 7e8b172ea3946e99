package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Modified    bool             `json:"modified,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID     string    `json:"ruleId"`
	RuleName   string    `json:"ruleName"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	Line       int       `json:"line"`
	Column     int       `json:"column"`
	EndLine    int       `json:"endLine"`
	EndColumn  int       `json:"endColumn"`
	Expected   string    `json:"expected,omitempty"`
	Actual     string    `json:"actual,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Fixable    bool      `json:"fixable"`
	Fixes      []JSONFix `json:"fixes,omitempty"`
}

// JSONFix is a byte-range replacement.
type JSONFix struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesModified   int            `json:"filesModified"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	FixableIssues   int            `json:"fixableIssues"`
	FixedIssues     int            `json:"fixedIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
	ByRule          map[string]int `json:"byRule"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: r.opts.ToolVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
			ByRule:     make(map[string]int),
		},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Diagnostics: make([]JSONDiagnostic, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		} else {
			output.Summary.FilesChecked++
		}

		if file.Result != nil {
			fileResult.Modified = file.Result.Written
			output.Summary.FixedIssues += len(file.Result.FixedDiagnostics)
		}

		for _, diag := range diagnosticsOf(file) {
			severity := diag.Severity
			if severity == "" {
				severity = config.SeverityWarning
			}

			jd := JSONDiagnostic{
				RuleID:     diag.RuleID,
				RuleName:   diag.RuleName,
				Severity:   string(severity),
				Message:    diag.Message,
				Line:       diag.StartLine,
				Column:     diag.StartColumn,
				EndLine:    diag.EndLine,
				EndColumn:  diag.EndColumn,
				Expected:   diag.Expected,
				Actual:     diag.Actual,
				Suggestion: diag.Suggestion,
				Fixable:    diag.HasFix(),
			}
			for _, edit := range diag.FixEdits {
				jd.Fixes = append(jd.Fixes, JSONFix{
					StartOffset: edit.StartOffset,
					EndOffset:   edit.EndOffset,
					NewText:     edit.NewText,
				})
			}

			fileResult.Diagnostics = append(fileResult.Diagnostics, jd)
			output.Summary.TotalIssues++
			output.Summary.BySeverity[string(severity)]++
			output.Summary.ByRule[diag.RuleID]++
			if jd.Fixable {
				output.Summary.FixableIssues++
			}
		}

		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}
		if fileResult.Modified {
			output.Summary.FilesModified++
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
