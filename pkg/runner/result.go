package runner

import (
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

// FileOutcome is the result of one discovered file. Exactly one of Result
// and Error is set.
type FileOutcome struct {
	// Path is the absolute path of the file.
	Path string

	// Result is the pipeline result.
	Result *lint.PipelineResult

	// Error is set if the file could not be processed. It does not stop
	// the run.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int
	FilesWithIssues int
	FilesModified   int

	DiagnosticsTotal   int
	DiagnosticsFixable int

	// DiagnosticsFixed counts diagnostics resolved by applied fixes.
	DiagnosticsFixed int

	// EditsApplied counts edits across all fix passes.
	EditsApplied int

	DiagnosticsBySeverity map[config.Severity]int
	DiagnosticsByRule     map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, sorted by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any diagnostic has error severity.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[config.Severity]int),
		DiagnosticsByRule:     make(map[string]int),
	}
}

// Accumulate appends outcome and folds it into the statistics. The CLI
// uses it directly for stdin input.
func (r *Result) Accumulate(outcome FileOutcome) {
	if r.Stats.DiagnosticsBySeverity == nil {
		r.Stats = newStats()
	}
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}
	r.Stats.EditsApplied += pr.TotalEditsApplied
	r.Stats.DiagnosticsFixed += len(pr.FixedDiagnostics)

	if pr.FileResult == nil {
		return
	}
	if len(pr.Diagnostics) > 0 {
		r.Stats.FilesWithIssues++
	}
	r.Stats.DiagnosticsTotal += len(pr.Diagnostics)
	r.Stats.DiagnosticsFixable += pr.FixableCount()

	for i := range pr.Diagnostics {
		severity := pr.Diagnostics[i].Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
		r.Stats.DiagnosticsByRule[pr.Diagnostics[i].RuleID]++
	}
}
