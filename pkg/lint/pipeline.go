package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/fix"
	"github.com/yaklabco/mdnames/pkg/fsutil"
)

// DefaultMaxFixPasses bounds the fix loop. A correct fix never creates a
// new issue, so one pass normally suffices; further passes only pick up
// edits skipped for overlapping.
const DefaultMaxFixPasses = 10

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")

	// ErrNotConverged indicates the fix loop still had edits after the
	// last allowed pass.
	ErrNotConverged = errors.New("fixes did not converge")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds diagnostics and edits from the final pass.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing (nil for content).
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the content was changed.
	Modified bool

	// ModifiedContent is the content after all passes (nil if unchanged).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode.
	Diff *fix.Diff

	// Skipped is true if the file was not written, with SkipReason saying why.
	Skipped    bool
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of passes that applied edits.
	FixPasses int

	// TotalEditsApplied is the total number of edits applied across all passes.
	TotalEditsApplied int

	// FixedDiagnostics holds the diagnostics of the first pass that were
	// resolved by the applied fixes.
	FixedDiagnostics []Diagnostic
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// Fix enables auto-fix mode.
	Fix bool

	// DryRun computes fixes and a diff without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the file before writing instead of
	// only comparing mod time and size.
	StrictRaceDetection bool

	// MaxFixPasses limits the fix loop; 0 means DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns lint-only options.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Fix = cfg.Fix || cfg.DryRun
	opts.DryRun = cfg.DryRun
	opts.MaxFixPasses = cfg.MaxFixPasses
	opts.Backup = fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	return opts
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine is the lint engine used for parsing and rule execution.
	Engine *Engine
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile lints path and, in fix mode, rewrites it.
//
// Fixing reads and hashes the file, runs the fix loop in memory, then
// refuses to write if the file changed on disk in the meantime. Writes are
// atomic and optionally preceded by a backup. In dry-run mode a diff is
// produced instead.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, cfg *config.Config, opts PipelineOptions) (*PipelineResult, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.process(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	modified, err := checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("file fixed",
		logging.FieldPath, path,
		logging.FieldPass, result.FixPasses,
		logging.FieldIssues, result.TotalEditsApplied,
	)

	return result, nil
}

// ProcessContent runs the same lint and fix loop on in-memory content,
// for stdin and tests. It never writes.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte, cfg *config.Config, opts PipelineOptions) (*PipelineResult, error) {
	return p.process(ctx, path, content, cfg, opts)
}

// process is the fix loop shared by ProcessFile and ProcessContent.
func (p *Pipeline) process(ctx context.Context, path string, original []byte, cfg *config.Config, opts PipelineOptions) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := original
	var first *FileResult

	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled: %w", err)
		}

		fileResult, err := p.Engine.LintFile(ctx, path, content, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}
		result.FileResult = fileResult
		if first == nil {
			first = fileResult
		}

		if !opts.Fix || !fileResult.HasFixes() {
			break
		}
		if pass == maxPasses {
			return nil, fmt.Errorf("%s: %w after %d passes", path, ErrNotConverged, maxPasses)
		}

		content = fix.ApplyEdits(content, fileResult.Edits)
		result.FixPasses++
		result.TotalEditsApplied += len(fileResult.Edits)
		result.Modified = true

		logging.FromContext(ctx).Debug("fix pass applied",
			logging.FieldPath, path,
			logging.FieldPass, result.FixPasses,
			logging.FieldIssues, len(fileResult.Edits),
		)
	}

	if !result.Modified {
		return result, nil
	}

	result.ModifiedContent = content
	result.FixedDiagnostics = resolvedDiagnostics(first.Diagnostics, result.Diagnostics)

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, original, content)
	}

	return result, nil
}

// resolvedDiagnostics returns the fixable diagnostics of before whose
// rule and message no longer appear after fixing.
func resolvedDiagnostics(before, after []Diagnostic) []Diagnostic {
	remaining := make(map[string]int, len(after))
	for i := range after {
		remaining[after[i].RuleID+"\x00"+after[i].Message]++
	}

	var fixed []Diagnostic
	for i := range before {
		if !before[i].HasFix() {
			continue
		}
		key := before[i].RuleID + "\x00" + before[i].Message
		if remaining[key] > 0 {
			remaining[key]--
			continue
		}
		fixed = append(fixed, before[i])
	}
	return fixed
}

func checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	check := fsutil.CheckModifiedQuick
	if strict {
		check = fsutil.CheckModified
	}

	modified, err := check(ctx, info)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure) ||
		errors.Is(err, ErrNotConverged)
}
