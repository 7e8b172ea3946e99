package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline processes each file.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files for opts and processes them on a bounded worker
// pool. Outcomes are returned in path order whatever order workers finish
// in. Per-file failures are recorded on the outcome; only discovery errors
// and cancellation fail the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		logger.Debug("no files discovered")
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger.Debug("files discovered",
		logging.FieldFiles, len(files),
		logging.FieldWorkers, jobs,
	)

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	work := make(chan int)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				outcomes[idx] = r.processFile(ctx, files[idx], opts.Config, pipelineOpts)
				done[idx] = true
			}
		}()
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case work <- idx:
		}
	}
	close(work)
	wg.Wait()

	for idx := range outcomes {
		if done[idx] {
			result.Accumulate(outcomes[idx])
		}
	}

	logger.Debug("run complete",
		logging.FieldFiles, result.Stats.FilesProcessed,
		logging.FieldIssues, result.Stats.DiagnosticsTotal,
		logging.FieldDuration, time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) processFile(ctx context.Context, path string, cfg *config.Config, opts lint.PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}
	pr, err := r.Pipeline.ProcessFile(ctx, path, cfg, opts)
	if err != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		outcome.Error = err
		return outcome
	}
	outcome.Result = pr
	return outcome
}
