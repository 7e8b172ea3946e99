package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdnames/internal/configloader"
	"github.com/yaklabco/mdnames/pkg/runner"
)

// Exit codes for mdnames.
const (
	// ExitSuccess means no issues were found.
	ExitSuccess = 0

	// ExitIssues means lint completed and found issues.
	ExitIssues = 1

	// ExitUsage means invalid command-line usage or configuration.
	ExitUsage = 2

	// ExitInternal means the run failed, or some files could not be
	// processed.
	ExitInternal = 3
)

var (
	// ErrLintIssuesFound is returned when lint issues remain.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrUsage marks invalid flags, arguments or flag values.
	ErrUsage = errors.New("invalid usage")

	// ErrFilesFailed is returned when some files could not be processed
	// and no issues were found in the rest.
	ErrFilesFailed = errors.New("some files could not be processed")
)

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// ExitCode maps an error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitIssues
	case errors.Is(err, ErrUsage), errors.Is(err, configloader.ErrInvalidConfig):
		return ExitUsage
	case strings.HasPrefix(err.Error(), "unknown command"):
		// cobra reports unknown subcommands with a plain error.
		return ExitUsage
	default:
		return ExitInternal
	}
}

// resultError returns the error a finished run maps to. pendingFixes
// counts issues a dry run would have fixed, which still count as found.
func resultError(result *runner.Result, pendingFixes bool) error {
	if result == nil {
		return nil
	}
	issues := result.Stats.DiagnosticsTotal
	if pendingFixes {
		issues += result.Stats.DiagnosticsFixed
	}
	switch {
	case issues > 0:
		return ErrLintIssuesFound
	case result.HasErrors():
		return ErrFilesFailed
	default:
		return nil
	}
}

func newExitCodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exitcodes",
		Short: "Describe the process exit codes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d  no issues found\n", ExitSuccess)
			fmt.Fprintf(out, "%d  issues found (including fixes a dry run would apply)\n", ExitIssues)
			fmt.Fprintf(out, "%d  invalid usage or configuration\n", ExitUsage)
			fmt.Fprintf(out, "%d  internal error, or files that could not be read or written\n", ExitInternal)
		},
	}
}
