package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdnames/internal/configloader"
	"github.com/yaklabco/mdnames/internal/logging"
	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
	_ "github.com/yaklabco/mdnames/pkg/lint/rules" // Register built-in rules
	goldmarkparser "github.com/yaklabco/mdnames/pkg/parser/goldmark"
	"github.com/yaklabco/mdnames/pkg/propernames"
	"github.com/yaklabco/mdnames/pkg/reporter"
	"github.com/yaklabco/mdnames/pkg/runner"
)

// stdinPath is the argument that selects standard input.
const stdinPath = "-"

type lintFlags struct {
	fix            bool
	dryRun         bool
	backup         bool
	format         string
	flavor         string
	ruleFormat     string
	names          []string
	noCodeBlocks   bool
	noHTMLElements bool
	noHeadingID    bool
	ignore         []string
	include        []string
	extensions     []string
	includeVendor  bool
	followSymlinks bool
	jobs           int
	maxFixPasses   int
	maxWidth       int
	noContext      bool
	noSummary      bool
	compact        bool
	stdinFilename  string
}

func newLintCommand(info BuildInfo) *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check Markdown files for misspelled proper names",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, info)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Check Markdown files for proper names with the wrong capitalization.

By default, checks every Markdown file below the current directory,
skipping hidden and vendored directories. Pass "-" to read standard input.

Examples:
  mdnames lint                          # Check the current directory
  mdnames lint docs/ README.md          # Check specific paths
  mdnames lint --names GitHub,Node.js   # Override the configured names
  mdnames lint --fix                    # Rewrite files in place
  mdnames lint --dry-run                # Show the fixes as a diff
  mdnames lint --format sarif > out.sarif
  cat README.md | mdnames lint --fix - > FIXED.md`

// cliConfig builds the flag layer of the configuration. It starts empty
// so that only flags the user actually set override lower layers.
func cliConfig(cmd *cobra.Command, flags *lintFlags) (*config.Config, error) {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	cfg.Fix = flags.fix
	cfg.DryRun = flags.dryRun
	cfg.Backups.Enabled = flags.backup
	cfg.FollowSymlinks = flags.followSymlinks

	if changed("format") {
		format := config.OutputFormat(flags.format)
		if !format.IsValid() {
			return nil, usageErrorf("invalid --format %q: must be one of %s", flags.format, formatList())
		}
		cfg.Format = format
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	if changed(flagColor) {
		color, _ := cmd.Flags().GetString(flagColor)
		cfg.Color = config.ColorMode(color)
	}
	if changed("jobs") {
		if flags.jobs < 0 {
			return nil, usageErrorf("invalid --jobs %d: must not be negative", flags.jobs)
		}
		cfg.Jobs = flags.jobs
	}
	if changed("max-fix-passes") {
		if flags.maxFixPasses < 1 {
			return nil, usageErrorf("invalid --max-fix-passes %d: must be at least 1", flags.maxFixPasses)
		}
		cfg.MaxFixPasses = flags.maxFixPasses
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}

	if changed("names") {
		cfg.SetRuleOption(config.ProperNamesRuleID, propernames.OptionNames, flags.names)
	}
	if flags.noCodeBlocks {
		cfg.SetRuleOption(config.ProperNamesRuleID, propernames.OptionCodeBlocks, false)
	}
	if flags.noHTMLElements {
		cfg.SetRuleOption(config.ProperNamesRuleID, propernames.OptionHTMLElements, false)
	}
	if flags.noHeadingID {
		cfg.SetRuleOption(config.ProperNamesRuleID, propernames.OptionHeadingID, false)
	}

	return cfg, nil
}

func formatList() string {
	formats := config.OutputFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// loadConfig resolves the layered configuration for a command.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*configloader.LoadResult, string, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
		Registry:     lint.DefaultRegistry,
	})
	if err != nil {
		return nil, "", fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("configuration loaded", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult, workDir, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags, info BuildInfo) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	useStdin := len(args) == 1 && args[0] == stdinPath
	if !useStdin && len(args) > 1 {
		for _, arg := range args {
			if arg == stdinPath {
				return usageErrorf("%q must be the only path argument", stdinPath)
			}
		}
	}

	cli, err := cliConfig(cmd, flags)
	if err != nil {
		return err
	}

	loadResult, workDir, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	logger.Debug("configuration resolved",
		"flavor", cfg.Flavor,
		"fix", cfg.Fix,
		"dry_run", cfg.DryRun,
		logging.FieldWorkers, cfg.Jobs,
		logging.FieldNames, len(propernames.OptionsFromMap(cfg.RuleOptions(config.ProperNamesRuleID)).Names),
	)

	engine := lint.NewEngine(goldmarkparser.New(string(cfg.Flavor)), lint.DefaultRegistry)
	pipeline := lint.NewPipeline(engine)

	var result *runner.Result
	reportTo := cmd.OutOrStdout()

	if useStdin {
		result, err = lintStdin(cmd, pipeline, cfg, flags.stdinFilename)
		if err != nil {
			return err
		}
		if cfg.Fix && !cfg.DryRun {
			reportTo = cmd.ErrOrStderr()
		}
	} else {
		runOpts := runner.OptionsFromConfig(cfg, args)
		runOpts.WorkingDir = workDir
		runOpts.IncludeGlobs = flags.include
		runOpts.Extensions = normalizeExtensions(flags.extensions)
		runOpts.IncludeVendor = flags.includeVendor

		logger.Debug("starting lint run",
			"paths", runOpts.Paths,
			"working_dir", runOpts.WorkingDir,
		)

		result, err = runner.New(pipeline).Run(ctx, runOpts)
		if err != nil {
			return fmt.Errorf("lint run failed: %w", err)
		}
	}

	format := cfg.Format
	if cfg.DryRun && format == config.FormatText {
		format = config.FormatDiff
	}

	repOpts := reporter.OptionsFromConfig(cfg, reportTo)
	repOpts.Format = format
	repOpts.ShowContext = !flags.noContext
	repOpts.ShowSummary = !flags.noSummary
	repOpts.Compact = flags.compact
	repOpts.WorkingDir = workDir
	repOpts.Registry = lint.DefaultRegistry
	repOpts.ToolVersion = info.Version
	repOpts.MaxWidth = flags.maxWidth
	if repOpts.MaxWidth == 0 {
		repOpts.MaxWidth = terminalWidth(reportTo)
	}

	rep, err := reporter.New(repOpts)
	if err != nil {
		return usageErrorf("%v", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, cfg.DryRun)
}

// lintStdin lints standard input. With --fix the corrected document is
// written to stdout.
func lintStdin(cmd *cobra.Command, pipeline *lint.Pipeline, cfg *config.Config, name string) (*runner.Result, error) {
	ctx := commandContext(cmd)

	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	result := &runner.Result{}
	pr, err := pipeline.ProcessContent(ctx, name, content, cfg, lint.PipelineOptionsFromConfig(cfg))
	if err != nil {
		result.Accumulate(runner.FileOutcome{Path: name, Error: err})
		return result, nil
	}
	result.Accumulate(runner.FileOutcome{Path: name, Result: pr})
	result.Stats.FilesDiscovered = 1

	if cfg.Fix && !cfg.DryRun {
		out := content
		if pr.Modified {
			out = pr.ModifiedContent
		}
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return nil, fmt.Errorf("write stdout: %w", err)
		}
	}

	return result, nil
}

// normalizeExtensions lower-cases extensions and adds the leading dot.
func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// terminalWidth returns the column count of w, or 0 if w is not a
// terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	f := cmd.Flags()

	f.BoolVar(&flags.fix, "fix", false, "rewrite files with the expected capitalization")
	f.BoolVar(&flags.dryRun, "dry-run", false, "show fixes as a diff without writing files")
	f.BoolVar(&flags.backup, "backup", false, "keep a .bak copy of each fixed file")
	f.StringVar(&flags.format, "format", string(config.FormatText), "output format: "+formatList())
	f.StringVar(&flags.flavor, "flavor", string(config.FlavorGFM), "Markdown flavor: gfm, commonmark")
	f.StringVar(&flags.ruleFormat, "rule-format", string(config.RuleFormatCombined),
		"rule identifier format in output: name, id, combined")

	f.StringSliceVar(&flags.names, "names", nil, "proper names to enforce, replacing configured ones")
	f.BoolVar(&flags.noCodeBlocks, "no-code-blocks", false, "skip code spans and code blocks")
	f.BoolVar(&flags.noHTMLElements, "no-html-elements", false, "skip inline and block HTML")
	f.BoolVar(&flags.noHeadingID, "no-heading-id", false, "skip {#id} heading fragments")

	f.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of paths to skip")
	f.StringSliceVar(&flags.include, "include", nil, "only check paths matching these glob patterns")
	f.StringSliceVar(&flags.extensions, "ext", nil, "file extensions treated as Markdown (default: linguist's list)")
	f.BoolVar(&flags.includeVendor, "include-vendor", false, "descend into vendored directories")
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	f.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = number of CPUs)")
	f.IntVar(&flags.maxFixPasses, "max-fix-passes", lint.DefaultMaxFixPasses, "maximum fix passes per file")

	f.IntVar(&flags.maxWidth, "max-width", 0, "maximum width of source context (0 = terminal width)")
	f.BoolVar(&flags.noContext, "no-context", false, "hide source line context in text output")
	f.BoolVar(&flags.noSummary, "no-summary", false, "hide the summary in text output")
	f.BoolVar(&flags.compact, "compact", false, "write JSON and SARIF without indentation")
	f.StringVar(&flags.stdinFilename, "stdin-filename", "<stdin>", "file name reported for standard input")
}
