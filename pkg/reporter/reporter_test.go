package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/lint/rules"
	"github.com/yaklabco/mdnames/pkg/parser/goldmark"
	"github.com/yaklabco/mdnames/pkg/reporter"
	"github.com/yaklabco/mdnames/pkg/runner"
)

type input struct {
	path    string
	content string
}

func testRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	return registry
}

// lintAll runs the real pipeline over in-memory files with GitHub as the
// configured name.
func lintAll(t *testing.T, cfg *config.Config, files ...input) *runner.Result {
	t.Helper()

	if cfg == nil {
		cfg = config.NewConfig()
	}
	cfg.SetRuleOption(config.ProperNamesRuleID, "names", []string{"GitHub"})

	pipeline := lint.NewPipeline(lint.NewEngine(goldmark.New(goldmark.FlavorGFM), testRegistry()))
	opts := lint.PipelineOptionsFromConfig(cfg)

	var result runner.Result
	for _, f := range files {
		pr, err := pipeline.ProcessContent(context.Background(), f.path, []byte(f.content), cfg, opts)
		require.NoError(t, err)
		result.Accumulate(runner.FileOutcome{Path: f.path, Result: pr})
	}
	return &result
}

func plainOptions(buf *bytes.Buffer, format config.OutputFormat) reporter.Options {
	opts := reporter.DefaultOptions()
	opts.Writer = buf
	opts.Format = format
	opts.Color = config.ColorNever
	opts.Registry = testRegistry()
	opts.ToolVersion = "1.2.3"
	return opts
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range append(config.OutputFormats(), "") {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			rep, err := reporter.New(plainOptions(&buf, format))
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}

	var buf bytes.Buffer
	_, err := reporter.New(plainOptions(&buf, "xml"))
	require.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Format = config.FormatSARIF
	cfg.Color = config.ColorNever
	cfg.RuleFormat = config.RuleFormatName

	var buf bytes.Buffer
	opts := reporter.OptionsFromConfig(cfg, &buf)
	assert.Equal(t, config.FormatSARIF, opts.Format)
	assert.Equal(t, config.ColorNever, opts.Color)
	assert.Equal(t, config.RuleFormatName, opts.RuleFormat)
	assert.Same(t, &buf, opts.Writer)

	assert.Equal(t, config.FormatText, reporter.OptionsFromConfig(nil, &buf).Format)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	result := lintAll(t, nil,
		input{"docs/a.md", "Hosted on Github.\n"},
		input{"docs/b.md", "Hosted on GitHub.\n"},
	)

	var buf bytes.Buffer
	n, err := reporter.NewTextReporter(plainOptions(&buf, config.FormatText)).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := "docs/a.md (1 issue)\n" +
		"  docs/a.md:1:11  MD044/proper-names  Expected: GitHub; Actual: Github\n" +
		"    1 | Hosted on Github.\n" +
		"      |           ^^^^^^\n" +
		"\n" +
		"1 issue (1 warning) in 1 file, 1 fixable\n"
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_Flat(t *testing.T) {
	t.Parallel()

	result := lintAll(t, nil, input{"a.md", "github and Github\n"})

	var buf bytes.Buffer
	opts := plainOptions(&buf, config.FormatText)
	opts.GroupByFile = false
	opts.ShowContext = false
	opts.ShowSummary = false
	opts.RuleFormat = config.RuleFormatID

	n, err := reporter.NewTextReporter(opts).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t,
		"a.md:1:1  MD044  Expected: GitHub; Actual: github\n"+
			"a.md:1:12  MD044  Expected: GitHub; Actual: Github\n",
		buf.String())
}

func TestTextReporter_RelativePathsAndErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result := lintAll(t, nil, input{filepath.Join(dir, "docs", "a.md"), "Github\n"})
	result.Accumulate(runner.FileOutcome{Path: filepath.Join(dir, "broken.md"), Error: lint.ErrFileNotFound})

	var buf bytes.Buffer
	opts := plainOptions(&buf, config.FormatText)
	opts.WorkingDir = dir
	opts.ShowContext = false

	_, err := reporter.NewTextReporter(opts).Report(context.Background(), result)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "  docs/a.md:1:1  MD044/proper-names")
	assert.Contains(t, out, "broken.md: error: ")
	assert.NotContains(t, out, dir)
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := reporter.NewTextReporter(plainOptions(&buf, config.FormatText)).Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No files to check.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	result := lintAll(t, nil,
		input{"a.md", "Hosted on Github.\n"},
		input{"b.md", "clean\n"},
	)

	var buf bytes.Buffer
	n, err := reporter.NewJSONReporter(plainOptions(&buf, config.FormatJSON)).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.2.3", out.Version)
	require.Len(t, out.Files, 2)
	require.Len(t, out.Files[0].Diagnostics, 1)
	assert.Empty(t, out.Files[1].Diagnostics)

	diag := out.Files[0].Diagnostics[0]
	assert.Equal(t, "MD044", diag.RuleID)
	assert.Equal(t, "proper-names", diag.RuleName)
	assert.Equal(t, "warning", diag.Severity)
	assert.Equal(t, 1, diag.Line)
	assert.Equal(t, 11, diag.Column)
	assert.Equal(t, 16, diag.EndColumn)
	assert.Equal(t, "GitHub", diag.Expected)
	assert.Equal(t, "Github", diag.Actual)
	assert.True(t, diag.Fixable)
	assert.Equal(t, []reporter.JSONFix{{StartOffset: 10, EndOffset: 16, NewText: "GitHub"}}, diag.Fixes)

	assert.Equal(t, 2, out.Summary.FilesChecked)
	assert.Equal(t, 1, out.Summary.FilesWithIssues)
	assert.Equal(t, 1, out.Summary.TotalIssues)
	assert.Equal(t, 1, out.Summary.FixableIssues)
	assert.Equal(t, map[string]int{"warning": 1}, out.Summary.BySeverity)
	assert.Equal(t, map[string]int{"MD044": 1}, out.Summary.ByRule)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := plainOptions(&buf, config.FormatJSON)
	opts.Compact = true

	_, err := reporter.NewJSONReporter(opts).Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), `"files":[]`)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	result := lintAll(t, nil, input{"docs/a.md", "日本 Github\n"})

	var buf bytes.Buffer
	n, err := reporter.NewSARIFReporter(plainOptions(&buf, config.FormatSARIF)).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)
	run := out.Runs[0]

	assert.Equal(t, "mdnames", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, "MD044", run.Tool.Driver.Rules[0].ID)
	assert.Equal(t, rules.ProperNamesInfoURL, run.Tool.Driver.Rules[0].HelpURI)

	require.Len(t, run.Invocations, 1)
	assert.True(t, run.Invocations[0].ExecutionSuccessful)

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "MD044", res.RuleID)
	assert.Zero(t, res.RuleIndex)
	assert.Equal(t, "warning", res.Level)

	loc := res.Locations[0].PhysicalLocation
	assert.Equal(t, "docs/a.md", loc.ArtifactLocation.URI)
	assert.Equal(t, "%SRCROOT%", loc.ArtifactLocation.URIBaseID)
	require.NotNil(t, loc.Region)
	assert.Equal(t, 1, loc.Region.StartLine)
	assert.Equal(t, 4, loc.Region.StartColumn, "code point column")
	assert.Equal(t, 10, loc.Region.EndColumn, "exclusive code point column")

	require.Len(t, res.Fixes, 1)
	replacement := res.Fixes[0].ArtifactChanges[0].Replacements[0]
	require.NotNil(t, replacement.DeletedRegion.ByteOffset)
	require.NotNil(t, replacement.DeletedRegion.ByteLength)
	assert.Equal(t, 7, *replacement.DeletedRegion.ByteOffset)
	assert.Equal(t, 6, *replacement.DeletedRegion.ByteLength)
	assert.Equal(t, "GitHub", replacement.InsertedContent.Text)
}

func TestSARIFReporter_FileError(t *testing.T) {
	t.Parallel()

	var result runner.Result
	result.Accumulate(runner.FileOutcome{Path: "gone.md", Error: errors.New("boom")})

	var buf bytes.Buffer
	_, err := reporter.NewSARIFReporter(plainOptions(&buf, config.FormatSARIF)).Report(context.Background(), &result)
	require.NoError(t, err)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	inv := out.Runs[0].Invocations[0]
	assert.False(t, inv.ExecutionSuccessful)
	require.Len(t, inv.ToolExecutionNotifications, 1)
	assert.Equal(t, "boom", inv.ToolExecutionNotifications[0].Message.Text)
	assert.Empty(t, out.Runs[0].Results)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.DryRun = true
	result := lintAll(t, cfg,
		input{"docs/a.md", "# Title\n\nHosted on Github.\n"},
		input{"docs/b.md", "Hosted on GitHub.\n"},
	)

	var buf bytes.Buffer
	n, err := reporter.NewDiffReporter(plainOptions(&buf, config.FormatDiff)).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/docs/a.md b/docs/a.md\n--- a/docs/a.md\n+++ b/docs/a.md\n")
	assert.Contains(t, out, "@@ ")
	assert.Contains(t, out, "\n-Hosted on Github.\n+Hosted on GitHub.\n")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
	assert.NotContains(t, out, "docs/b.md")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	result := lintAll(t, nil,
		input{"a.md", "Github\n"},
		input{"b.md", "github github\n"},
		input{"c.md", "GitHub\n"},
	)

	var buf bytes.Buffer
	n, err := reporter.NewSummaryReporter(plainOptions(&buf, config.FormatSummary)).Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out := buf.String()
	assert.Regexp(t, `(?m)^b\.md\s+2\n^a\.md\s+1$`, out)
	assert.Regexp(t, `(?m)^MD044/proper-names\s+3$`, out)
	assert.NotContains(t, out, "c.md")
	assert.Contains(t, out, "Files checked:     3")
	assert.Contains(t, out, "Lint completed with warnings")
}
