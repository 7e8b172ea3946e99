package lint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/pkg/config"
	"github.com/yaklabco/mdnames/pkg/fix"
	"github.com/yaklabco/mdnames/pkg/fsutil"
	"github.com/yaklabco/mdnames/pkg/lint"
	"github.com/yaklabco/mdnames/pkg/mdast"
	"github.com/yaklabco/mdnames/pkg/parser/goldmark"
)

// upperRule reports every "todo" and fixes it to "TODO".
type upperRule struct {
	lint.BaseRule
	err error
}

func newUpperRule(id string) *upperRule {
	return &upperRule{
		BaseRule: lint.NewBaseRule(id, "upper-"+strings.ToLower(id), "Upper case todo", []string{"test"}, true),
	}
}

func (r *upperRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if r.err != nil {
		return nil, r.err
	}

	var diags []lint.Diagnostic
	content := string(ctx.File.Content)
	for offset := 0; ; {
		i := strings.Index(content[offset:], "todo")
		if i < 0 {
			break
		}
		start := offset + i
		line, col := ctx.File.LineAt(start)
		diags = append(diags, lint.NewDiagnosticAt(r.ID(), "",
			lint.SpanPosition(line-1, col-1, 4), "Expected: TODO; Actual: todo").
			WithEdit(fix.TextEdit{StartOffset: start, EndOffset: start + 4, NewText: "TODO"}).
			Build())
		offset = start + 4
	}
	return diags, nil
}

type failingParser struct{}

func (failingParser) Parse(context.Context, string, []byte) (*mdast.FileSnapshot, error) {
	return nil, errors.New("boom")
}

func newEngine(rules ...lint.Rule) *lint.Engine {
	registry := lint.NewRegistry()
	for _, r := range rules {
		registry.Register(r)
	}
	return lint.NewEngine(goldmark.New(goldmark.FlavorGFM), registry)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newUpperRule("MD900"), "legacy-upper")
	registry.Register(newUpperRule("MD100"))

	for _, key := range []string{"MD900", "md900", "upper-md900", "UPPER-MD900", "legacy-upper"} {
		id, rule, ok := registry.Resolve(key)
		require.True(t, ok, key)
		assert.Equal(t, "MD900", id)
		assert.Equal(t, "MD900", rule.ID())
	}

	_, ok := registry.Get("nope")
	assert.False(t, ok)

	registry.RegisterAlias("old-upper", "MD900")
	assert.Equal(t, []string{"legacy-upper", "old-upper"}, registry.Aliases("MD900"))
	assert.Equal(t, []string{"MD100", "MD900"}, registry.ResolveTag("TEST"))

	rules := registry.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "MD100", rules[0].ID())
}

func TestResolveRules(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newUpperRule("MD900"))

	disabled := false
	severity := string(config.SeverityError)

	tests := []struct {
		name        string
		cfg         *config.Config
		wantEnabled bool
		wantFix     bool
		wantSev     config.Severity
	}{
		{name: "nil config", cfg: nil, wantEnabled: true, wantFix: true, wantSev: config.SeverityWarning},
		{name: "lint only", cfg: config.NewConfig(), wantEnabled: true, wantSev: config.SeverityWarning},
		{
			name:    "fix",
			cfg:     &config.Config{Fix: true},
			wantFix: true, wantEnabled: true, wantSev: config.SeverityWarning,
		},
		{
			name: "disabled by flag",
			cfg:  &config.Config{DisableRules: []string{"MD900"}},
		},
		{
			name: "disabled by rule config",
			cfg:  &config.Config{Rules: map[string]config.RuleConfig{"MD900": {Enabled: &disabled}}},
		},
		{
			name:        "severity override",
			cfg:         &config.Config{Rules: map[string]config.RuleConfig{"MD900": {Severity: &severity}}},
			wantEnabled: true, wantSev: config.SeverityError,
		},
		{
			name:        "fix rules filter excludes",
			cfg:         &config.Config{Fix: true, FixRules: []string{"MD001"}},
			wantEnabled: true, wantSev: config.SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolved := lint.ResolveRules(registry, tt.cfg)
			if !tt.wantEnabled {
				assert.Empty(t, resolved)
				return
			}
			require.Len(t, resolved, 1)
			assert.Equal(t, tt.wantFix, resolved[0].AutoFix)
			assert.Equal(t, tt.wantSev, resolved[0].Severity)
		})
	}
}

func TestEngine_LintFile(t *testing.T) {
	t.Parallel()

	engine := newEngine(newUpperRule("MD900"))
	cfg := &config.Config{Fix: true}

	result, err := engine.LintFile(context.Background(), "a.md", []byte("a todo\nb todo\n"), cfg)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, "a.md", result.Diagnostics[0].FilePath)
	assert.Equal(t, "upper-md900", result.Diagnostics[0].RuleName)
	assert.Equal(t, config.SeverityWarning, result.Diagnostics[0].Severity)
	assert.Equal(t, 2, result.Diagnostics[1].StartLine)
	assert.Equal(t, 3, result.Diagnostics[1].StartColumn)
	assert.Len(t, result.Edits, 2)
	assert.Equal(t, 2, result.FixableCount())
	assert.True(t, result.HasIssues())
}

func TestEngine_LintFile_LintOnlyHasNoEdits(t *testing.T) {
	t.Parallel()

	result, err := newEngine(newUpperRule("MD900")).LintFile(context.Background(), "a.md", []byte("todo\n"), config.NewConfig())
	require.NoError(t, err)
	assert.Len(t, result.Diagnostics, 1)
	assert.False(t, result.HasFixes())
}

func TestEngine_LintFile_OverlappingEditsSkipped(t *testing.T) {
	t.Parallel()

	engine := newEngine(newUpperRule("MD900"), newUpperRule("MD901"))
	result, err := engine.LintFile(context.Background(), "a.md", []byte("todo\n"), &config.Config{Fix: true})
	require.NoError(t, err)

	assert.Len(t, result.Diagnostics, 2)
	assert.Len(t, result.Edits, 1)
	assert.Empty(t, result.SkippedEdits, "identical edits collapse")
}

func TestEngine_RuleError(t *testing.T) {
	t.Parallel()

	rule := newUpperRule("MD900")
	rule.err = errors.New("broken")

	result, err := newEngine(rule).LintFile(context.Background(), "a.md", []byte("todo\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	require.Contains(t, result.RuleErrors, "MD900")
}

func TestEngine_ParseError(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(failingParser{}, lint.NewRegistry())
	_, err := engine.LintFile(context.Background(), "a.md", nil, nil)
	require.Error(t, err)
}

func TestEngine_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(newUpperRule("MD900")).LintFile(ctx, "a.md", []byte("todo\n"), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_ProcessFile_Fix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("one todo\ntwo todo\n"), 0o600))

	cfg := &config.Config{Fix: true, Backups: config.BackupsConfig{Enabled: true, Mode: "sidecar"}}
	pipeline := lint.NewPipeline(newEngine(newUpperRule("MD900")))

	result, err := pipeline.ProcessFile(context.Background(), path, cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.Equal(t, 1, result.FixPasses)
	assert.Equal(t, 2, result.TotalEditsApplied)
	assert.Len(t, result.FixedDiagnostics, 2)
	assert.Equal(t, "fixed (backup created)", result.Summary())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one TODO\ntwo TODO\n", string(got))

	backup, err := os.ReadFile(fsutil.BackupPath(path, fsutil.BackupModeSidecar))
	require.NoError(t, err)
	assert.Equal(t, "one todo\ntwo todo\n", string(backup))
}

func TestPipeline_ProcessFile_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("todo\n"), 0o600))

	cfg := &config.Config{DryRun: true}
	pipeline := lint.NewPipeline(newEngine(newUpperRule("MD900")))

	result, err := pipeline.ProcessFile(context.Background(), path, cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)

	assert.False(t, result.Written)
	require.NotNil(t, result.Diff)
	assert.Contains(t, result.Diff.Unified, "+TODO")
	assert.Equal(t, "changes pending", result.Summary())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "todo\n", string(got))
}

func TestPipeline_ProcessFile_LintOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("todo\n"), 0o600))

	pipeline := lint.NewPipeline(newEngine(newUpperRule("MD900")))
	result, err := pipeline.ProcessFile(context.Background(), path, config.NewConfig(), lint.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.False(t, result.Modified)
	assert.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "issues found", result.Summary())
}

func TestPipeline_ProcessFile_NotFound(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine())
	_, err := pipeline.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "x.md"), nil, lint.DefaultPipelineOptions())
	require.ErrorIs(t, err, lint.ErrFileNotFound)
	assert.True(t, lint.IsPipelineError(err))
}

// growRule inserts text that the rule itself reports again, so fixing
// never converges.
type growRule struct{ lint.BaseRule }

func (r *growRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	return []lint.Diagnostic{
		lint.NewDiagnosticAt(r.ID(), "", lint.SpanPosition(0, 0, 1), "grow").
			WithEdit(fix.TextEdit{StartOffset: 0, EndOffset: 0, NewText: "x"}).
			Build(),
	}, nil
}

func TestPipeline_NotConverged(t *testing.T) {
	t.Parallel()

	rule := &growRule{BaseRule: lint.NewBaseRule("MD950", "grow", "grow", nil, true)}
	pipeline := lint.NewPipeline(newEngine(rule))

	cfg := &config.Config{Fix: true, MaxFixPasses: 3}
	_, err := pipeline.ProcessContent(context.Background(), "a.md", []byte("a\n"), cfg, lint.PipelineOptionsFromConfig(cfg))
	require.ErrorIs(t, err, lint.ErrNotConverged)
}

func TestRuleContext_Options(t *testing.T) {
	t.Parallel()

	rc := lint.NewRuleContext(context.Background(), nil, nil, &config.RuleConfig{Options: map[string]any{
		"names": []any{"GitHub", 3, "Node.js"},
		"flag":  false,
		"other": "x",
	}})

	assert.Equal(t, []string{"GitHub", "Node.js"}, rc.OptionStringSlice("names", nil))
	assert.False(t, rc.OptionBool("flag", true))
	assert.True(t, rc.OptionBool("other", true))
	assert.True(t, rc.OptionBool("missing", true))
	assert.Equal(t, "x", rc.Option("other", nil))

	empty := lint.NewRuleContext(context.Background(), nil, nil, nil)
	assert.Nil(t, empty.Options())
	assert.False(t, empty.Cancelled())
}

func TestSpanPosition(t *testing.T) {
	t.Parallel()

	pos := lint.SpanPosition(2, 4, 6)
	assert.Equal(t, mdast.SourcePosition{StartLine: 3, StartColumn: 5, EndLine: 3, EndColumn: 10}, pos)
}
