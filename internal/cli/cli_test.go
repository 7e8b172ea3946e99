package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/internal/cli"
	"github.com/yaklabco/mdnames/internal/configloader"
)

var testInfo = cli.BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-02"}

// newProject creates a repository root holding files, makes it the working
// directory and isolates the test from user config and MDNAMES_* variables.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	for _, suffix := range []string{
		"NAMES", "CODE_BLOCKS", "HTML_ELEMENTS", "HEADING_ID", "FLAVOR",
		"FORMAT", "COLOR", "JOBS", "IGNORE", "BACKUPS",
	} {
		t.Setenv("MDNAMES_"+suffix, "")
	}
	return dir
}

type execResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	assert.Equal(t, "mdnames", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"lint", "rules", "names", "init", "version", "exitcodes"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "color", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestLintCommandFlags(t *testing.T) {
	t.Parallel()

	lintCmd, _, err := cli.NewRootCommand(testInfo).Find([]string{"lint"})
	require.NoError(t, err)

	for _, flag := range []string{
		"fix", "dry-run", "format", "names", "no-code-blocks", "no-html-elements",
		"no-heading-id", "jobs", "ignore", "backup", "flavor", "rule-format",
		"include", "ext", "max-fix-passes", "stdin-filename",
	} {
		assert.NotNil(t, lintCmd.Flags().Lookup(flag), flag)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"issues", cli.ErrLintIssuesFound, cli.ExitIssues},
		{"wrapped issues", fmt.Errorf("run: %w", cli.ErrLintIssuesFound), cli.ExitIssues},
		{"usage", fmt.Errorf("%w: bad flag", cli.ErrUsage), cli.ExitUsage},
		{"invalid config", fmt.Errorf("load: %w", configloader.ErrInvalidConfig), cli.ExitUsage},
		{"unknown command", errors.New(`unknown command "frob" for "mdnames"`), cli.ExitUsage},
		{"files failed", cli.ErrFilesFailed, cli.ExitInternal},
		{"other", errors.New("boom"), cli.ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestUsageErrors(t *testing.T) {
	newProject(t, nil)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"lint", "--frobnicate"}},
		{"bad color", []string{"--color", "sometimes", "lint"}},
		{"bad format", []string{"lint", "--format", "xml"}},
		{"bad flavor", []string{"lint", "--flavor", "wiki"}},
		{"negative jobs", []string{"lint", "--jobs", "-1"}},
		{"stdin with paths", []string{"lint", "-", "README.md"}},
		{"unknown command", []string{"frob"}},
		{"bad init format", []string{"init", "--format", "ini"}},
		{"bad rules format", []string{"rules", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.err), res.err.Error())
		})
	}
}

func TestExitCodesCommand(t *testing.T) {
	res := execute(t, "", "exitcodes")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 4)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, fmt.Sprintf("%d  ", i)), line)
	}
}

func TestVersionCommand(t *testing.T) {
	res := execute(t, "", "version")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "mdnames")
	assert.Contains(t, res.stdout, "1.2.3")
	assert.Contains(t, res.stdout, "abc1234")
	assert.Contains(t, res.stdout, "2026-01-02")
}

func TestHelp(t *testing.T) {
	res := execute(t, "", "--color", "never", "lint", "--help")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "mdnames lint [paths...]")
	assert.Contains(t, res.stdout, "Flags:")
	assert.Contains(t, res.stdout, "--no-heading-id")
	assert.Contains(t, res.stdout, "Global Flags:")
	assert.Contains(t, res.stdout, "(default gfm)")
	assert.NotContains(t, res.stdout, "\x1b[")

	res = execute(t, "", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Commands:")
	assert.Contains(t, res.stdout, "names")
}
