package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigPaths represents discovered configuration file paths.
// Missing files are empty strings.
type ConfigPaths struct {
	// User is the user-level config (e.g. ~/.config/mdnames/config.yml).
	User string

	// Project is the nearest .mdnames.* file found searching upward.
	Project string

	// Explicit is a config path provided via --config.
	Explicit string

	// Markdownlint is a markdownlint config found alongside the project,
	// used only when no project config exists.
	Markdownlint string
}

// projectConfigFiles are searched in each directory, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".mdnames.yml",
	".mdnames.yaml",
	".mdnames.toml",
	".mdnames.json",
}

// userConfigFiles are searched in $XDG_CONFIG_HOME/mdnames.
//
//nolint:gochecknoglobals // Read-only lookup table.
var userConfigFiles = []string{
	"config.yml",
	"config.yaml",
	"config.toml",
	"config.json",
}

// markdownlintConfigFiles are the markdownlint configs names can be
// imported from.
//
//nolint:gochecknoglobals // Read-only lookup table.
var markdownlintConfigFiles = []string{
	".markdownlint.jsonc",
	".markdownlint.json",
	".markdownlint.yaml",
	".markdownlint.yml",
	".markdownlint.cjs",
	".markdownlint.mjs",
}

//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the user config, the project config and, as a
// fallback source of names, a markdownlint config.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	paths := &ConfigPaths{User: findUserConfig()}

	project, root, err := findProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project
	if project == "" {
		paths.Markdownlint = findMarkdownlintConfig(workDir, root)
	}

	return paths, nil
}

// UserConfigDir returns $XDG_CONFIG_HOME/mdnames, falling back to
// ~/.config/mdnames.
func UserConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mdnames")
}

func findUserConfig() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return firstExisting(dir, userConfigFiles)
}

// FindProjectConfig searches upward from startDir for a .mdnames.* file.
// The search stops at a VCS root, the home directory or the filesystem
// root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	path, _, err := findProjectConfig(ctx, startDir)
	return path, err
}

// findProjectConfig also returns the last directory it searched, which
// bounds the markdownlint lookup.
func findProjectConfig(ctx context.Context, startDir string) (string, string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstExisting(dir, projectConfigFiles); path != "" {
			return path, dir, nil
		}

		if isVCSRoot(dir) || (home != "" && dir == home) {
			return "", dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", dir, nil
		}
		dir = parent
	}
}

// findMarkdownlintConfig searches from workDir up to stopDir, inclusive.
func findMarkdownlintConfig(workDir, stopDir string) string {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return ""
	}
	for {
		if path := firstExisting(dir, markdownlintConfigFiles); path != "" {
			return path
		}
		parent := filepath.Dir(dir)
		if dir == stopDir || parent == dir || !strings.HasPrefix(dir, stopDir) {
			return ""
		}
		dir = parent
	}
}

// FindMarkdownlintConfig returns the markdownlint config in dir, if any.
func FindMarkdownlintConfig(dir string) string {
	return firstExisting(dir, markdownlintConfigFiles)
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// configFormat returns the decoder name for path by extension, or "".
func configFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	case ".jsonc":
		return "jsonc"
	case ".cjs", ".mjs":
		return "js"
	default:
		return ""
	}
}
