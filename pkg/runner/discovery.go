package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/mdnames/pkg/fsutil"
)

// discoverer carries the compiled state of one Discover call.
type discoverer struct {
	workDir    string
	extensions []string
	include    *globSet
	exclude    *globSet
	opts       Options
}

// Discover finds Markdown files for opts and returns their absolute paths
// sorted and de-duplicated.
//
// Directory walks skip hidden entries, vendored directories (unless
// IncludeVendor is set), excluded paths and mdnames backup files. A file
// named explicitly in Paths is only subject to the extension and glob
// checks.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		include:    include,
		exclude:    exclude,
		opts:       opts,
	}

	var files []string
	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			visited := map[string]bool{absPath: true}
			if real, err := filepath.EvalSymlinks(absPath); err == nil {
				visited[real] = true
			}
			found, err := d.walk(ctx, absPath, visited)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		if d.matchesFile(absPath) {
			files = append(files, absPath)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walk collects matching files under root. visited holds the real paths of
// followed symlink targets to stop cycles.
func (d *discoverer) walk(ctx context.Context, root string, visited map[string]bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := d.rel(path)

		if entry.IsDir() {
			if path != root && d.skipDir(entry.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks || visited[target] || d.skipDir(entry.Name(), rel) {
					return nil
				}
				visited[target] = true
				// Walk the target; WalkDir does not descend into a symlink root.
				sub, err := d.walk(ctx, target, visited)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if enry.IsDotFile(path) || fsutil.IsBackupFile(path) {
			return nil
		}
		if d.matchesFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (d *discoverer) skipDir(name, rel string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if !d.opts.IncludeVendor && enry.IsVendor(filepath.ToSlash(rel)+"/") {
		return true
	}
	return d.exclude.match(rel, true)
}

func (d *discoverer) matchesFile(path string) bool {
	if !hasExtension(path, d.extensions) {
		return false
	}
	rel := d.rel(path)
	if d.exclude.match(rel, false) {
		return false
	}
	if !d.include.empty() && !d.include.match(rel, false) {
		return false
	}
	return true
}

// rel returns path relative to the working directory, or path itself when
// it lies elsewhere.
func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && slices.Contains(extensions, ext)
}
