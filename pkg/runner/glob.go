package runner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// globSet matches slash-separated paths relative to the working directory.
type globSet struct {
	full []glob.Glob // matched against the whole relative path
	base []glob.Glob // patterns without a slash, matched against the base name
}

// compileGlobs compiles patterns with '/' as separator, so "*" stops at a
// directory boundary and "**" crosses it. A leading "**/" also matches at
// the top level.
func compileGlobs(patterns []string) (*globSet, error) {
	set := &globSet{}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		pattern = strings.TrimPrefix(pattern, "./")

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
		}
		if !strings.Contains(pattern, "/") {
			set.base = append(set.base, g)
			continue
		}
		set.full = append(set.full, g)

		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			top, err := glob.Compile(rest, '/')
			if err != nil {
				return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
			}
			set.full = append(set.full, top)
		}
	}
	return set, nil
}

func (s *globSet) empty() bool {
	return s == nil || len(s.full)+len(s.base) == 0
}

// match reports whether rel matches. Directories are also tried with a
// trailing slash so "docs/**" prunes the docs directory itself.
func (s *globSet) match(rel string, isDir bool) bool {
	if s.empty() {
		return false
	}
	rel = filepath.ToSlash(rel)
	candidates := []string{rel}
	if isDir {
		candidates = append(candidates, rel+"/")
	}

	for _, c := range candidates {
		for _, g := range s.full {
			if g.Match(c) {
				return true
			}
		}
	}
	name := path.Base(rel)
	for _, g := range s.base {
		if g.Match(name) {
			return true
		}
	}
	return false
}
