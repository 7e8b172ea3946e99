package fix

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// Diff is a unified diff between the original and fixed content of a file.
type Diff struct {
	// Path is the file path used in the diff headers.
	Path string

	// Unified is the rendered patch, with ---/+++ headers and @@ hunks.
	Unified string

	// Additions and Deletions count the changed lines.
	Additions int
	Deletions int
}

// GenerateDiff returns the unified diff from original to modified, or nil
// when they are equal.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(original)),
		B:        splitLinesKeepNL(string(modified)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	})
	if err != nil || unified == "" {
		return nil
	}

	d := &Diff{Path: path, Unified: unified}
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			d.Additions++
		case strings.HasPrefix(line, "-"):
			d.Deletions++
		}
	}
	return d
}

// GitHeader returns the "diff --git" line that precedes the patch.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	return "diff --git a/" + d.Path + " b/" + d.Path
}

// String returns the patch without the git header.
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Unified
}

// FullString returns the git header followed by the patch.
func (d *Diff) FullString() string {
	if d == nil {
		return ""
	}
	return d.GitHeader() + "\n" + d.Unified
}

// HasChanges reports whether the diff contains any changed line.
func (d *Diff) HasChanges() bool {
	return d != nil && (d.Additions > 0 || d.Deletions > 0)
}

// splitLinesKeepNL splits s into lines that keep their trailing newline. A
// final line without one gets a newline so hunks render on separate lines.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}
