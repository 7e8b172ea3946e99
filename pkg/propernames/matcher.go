package propernames

import (
	"context"
	"fmt"
)

// MatchRecord is one incorrectly capitalized occurrence of a name.
type MatchRecord struct {
	// Line and Column are 0-based; Column and Length count bytes.
	Line   int
	Column int
	Length int

	// Actual is the text found in the document.
	Actual string

	// Expected is the canonical name that should replace it.
	Expected string
}

// Matcher finds names in a document. It is immutable once built and may be
// shared between goroutines.
type Matcher struct {
	entries []NameEntry
	known   map[string]struct{}
}

// NewMatcher compiles names into a Matcher.
func NewMatcher(names []string) *Matcher {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}
	return &Matcher{
		entries: CompileNames(names),
		known:   known,
	}
}

// Entries returns the compiled names in matching order.
func (m *Matcher) Entries() []NameEntry {
	return m.entries
}

// Match scans doc for every name, longest first, and returns the
// occurrences that need a fix. Every occurrence it finds is added to excl,
// whether reported or not, so each span of text is claimed by one name at
// most. Code lines are skipped unless includeCode is set.
func (m *Matcher) Match(ctx context.Context, doc Document, excl *ExclusionSet, includeCode bool) ([]MatchRecord, error) {
	lines := doc.Lines()
	var records []MatchRecord

	for _, entry := range m.entries {
		if err := ctx.Err(); err != nil {
			return records, fmt.Errorf("match %q: %w", entry.Name, err)
		}

		for idx, line := range lines {
			if !includeCode && (line.InCode || line.OnFence) {
				continue
			}

			for _, loc := range entry.Pattern.FindAllStringSubmatchIndex(line.Text, -1) {
				// loc[4]:loc[5] is the name group, after any underscores.
				col, length := loc[4], loc[5]-loc[4]
				actual := line.Text[loc[4]:loc[5]]

				if !excl.WithinAny(idx, col, length) {
					if _, ok := m.known[actual]; !ok {
						records = append(records, MatchRecord{
							Line:     idx,
							Column:   col,
							Length:   length,
							Actual:   actual,
							Expected: entry.Name,
						})
					}
				}

				excl.Add(Range{Line: idx, Column: col, Length: length})
			}
		}
	}

	return records, nil
}
