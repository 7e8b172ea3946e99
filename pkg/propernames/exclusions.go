package propernames

import (
	"github.com/yaklabco/mdnames/pkg/markup"
)

// Range is a half-open span [Column, Column+Length) on one line.
// Line and Column are 0-based byte indexes.
type Range struct {
	Line   int
	Column int
	Length int
}

// Overlaps reports whether r and the span [col, col+length) on line share
// at least one byte.
func (r Range) Overlaps(line, col, length int) bool {
	if r.Line != line || r.Length <= 0 || length <= 0 {
		return false
	}
	return col < r.Column+r.Length && r.Column < col+length
}

// ExclusionSet is the set of ranges in which a name may not be reported.
// It only grows.
type ExclusionSet struct {
	ranges []Range
	byLine map[int][]Range
}

// NewExclusionSet returns an empty set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{byLine: make(map[int][]Range)}
}

// Add appends ranges to the set. Ranges with a non-positive length cover
// nothing and are dropped.
func (s *ExclusionSet) Add(ranges ...Range) {
	for _, r := range ranges {
		if r.Length <= 0 {
			continue
		}
		s.ranges = append(s.ranges, r)
		s.byLine[r.Line] = append(s.byLine[r.Line], r)
	}
}

// WithinAny reports whether [col, col+length) on line overlaps any range
// in the set.
func (s *ExclusionSet) WithinAny(line, col, length int) bool {
	for _, r := range s.byLine[line] {
		if r.Overlaps(line, col, length) {
			return true
		}
	}
	return false
}

// Ranges returns the ranges in insertion order.
func (s *ExclusionSet) Ranges() []Range {
	return s.ranges
}

// Len returns the number of ranges in the set.
func (s *ExclusionSet) Len() int {
	return len(s.ranges)
}

// BuildExclusions computes the initial exclusion set for doc.
//
// Every line contributes its link reference definition (whole line), or
// else its bare URLs and inline link destinations. Front matter lines are
// excluded whole. Code, HTML and heading-ID ranges are added only when the
// corresponding option turns their matching off.
func BuildExclusions(doc Document, opts Options) *ExclusionSet {
	set := NewExclusionSet()
	lines := doc.Lines()

	for idx, line := range lines {
		text := line.Text

		if line.FrontMatter || markup.IsLinkReferenceDefinition(text) {
			set.Add(Range{Line: idx, Column: 0, Length: len(text)})
			continue
		}

		for _, span := range markup.BareURLs(text) {
			set.Add(Range{Line: idx, Column: span.Start, Length: span.Length})
		}

		markup.ForEachLink(text, func(index int, _, label, dest string) {
			set.Add(Range{Line: idx, Column: index + len(label), Length: len(dest)})
		})
	}

	if !opts.CodeBlocks {
		set.Add(doc.CodeRanges()...)
	}

	if !opts.HTMLElements {
		set.Add(doc.HTMLRanges()...)
	}

	if !opts.HeadingID {
		for idx, line := range lines {
			if !line.Heading || line.InCode {
				continue
			}
			if span, _, ok := markup.HeadingID(line.Text); ok {
				set.Add(Range{Line: idx, Column: span.Start, Length: span.Length})
			}
		}
	}

	return set
}
