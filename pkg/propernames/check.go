// Package propernames finds proper names written with the wrong
// capitalization in Markdown documents.
//
// A check runs in two phases. BuildExclusions collects every region that
// is never prose (URLs, link destinations, link reference definitions,
// front matter) plus the regions the options turn off (code, HTML,
// heading IDs). A Matcher then scans for each configured name, longest
// first, claiming every occurrence it sees so that no span is reported
// twice.
package propernames

import (
	"context"
	"strings"
	"sync"

	"github.com/yaklabco/mdnames/pkg/mdast"
)

// Document is the read-only view of a parsed document that a check needs.
type Document interface {
	// Lines returns the metadata of every line, in order.
	Lines() []mdast.LineMetadata

	// CodeRanges returns the spans of inline code and of code block lines.
	CodeRanges() []Range

	// HTMLRanges returns the spans of inline HTML and of HTML block lines.
	HTMLRanges() []Range
}

// Check runs a full check of doc with a freshly compiled name list.
func Check(ctx context.Context, doc Document, opts Options) ([]MatchRecord, error) {
	return check(ctx, doc, opts, NewMatcher(opts.Names))
}

// Checker runs checks and memoizes compiled name lists across documents.
// The zero value is ready to use.
type Checker struct {
	matchers sync.Map // joined names -> *Matcher
}

// Check runs a full check of doc, reusing a compiled Matcher when the
// same names list was seen before.
func (c *Checker) Check(ctx context.Context, doc Document, opts Options) ([]MatchRecord, error) {
	return check(ctx, doc, opts, c.Matcher(opts.Names))
}

// Matcher returns the memoized Matcher for names.
func (c *Checker) Matcher(names []string) *Matcher {
	key := strings.Join(names, "\x00")
	if m, ok := c.matchers.Load(key); ok {
		return m.(*Matcher) //nolint:forcetypeassert // only *Matcher is stored
	}
	m, _ := c.matchers.LoadOrStore(key, NewMatcher(names))
	return m.(*Matcher) //nolint:forcetypeassert // only *Matcher is stored
}

func check(ctx context.Context, doc Document, opts Options, m *Matcher) ([]MatchRecord, error) {
	if len(m.entries) == 0 {
		return nil, nil
	}
	excl := BuildExclusions(doc, opts)
	return m.Match(ctx, doc, excl, opts.CodeBlocks)
}
