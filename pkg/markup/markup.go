// Package markup provides line-level Markdown scanners that work on raw
// text rather than on a parsed tree: bare URLs, inline link and image
// destinations, link reference definitions, HTML tags and trailing
// heading IDs.
//
// All offsets are byte offsets into the line.
package markup

import "regexp"

var (
	// bareURLRe matches http(s) and ftp(s) URLs written as plain text.
	// A URL may not end on punctuation other than '/'.
	bareURLRe = regexp.MustCompile(`(?i)(?:http|ftp)s?://[^\s\]"']*(?:/|[^\s\]"'\W])`)

	// linkReferenceDefinitionRe matches the start of "[label]: destination".
	linkReferenceDefinitionRe = regexp.MustCompile(`^ {0,3}\[([^\]]*[^\\])]:`)

	// htmlTagRe matches an opening, closing or self-closing HTML tag.
	// Attribute text may not contain a backtick.
	htmlTagRe = regexp.MustCompile("</?[A-Za-z][A-Za-z0-9-]*(?:\\s[^`>]*)?/?>")
)

// Span is a half-open byte range [Start, Start+Length) on a line.
type Span struct {
	Start  int
	Length int
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Start + s.Length
}

// BareURLs returns the span of every bare URL on line, left to right.
func BareURLs(line string) []Span {
	return spansOf(bareURLRe.FindAllStringIndex(line, -1))
}

func spansOf(locs [][]int) []Span {
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, Span{Start: loc[0], Length: loc[1] - loc[0]})
	}
	return spans
}

// HTMLTags returns the span of every HTML tag on line, left to right.
// Text between tags is not covered.
func HTMLTags(line string) []Span {
	return spansOf(htmlTagRe.FindAllStringIndex(line, -1))
}

// IsLinkReferenceDefinition reports whether line starts a link reference
// definition such as `[id]: https://example.com "Title"`.
func IsLinkReferenceDefinition(line string) bool {
	return linkReferenceDefinitionRe.MatchString(line)
}

// EscapeLiteral returns s with every regular expression metacharacter
// escaped, so the result matches s literally.
func EscapeLiteral(s string) string {
	return regexp.QuoteMeta(s)
}
