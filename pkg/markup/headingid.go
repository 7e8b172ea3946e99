package markup

import (
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// headingIDRe matches a trailing `{#id}` fragment and the whitespace before
// it. The body may not contain "{#" or "}" ahead of the final "}", which
// needs a lookahead, so RE2 cannot express it.
var headingIDRe = regexp2.MustCompile(`\s*\{#(?<id>(?:.(?!\{#|\}))*.)\}$`, regexp2.None)

// HeadingID locates a trailing explicit heading ID such as the
// " {#about-github}" in "## About GitHub {#about-github}". It returns the
// byte span of the fragment including leading whitespace, and the id
// itself. ok is false when the line has no well-formed fragment.
func HeadingID(line string) (span Span, id string, ok bool) {
	match, err := headingIDRe.FindStringMatch(line)
	if err != nil || match == nil {
		return Span{}, "", false
	}

	start := runeOffsetToByte(line, match.Index)
	end := runeOffsetToByte(line, match.Index+match.Length)

	if group := match.GroupByName("id"); group != nil {
		id = group.String()
	}

	return Span{Start: start, Length: end - start}, id, true
}

// runeOffsetToByte converts a rune index, as reported by regexp2, to a
// byte offset into s.
func runeOffsetToByte(s string, runes int) int {
	offset := 0
	for i := 0; i < runes && offset < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return offset
}
