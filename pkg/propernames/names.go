package propernames

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yaklabco/mdnames/pkg/markup"
)

var (
	leadingNonWordRe  = regexp.MustCompile(`^\W`)
	trailingNonWordRe = regexp.MustCompile(`\W$`)
)

// NameEntry is a configured name together with its compiled pattern.
type NameEntry struct {
	// Name is the canonical spelling.
	Name string

	// Pattern matches Name case-insensitively. Group 1 is the leading
	// underscore run, group 2 the name itself.
	Pattern *regexp.Regexp
}

// NewNameEntry compiles the pattern for name. A name starting with a
// non-word character gets no left word boundary, and one ending with a
// non-word character gets no right boundary, so such names may sit flush
// against adjacent word characters.
func NewNameEntry(name string) NameEntry {
	start := `\b_*`
	if leadingNonWordRe.MatchString(name) {
		start = ""
	}

	end := `_*\b`
	if trailingNonWordRe.MatchString(name) {
		end = ""
	}

	pattern := "(?i)(" + start + ")(" + markup.EscapeLiteral(name) + ")" + end

	return NameEntry{
		Name:    name,
		Pattern: regexp.MustCompile(pattern),
	}
}

// SortNames returns a copy of names ordered longest first. Names of equal
// length follow the root locale collation, which compares case-insensitively
// first and puts lowercase before uppercase on a tie; byte order settles
// what collation leaves equal. Duplicates are kept.
func SortNames(names []string) []string {
	sorted := slices.Clone(names)
	col := collate.New(language.Und)
	slices.SortStableFunc(sorted, func(a, b string) int {
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return lb - la
		}
		if c := col.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return sorted
}

// CompileNames sorts names and compiles an entry for each non-empty one.
// Empty names are dropped since they would match everywhere.
func CompileNames(names []string) []NameEntry {
	sorted := SortNames(names)
	entries := make([]NameEntry, 0, len(sorted))
	for _, name := range sorted {
		if name == "" {
			continue
		}
		entries = append(entries, NewNameEntry(name))
	}
	return entries
}
