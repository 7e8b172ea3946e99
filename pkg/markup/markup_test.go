package markup_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/pkg/markup"
)

func TestBareURLs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"none", "plain text about github", nil},
		{"single", "see https://example.com/github-project for details", []string{"https://example.com/github-project"}},
		{"trailing period dropped", "visit http://github.com.", []string{"http://github.com"}},
		{"trailing slash kept", "at ftp://host/dir/ now", []string{"ftp://host/dir/"}},
		{"case insensitive scheme", "HTTPS://GitHub.com", []string{"HTTPS://GitHub.com"}},
		{"stops at quote", `href="https://a.io/x"`, []string{"https://a.io/x"}},
		{"two urls", "https://a.io and https://b.io", []string{"https://a.io", "https://b.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, span := range markup.BareURLs(tt.line) {
				got = append(got, tt.line[span.Start:span.End()])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsLinkReferenceDefinition(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"[github]: https://github.com", true},
		{"   [x]: /url \"Title\"", true},
		{"    [x]: /url", false},
		{"[x] not a definition", false},
		{`[x\]: /url`, false},
		{"text [x]: /url", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, markup.IsLinkReferenceDefinition(tt.line))
		})
	}
}

type link struct {
	index int
	text  string
	dest  string
}

func collectLinks(line string) []link {
	var links []link
	markup.ForEachLink(line, func(index int, _, text, dest string) {
		links = append(links, link{index: index, text: text, dest: dest})
	})
	return links
}

func TestForEachLink(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []link
	}{
		{
			name: "inline link",
			line: "[Github](https://github.com/x)",
			want: []link{{0, "[Github]", "(https://github.com/x)"}},
		},
		{
			name: "image",
			line: "see ![logo](img/github.png) here",
			want: []link{{5, "[logo]", "(img/github.png)"}},
		},
		{
			name: "reference link",
			line: "[text][github-ref]",
			want: []link{{0, "[text]", "[github-ref]"}},
		},
		{
			name: "adjacent links",
			line: "[a](b)[c](d)",
			want: []link{{0, "[a]", "(b)"}, {6, "[c]", "(d)"}},
		},
		{
			name: "nested brackets in label",
			line: "[a [b] c](dest)",
			want: []link{{0, "[a [b] c]", "(dest)"}},
		},
		{
			name: "pointy destination with paren",
			line: "[x](<a)b>)",
			want: []link{{0, "[x]", "(<a)b>)"}},
		},
		{
			name: "escaped bracket",
			line: `\[not](link)`,
			want: nil,
		},
		{
			name: "label without destination",
			line: "[just brackets] and text",
			want: nil,
		},
		{
			name: "unclosed destination",
			line: "[x](never closed",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectLinks(tt.line))
		})
	}
}

func TestForEachLink_DestinationOffset(t *testing.T) {
	line := "x [Github](https://github.com/x) y"
	links := collectLinks(line)
	require.Len(t, links, 1)

	start := links[0].index + len(links[0].text)
	assert.Equal(t, "(https://github.com/x)", line[start:start+len(links[0].dest)])
}

func TestHeadingID(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantFrag string
		wantID   string
	}{
		{"simple", "## About GitHub {#about-github}", true, " {#about-github}", "about-github"},
		{"no whitespace", "# Title{#t}", true, "{#t}", "t"},
		{"not at end", "# Title {#t} more", false, "", ""},
		{"empty id", "# Title {#}", false, "", ""},
		{"no fragment", "# Title", false, "", ""},
		{"nested opener uses last", "# A {#x {#y}", true, " {#y}", "y"},
		{"multibyte before", "# Café {#cafe}", true, " {#cafe}", "cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, id, ok := markup.HeadingID(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantFrag, tt.line[span.Start:span.End()])
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestEscapeLiteral(t *testing.T) {
	for _, name := range []string{"Node.js", "C++", "ASP.NET (Core)", "$var", "a|b"} {
		re := regexp.MustCompile("^" + markup.EscapeLiteral(name) + "$")
		assert.True(t, re.MatchString(name), name)
	}
}

func TestHTMLTags(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []markup.Span
	}{
		{"none", "plain github text", nil},
		{"open and close", "<b>github</b>", []markup.Span{{Start: 0, Length: 3}, {Start: 9, Length: 4}}},
		{"attributes", `x <a href="github">y`, []markup.Span{{Start: 2, Length: 17}}},
		{"self closing", "a<br/>b", []markup.Span{{Start: 1, Length: 5}}},
		{"not a tag", "a < b and 1<2>", nil},
		{"comment is not a tag", "<!-- github -->", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, markup.HTMLTags(tt.line))
		})
	}
}
