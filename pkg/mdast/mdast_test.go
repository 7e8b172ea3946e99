package mdast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/pkg/mdast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []mdast.LineInfo
	}{
		{name: "empty", content: "", want: []mdast.LineInfo{}},
		{
			name:    "no trailing newline",
			content: "ab",
			want:    []mdast.LineInfo{{StartOffset: 0, NewlineStart: 2, EndOffset: 2}},
		},
		{
			name:    "trailing newline adds empty line",
			content: "ab\n",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 2, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 3, EndOffset: 3},
			},
		},
		{
			name:    "crlf",
			content: "a\r\nb",
			want: []mdast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mdast.BuildLines([]byte(tt.content)))
		})
	}
}

func TestLineAtAndOffset(t *testing.T) {
	t.Parallel()

	f := mdast.NewFileSnapshot("a.md", []byte("one\ntwo\n"))
	assert.Equal(t, 3, f.LineCount())

	line, col := f.LineAt(5)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
	assert.Equal(t, 1, f.LineIndex(5))
	assert.Equal(t, -1, f.LineIndex(-1))

	offset, ok := f.Offset(2, 2)
	require.True(t, ok)
	assert.Equal(t, 5, offset)

	_, ok = f.Offset(9, 1)
	assert.False(t, ok)

	assert.Equal(t, "two", string(f.LineContent(2)))
	assert.Nil(t, f.LineContent(0))
}

func TestSpans(t *testing.T) {
	t.Parallel()

	f := mdast.NewFileSnapshot("a.md", []byte("abc\ndef\nghi"))

	spans := f.Spans(mdast.SourceRange{StartOffset: 1, EndOffset: 10})
	assert.Equal(t, []mdast.LineSpan{
		{Line: 0, Column: 1, Length: 2},
		{Line: 1, Column: 0, Length: 3},
		{Line: 2, Column: 0, Length: 2},
	}, spans)

	assert.Nil(t, f.Spans(mdast.SourceRange{StartOffset: 4, EndOffset: 4}))
	assert.Equal(t, mdast.LineSpan{Line: 1, Length: 3}, f.WholeLine(1))
}

func TestSourceRange(t *testing.T) {
	t.Parallel()

	r := mdast.SourceRange{StartOffset: 2, EndOffset: 5}
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.IsEmpty())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(5))
	assert.Equal(t, mdast.SourceRange{StartOffset: 0, EndOffset: 5},
		r.Union(mdast.SourceRange{StartOffset: 0, EndOffset: 3}))
}

func buildTree() (*mdast.Node, *mdast.Node, *mdast.Node) {
	doc := mdast.NewDocument(mdast.NewFileSnapshot("a.md", []byte("# hi\n\ntext\n")))
	heading := mdast.NewNode(mdast.NodeHeading)
	heading.Range = mdast.SourceRange{StartOffset: 2, EndOffset: 4}
	para := mdast.NewNode(mdast.NodeParagraph)
	text := mdast.NewNode(mdast.NodeText)
	mdast.AppendChild(doc, heading)
	mdast.AppendChild(doc, para)
	mdast.AppendChild(para, text)
	return doc, heading, text
}

func TestTreeBuilding(t *testing.T) {
	t.Parallel()

	doc, heading, text := buildTree()

	assert.Equal(t, heading, doc.FirstChild)
	assert.Len(t, doc.Children(), 2)
	assert.Equal(t, doc.File, text.File)
	assert.Equal(t, doc, text.Ancestor(mdast.NodeDocument))
	assert.Nil(t, heading.Ancestor(mdast.NodeParagraph))
	assert.True(t, heading.IsBlock())
	assert.True(t, text.IsInline())
	assert.Equal(t, "hi", string(heading.Text()))

	pos := heading.SourcePosition()
	assert.Equal(t, 1, pos.StartLine)
	assert.Equal(t, 3, pos.StartColumn)

	mdast.RemoveChild(doc, heading)
	assert.Len(t, doc.Children(), 1)
	assert.Nil(t, heading.Parent)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	doc, _, _ := buildTree()

	var kinds []mdast.NodeKind
	require.NoError(t, mdast.Walk(doc, func(n *mdast.Node) error {
		kinds = append(kinds, n.Kind)
		if n.Kind == mdast.NodeParagraph {
			return mdast.SkipChildren
		}
		return nil
	}))
	assert.Equal(t, []mdast.NodeKind{mdast.NodeDocument, mdast.NodeHeading, mdast.NodeParagraph}, kinds)

	stop := errors.New("stop")
	assert.ErrorIs(t, mdast.Walk(doc, func(*mdast.Node) error { return stop }), stop)

	assert.Len(t, mdast.FindByKind(doc, mdast.NodeText, mdast.NodeHeading), 2)
	assert.Equal(t, mdast.NodeText, mdast.FindFirst(doc, func(n *mdast.Node) bool { return n.IsInline() }).Kind)
	assert.Nil(t, mdast.FindFirst(nil, func(*mdast.Node) bool { return true }))
}

func TestNodeKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CodeBlock", mdast.NodeCodeBlock.String())
}

func TestFrontMatterLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "yaml", content: "---\ntitle: x\n---\nbody\n", want: 3},
		{name: "yaml dots closer", content: "---\na: 1\n...\n", want: 3},
		{name: "toml", content: "+++\na = 1\n+++\n", want: 3},
		{name: "unclosed", content: "---\ntitle: x\n", want: 0},
		{name: "not at start", content: "\n---\na\n---\n", want: 0},
		{name: "none", content: "# Title\n", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mdast.FrontMatterLines(mdast.NewFileSnapshot("", []byte(tt.content))))
		})
	}
}

func TestAnnotate_WithoutRoot(t *testing.T) {
	t.Parallel()

	f := mdast.NewFileSnapshot("", []byte("---\na: 1\n---\ntext"))
	mdast.Annotate(f)

	require.Len(t, f.Meta, 4)
	assert.True(t, f.Meta[1].FrontMatter)
	assert.False(t, f.Meta[3].FrontMatter)
	assert.Equal(t, "text", f.Meta[3].Text)
}
