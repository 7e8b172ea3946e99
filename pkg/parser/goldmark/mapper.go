package goldmark

import (
	"github.com/yaklabco/mdnames/pkg/mdast"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// mapper converts a goldmark AST into an mdast.Node tree whose nodes
// carry byte ranges into the snapshot content.
type mapper struct {
	file    *mdast.FileSnapshot
	content []byte

	// cursor is the end offset of the last block mapped so far. It anchors
	// the forward search for fences of code blocks without content lines.
	cursor int
}

func newMapper(file *mdast.FileSnapshot) *mapper {
	return &mapper{file: file, content: file.Content}
}

// mapDocument converts a goldmark document node to an mdast.Node tree.
func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument(m.file)
	m.mapChildren(gmDoc, doc)
	return doc
}

// mapChildren maps every child of gmParent and widens parent.Range to
// cover them.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		node := m.mapNode(child)
		if node == nil {
			continue
		}
		mdast.AppendChild(parent, node)
		if parent.Kind != mdast.NodeDocument {
			parent.Range = parent.Range.Union(node.Range)
		}
	}
}

func (m *mapper) mapNode(gmNode ast.Node) *mdast.Node {
	var node *mdast.Node

	switch gmn := gmNode.(type) {
	case *ast.Heading:
		node = mdast.NewNode(mdast.NodeHeading)
		node.Level = gmn.Level
		node.Range = m.blockRange(gmn)
		m.mapChildren(gmn, node)

	case *ast.Paragraph, *ast.TextBlock:
		node = mdast.NewNode(mdast.NodeParagraph)
		node.Range = m.blockRange(gmn)
		m.mapChildren(gmn, node)

	case *ast.List:
		node = mdast.NewNode(mdast.NodeList)
		m.mapChildren(gmn, node)

	case *ast.ListItem:
		node = mdast.NewNode(mdast.NodeListItem)
		m.mapChildren(gmn, node)

	case *ast.Blockquote:
		node = mdast.NewNode(mdast.NodeBlockquote)
		m.mapChildren(gmn, node)

	case *ast.FencedCodeBlock:
		node = m.mapFencedCodeBlock(gmn)

	case *ast.CodeBlock:
		node = mdast.NewNode(mdast.NodeCodeBlock)
		node.Segments = segments(gmn.Lines())
		node.Range = m.blockRange(gmn)

	case *ast.ThematicBreak:
		node = mdast.NewNode(mdast.NodeThematicBreak)

	case *ast.HTMLBlock:
		node = mdast.NewNode(mdast.NodeHTMLBlock)
		node.Segments = segments(gmn.Lines())
		if gmn.HasClosure() {
			node.Segments = append(node.Segments, toRange(gmn.ClosureLine))
		}
		node.Range = unionAll(node.Segments)

	case *ast.Text:
		node = mdast.NewNode(mdast.NodeText)
		node.Range = toRange(gmn.Segment)

	case *ast.String:
		node = mdast.NewNode(mdast.NodeText)

	case *ast.Emphasis:
		node = mdast.NewNode(mdast.NodeEmphasis)
		m.mapChildren(gmn, node)

	case *ast.CodeSpan:
		node = m.mapCodeSpan(gmn)

	case *ast.Link:
		node = mdast.NewNode(mdast.NodeLink)
		node.Destination = string(gmn.Destination)
		m.mapChildren(gmn, node)

	case *ast.Image:
		node = mdast.NewNode(mdast.NodeImage)
		node.Destination = string(gmn.Destination)
		m.mapChildren(gmn, node)

	case *ast.AutoLink:
		node = mdast.NewNode(mdast.NodeAutoLink)
		node.Destination = string(gmn.URL(m.content))

	case *ast.RawHTML:
		node = mdast.NewNode(mdast.NodeHTMLInline)
		node.Segments = segments(gmn.Segments)
		node.Range = unionAll(node.Segments)

	default:
		// GFM tables, strikethrough, task checkboxes and anything else.
		node = mdast.NewNode(mdast.NodeRaw)
		if gmNode.Type() == ast.TypeBlock {
			node.Range = m.blockRange(gmNode)
		}
		m.mapChildren(gmNode, node)
	}

	if gmNode.Type() == ast.TypeBlock && node.Range.EndOffset > m.cursor {
		m.cursor = node.Range.EndOffset
	}

	return node
}

// mapFencedCodeBlock records the content lines and locates the opening
// and closing fence lines, which goldmark does not expose directly.
func (m *mapper) mapFencedCodeBlock(cb *ast.FencedCodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)
	node.Segments = segments(cb.Lines())
	node.Range = unionAll(node.Segments)

	fence := &mdast.FenceInfo{OpenLine: -1, CloseLine: -1}

	switch {
	case cb.Info != nil:
		fence.Info = string(cb.Info.Segment.Value(m.content))
		fence.OpenLine = m.file.LineIndex(cb.Info.Segment.Start)
	case len(node.Segments) > 0:
		fence.OpenLine = m.file.LineIndex(node.Segments[0].StartOffset) - 1
	case m.cursor > 0:
		fence.OpenLine = m.scanForFence(m.file.LineIndex(m.cursor-1) + 1)
	default:
		fence.OpenLine = m.scanForFence(0)
	}

	if fence.OpenLine < 0 {
		// Fail open: treat the block as content-only.
		return node
	}

	fence.Char, fence.Length = fenceRun(m.file.LineContent(fence.OpenLine + 1))
	if fence.Length == 0 {
		return node
	}

	closeCandidate := fence.OpenLine + 1
	if n := len(node.Segments); n > 0 {
		closeCandidate = m.file.LineIndex(node.Segments[n-1].StartOffset) + 1
	}
	if closeCandidate < len(m.file.Lines) {
		char, length := fenceRun(m.file.LineContent(closeCandidate + 1))
		if char == fence.Char && length >= fence.Length {
			fence.CloseLine = closeCandidate
		}
	}

	node.Fence = fence

	openInfo := m.file.Lines[fence.OpenLine]
	node.Range = node.Range.Union(mdast.SourceRange{
		StartOffset: openInfo.StartOffset,
		EndOffset:   openInfo.NewlineStart,
	})
	if fence.CloseLine >= 0 {
		closeInfo := m.file.Lines[fence.CloseLine]
		node.Range = node.Range.Union(mdast.SourceRange{
			StartOffset: closeInfo.StartOffset,
			EndOffset:   closeInfo.NewlineStart,
		})
	}

	return node
}

// scanForFence returns the first line at or after from that opens a fence.
func (m *mapper) scanForFence(from int) int {
	for idx := max(from, 0); idx < len(m.file.Lines); idx++ {
		if _, length := fenceRun(m.file.LineContent(idx + 1)); length > 0 {
			return idx
		}
	}
	return -1
}

// fenceRun reports the fence character and run length at the start of
// line, after container indentation and blockquote markers. Runs shorter
// than three return a zero length.
func fenceRun(line []byte) (byte, int) {
	pos := 0
	for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t' || line[pos] == '>') {
		pos++
	}
	if pos >= len(line) || (line[pos] != '`' && line[pos] != '~') {
		return 0, 0
	}

	char := line[pos]
	length := 0
	for pos < len(line) && line[pos] == char {
		length++
		pos++
	}
	if length < 3 {
		return 0, 0
	}
	return char, length
}

// mapCodeSpan covers the whole span, backtick delimiters included.
func (m *mapper) mapCodeSpan(cs *ast.CodeSpan) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeSpan)

	for child := cs.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			seg := toRange(t.Segment)
			node.Segments = append(node.Segments, seg)
			node.Range = node.Range.Union(seg)
		}
	}

	if node.Range.IsEmpty() {
		return node
	}

	start := node.Range.StartOffset
	if start > 0 && m.content[start-1] == ' ' {
		start--
	}
	for start > 0 && m.content[start-1] == '`' {
		start--
	}

	end := node.Range.EndOffset
	if end < len(m.content) && m.content[end] == ' ' {
		end++
	}
	for end < len(m.content) && m.content[end] == '`' {
		end++
	}

	node.Range = mdast.SourceRange{StartOffset: start, EndOffset: end}
	return node
}

// blockRange returns the union of a block node's line segments.
func (m *mapper) blockRange(gmNode ast.Node) mdast.SourceRange {
	return unionAll(segments(gmNode.Lines()))
}

func segments(segs *text.Segments) []mdast.SourceRange {
	if segs == nil || segs.Len() == 0 {
		return nil
	}
	out := make([]mdast.SourceRange, 0, segs.Len())
	for i := range segs.Len() {
		out = append(out, toRange(segs.At(i)))
	}
	return out
}

func toRange(seg text.Segment) mdast.SourceRange {
	return mdast.SourceRange{StartOffset: seg.Start, EndOffset: seg.Stop}
}

func unionAll(ranges []mdast.SourceRange) mdast.SourceRange {
	var r mdast.SourceRange
	for _, seg := range ranges {
		r = r.Union(seg)
	}
	return r
}
