package mdast

import "github.com/yaklabco/mdnames/pkg/markup"

// LineSpan is a span of bytes on a single line.
// Line and Column are 0-based; Length is in bytes.
type LineSpan struct {
	Line   int
	Column int
	Length int
}

// Spans splits a byte range into per-line spans. Newline bytes are never
// part of a span. Lines the range only touches at their newline yield a
// zero-length span so callers can still tell the line was covered.
func (f *FileSnapshot) Spans(r SourceRange) []LineSpan {
	if r.IsEmpty() || len(f.Lines) == 0 {
		return nil
	}

	first := f.LineIndex(r.StartOffset)
	last := f.LineIndex(r.EndOffset - 1)
	if first < 0 || last < 0 {
		return nil
	}

	spans := make([]LineSpan, 0, last-first+1)
	for idx := first; idx <= last; idx++ {
		info := f.Lines[idx]
		start := max(r.StartOffset, info.StartOffset)
		end := min(r.EndOffset, info.NewlineStart)
		spans = append(spans, LineSpan{
			Line:   idx,
			Column: start - info.StartOffset,
			Length: max(end-start, 0),
		})
	}

	return spans
}

// WholeLine returns a span covering the full content of line idx.
func (f *FileSnapshot) WholeLine(idx int) LineSpan {
	return LineSpan{Line: idx, Column: 0, Length: f.Lines[idx].Len()}
}

// CodeRanges returns spans covering every inline code span and every line
// of every fenced or indented code block. Annotate must have run.
func (f *FileSnapshot) CodeRanges() []LineSpan {
	var spans []LineSpan

	for idx, meta := range f.Meta {
		if meta.InCode {
			spans = append(spans, f.WholeLine(idx))
		}
	}

	for _, n := range FindByKind(f.Root, NodeCodeSpan) {
		spans = append(spans, f.Spans(n.Range)...)
	}

	return spans
}

// HTMLRanges returns spans covering every inline HTML element and every
// tag on the lines of an HTML block. Text between block tags is left
// uncovered.
func (f *FileSnapshot) HTMLRanges() []LineSpan {
	var spans []LineSpan
	seen := make(map[int]bool)

	for _, n := range FindByKind(f.Root, NodeHTMLInline, NodeHTMLBlock) {
		for _, seg := range n.Segments {
			if n.Kind == NodeHTMLInline {
				spans = append(spans, f.Spans(seg)...)
				continue
			}
			idx := f.LineIndex(seg.StartOffset)
			if idx < 0 || seen[idx] {
				continue
			}
			seen[idx] = true
			for _, tag := range markup.HTMLTags(string(f.LineContent(idx + 1))) {
				spans = append(spans, LineSpan{Line: idx, Column: tag.Start, Length: tag.Length})
			}
		}
	}

	return spans
}
