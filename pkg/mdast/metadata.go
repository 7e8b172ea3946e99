package mdast

import "bytes"

// LineMetadata holds per-line facts derived from the AST.
type LineMetadata struct {
	// Text is the line content without its newline.
	Text string

	// InCode is true for every line of a fenced or indented code block.
	// Fence delimiter lines count as code.
	InCode bool

	// OnFence is true for the opening and closing lines of a fenced block.
	OnFence bool

	// Heading is true for lines holding heading text.
	Heading bool

	// FrontMatter is true for lines of a leading front-matter block,
	// delimiters included.
	FrontMatter bool
}

// Annotate computes file.Meta from file.Root and the raw lines.
// It is safe to call on a snapshot without a Root; only Text and
// FrontMatter are filled in that case.
func Annotate(file *FileSnapshot) {
	meta := make([]LineMetadata, len(file.Lines))
	for i := range file.Lines {
		meta[i].Text = string(file.LineContent(i + 1))
	}

	for i := range FrontMatterLines(file) {
		meta[i].FrontMatter = true
	}

	//nolint:errcheck // the callback never fails
	Walk(file.Root, func(n *Node) error {
		switch n.Kind {
		case NodeCodeBlock:
			markCodeBlock(file, meta, n)
			return SkipChildren
		case NodeHeading:
			for _, span := range file.Spans(n.Range) {
				meta[span.Line].Heading = true
			}
		}
		return nil
	})

	file.Meta = meta
}

func markCodeBlock(file *FileSnapshot, meta []LineMetadata, n *Node) {
	first, last := -1, -1
	for _, seg := range n.Segments {
		if seg.IsEmpty() {
			// Blank code lines have empty segments but still sit on a line.
			idx := file.LineIndex(seg.StartOffset)
			first, last = extend(first, last, idx)
			continue
		}
		first, last = extend(first, last, file.LineIndex(seg.StartOffset))
		first, last = extend(first, last, file.LineIndex(seg.EndOffset-1))
	}

	if n.Fence != nil {
		first, last = extend(first, last, n.Fence.OpenLine)
		if n.Fence.CloseLine >= 0 {
			first, last = extend(first, last, n.Fence.CloseLine)
		}
	}

	if first < 0 {
		return
	}
	for i := first; i <= last && i < len(meta); i++ {
		meta[i].InCode = true
	}

	if n.Fence != nil {
		meta[n.Fence.OpenLine].OnFence = true
		if n.Fence.CloseLine >= 0 && n.Fence.CloseLine < len(meta) {
			meta[n.Fence.CloseLine].OnFence = true
		}
	}
}

func extend(first, last, idx int) (int, int) {
	if idx < 0 {
		return first, last
	}
	if first < 0 || idx < first {
		first = idx
	}
	if idx > last {
		last = idx
	}
	return first, last
}

// FrontMatterLines returns the number of leading lines that form a YAML
// (---) or TOML (+++) front-matter block. It returns 0 when the document
// has no front matter or the block is never closed.
func FrontMatterLines(file *FileSnapshot) int {
	if len(file.Lines) < 2 {
		return 0
	}

	opener := bytes.TrimRight(file.LineContent(1), " \t")
	var closers [][]byte
	switch string(opener) {
	case "---":
		closers = [][]byte{[]byte("---"), []byte("...")}
	case "+++":
		closers = [][]byte{[]byte("+++")}
	default:
		return 0
	}

	for line := 2; line <= len(file.Lines); line++ {
		content := bytes.TrimRight(file.LineContent(line), " \t")
		for _, closer := range closers {
			if bytes.Equal(content, closer) {
				return line
			}
		}
	}

	return 0
}
