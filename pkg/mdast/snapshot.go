// Package mdast provides the Markdown document model used by mdnames.
// It defines a lossless view of a Markdown file:
// - FileSnapshot: raw content plus the line index
// - LineMetadata: per-line facts (code, fence, heading, front matter)
// - AST nodes: structural representation carrying byte ranges
package mdast

// FileSnapshot is an immutable, lossless view of a Markdown file at a specific time.
// It holds the raw content, line index, per-line metadata, and AST root.
type FileSnapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains byte offsets for each line in the file.
	Lines []LineInfo

	// Meta holds one LineMetadata per entry in Lines.
	// It is nil until Annotate has run.
	Meta []LineMetadata

	// Root is the AST root node (Document).
	Root *Node
}

// LineInfo holds byte offsets for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// Len returns the length of the line content in bytes, excluding the newline.
func (l LineInfo) Len() int {
	return l.NewlineStart - l.StartOffset
}

// NewFileSnapshot creates a new FileSnapshot from content.
// It builds the line index but does not parse (that requires a Parser).
func NewFileSnapshot(path string, content []byte) *FileSnapshot {
	return &FileSnapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}
