package mdast

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset >= r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Union returns the smallest range covering both r and other.
// An empty range is the identity.
func (r SourceRange) Union(other SourceRange) SourceRange {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return SourceRange{
		StartOffset: min(r.StartOffset, other.StartOffset),
		EndOffset:   max(r.EndOffset, other.EndOffset),
	}
}

// Position represents a 1-based line and column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 &&
		sp.EndLine > 0 && sp.EndColumn > 0
}

// SourcePosition returns the line/column range for this node.
// Returns an invalid position if the node has no file or range.
func (n *Node) SourcePosition() SourcePosition {
	if n.File == nil || n.Range.IsEmpty() {
		return SourcePosition{}
	}

	startLine, startCol := n.File.LineAt(n.Range.StartOffset)
	endLine, endCol := n.File.LineAt(n.Range.EndOffset)

	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// Text returns the source text for this node.
// Returns nil if the node has no associated file.
func (n *Node) Text() []byte {
	if n.File == nil || n.Range.IsEmpty() || n.Range.EndOffset > len(n.File.Content) {
		return nil
	}
	return n.File.Content[n.Range.StartOffset:n.Range.EndOffset]
}
