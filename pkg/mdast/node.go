package mdast

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds for block-level and inline-level Markdown elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeAutoLink
	NodeHTMLInline

	// Fallback for unrecognized content.
	NodeRaw
)

var nodeKindNames = [...]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeText:          "Text",
	NodeEmphasis:      "Emphasis",
	NodeCodeSpan:      "CodeSpan",
	NodeLink:          "Link",
	NodeImage:         "Image",
	NodeAutoLink:      "AutoLink",
	NodeHTMLInline:    "HTMLInline",
	NodeRaw:           "Raw",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node represents a single node in the Markdown AST.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Range is the byte span of the node in File.Content.
	// It is empty for nodes the parser could not locate.
	Range SourceRange

	// Segments holds the content pieces of nodes whose text is not
	// contiguous in the source: code block lines, code span text, raw HTML.
	Segments []SourceRange

	// File is a back-reference to the containing FileSnapshot.
	File *FileSnapshot

	// Level is the heading level (1-6) for NodeHeading.
	Level int

	// Fence describes the delimiters of a fenced code block.
	// It is nil for indented code blocks and every other kind.
	Fence *FenceInfo

	// Destination is the link or image destination as parsed.
	Destination string
}

// FenceInfo records where a fenced code block's delimiter lines are.
type FenceInfo struct {
	// Char is the fence character, '`' or '~'.
	Char byte

	// Length is the number of fence characters in the opening fence.
	Length int

	// Info is the info string after the opening fence.
	Info string

	// OpenLine is the 0-based line index of the opening fence.
	OpenLine int

	// CloseLine is the 0-based line index of the closing fence, or -1
	// when the block runs to the end of the document.
	CloseLine int
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.Kind <= NodeHTMLBlock
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.Kind >= NodeText && n.Kind <= NodeHTMLInline
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Ancestor returns the nearest ancestor of the given kind, or nil.
func (n *Node) Ancestor(kind NodeKind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}
