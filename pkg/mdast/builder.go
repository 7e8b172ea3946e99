package mdast

// NewNode creates a detached node of the specified kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewDocument creates a new document root node bound to file.
func NewDocument(file *FileSnapshot) *Node {
	doc := NewNode(NodeDocument)
	doc.File = file
	if file != nil {
		doc.Range = SourceRange{StartOffset: 0, EndOffset: len(file.Content)}
	}
	return doc
}

// AppendChild appends child to parent, detaching it from any previous parent.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil
	if child.File == nil {
		child.File = parent.File
	}

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// RemoveChild unlinks child from parent. It is a no-op if child belongs
// to a different parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}
