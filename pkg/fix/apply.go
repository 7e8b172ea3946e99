package fix

import "bytes"

// ApplyEdits applies sorted, non-overlapping edits to content and returns
// the new content. Edits must come from PrepareEdits or
// PrepareEditsFiltered. content is never modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - e.Len()
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply validates, sorts, and applies edits, failing on overlap.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	prepared, err := PrepareEdits(edits, len(content))
	if err != nil {
		return nil, err
	}
	return ApplyEdits(content, prepared), nil
}
