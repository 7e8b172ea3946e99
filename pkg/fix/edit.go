// Package fix provides text edits and their safe application for auto-fixing.
package fix

import "fmt"

// TextEdit replaces the bytes [StartOffset, EndOffset) of a file with
// NewText.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Len returns the number of bytes the edit replaces.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// Overlaps reports whether two edits touch a common byte. Two insertions at
// the same offset also overlap, since their order would be ambiguous.
func (e TextEdit) Overlaps(other TextEdit) bool {
	if e.StartOffset == other.StartOffset {
		return true
	}
	return e.StartOffset < other.EndOffset && other.StartOffset < e.EndOffset
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d]->%q", e.StartOffset, e.EndOffset, e.NewText)
}

// EditBuilder accumulates text edits for a file.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates an empty EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) *EditBuilder {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
	return b
}

// Replace adds an edit that replaces length bytes at offset.
func (b *EditBuilder) Replace(offset, length int, newText string) *EditBuilder {
	return b.ReplaceRange(offset, offset+length, newText)
}
