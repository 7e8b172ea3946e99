package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidEdit indicates an edit whose range lies outside the content.
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrOverlappingEdits indicates two edits that touch the same bytes.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidEdit.
func (e *ValidationError) Unwrap() error { return ErrInvalidEdit }

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// Unwrap lets errors.Is match ErrOverlappingEdits.
func (e *ConflictError) Unwrap() error { return ErrOverlappingEdits }

// ValidateEdits checks that every edit lies within content of contentLen
// bytes and returns the first violation.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then end offset. The sort is stable
// so edits with equal ranges keep their emission order.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if c := cmp.Compare(a.StartOffset, b.StartOffset); c != 0 {
			return c
		}
		return cmp.Compare(a.EndOffset, b.EndOffset)
	})
}

// DetectConflicts returns the first pair of overlapping edits in a sorted
// slice, or nil.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].Overlaps(edits[i-1]) {
			return &ConflictError{Edit1: edits[i-1], Edit2: edits[i]}
		}
	}
	return nil
}

// FilterConflicts splits a sorted slice into edits that can be applied
// together and edits that overlap an earlier accepted one. Earlier edits win.
func FilterConflicts(edits []TextEdit) (accepted, skipped []TextEdit) {
	if len(edits) == 0 {
		return nil, nil
	}

	accepted = make([]TextEdit, 0, len(edits))
	accepted = append(accepted, edits[0])
	for _, edit := range edits[1:] {
		if edit.Overlaps(accepted[len(accepted)-1]) {
			skipped = append(skipped, edit)
			continue
		}
		accepted = append(accepted, edit)
	}
	return accepted, skipped
}

// PrepareEdits validates and sorts edits, failing on any overlap.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}

// PrepareEditsFiltered validates and sorts edits, then drops the ones that
// overlap an earlier edit instead of failing. Duplicate edits collapse into
// one. The error is only set for out-of-range edits.
func PrepareEditsFiltered(edits []TextEdit, contentLen int) (accepted, skipped []TextEdit, err error) {
	if len(edits) == 0 {
		return nil, nil, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)
	sorted = slices.Compact(sorted)

	accepted, skipped = FilterConflicts(sorted)
	return accepted, skipped, nil
}
