package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdnames/pkg/fix"
)

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []fix.TextEdit
		want    string
	}{
		{
			name:    "no edits",
			content: "hello world",
			want:    "hello world",
		},
		{
			name:    "same length replacement",
			content: "use javascript here",
			edits:   []fix.TextEdit{{StartOffset: 4, EndOffset: 14, NewText: "JavaScript"}},
			want:    "use JavaScript here",
		},
		{
			name:    "shorter and longer replacements",
			content: "github and nodejs",
			edits: []fix.TextEdit{
				{StartOffset: 0, EndOffset: 6, NewText: "GitHub"},
				{StartOffset: 11, EndOffset: 17, NewText: "Node.js"},
			},
			want: "GitHub and Node.js",
		},
		{
			name:    "adjacent edits",
			content: "abcdef",
			edits: []fix.TextEdit{
				{StartOffset: 0, EndOffset: 3, NewText: "X"},
				{StartOffset: 3, EndOffset: 6, NewText: "Y"},
			},
			want: "XY",
		},
		{
			name:    "multibyte content",
			content: "café github",
			edits:   []fix.TextEdit{{StartOffset: 6, EndOffset: 12, NewText: "GitHub"}},
			want:    "café GitHub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := []byte(tt.content)
			got := fix.ApplyEdits(content, tt.edits)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.content, string(content), "input must not be modified")
		})
	}
}

func TestApply_Overlap(t *testing.T) {
	t.Parallel()

	_, err := fix.Apply([]byte("abcdef"), []fix.TextEdit{
		{StartOffset: 0, EndOffset: 4, NewText: "X"},
		{StartOffset: 2, EndOffset: 6, NewText: "Y"},
	})
	require.ErrorIs(t, err, fix.ErrOverlappingEdits)
}

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    fix.TextEdit
		wantErr bool
	}{
		{name: "valid", edit: fix.TextEdit{StartOffset: 0, EndOffset: 5}},
		{name: "insertion at end", edit: fix.TextEdit{StartOffset: 10, EndOffset: 10}},
		{name: "negative start", edit: fix.TextEdit{StartOffset: -1, EndOffset: 5}, wantErr: true},
		{name: "end before start", edit: fix.TextEdit{StartOffset: 5, EndOffset: 3}, wantErr: true},
		{name: "past content", edit: fix.TextEdit{StartOffset: 5, EndOffset: 11}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits([]fix.TextEdit{tt.edit}, 10)
			if tt.wantErr {
				require.ErrorIs(t, err, fix.ErrInvalidEdit)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTextEdit_Overlaps(t *testing.T) {
	t.Parallel()

	a := fix.TextEdit{StartOffset: 2, EndOffset: 5}
	assert.True(t, a.Overlaps(fix.TextEdit{StartOffset: 4, EndOffset: 8}))
	assert.True(t, a.Overlaps(fix.TextEdit{StartOffset: 0, EndOffset: 3}))
	assert.False(t, a.Overlaps(fix.TextEdit{StartOffset: 5, EndOffset: 8}))
	assert.False(t, a.Overlaps(fix.TextEdit{StartOffset: 0, EndOffset: 2}))
	assert.True(t, fix.TextEdit{StartOffset: 3, EndOffset: 3}.Overlaps(fix.TextEdit{StartOffset: 3, EndOffset: 3}))
}

func TestPrepareEditsFiltered(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		{StartOffset: 10, EndOffset: 14, NewText: "B"},
		{StartOffset: 0, EndOffset: 6, NewText: "A"},
		{StartOffset: 4, EndOffset: 8, NewText: "C"},
		{StartOffset: 10, EndOffset: 14, NewText: "B"},
	}

	accepted, skipped, err := fix.PrepareEditsFiltered(edits, 20)
	require.NoError(t, err)

	assert.Equal(t, []fix.TextEdit{
		{StartOffset: 0, EndOffset: 6, NewText: "A"},
		{StartOffset: 10, EndOffset: 14, NewText: "B"},
	}, accepted)
	assert.Equal(t, []fix.TextEdit{{StartOffset: 4, EndOffset: 8, NewText: "C"}}, skipped)

	_, _, err = fix.PrepareEditsFiltered([]fix.TextEdit{{StartOffset: 0, EndOffset: 30}}, 20)
	require.ErrorIs(t, err, fix.ErrInvalidEdit)
}

func TestPrepareEdits_Sorted(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{
		{StartOffset: 6, EndOffset: 8},
		{StartOffset: 0, EndOffset: 2},
	}
	got, err := fix.PrepareEdits(edits, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got[0].StartOffset)
	assert.Equal(t, 6, edits[0].StartOffset, "input order must be preserved")
}

func TestEditBuilder(t *testing.T) {
	t.Parallel()

	b := fix.NewEditBuilder().Replace(4, 6, "GitHub").ReplaceRange(0, 3, "The")
	assert.Equal(t, []fix.TextEdit{
		{StartOffset: 4, EndOffset: 10, NewText: "GitHub"},
		{StartOffset: 0, EndOffset: 3, NewText: "The"},
	}, b.Edits)
}

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	original := []byte("# Title\n\nuse github daily\n")
	modified := []byte("# Title\n\nuse GitHub daily\n")

	d := fix.GenerateDiff("README.md", original, modified)
	require.NotNil(t, d)

	assert.Equal(t, 1, d.Additions)
	assert.Equal(t, 1, d.Deletions)
	assert.True(t, d.HasChanges())
	assert.Contains(t, d.Unified, "--- a/README.md")
	assert.Contains(t, d.Unified, "+++ b/README.md")
	assert.Contains(t, d.Unified, "-use github daily\n")
	assert.Contains(t, d.Unified, "+use GitHub daily\n")
	assert.Equal(t, "diff --git a/README.md b/README.md", d.GitHeader())
}

func TestGenerateDiff_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.GenerateDiff("a.md", []byte("same\n"), []byte("same\n")))

	var d *fix.Diff
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.FullString())
}

func TestGenerateDiff_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	d := fix.GenerateDiff("a.md", []byte("javascript"), []byte("JavaScript"))
	require.NotNil(t, d)
	assert.Contains(t, d.Unified, "-javascript\n+JavaScript\n")
}
