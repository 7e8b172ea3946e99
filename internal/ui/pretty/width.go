package pretty

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const (
	ellipsis = "…"
	tabWidth = 4
)

// VisibleWidth returns the terminal display width of s, measured per
// grapheme cluster so combining marks and emoji sequences count once.
func VisibleWidth(s string) int {
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// graphemes splits s into grapheme clusters and their display widths.
func graphemes(s string) ([]string, []int) {
	var segs []string
	var widths []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		segs = append(segs, g.Str())
		widths = append(widths, runewidth.StringWidth(g.Str()))
	}
	return segs, widths
}

// truncateRight keeps the leading graphemes of s that fit in w cells,
// ending with an ellipsis when anything was cut.
func truncateRight(s string, w int) string {
	if VisibleWidth(s) <= w {
		return s
	}
	if w <= 0 {
		return ""
	}
	return runewidth.Truncate(s, w, ellipsis)
}

// truncateLeft keeps the trailing graphemes of s that fit in w cells,
// starting with an ellipsis when anything was cut.
func truncateLeft(s string, w int) string {
	if VisibleWidth(s) <= w {
		return s
	}
	if w <= 0 {
		return ""
	}

	segs, widths := graphemes(s)
	budget := w - runewidth.StringWidth(ellipsis)
	used := 0
	start := len(segs)
	for start > 0 && used+widths[start-1] <= budget {
		start--
		used += widths[start]
	}
	return ellipsis + strings.Join(segs[start:], "")
}

// expandTabs replaces tabs with spaces up to the next tab stop so the
// caret line stays aligned with the rendered source.
func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		seg := g.Str()
		if seg == "\t" {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteString(seg)
		col += runewidth.StringWidth(seg)
	}
	return b.String()
}
