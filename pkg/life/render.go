package life

import "strings"

// Glyphs used by the plain-text renderer.
const (
	AliveGlyph = '█'
	DeadGlyph  = ' '
)

// RenderRows draws the cells of s that fall inside b, one string per row.
// Rows are ordered top to bottom, by decreasing y.
func RenderRows(s LiveSet, b Bounds, alive, dead rune) []string {
	rows := make([]string, 0, b.Height())
	var sb strings.Builder
	for y := b.MaxY; y >= b.MinY; y-- {
		sb.Reset()
		for x := b.MinX; x <= b.MaxX; x++ {
			if s.Has(Coord{X: x, Y: y}) {
				sb.WriteRune(alive)
			} else {
				sb.WriteRune(dead)
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// Render draws s inside b with the default glyphs, rows joined by newlines.
func Render(s LiveSet, b Bounds) string {
	return strings.Join(RenderRows(s, b, AliveGlyph, DeadGlyph), "\n")
}
