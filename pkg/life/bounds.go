package life

// Bounds is an inclusive rectangle of cells.
type Bounds struct {
	MinX int
	MaxX int
	MinY int
	MaxY int
}

// DefaultBounds is the box used to draw a colony with no live cells.
var DefaultBounds = Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}

// Expand grows the box by margin cells on every side.
func (b Bounds) Expand(margin int) Bounds {
	return Bounds{
		MinX: b.MinX - margin,
		MaxX: b.MaxX + margin,
		MinY: b.MinY - margin,
		MaxY: b.MaxY + margin,
	}
}

// Width returns the number of columns in the box.
func (b Bounds) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the number of rows in the box.
func (b Bounds) Height() int {
	return b.MaxY - b.MinY + 1
}

// Contains reports whether c lies inside the box.
func (b Bounds) Contains(c Coord) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

// Frame returns the extent of s grown by margin, or DefaultBounds when s is
// empty.
func Frame(s LiveSet, margin int) Bounds {
	b, ok := s.Bounds()
	if !ok {
		return DefaultBounds
	}
	return b.Expand(margin)
}
