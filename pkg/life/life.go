// Package life implements Conway's Game of Life on a sparse, unbounded
// integer grid.
//
// A colony is represented only by its live cells. Dead space is never
// stored, so patterns can grow in any direction without a fixed window.
package life

import (
	"fmt"
	"sort"
)

// Coord is a cell position. Y grows upwards.
type Coord struct {
	X int
	Y int
}

// String returns the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c shifted by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// mooreOffsets are the eight offsets of the Moore neighbourhood.
var mooreOffsets = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the eight coordinates adjacent to c.
func Neighbors(c Coord) [8]Coord {
	var out [8]Coord
	for i, off := range mooreOffsets {
		out[i] = c.Add(off)
	}
	return out
}

// LiveSet is a set of live cells.
type LiveSet map[Coord]struct{}

// NewLiveSet builds a set from the given cells. Duplicates collapse.
func NewLiveSet(cells ...Coord) LiveSet {
	s := make(LiveSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Add marks c alive.
func (s LiveSet) Add(c Coord) {
	s[c] = struct{}{}
}

// Has reports whether c is alive.
func (s LiveSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Len returns the population.
func (s LiveSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of s.
func (s LiveSet) Clone() LiveSet {
	out := make(LiveSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same cells.
func (s LiveSet) Equal(other LiveSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Minus returns the cells of s that are not in other.
func (s LiveSet) Minus(other LiveSet) LiveSet {
	out := make(LiveSet)
	for c := range s {
		if !other.Has(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// Translate returns a copy of s with every cell shifted by d.
func (s LiveSet) Translate(d Coord) LiveSet {
	out := make(LiveSet, len(s))
	for c := range s {
		out[c.Add(d)] = struct{}{}
	}
	return out
}

// Sorted returns the cells ordered by y descending, then x ascending,
// which is the order they appear when printed.
func (s LiveSet) Sorted() []Coord {
	cells := make([]Coord, 0, len(s))
	for c := range s {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y > cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// Bounds returns the smallest box holding every cell. ok is false for an
// empty set.
func (s LiveSet) Bounds() (b Bounds, ok bool) {
	first := true
	for c := range s {
		if first {
			b = Bounds{MinX: c.X, MaxX: c.X, MinY: c.Y, MaxY: c.Y}
			first = false
			continue
		}
		b.MinX = min(b.MinX, c.X)
		b.MaxX = max(b.MaxX, c.X)
		b.MinY = min(b.MinY, c.Y)
		b.MaxY = max(b.MaxY, c.Y)
	}
	return b, !first
}
