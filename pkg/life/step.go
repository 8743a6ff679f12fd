package life

// CountNeighbors returns, for every coordinate adjacent to at least one live
// cell, how many live cells surround it. Coordinates missing from the result
// have zero live neighbours.
func CountNeighbors(alive LiveSet) map[Coord]int {
	counts := make(map[Coord]int, len(alive)*8)
	for c := range alive {
		for _, n := range Neighbors(c) {
			counts[n]++
		}
	}
	return counts
}

// Step computes the next generation. The input is not modified.
//
// A live cell survives with two or three live neighbours; any cell with
// exactly three live neighbours is alive in the next generation.
func Step(alive LiveSet) LiveSet {
	counts := CountNeighbors(alive)
	next := make(LiveSet)

	for c := range alive {
		if n := counts[c]; n == 2 || n == 3 {
			next[c] = struct{}{}
		}
	}
	for c, n := range counts {
		if n == 3 {
			next[c] = struct{}{}
		}
	}

	return next
}

// Advance applies Step n times.
func Advance(alive LiveSet, n int) LiveSet {
	cur := alive.Clone()
	for i := 0; i < n; i++ {
		cur = Step(cur)
	}
	return cur
}

// Diff describes how one generation differs from the previous one.
type Diff struct {
	Born LiveSet
	Died LiveSet
}

// Compare returns the cells born and the cells that died between prev and
// next.
func Compare(prev, next LiveSet) Diff {
	return Diff{
		Born: next.Minus(prev),
		Died: prev.Minus(next),
	}
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Born) == 0 && len(d.Died) == 0
}
