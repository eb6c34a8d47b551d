package engine

// Tracker counts accepted moves and answers whether the grid is solved.
type Tracker struct {
	moves     int
	fullScans int
}

// RecordMove counts one accepted swap
func (t *Tracker) RecordMove() { t.moves++ }

// Reset zeroes the move count, as after a shuffle
func (t *Tracker) Reset() { t.moves = 0 }

// Moves returns the number of accepted moves since the last reset
func (t *Tracker) Moves() int { return t.moves }

// FullScans returns how many times the full arrangement scan has run
func (t *Tracker) FullScans() int { return t.fullScans }

// CheckWin reports whether every tile sits at its own position. The full
// scan only runs once every blank tile is back home, which is checked first.
func (t *Tracker) CheckWin(g *Grid) bool {
	for id := g.cellCount - g.blankCount; id < g.cellCount; id++ {
		if g.tileToPosition[id] != id {
			return false
		}
	}

	t.fullScans++
	for pos, id := range g.positionToTile {
		if pos != id {
			return false
		}
	}
	return true
}
