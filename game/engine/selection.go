package engine

// Selection tracks which tile, if any, the player has picked as a move source.
// The zero value is Idle.
type Selection struct {
	index  int
	active bool
}

// Selected returns the selected position and whether anything is selected
func (s *Selection) Selected() (int, bool) {
	return s.index, s.active
}

// Clear returns the machine to Idle
func (s *Selection) Clear() {
	s.index, s.active = 0, false
}

// Activate feeds one tile activation into the machine. On a legal move it
// swaps the tiles and returns to Idle; the caller records the move.
// index must already be in bounds.
func (s *Selection) Activate(g *Grid, index int) Outcome {
	if !g.IsBlank(index) {
		switch {
		case !s.active:
			s.index, s.active = index, true
			return OutcomeSelected
		case s.index == index:
			return OutcomeIgnored
		default:
			s.index = index
			return OutcomeReselected
		}
	}

	if !s.active {
		return OutcomeIgnored
	}

	if !g.IsLegalMove(s.index, index) {
		return OutcomeRejected
	}

	g.Swap(s.index, index)
	s.Clear()
	return OutcomeMoved
}
