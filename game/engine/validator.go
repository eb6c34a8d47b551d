package engine

// IsLegalMove reports whether the tile at selected may slide into target.
// The two positions must share a row or a column and every cell from the
// first one after selected up to and including target must be blank.
func (g *Grid) IsLegalMove(selected, target int) bool {
	if !g.InBounds(selected) || !g.InBounds(target) {
		return false
	}
	if g.IsBlank(selected) || !g.IsBlank(target) {
		return false
	}

	movement := target - selected

	// Same column
	if movement%g.width == 0 {
		steps, direction := abs(movement)/g.width, sign(movement)
		if g.runIsBlank(selected, steps, g.width*direction) {
			return true
		}
	}

	// Same row; the row check stops the last column wrapping onto the next row
	if g.Row(selected) == g.Row(target) && abs(movement) < g.width {
		return g.runIsBlank(selected, abs(movement), sign(movement))
	}

	return false
}

// runIsBlank checks the cells selected+stride, selected+2*stride, ... for steps cells.
func (g *Grid) runIsBlank(selected, steps, stride int) bool {
	if steps == 0 {
		return false
	}
	for i := 1; i <= steps; i++ {
		if !g.IsBlank(selected + i*stride) {
			return false
		}
	}
	return true
}

// LegalTargets returns every position the tile at selected could slide into,
// walking up, down, left and right until the first non-blank cell.
func (g *Grid) LegalTargets(selected int) []int {
	if !g.InBounds(selected) || g.IsBlank(selected) {
		return nil
	}

	var targets []int
	row, col := g.Row(selected), g.Col(selected)

	directions := []struct{ dr, dc int }{
		{-1, 0}, // up
		{1, 0},  // down
		{0, -1}, // left
		{0, 1},  // right
	}
	for _, d := range directions {
		r, c := row+d.dr, col+d.dc
		for r >= 0 && r < g.height && c >= 0 && c < g.width {
			pos := r*g.width + c
			if !g.IsBlank(pos) {
				break
			}
			targets = append(targets, pos)
			r, c = r+d.dr, c+d.dc
		}
	}
	return targets
}

// MovableTiles returns the positions of non-blank tiles that have at least one legal target
func (g *Grid) MovableTiles() []int {
	var out []int
	for pos := 0; pos < g.cellCount; pos++ {
		if len(g.LegalTargets(pos)) > 0 {
			out = append(out, pos)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
