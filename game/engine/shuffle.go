package engine

import (
	"math/rand/v2"
	"time"
)

// NewRand returns a generator seeded from the clock
func NewRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>17|1))
}

// RandomPermutation returns a uniformly random permutation of 0..n-1.
// It draws from a shrinking pool: each pick is replaced by the pool's
// logical last element so the live pool stays contiguous.
func RandomPermutation(rng *rand.Rand, n int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	result := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		last := n - i
		r := rng.IntN(last + 1)
		result = append(result, pool[r])
		pool[r] = pool[last]
	}
	return result
}

// WalkShuffle applies steps random legal moves to the grid. Unlike
// RandomPermutation it can only reach arrangements reachable from the
// starting one, so a walk from the solved state is always solvable.
func WalkShuffle(g *Grid, rng *rand.Rand, steps int) {
	prevFrom, prevTo := -1, -1
	for i := 0; i < steps; i++ {
		moves := slidePairs(g)
		if len(moves) == 0 {
			return
		}
		// Avoid undoing the previous slide when there is any alternative
		if len(moves) > 1 {
			filtered := moves[:0:0]
			for _, m := range moves {
				if m[0] == prevTo && m[1] == prevFrom {
					continue
				}
				filtered = append(filtered, m)
			}
			moves = filtered
		}
		m := moves[rng.IntN(len(moves))]
		g.Swap(m[0], m[1])
		prevFrom, prevTo = m[0], m[1]
	}
}

// slidePairs lists every legal (from, to) pair by walking outward from each blank
func slidePairs(g *Grid) [][2]int {
	var pairs [][2]int
	directions := []struct{ dr, dc int }{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, blank := range g.BlankPositions() {
		row, col := g.Row(blank), g.Col(blank)
		for _, d := range directions {
			r, c := row+d.dr, col+d.dc
			for r >= 0 && r < g.height && c >= 0 && c < g.width {
				pos := r*g.width + c
				if !g.IsBlank(pos) {
					pairs = append(pairs, [2]int{pos, blank})
					break
				}
				r, c = r+d.dr, c+d.dc
			}
		}
	}
	return pairs
}

// Solvability reports whether the current arrangement can be slid back to the
// solved one. The answer is only known for single-blank grids.
func Solvability(g *Grid) (solvable bool, known bool) {
	if g.blankCount != 1 {
		return false, false
	}

	blankID := g.cellCount - 1
	inversions := 0
	for i := 0; i < g.cellCount; i++ {
		a := g.positionToTile[i]
		if a == blankID {
			continue
		}
		for j := i + 1; j < g.cellCount; j++ {
			b := g.positionToTile[j]
			if b != blankID && a > b {
				inversions++
			}
		}
	}

	// A single row or column can never reorder its tiles
	if g.width == 1 || g.height == 1 {
		return inversions == 0, true
	}

	if g.width%2 == 1 {
		return inversions%2 == 0, true
	}
	rowDistance := (g.height - 1) - g.Row(g.Position(blankID))
	return (inversions+rowDistance)%2 == 0, true
}
