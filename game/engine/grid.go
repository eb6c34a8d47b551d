package engine

import "fmt"

// Grid holds the fixed geometry and the live arrangement of tiles.
// positionToTile and tileToPosition are kept as inverse permutations and
// blankAt caches which positions hold a blank tile.
type Grid struct {
	width      int
	height     int
	cellCount  int
	blankCount int

	positionToTile []int
	tileToPosition []int
	blankAt        []bool
}

// ValidateGeometry checks width, height and blank count before a grid is built.
func ValidateGeometry(width, height, blankCount int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width and height must be positive, got %dx%d", ErrInvalidGeometry, width, height)
	}
	cellCount := width * height
	if blankCount < 1 || blankCount > cellCount-1 {
		return fmt.Errorf("%w: blank count must be between 1 and %d, got %d", ErrInvalidGeometry, cellCount-1, blankCount)
	}
	return nil
}

// NewGrid builds the solved arrangement. The highest blankCount identities are blank.
func NewGrid(width, height, blankCount int) (*Grid, error) {
	if err := ValidateGeometry(width, height, blankCount); err != nil {
		return nil, err
	}

	cellCount := width * height
	g := &Grid{
		width:          width,
		height:         height,
		cellCount:      cellCount,
		blankCount:     blankCount,
		positionToTile: make([]int, cellCount),
		tileToPosition: make([]int, cellCount),
		blankAt:        make([]bool, cellCount),
	}
	for i := 0; i < cellCount; i++ {
		g.positionToTile[i] = i
		g.tileToPosition[i] = i
		g.blankAt[i] = g.IsBlankTile(i)
	}
	return g, nil
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// CellCount returns width*height
func (g *Grid) CellCount() int { return g.cellCount }

// BlankCount returns the number of blank tiles
func (g *Grid) BlankCount() int { return g.blankCount }

// InBounds reports whether index is a valid linear position
func (g *Grid) InBounds(index int) bool {
	return index >= 0 && index < g.cellCount
}

// Row returns the row of a linear position
func (g *Grid) Row(index int) int { return index / g.width }

// Col returns the column of a linear position
func (g *Grid) Col(index int) int { return index % g.width }

// Position returns the current position of a tile
func (g *Grid) Position(tileID int) int {
	return g.tileToPosition[tileID]
}

// TileAt returns the identity of the tile at a position
func (g *Grid) TileAt(index int) int {
	return g.positionToTile[index]
}

// IsBlank reports whether the position currently holds a blank tile
func (g *Grid) IsBlank(index int) bool {
	return g.blankAt[index]
}

// IsBlankTile reports whether a tile identity is one of the blanks.
// Blank flags are fixed at creation: the last blankCount identities.
func (g *Grid) IsBlankTile(tileID int) bool {
	return tileID >= g.cellCount-g.blankCount
}

// Tile returns the tile with the given identity
func (g *Grid) Tile(tileID int) Tile {
	return Tile{ID: tileID, Blank: g.IsBlankTile(tileID)}
}

// Swap exchanges the tiles at two positions. Legality is the caller's concern.
func (g *Grid) Swap(a, b int) {
	ta, tb := g.positionToTile[a], g.positionToTile[b]
	g.positionToTile[a], g.positionToTile[b] = tb, ta
	g.tileToPosition[ta], g.tileToPosition[tb] = b, a
	g.blankAt[a], g.blankAt[b] = g.blankAt[b], g.blankAt[a]
}

// Arrange replaces the arrangement with perm, where perm[position] is a tile
// identity. The grid is left untouched if perm is not a bijection.
func (g *Grid) Arrange(perm []int) error {
	if len(perm) != g.cellCount {
		return fmt.Errorf("%w: expected %d entries, got %d", ErrNotPermutation, g.cellCount, len(perm))
	}
	seen := make([]bool, g.cellCount)
	for pos, id := range perm {
		if id < 0 || id >= g.cellCount {
			return fmt.Errorf("%w: tile %d at position %d", ErrNotPermutation, id, pos)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate tile %d", ErrNotPermutation, id)
		}
		seen[id] = true
	}

	copy(g.positionToTile, perm)
	for pos, id := range perm {
		g.tileToPosition[id] = pos
		g.blankAt[pos] = g.IsBlankTile(id)
	}
	return nil
}

// Tiles returns a copy of the position-to-tile mapping
func (g *Grid) Tiles() []int {
	out := make([]int, g.cellCount)
	copy(out, g.positionToTile)
	return out
}

// BlankPositions returns the positions holding blank tiles in ascending order
func (g *Grid) BlankPositions() []int {
	out := make([]int, 0, g.blankCount)
	for pos, blank := range g.blankAt {
		if blank {
			out = append(out, pos)
		}
	}
	return out
}

// BlankTiles returns the identities of the blank tiles
func (g *Grid) BlankTiles() []int {
	out := make([]int, 0, g.blankCount)
	for id := g.cellCount - g.blankCount; id < g.cellCount; id++ {
		out = append(out, id)
	}
	return out
}
