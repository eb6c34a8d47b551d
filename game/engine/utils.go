package engine

import (
	"strconv"
	"strings"
)

// RenderRows draws the grid as one string per row. Tiles show their 1-based
// identity and blanks show as underscores, right-aligned to a common width.
func RenderRows(g *Grid) []string {
	cellWidth := len(strconv.Itoa(g.CellCount()))
	rows := make([]string, 0, g.Height())
	for r := 0; r < g.Height(); r++ {
		cells := make([]string, 0, g.Width())
		for c := 0; c < g.Width(); c++ {
			pos := r*g.Width() + c
			label := strings.Repeat("_", cellWidth)
			if !g.IsBlank(pos) {
				label = strconv.Itoa(g.TileAt(pos) + 1)
				label = strings.Repeat(" ", cellWidth-len(label)) + label
			}
			cells = append(cells, label)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}

// CountMisplaced counts non-blank tiles that are away from their own position
func CountMisplaced(g *Grid) int {
	count := 0
	for pos := 0; pos < g.CellCount(); pos++ {
		if !g.IsBlank(pos) && g.TileAt(pos) != pos {
			count++
		}
	}
	return count
}

// ManhattanDistance sums, over non-blank tiles, the grid distance between a
// tile's position and its home
func ManhattanDistance(g *Grid) int {
	total := 0
	for pos := 0; pos < g.CellCount(); pos++ {
		if g.IsBlank(pos) {
			continue
		}
		id := g.TileAt(pos)
		total += abs(g.Row(pos)-g.Row(id)) + abs(g.Col(pos)-g.Col(id))
	}
	return total
}
