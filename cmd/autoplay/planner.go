package main

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/wricardo/slide-puzzle/game/engine"
)

// slide moves the tile at From into the blank at To
type slide struct {
	From int
	To   int
}

// indices turns slides into the select-then-target activations the API expects
func indices(plan []slide) []int {
	out := make([]int, 0, 2*len(plan))
	for _, s := range plan {
		out = append(out, s.From, s.To)
	}
	return out
}

// planner searches for a sequence of slides that solves an arrangement.
// It runs weighted A*: with one blank, weight 1 gives shortest plans and
// larger weights trade plan length for speed.
type planner struct {
	width, height, blanks int
	budget                int
	weight                int
}

type node struct {
	tiles  []int
	key    string
	parent *node
	move   slide
	cost   int
	score  int
	index  int
}

type frontier []*node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].score == f[j].score {
		return f[i].cost > f[j].cost
	}
	return f[i].score < f[j].score
}
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index, f[j].index = i, j
}
func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*f)
	*f = append(*f, n)
}
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	*f = old[:len(old)-1]
	return n
}

func stateKey(tiles []int) string {
	b := make([]byte, len(tiles))
	for i, id := range tiles {
		b[i] = byte(id)
	}
	return string(b)
}

// distance sums how far every non-blank tile sits from home. Identities
// from firstBlank up are blanks.
func distance(tiles []int, width, firstBlank int) int {
	total := 0
	for pos, id := range tiles {
		if id >= firstBlank {
			continue
		}
		dr := pos/width - id/width
		dc := pos%width - id%width
		if dr < 0 {
			dr = -dr
		}
		if dc < 0 {
			dc = -dc
		}
		total += dr + dc
	}
	return total
}

// ErrBudgetExhausted means the search gave up before finding a plan
var ErrBudgetExhausted = errors.New("search budget exhausted")

// ErrUnreachable means every reachable arrangement was explored
var ErrUnreachable = errors.New("solved arrangement is unreachable")

// Plan returns the slides that take tiles to the solved arrangement
func (p *planner) Plan(tiles []int) ([]slide, error) {
	if p.width*p.height > 255 {
		return nil, fmt.Errorf("grid of %d cells is too large to plan", p.width*p.height)
	}

	grid, err := engine.NewGrid(p.width, p.height, p.blanks)
	if err != nil {
		return nil, err
	}
	if err := grid.Arrange(tiles); err != nil {
		return nil, err
	}

	weight := p.weight
	if weight < 1 {
		weight = 1
	}

	cells := p.width * p.height
	firstBlank := cells - p.blanks
	solved := make([]int, cells)
	for i := range solved {
		solved[i] = i
	}
	goal := stateKey(solved)

	start := &node{tiles: grid.Tiles(), key: stateKey(tiles)}
	start.score = weight * distance(start.tiles, p.width, firstBlank)

	open := &frontier{start}
	best := map[string]int{start.key: 0}
	expanded := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if current.cost > best[current.key] {
			continue
		}
		if current.key == goal {
			return current.path(), nil
		}

		expanded++
		if p.budget > 0 && expanded > p.budget {
			return nil, ErrBudgetExhausted
		}

		if err := grid.Arrange(current.tiles); err != nil {
			return nil, err
		}
		for _, from := range grid.MovableTiles() {
			for _, to := range grid.LegalTargets(from) {
				grid.Swap(from, to)
				next := grid.Tiles()
				grid.Swap(from, to)

				key := stateKey(next)
				cost := current.cost + 1
				if seen, ok := best[key]; ok && seen <= cost {
					continue
				}
				best[key] = cost
				heap.Push(open, &node{
					tiles:  next,
					key:    key,
					parent: current,
					move:   slide{From: from, To: to},
					cost:   cost,
					score:  cost + weight*distance(next, p.width, firstBlank),
				})
			}
		}
	}

	return nil, ErrUnreachable
}

func (n *node) path() []slide {
	plan := make([]slide, n.cost)
	for cur := n; cur.parent != nil; cur = cur.parent {
		plan[cur.cost-1] = cur.move
	}
	return plan
}
