package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// Puzzle state
	GetState() *GameState
	IsSolved() bool
	MoveCount() int

	// Player input
	Activate(index int) (ActivateResult, error)
	BulkActivate(indices []int) ([]ActivateResult, error)
	Shuffle() *GameState
	Reset() *GameState
	GetPossibleMoves() []int

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine is one puzzle session: the grid plus the selection, move count
// and history that belong to it. It is not safe for concurrent use; callers
// serialize access.
type GameEngine struct {
	config    *GameConfig
	grid      *Grid
	selection Selection
	tracker   Tracker
	rng       *rand.Rand

	solved     bool
	message    string
	shuffles   int
	history    []MoveHistoryEntry
	totalMoves int
}

// NewEngine creates a new puzzle engine with the provided configuration.
// The grid starts in the solved arrangement.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return newEngine(config.withDefaults())
}

// Initialize creates an engine for an ad-hoc geometry without a named config
func Initialize(width, height, blankCount int) (*GameEngine, error) {
	if err := ValidateGeometry(width, height, blankCount); err != nil {
		return nil, err
	}
	config := &GameConfig{
		Name:        fmt.Sprintf("%dx%d", width, height),
		Description: fmt.Sprintf("%dx%d grid with %d blank tiles", width, height, blankCount),
		Width:       width,
		Height:      height,
		BlankCount:  blankCount,
	}
	return newEngine(config.withDefaults())
}

func newEngine(config *GameConfig) (*GameEngine, error) {
	grid, err := NewGrid(config.Width, config.Height, config.BlankCount)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:  config,
		grid:    grid,
		rng:     NewRand(),
		message: config.Messages.Welcome,
		history: []MoveHistoryEntry{},
	}
	e.solved = e.tracker.CheckWin(grid)
	return e, nil
}

// SetRand replaces the random source used by Shuffle
func (e *GameEngine) SetRand(rng *rand.Rand) {
	e.rng = rng
}

// Grid returns the live grid. Callers must not mutate it.
func (e *GameEngine) Grid() *Grid {
	return e.grid
}

// GetConfig returns the configuration the engine was built from
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// IsSolved returns whether every tile is at its own position
func (e *GameEngine) IsSolved() bool {
	return e.solved
}

// MoveCount returns the accepted moves since the last shuffle
func (e *GameEngine) MoveCount() int {
	return e.tracker.Moves()
}

// Tracker exposes the move/win tracker, mostly for diagnostics
func (e *GameEngine) Tracker() *Tracker {
	return &e.tracker
}

// Selected returns the selected position, if any
func (e *GameEngine) Selected() (int, bool) {
	return e.selection.Selected()
}

// Shuffle rearranges the tiles and resets the move count and selection
func (e *GameEngine) Shuffle() *GameState {
	switch e.config.ShuffleMode {
	case ShuffleWalk:
		WalkShuffle(e.grid, e.rng, e.config.WalkSteps)
	default:
		perm := RandomPermutation(e.rng, e.grid.CellCount())
		if err := e.grid.Arrange(perm); err != nil {
			panic(fmt.Sprintf("shuffle produced an invalid arrangement: %v", err))
		}
	}

	e.selection.Clear()
	e.tracker.Reset()
	e.solved = e.tracker.CheckWin(e.grid)
	e.shuffles++
	e.message = e.config.Messages.Shuffled

	return e.GetState()
}

// Reset puts every tile back on its own position and clears the move count
// and selection. History is kept.
func (e *GameEngine) Reset() *GameState {
	perm := make([]int, e.grid.CellCount())
	for i := range perm {
		perm[i] = i
	}
	if err := e.grid.Arrange(perm); err != nil {
		panic(fmt.Sprintf("identity arrangement rejected: %v", err))
	}

	e.selection.Clear()
	e.tracker.Reset()
	e.solved = e.tracker.CheckWin(e.grid)
	e.message = e.config.Messages.Welcome

	return e.GetState()
}

// Activate feeds one tile activation into the selection state machine.
// Either nothing changes or exactly one swap happens and the move count
// goes up by one. Out-of-range indices leave the state untouched.
func (e *GameEngine) Activate(index int) (ActivateResult, error) {
	result := ActivateResult{
		Index:     index,
		From:      -1,
		To:        -1,
		TileID:    -1,
		MoveCount: e.tracker.Moves(),
		Solved:    e.solved,
	}

	if !e.grid.InBounds(index) {
		result.Outcome = OutcomeOutOfRange
		return result, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, e.grid.CellCount())
	}

	from, _ := e.selection.Selected()
	result.Outcome = e.selection.Activate(e.grid, index)

	switch result.Outcome {
	case OutcomeMoved:
		e.tracker.RecordMove()
		e.totalMoves++
		e.solved = e.tracker.CheckWin(e.grid)

		result.Moved = true
		result.From = from
		result.To = index
		result.TileID = e.grid.TileAt(index)
		result.MoveCount = e.tracker.Moves()
		result.Solved = e.solved

		e.addHistory(from, index, result.TileID, true)
		if e.solved {
			e.message = fmt.Sprintf(e.config.Messages.Solved, e.tracker.Moves())
		} else {
			e.message = fmt.Sprintf(e.config.Messages.Moved, e.tracker.Moves())
		}

	case OutcomeRejected:
		result.From = from
		result.To = index
		result.TileID = e.grid.TileAt(from)
		e.addHistory(from, index, result.TileID, false)
		e.message = e.config.Messages.Blocked

	case OutcomeSelected, OutcomeReselected:
		result.From = index
		result.TileID = e.grid.TileAt(index)
		e.message = e.config.Messages.Selected
	}

	return result, nil
}

// BulkActivate feeds several activations in order, stopping at the first
// out-of-range index
func (e *GameEngine) BulkActivate(indices []int) ([]ActivateResult, error) {
	results := make([]ActivateResult, 0, len(indices))
	for _, index := range indices {
		result, err := e.Activate(index)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// GetPossibleMoves returns the legal targets of the selected tile, or the
// positions of every movable tile when nothing is selected
func (e *GameEngine) GetPossibleMoves() []int {
	if selected, ok := e.selection.Selected(); ok {
		return e.grid.LegalTargets(selected)
	}
	return e.grid.MovableTiles()
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move attempt, or nil if there was none
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// GetState returns a snapshot of the puzzle state
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		Width:       e.grid.Width(),
		Height:      e.grid.Height(),
		BlankCount:  e.grid.BlankCount(),
		Tiles:       e.grid.Tiles(),
		Blanks:      e.grid.BlankPositions(),
		MoveCount:   e.tracker.Moves(),
		Solved:      e.solved,
		Message:     e.message,
		ConfigName:  e.config.Name,
		Shuffles:    e.shuffles,
		MoveHistory: append([]MoveHistoryEntry{}, e.history...),
		TotalMoves:  e.totalMoves,
		Rows:        RenderRows(e.grid),
	}

	if selected, ok := e.selection.Selected(); ok {
		state.Selected = &selected
		state.LegalTargets = e.grid.LegalTargets(selected)
	}
	if solvable, known := Solvability(e.grid); known {
		state.Solvable = &solvable
	}

	return state
}

// addHistory appends a move attempt to the cumulative history
func (e *GameEngine) addHistory(from, to, tileID int, success bool) {
	e.history = append(e.history, MoveHistoryEntry{
		Action:     "slide",
		From:       from,
		To:         to,
		TileID:     tileID,
		Timestamp:  time.Now().Unix(),
		Success:    success,
		MoveNumber: len(e.history) + 1,
	})
}
