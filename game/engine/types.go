package engine

import "errors"

const (
	// Validation constants
	MaxGridSize         = 32
	MaxBulkActivations  = 50
	DefaultWalkSteps    = 200
	WebSocketBufferSize = 256

	// Shuffle modes
	ShufflePermutation = "permutation"
	ShuffleWalk        = "walk"
)

var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotPermutation  = errors.New("arrangement is not a permutation")
)

// Tile is a unit occupying one grid position. ID is its solved position.
type Tile struct {
	ID    int  `json:"id"`
	Blank bool `json:"blank"`
}

// Outcome describes what a single activation did.
type Outcome string

const (
	OutcomeSelected   Outcome = "selected"
	OutcomeReselected Outcome = "reselected"
	OutcomeMoved      Outcome = "moved"
	OutcomeRejected   Outcome = "rejected"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeOutOfRange Outcome = "out_of_range"
)

// ActivateResult reports the effect of one activation.
type ActivateResult struct {
	Outcome   Outcome `json:"outcome"`
	Moved     bool    `json:"moved"`
	Index     int     `json:"index"`
	From      int     `json:"from"`
	To        int     `json:"to"`
	TileID    int     `json:"tile_id"`
	MoveCount int     `json:"move_count"`
	Solved    bool    `json:"solved"`
}

// GameState represents the complete puzzle state
type GameState struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	BlankCount int    `json:"blank_count"`
	Tiles      []int  `json:"tiles"`  // position -> tile id
	Blanks     []int  `json:"blanks"` // positions currently holding blank tiles
	Selected   *int   `json:"selected"`
	MoveCount  int    `json:"move_count"`
	Solved     bool   `json:"solved"`
	Message    string `json:"message"`
	ConfigName string `json:"config_name"`
	Shuffles   int    `json:"shuffles"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// Computed helper views (not required for core game logic)
	LegalTargets []int    `json:"legal_targets,omitempty"`
	Solvable     *bool    `json:"solvable,omitempty"`
	Rows         []string `json:"rows,omitempty"`
}

// MoveHistoryEntry represents a single move attempt in the game history
type MoveHistoryEntry struct {
	Action     string `json:"action"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	TileID     int    `json:"tile_id"`
	Timestamp  int64  `json:"timestamp"`
	Success    bool   `json:"success"`
	MoveNumber int    `json:"move_number"`
}
