package service

import (
	"time"

	"github.com/wricardo/slide-puzzle/game/engine"
)

// Event types carried in GameEvent.Type
const (
	EventSelect   = "select"
	EventMove     = "move"
	EventBlocked  = "blocked"
	EventSolved   = "solved"
	EventShuffled = "shuffled"
)

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a single activation
type MoveResult struct {
	Success       bool                   `json:"success"`
	Activation    *engine.ActivateResult `json:"activation"`
	GameState     *engine.GameState      `json:"game_state"`
	Message       string                 `json:"message"`
	Events        []GameEvent            `json:"events,omitempty"`
	PossibleMoves []int                  `json:"possible_moves,omitempty"`
}

// BulkMoveResult contains the result of several activations
type BulkMoveResult struct {
	RequestedActivations int                     `json:"requested_activations"`
	Processed            int                     `json:"processed"`
	MovesExecuted        int                     `json:"moves_executed"`
	Success              bool                    `json:"success"`
	Truncated            bool                    `json:"truncated,omitempty"`
	Limit                int                     `json:"limit,omitempty"`
	StoppedReason        string                  `json:"stopped_reason,omitempty"`
	StoppedOnActivation  int                     `json:"stopped_on_activation,omitempty"` // 1-based
	Results              []engine.ActivateResult `json:"results"`
	Events               []GameEvent             `json:"events"`
	GameState            *engine.GameState       `json:"game_state"`

	StartMoveCount int    `json:"start_move_count"`
	EndMoveCount   int    `json:"end_move_count"`
	Solved         bool   `json:"solved"`
	Message        string `json:"message,omitempty"`
	PossibleMoves  []int  `json:"possible_moves,omitempty"`
}

// GameEvent represents something that happened during play
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	From      int       `json:"from"`
	To        int       `json:"to"`
	TileID    int       `json:"tile_id"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BlankCount  int    `json:"blank_count"`
	ShuffleMode string `json:"shuffle_mode"`
}
