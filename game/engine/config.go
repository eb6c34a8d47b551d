package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Messages holds the texts shown for puzzle events
type Messages struct {
	Welcome  string `json:"welcome"`
	Selected string `json:"selected"`
	Moved    string `json:"moved"`
	Blocked  string `json:"blocked"`
	Solved   string `json:"solved"`
	Shuffled string `json:"shuffled"`
}

// GameConfig represents the puzzle configuration from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	BlankCount  int      `json:"blank_count"`
	ShuffleMode string   `json:"shuffle_mode,omitempty"`
	WalkSteps   int      `json:"walk_steps,omitempty"`
	TileAssets  []string `json:"tile_assets,omitempty"`
	AssetType   string   `json:"asset_type,omitempty"`
	Messages    Messages `json:"messages"`
}

// CellCount returns width*height
func (c *GameConfig) CellCount() int {
	return c.Width * c.Height
}

// AssetFor returns the visual identifier of a non-blank tile, or "" when the
// config carries no assets for it. The engine never interprets it.
func (c *GameConfig) AssetFor(tileID int) string {
	if tileID < 0 || tileID >= len(c.TileAssets) {
		return ""
	}
	if c.AssetType == "" {
		return c.TileAssets[tileID]
	}
	return c.TileAssets[tileID] + "." + c.AssetType
}

// ValidateGameConfig validates a puzzle configuration
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if err := ValidateGeometry(config.Width, config.Height, config.BlankCount); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if config.Width > MaxGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: width and height must be at most %d, got %dx%d",
			MaxGridSize, config.Width, config.Height)
	}

	switch config.ShuffleMode {
	case "", ShufflePermutation, ShuffleWalk:
	default:
		return fmt.Errorf("config validation: shuffle_mode must be %q or %q, got %q",
			ShufflePermutation, ShuffleWalk, config.ShuffleMode)
	}
	if config.WalkSteps < 0 {
		return fmt.Errorf("config validation: walk_steps must not be negative, got %d", config.WalkSteps)
	}

	// Blanks carry no picture, so assets cover the non-blank identities only
	if n := len(config.TileAssets); n != 0 && n != config.CellCount()-config.BlankCount {
		return fmt.Errorf("config validation: tile_assets must have %d entries, got %d",
			config.CellCount()-config.BlankCount, n)
	}

	if msg := config.Messages.Moved; msg != "" && !countVerb(msg) {
		return fmt.Errorf("config validation: messages.moved must contain exactly one %%d, got %q", msg)
	}
	if msg := config.Messages.Solved; msg != "" && !countVerb(msg) {
		return fmt.Errorf("config validation: messages.solved must contain exactly one %%d, got %q", msg)
	}

	return nil
}

// countVerb reports whether msg formats the move count and nothing else
func countVerb(msg string) bool {
	return strings.Count(msg, "%d") == 1 && strings.Count(msg, "%") == 1
}

// DefaultMessages returns the texts used when a config leaves them empty
func DefaultMessages() Messages {
	return Messages{
		Welcome:  "Select a tile, then a blank in line with it.",
		Selected: "Tile selected.",
		Moved:    "Moves: %d",
		Blocked:  "That tile cannot slide there.",
		Solved:   "Solved in %d moves!",
		Shuffled: "Tiles shuffled. Moves: 0",
	}
}

// withDefaults fills empty messages and modes
func (c *GameConfig) withDefaults() *GameConfig {
	out := *c
	def := DefaultMessages()
	if out.Messages.Welcome == "" {
		out.Messages.Welcome = def.Welcome
	}
	if out.Messages.Selected == "" {
		out.Messages.Selected = def.Selected
	}
	if out.Messages.Moved == "" {
		out.Messages.Moved = def.Moved
	}
	if out.Messages.Blocked == "" {
		out.Messages.Blocked = def.Blocked
	}
	if out.Messages.Solved == "" {
		out.Messages.Solved = def.Solved
	}
	if out.Messages.Shuffled == "" {
		out.Messages.Shuffled = def.Shuffled
	}
	if out.ShuffleMode == "" {
		out.ShuffleMode = ShufflePermutation
	}
	if out.ShuffleMode == ShuffleWalk && out.WalkSteps == 0 {
		out.WalkSteps = DefaultWalkSteps
	}
	return &out
}

// DefaultConfig returns the classic 4x4 single-blank puzzle
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Classic 15-puzzle on a 4x4 grid with one blank",
		Width:       4,
		Height:      4,
		BlankCount:  1,
		ShuffleMode: ShufflePermutation,
		Messages:    DefaultMessages(),
	}
}

// LoadGameConfig loads a puzzle configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
