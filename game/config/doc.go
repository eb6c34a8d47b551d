// Package config provides configuration management for the sliding puzzle server.
//
// The config package handles:
//   - Loading puzzle configurations from JSON files
//   - Validation through engine.ValidateGameConfig
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Puzzle configurations are stored as JSON files in the configs directory.
// Each configuration defines the grid geometry (width, height, blank_count),
// the shuffle mode ("permutation" or "walk"), optional per-tile asset names
// and the player-facing messages.
//
// Available Configurations:
//   - classic: 4x4 grid with one blank, the 15-puzzle
//   - mini: 2x2 warm-up
//   - two_blank: 4x4 with two blanks, shuffled by random walk
//   - wide: 5x3 with three blanks
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("mini")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no classic.json the first valid config becomes
// the default, and with no valid config at all the built-in 4x4 puzzle is used.
package config
