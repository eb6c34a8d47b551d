// Command validate checks the puzzle configuration JSON files in a configs
// directory. It checks:
//   - JSON structure, with unknown fields rejected
//   - Geometry: positive width and height, 1 <= blank_count < cells
//   - Shuffle mode and walk steps
//   - Message templates: moved and solved take one %d, the others none
//   - Tile assets: one per non-blank tile, no duplicates
//
// It also notes arrangements the default shuffle may leave unsolvable.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/slide-puzzle/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds notes that do not make the file invalid.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	geometryOK := true
	if err := engine.ValidateGeometry(config.Width, config.Height, config.BlankCount); err != nil {
		result.fail("%v", err)
		geometryOK = false
	} else if config.Width > engine.MaxGridSize || config.Height > engine.MaxGridSize {
		result.fail("grid %dx%d exceeds the %d limit", config.Width, config.Height, engine.MaxGridSize)
		geometryOK = false
	}

	switch config.ShuffleMode {
	case "", engine.ShufflePermutation:
		if config.WalkSteps != 0 {
			result.fail("walk_steps is set but shuffle_mode is not %q", engine.ShuffleWalk)
		}
	case engine.ShuffleWalk:
		if config.WalkSteps < 0 {
			result.fail("walk_steps must not be negative, got %d", config.WalkSteps)
		}
	default:
		result.fail("unknown shuffle_mode %q", config.ShuffleMode)
	}

	validateMessages(&result, config.Messages)

	if geometryOK {
		validateAssets(&result, &config)
	}

	// Anything engine-level we did not cover above
	if result.Valid {
		if err := engine.ValidateGameConfig(&config); err != nil {
			result.fail("%v", err)
		}
	}

	if result.Valid {
		mode := config.ShuffleMode
		if mode == "" {
			mode = engine.ShufflePermutation
		}
		result.note("✓ Name: %s", config.Name)
		result.note("✓ Grid: %dx%d, %d blank", config.Width, config.Height, config.BlankCount)
		result.note("✓ Shuffle: %s", mode)
		if len(config.TileAssets) > 0 {
			result.note("✓ Tile assets: %d", len(config.TileAssets))
		}
		if config.Width == 1 || config.Height == 1 {
			result.note("⚠ A single row or column can never reorder its tiles")
		} else if mode == engine.ShufflePermutation && config.BlankCount == 1 {
			result.note("⚠ Permutation shuffles leave about half of all puzzles unsolvable")
		}
	}

	return result
}

// validateMessages checks the format verbs of message templates. Moved and
// solved are formatted with the move count; the others are shown verbatim.
func validateMessages(result *ValidationResult, m engine.Messages) {
	counted := map[string]string{
		"moved":  m.Moved,
		"solved": m.Solved,
	}
	for _, key := range []string{"moved", "solved"} {
		text := counted[key]
		if text == "" {
			continue
		}
		if n := strings.Count(text, "%d"); n != 1 || strings.Count(text, "%") != 1 {
			result.fail("messages.%s must contain exactly one %%d, got %q", key, text)
		}
	}

	verbatim := []struct {
		key, text string
	}{
		{"welcome", m.Welcome},
		{"selected", m.Selected},
		{"blocked", m.Blocked},
		{"shuffled", m.Shuffled},
	}
	for _, v := range verbatim {
		if strings.Contains(v.text, "%") {
			result.fail("messages.%s is shown verbatim and must not contain %%, got %q", v.key, v.text)
		}
	}
}

// validateAssets checks that tile_assets names one asset per non-blank tile
func validateAssets(result *ValidationResult, config *engine.GameConfig) {
	if len(config.TileAssets) == 0 {
		if config.AssetType != "" {
			result.fail("asset_type is set but tile_assets is empty")
		}
		return
	}

	want := config.CellCount() - config.BlankCount
	if len(config.TileAssets) != want {
		result.fail("tile_assets must have %d entries (one per non-blank tile), got %d", want, len(config.TileAssets))
	}

	seen := make(map[string]int, len(config.TileAssets))
	for i, asset := range config.TileAssets {
		if asset == "" {
			result.fail("tile_assets[%d] is empty", i)
			continue
		}
		if j, dup := seen[asset]; dup {
			result.fail("tile_assets[%d] repeats tile_assets[%d] (%q)", i, j, asset)
			continue
		}
		seen[asset] = i
	}
}

// report prints the results and returns whether every file was valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate puzzle configuration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "../configs",
				Usage:   "directory containing configuration files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("config-dir")
			files, err := filepath.Glob(filepath.Join(dir, "*.json"))
			if err != nil {
				return fmt.Errorf("finding config files: %w", err)
			}
			if len(files) == 0 {
				return cli.Exit(fmt.Sprintf("no config files in %s", dir), 1)
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateConfig(file))
			}

			out := cmd.Writer
			if out == nil {
				out = os.Stdout
			}
			if !report(out, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// main validates every *.json file in the configs directory and exits with
// a non-zero status if any is invalid
func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
