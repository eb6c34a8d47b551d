// Command analyze prints quick, human-readable statistics about the puzzle
// configurations in a configs directory. For every config it reports the
// geometry, checks that sampled shuffles are permutations of the tiles and
// measures how many of them can be solved.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/slide-puzzle/game/engine"
)

// Report holds the analysis of one configuration file
type Report struct {
	File        string `json:"file"`
	Name        string `json:"name,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Cells       int    `json:"cells,omitempty"`
	Blanks      int    `json:"blanks,omitempty"`
	ShuffleMode string `json:"shuffle_mode,omitempty"`
	Assets      int    `json:"assets"`

	Samples       int     `json:"samples"`
	Bijections    int     `json:"bijections"`
	AlreadySolved int     `json:"already_solved"`
	Solvable      int     `json:"solvable"`
	Unsolvable    int     `json:"unsolvable"`
	Unknown       int     `json:"unknown"`
	MeanMisplaced float64 `json:"mean_misplaced"`
	MeanDistance  float64 `json:"mean_distance"`

	Error string `json:"error,omitempty"`
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "report geometry and shuffle statistics for puzzle configs",
		ArgsUsage: "[config names...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing configuration files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "samples",
				Value: 1000,
				Usage: "shuffles to sample per config",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 1,
				Usage: "seed for the shuffle generator",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print reports as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("config-dir")
			samples := int(cmd.Int("samples"))
			seed := uint64(cmd.Int("seed"))
			if samples < 1 {
				return cli.Exit("samples must be positive", 2)
			}

			files, err := configFiles(dir, cmd.Args().Slice())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return cli.Exit(fmt.Sprintf("no configs found in %s", dir), 1)
			}

			reports := make([]Report, 0, len(files))
			failed := 0
			for _, path := range files {
				r := analyzeConfig(path, samples, seed)
				if r.Error != "" {
					failed++
				}
				reports = append(reports, r)
			}

			out := cmd.Writer
			if out == nil {
				out = os.Stdout
			}
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					r.Print(out)
				}
			}

			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d configs failed", failed, len(reports)), 1)
			}
			return nil
		},
	}
}

// configFiles resolves the files to analyze: the named configs, or every
// .json file in dir
func configFiles(dir string, names []string) ([]string, error) {
	if len(names) > 0 {
		files := make([]string, 0, len(names))
		for _, name := range names {
			files = append(files, filepath.Join(dir, strings.TrimSuffix(name, ".json")+".json"))
		}
		return files, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func analyzeConfig(path string, samples int, seed uint64) Report {
	report := Report{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Error = fmt.Sprintf("read: %v", err)
		return report
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		report.Error = fmt.Sprintf("parse: %v", err)
		return report
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		report.Error = err.Error()
		return report
	}

	report.Name = config.Name
	report.Width = config.Width
	report.Height = config.Height
	report.Cells = config.CellCount()
	report.Blanks = config.BlankCount
	report.ShuffleMode = config.ShuffleMode
	if report.ShuffleMode == "" {
		report.ShuffleMode = engine.ShufflePermutation
	}
	report.Assets = len(config.TileAssets)

	eng, err := engine.NewEngine(&config)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	eng.SetRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

	misplaced, distance := 0, 0
	for i := 0; i < samples; i++ {
		eng.Shuffle()
		grid := eng.Grid()
		report.Samples++

		if isBijection(grid.Tiles()) {
			report.Bijections++
		}
		if eng.IsSolved() {
			report.AlreadySolved++
		}
		switch solvable, known := engine.Solvability(grid); {
		case !known:
			report.Unknown++
		case solvable:
			report.Solvable++
		default:
			report.Unsolvable++
		}
		misplaced += engine.CountMisplaced(grid)
		distance += engine.ManhattanDistance(grid)
	}

	report.MeanMisplaced = float64(misplaced) / float64(report.Samples)
	report.MeanDistance = float64(distance) / float64(report.Samples)
	return report
}

func isBijection(tiles []int) bool {
	seen := make([]bool, len(tiles))
	for _, id := range tiles {
		if id < 0 || id >= len(tiles) || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// Print writes the report in the human-readable layout
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", r.File)
	if r.Error != "" {
		fmt.Fprintf(w, "❌ %s\n", r.Error)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Grid: %d x %d (%d cells, %d blank)\n", r.Width, r.Height, r.Cells, r.Blanks)
	fmt.Fprintf(w, "Shuffle mode: %s\n", r.ShuffleMode)
	if r.Assets > 0 {
		fmt.Fprintf(w, "Tile assets: %d\n", r.Assets)
	}

	fmt.Fprintf(w, "Samples: %d\n", r.Samples)
	if r.Bijections == r.Samples {
		fmt.Fprintf(w, "✅ Every shuffle was a permutation of the tiles\n")
	} else {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d shuffles were not permutations\n", r.Samples-r.Bijections)
	}
	if r.AlreadySolved > 0 {
		fmt.Fprintf(w, "Shuffles that came out solved: %d\n", r.AlreadySolved)
	}

	if r.Unknown == r.Samples {
		fmt.Fprintf(w, "Solvability: unknown with %d blanks\n", r.Blanks)
	} else {
		fraction := float64(r.Solvable) / float64(r.Samples-r.Unknown)
		fmt.Fprintf(w, "Solvable: %d/%d (%.1f%%)\n", r.Solvable, r.Samples-r.Unknown, 100*fraction)
		if r.Unsolvable > 0 {
			fmt.Fprintf(w, "⚠️  WARNING: %d shuffles cannot be solved\n", r.Unsolvable)
		}
	}
	fmt.Fprintf(w, "Mean misplaced tiles: %.2f\n", r.MeanMisplaced)
	fmt.Fprintf(w, "Mean Manhattan distance: %.2f\n", r.MeanDistance)
}
