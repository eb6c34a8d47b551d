// Command autoplay drives a puzzle session through the REST API until it is
// solved. It plans the slides locally with a weighted A* search, replays
// them with bulk activations and reshuffles when a plan cannot be found.
package main

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/slide-puzzle/game/engine"
)

type options struct {
	configID    string
	sessionID   string
	maxMoves    int
	maxAttempts int
	budget      int
	weight      int
}

// outcome summarizes a finished run
type outcome struct {
	SessionID string
	Attempts  int
	Moves     int
	Solved    bool
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "solve a puzzle session through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "puzzle server URL"},
			&cli.StringFlag{Name: "config", Usage: "config_id for a new session (server default when empty)"},
			&cli.StringFlag{Name: "continue", Usage: "play an existing session by ID"},
			&cli.IntFlag{Name: "max-moves", Value: 2000, Usage: "longest plan to send"},
			&cli.IntFlag{Name: "max-attempts", Value: 5, Usage: "attempts before giving up; each retry reshuffles"},
			&cli.IntFlag{Name: "budget", Value: 500000, Usage: "arrangements to expand per search"},
			&cli.IntFlag{Name: "weight", Value: 3, Usage: "heuristic weight; 1 finds shortest plans"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("v") {
				log.SetLevel(log.DebugLevel)
			}

			client := NewClient(cmd.String("url"))
			result, err := play(ctx, client, options{
				configID:    cmd.String("config"),
				sessionID:   cmd.String("continue"),
				maxMoves:    int(cmd.Int("max-moves")),
				maxAttempts: int(cmd.Int("max-attempts")),
				budget:      int(cmd.Int("budget")),
				weight:      int(cmd.Int("weight")),
			})
			if err != nil {
				return err
			}

			fields := log.Fields{"session": result.SessionID, "attempts": result.Attempts, "moves": result.Moves}
			if !result.Solved {
				log.WithFields(fields).Error("Failed to solve")
				return cli.Exit("", 1)
			}
			log.WithFields(fields).Info("Solved")
			return nil
		},
	}
}

func play(ctx context.Context, client *Client, opts options) (*outcome, error) {
	if opts.maxAttempts < 1 {
		opts.maxAttempts = 1
	}

	if opts.sessionID != "" {
		client.UseSession(opts.sessionID)
		log.WithField("session", opts.sessionID).Info("Resuming session")
	} else {
		if _, err := client.CreateSession(ctx, opts.configID); err != nil {
			return nil, err
		}
		log.WithField("session", client.SessionID()).Info("Session created")
	}

	result := &outcome{SessionID: client.SessionID()}

	for result.Attempts < opts.maxAttempts {
		result.Attempts++
		logger := log.WithFields(log.Fields{"session": client.SessionID(), "attempt": result.Attempts})

		var state *engine.GameState
		var err error
		if result.Attempts > 1 {
			state, err = client.Shuffle(ctx)
		} else {
			state, err = client.GetState(ctx)
		}
		if err != nil {
			return result, err
		}
		if state.Solved {
			result.Solved = true
			return result, nil
		}

		p := &planner{
			width:  state.Width,
			height: state.Height,
			blanks: state.BlankCount,
			budget: opts.budget,
			weight: opts.weight,
		}
		plan, err := p.Plan(state.Tiles)
		switch {
		case errors.Is(err, ErrUnreachable), errors.Is(err, ErrBudgetExhausted):
			logger.WithError(err).Warn("No plan found, reshuffling")
			continue
		case err != nil:
			return result, err
		}
		if opts.maxMoves > 0 && len(plan) > opts.maxMoves {
			logger.WithField("plan", len(plan)).Warn("Plan exceeds max moves, reshuffling")
			continue
		}
		logger.WithField("plan", len(plan)).Debug("Plan found")

		bulk, err := client.BulkActivate(ctx, indices(plan))
		if err != nil {
			return result, err
		}
		if bulk == nil {
			return result, errors.New("no activations sent")
		}
		result.Moves = bulk.EndMoveCount
		if bulk.Solved {
			result.Solved = true
			return result, nil
		}
		logger.WithFields(log.Fields{
			"stopped": bulk.StoppedReason,
			"moves":   bulk.EndMoveCount,
		}).Warn("Plan did not solve the puzzle")
	}

	return result, nil
}
