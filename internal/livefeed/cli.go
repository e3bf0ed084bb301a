package livefeed

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/repository/static"
)

// RegisterCLI returns the simulate command
func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "run the live-progress feed in the terminal",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "ticks",
				Usage: "stop after this many ticks (0 runs until interrupted)",
			},
			&cli.DurationFlag{
				Name:  "period",
				Usage: "time between ticks",
				Value: DefaultPeriod,
			},
		},
		Action: func(c *cli.Context) error {
			tables, err := static.NewRepository().LoadTables(c.Context)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			maxTicks := uint64(max(c.Int("ticks"), 0))

			tracker := NewTracker(tables.LiveSeed,
				WithPeriod(c.Duration("period")),
				WithObserver(func(snapshot []domain.LiveTrain, tick uint64) {
					for _, train := range snapshot {
						log.Info().
							Uint64("tick", tick).
							Str("number", train.Number).
							Str("status", string(train.Status)).
							Int("progress", DisplayProgress(train.Progress)).
							Str("next", train.NextStation).
							Msg(train.Name)
					}
					if maxTicks > 0 && tick >= maxTicks {
						cancel()
					}
				}),
			)

			log.Info().Dur("period", tracker.Period()).Int("trains", len(tables.LiveSeed)).Msg("Simulating live feed")

			if err := tracker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		},
	}
}
