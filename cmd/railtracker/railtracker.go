package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/railtracker/backend/internal/livefeed"
	"github.com/railtracker/backend/internal/repository/postgres"
	"github.com/railtracker/backend/internal/synth"
)

func main() {
	if os.Getenv("RAILTRACKER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("RAILTRACKER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "railtracker",
		Description: "Train search, weather alerts and live progress for Indian railway routes",

		Commands: []*cli.Command{
			serveCommand(),
			synth.RegisterCLI(),
			livefeed.RegisterCLI(),
			postgres.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
