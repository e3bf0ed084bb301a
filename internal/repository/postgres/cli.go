package postgres

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/railtracker/backend/internal/repository/static"
)

// RegisterCLI returns the db command for managing the reference schema
func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "manage the PostgreSQL reference store",
		Subcommands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "create the schema and load the embedded reference tables",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-url",
						Usage:    "PostgreSQL connection string",
						EnvVars:  []string{"DATABASE_URL"},
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "connect-timeout",
						Usage: "how long to wait for the database to come up",
						Value: defaultConnectTimeout,
					},
				},
				Action: func(c *cli.Context) error {
					doc, err := static.NewRepository().Document()
					if err != nil {
						return err
					}
					if _, err := doc.Tables(); err != nil {
						return err
					}

					pool, err := Connect(c.Context, c.String("database-url"), c.Duration("connect-timeout"))
					if err != nil {
						return err
					}
					defer pool.Close()

					if err := NewPostgresRepository(pool).Seed(c.Context, doc); err != nil {
						return err
					}

					log.Info().
						Int("catalog", len(doc.Catalog)).
						Int("routes", len(doc.Routes)).
						Msg("Seeded reference tables")
					return nil
				},
			},
		},
	}
}
