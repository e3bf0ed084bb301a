package synth

import (
	"encoding/json"
	"fmt"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"

	"github.com/railtracker/backend/internal/domain"
	"github.com/railtracker/backend/internal/repository/static"
)

// RegisterCLI returns the generate command
func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "print the train listing for a station pair",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Usage:    "origin station label",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "destination station label",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: json, csv or pretty",
				Value: "json",
			},
		},
		Action: func(c *cli.Context) error {
			tables, err := static.NewRepository().LoadTables(c.Context)
			if err != nil {
				return err
			}

			result := Generate(tables, domain.Route{From: c.String("from"), To: c.String("to")})
			out := c.App.Writer

			switch c.String("format") {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			case "csv":
				return WriteCSV(out, result)
			case "pretty":
				_, err := pretty.Fprintf(out, "%# v\n", result)
				return err
			default:
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
		},
	}
}
