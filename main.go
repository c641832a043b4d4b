package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/traci-dashboard/cmd"
)

//go:generate go tool oapi-codegen --config=./gen/config.yaml ./gen/api.yaml

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "traci-dashboard",
		Usage: "scrape a traci sensor listing into a rolling history and present it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the dashboard with scheduled refreshes",
				Action: cmd.ServeCommand,
			},
			{
				Name:   "refresh",
				Usage:  "fetch the listing once and update the history file",
				Action: cmd.RefreshCommand,
			},
			{
				Name:   "tail",
				Usage:  "print the most recent stored records",
				Action: cmd.TailCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "n",
						EnvVars: []string{"TAIL_SIZE"},
						Value:   10,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "write the stored history to an xlsx workbook",
				Action: cmd.ExportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
					},
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
