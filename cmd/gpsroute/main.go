package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"gpsroute/internal/config"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatalf("gpsroute: %v", err)
	}
}

func newApp(out io.Writer) *cli.App {
	cfg := config.Default()

	return &cli.App{
		Name:                   "gpsroute",
		Usage:                  "Route length and metrics from NMEA logs and GPX files",
		UseShortOptionHandling: true,
		Writer:                 out,
		ErrWriter:              out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Route catalogue database, overrides store.path",
			},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("config"); path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return fmt.Errorf("config load failed: %w", err)
				}
				cfg = loaded
			}
			if db := c.String("db"); db != "" {
				cfg.Store.Path = db
			}
			return nil
		},
		Commands: []*cli.Command{
			lengthCommand(&cfg),
			positionsCommand(&cfg),
			statsCommand(),
			gridworldCommand(&cfg),
			importCommand(&cfg),
			routesCommand(&cfg),
			serveCommand(&cfg),
		},
	}
}
