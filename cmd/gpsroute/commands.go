package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"gpsroute/internal/config"
	"gpsroute/internal/gpx"
	"gpsroute/internal/gridworld"
	"gpsroute/internal/nmea"
	"gpsroute/internal/position"
	"gpsroute/internal/route"
	"gpsroute/internal/store"
	"gpsroute/internal/web"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Input format: auto, nmea or gpx (default from config)",
	}
}

func granularityFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:    "granularity",
		Aliases: []string{"g"},
		Usage:   "Minimum metres between accepted points (default from config)",
	}
}

// routeOptions resolves the format and granularity flags against cfg.
func routeOptions(c *cli.Context, cfg *config.Config) (route.Source, []route.Option, error) {
	format := cfg.Route.Format
	if c.IsSet("format") {
		format = c.String("format")
	}
	src, err := route.ParseSource(format)
	if err != nil {
		return "", nil, err
	}
	g := cfg.Route.GranularityM
	if c.IsSet("granularity") {
		g = c.Float64("granularity")
	}
	if math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
		return "", nil, errors.New("granularity must be a finite number >= 0")
	}
	return src, []route.Option{route.WithGranularity(g)}, nil
}

func lengthCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "length",
		Usage:     "Prints the length and metrics of each route file.",
		ArgsUsage: "FILE...",
		Flags:     []cli.Flag{formatFlag(), granularityFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("at least one route file is required")
			}
			src, opts, err := routeOptions(c, cfg)
			if err != nil {
				return err
			}
			for i, path := range c.Args().Slice() {
				r, used, err := route.Load(path, src, opts...)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if i > 0 {
					fmt.Fprintln(c.App.Writer)
				}
				printRouteSummary(c.App.Writer, path, used, r.Summary())
			}
			return nil
		},
	}
}

func positionsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "positions",
		Usage:     "Prints one lat,lon,ele line per position of a route file.",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "accepted",
				Usage: "Only print positions accepted by the granularity filter.",
			},
			granularityFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("exactly one route file is required")
			}
			src, opts, err := routeOptions(c, cfg)
			if err != nil {
				return err
			}
			r, _, err := route.Load(c.Args().First(), src, opts...)
			if err != nil {
				return err
			}
			pts := r.Positions()
			if c.Bool("accepted") {
				pts = r.AcceptedPositions()
			}
			for _, p := range pts {
				fmt.Fprintln(c.App.Writer, p.String())
			}
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Summarises how each line of an NMEA log was handled.",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("exactly one log file is required")
			}
			return printLogStats(c.App.Writer, c.Args().First())
		},
	}
}

func gridworldCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:        "gridworld",
		Usage:       "Writes synthetic routes over a 5x5 lettered grid.",
		Description: "Each NAME=LETTERS argument becomes NAME.gpx (and NAME.log with --nmea), visiting the grid letters A-Y in order.",
		ArgsUsage:   "NAME=LETTERS...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "Output directory.",
			},
			&cli.StringFlag{
				Name:  "nmea",
				Usage: "Also write an NMEA log using gll, rmc or gga sentences.",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("at least one NAME=LETTERS argument is required")
			}
			var logFormat nmea.Format
			if s := c.String("nmea"); s != "" {
				f, err := nmea.ParseFormat(s)
				if err != nil {
					return err
				}
				logFormat = f
			}
			dir := c.String("out")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			world := gridWorld(cfg.Grid)
			for _, arg := range c.Args().Slice() {
				name, letters, ok := strings.Cut(arg, "=")
				if !ok || name == "" {
					return fmt.Errorf("%q: want NAME=LETTERS", arg)
				}
				pts, err := world.Route(strings.ToUpper(letters))
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				gpxPath := filepath.Join(dir, name+".gpx")
				if err := writeGPXFile(gpxPath, name, "grid route "+strings.ToUpper(letters), pts); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", gpxPath)
				if logFormat == nmea.FormatUnsupported {
					continue
				}
				logPath := filepath.Join(dir, name+".log")
				if err := writeNMEAFile(logPath, logFormat, pts); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", logPath)
			}
			return nil
		},
	}
}

func gridWorld(g config.GridConfig) gridworld.World {
	return gridworld.World{
		Centre:         position.New(g.CentreLatDeg, g.CentreLonDeg, g.CentreEleM),
		HorizontalUnit: g.HorizontalUnitM,
		VerticalUnit:   g.VerticalUnitM,
	}
}

func writeGPXFile(path, name, desc string, pts []position.Position) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gpx.Write(f, name, desc, pts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeNMEAFile(path string, format nmea.Format, pts []position.Position) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w, err := nmea.NewWriter(f, format)
	if err != nil {
		_ = f.Close()
		return err
	}
	at := time.Now().UTC().Truncate(time.Second)
	for _, p := range pts {
		if err := w.WritePosition(at, p); err != nil {
			_ = f.Close()
			return err
		}
		at = at.Add(time.Minute)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func importCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Stores a route file in the route catalogue.",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			formatFlag(),
			granularityFlag(),
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Route name, defaults to the GPX name or the file name.",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("exactly one route file is required")
			}
			path := c.Args().First()
			src, opts, err := routeOptions(c, cfg)
			if err != nil {
				return err
			}
			r, used, err := route.Load(path, src, opts...)
			if err != nil {
				return err
			}
			name := c.String("name")
			if name == "" && r.Name() == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if name != "" {
				r = route.New(r.Positions(), append(opts, route.WithName(name), route.WithDescription(r.Description()))...)
			}

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Save(c.Context, string(used), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "stored route %d: %s (%d positions, %.1f m)\n", rec.ID, rec.Name, rec.NumPositions, rec.TotalLengthM)
			return nil
		},
	}
}

func routesCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "Lists the route catalogue.",
		Action: func(c *cli.Context) error {
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(c.Context)
			if err != nil {
				return err
			}
			printRouteRecords(c.App.Writer, recs)
			return nil
		},
	}
}

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Runs the HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Listen address, overrides web.listen.",
			},
		},
		Action: func(c *cli.Context) error {
			addr := cfg.Web.Listen
			if c.IsSet("listen") {
				addr = c.String("listen")
			}
			src, err := route.ParseSource(cfg.Route.Format)
			if err != nil {
				return err
			}

			logs := web.NewLogBuffer(0)
			log.SetOutput(io.MultiWriter(os.Stderr, logs))

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.Printf("gpsroute starting")
			log.Printf("store=%s granularity=%.1fm format=%s", cfg.Store.Path, cfg.Route.GranularityM, src)
			h := web.NewRouteHandler(st, cfg.Route.GranularityM, src, cfg.Web.MaxBodyBytes)
			err = web.ListenAndServe(ctx, addr, web.NewRouter(h, logs))
			log.Printf("gpsroute stopping")
			return err
		},
	}
}
