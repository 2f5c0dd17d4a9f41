package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/gridfile"
)

// main is the entrypoint for the gridflow application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cliApp := &cli.App{
		Name:      "gridflow",
		Usage:     "execute a grid of dependent tasks concurrently",
		ArgsUsage: "[grid path]",
		Writer:    outW,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "grid",
				Aliases: []string{"g"},
				Usage:   "path to a grid file or directory of grid files",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 4,
				Usage: "number of concurrent workers (0 runs tasks on the calling goroutine)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log format: text or json",
			},
			&cli.IntFlag{
				Name:  "healthcheck-port",
				Usage: "port for the health check HTTP server (0 disables it)",
			},
			&cli.BoolFlag{
				Name:  "check-cycles",
				Usage: "validate the grid for dependency cycles before execution",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print the task graph before execution",
			},
		},
		Action: func(c *cli.Context) error {
			gridPath := c.String("grid")
			if gridPath == "" {
				gridPath = c.Args().First()
			}

			config, err := app.NewConfig(app.Config{
				GridPath:        gridPath,
				LogFormat:       c.String("log-format"),
				LogLevel:        c.String("log-level"),
				HealthcheckPort: c.Int("healthcheck-port"),
				WorkerCount:     c.Int("workers"),
				CheckCycles:     c.Bool("check-cycles"),
				DumpGraph:       c.Bool("dump"),
			})
			if err != nil {
				return err
			}

			gridApp, err := app.NewApp(outW, config, gridfile.NewLoader())
			if err != nil {
				return err
			}
			return gridApp.Run(c.Context)
		},
	}

	return cliApp.RunContext(context.Background(), args)
}
