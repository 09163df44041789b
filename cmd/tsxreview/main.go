package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/tsxreview/output"
)

// errFindings reports that findings at or above --fail-on were produced.
// The report has already been written.
var errFindings = errors.New("findings at or above the failure threshold")

func main() {
	ctx, stop := interruptContext()
	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(2)
		}
		output.WriteError("%s", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "tsxreview",
		Usage: "review TypeScript and TSX frontend code against naming, structure and component rules",
		Commands: []*cli.Command{
			checkCommand(),
			rulesCommand(),
			queryCommand(),
		},
	}
}

// interruptContext is cancelled on SIGINT or SIGTERM, so an interrupted
// check still reports the files it finished.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "config file (default: $TSXREVIEW_CONFIG or .tsxreview.yaml)",
	}
}

func compactFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "compact",
		Usage: "print JSON on a single line",
	}
}
