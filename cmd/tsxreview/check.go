package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/tsxreview/config"
	"github.com/arjunmahishi/tsxreview/output"
	"github.com/arjunmahishi/tsxreview/tsxreview"
	"github.com/arjunmahishi/tsxreview/types"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "review a project or a set of files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "project root to scan",
			},
			&cli.StringSliceFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "file to check; repeat to check several",
			},
			configFlag(),
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "number of parallel workers (default: config jobs or number of CPUs)",
			},
			&cli.Int64Flag{
				Name:  "max-bytes",
				Value: 2 * 1024 * 1024,
				Usage: "skip files larger than this",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "output format: json or text",
			},
			compactFlag(),
			&cli.StringFlag{
				Name:  "fail-on",
				Value: "error",
				Usage: "exit 2 when a finding has this severity or higher: info, warning, error or none",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log per-file progress to stderr",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	failOn, fail, err := parseFailOn(cmd.String("fail-on"))
	if err != nil {
		return err
	}

	logger := newLogger(cmd.Bool("verbose"))
	cfg, cfgPath, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	opts := tsxreview.Options{
		Path:     cmd.String("path"),
		Files:    cmd.StringSlice("file"),
		Config:   cfg,
		MaxBytes: cmd.Int64("max-bytes"),
		Logger:   logger,
	}
	if cmd.IsSet("jobs") {
		opts.Jobs = cmd.Int("jobs")
	}

	report, err := tsxreview.Check(ctx, opts)
	if err != nil {
		return err
	}

	w := output.New(output.Config{Compact: cmd.Bool("compact"), Format: format, Output: cmd.Root().Writer})
	if err := w.WriteReport(report); err != nil {
		return err
	}

	if top, ok := report.Max(); fail && ok && top >= failOn {
		return errFindings
	}
	return nil
}

// parseFailOn returns the failure threshold; "none" disables it.
func parseFailOn(s string) (types.Severity, bool, error) {
	if s == "none" {
		return 0, false, nil
	}
	sev, err := types.ParseSeverity(s)
	if err != nil {
		return 0, false, fmt.Errorf("--fail-on: %w", err)
	}
	return sev, true, nil
}
