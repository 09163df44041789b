package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/tsxreview/config"
	"github.com/arjunmahishi/tsxreview/output"
	"github.com/arjunmahishi/tsxreview/tsxreview"
)

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "list the built-in rules",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "output format: json or text",
			},
			compactFlag(),
		},
		Action: runRules,
	}
}

func runRules(_ context.Context, cmd *cli.Command) error {
	format, err := output.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	cfg, _, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	infos, err := tsxreview.Rules(cfg)
	if err != nil {
		return err
	}

	if format == output.FormatJSON {
		return output.New(output.Config{Compact: cmd.Bool("compact"), Output: cmd.Root().Writer}).Write(infos)
	}

	tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		state := "on"
		if !info.Enabled {
			state = "off"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.ID, info.Category, info.Severity, state, info.Description)
	}
	return tw.Flush()
}
