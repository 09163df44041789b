package main

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/tsxreview/output"
	"github.com/arjunmahishi/tsxreview/tsxreview"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "run a tree-sitter query over TypeScript or TSX files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "tree-sitter query string",
			},
			&cli.StringFlag{
				Name:  "query-file",
				Usage: "path to a tree-sitter query file",
			},
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Value:   "tsx",
				Usage:   "grammar: tsx or typescript",
			},
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "root path to scan",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "single file to query",
			},
			compactFlag(),
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "number of parallel workers",
			},
			&cli.Int64Flag{
				Name:  "max-bytes",
				Value: 2 * 1024 * 1024,
				Usage: "skip files larger than this",
			},
		},
		Action: runQuery,
	}
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	querySource, err := resolveQuery(cmd.String("query"), cmd.String("query-file"))
	if err != nil {
		return err
	}

	matches, err := tsxreview.Query(ctx, tsxreview.QueryOptions{
		Query:    querySource,
		Language: cmd.String("lang"),
		Path:     cmd.String("path"),
		File:     cmd.String("file"),
		Jobs:     cmd.Int("jobs"),
		MaxBytes: cmd.Int64("max-bytes"),
	})
	if err != nil {
		return err
	}
	return output.New(output.Config{Compact: cmd.Bool("compact"), Output: cmd.Root().Writer}).Write(matches)
}

func resolveQuery(text, filePath string) (string, error) {
	if text != "" && filePath != "" {
		return "", errors.New("use --query or --query-file, not both")
	}
	if text != "" {
		return text, nil
	}
	if filePath == "" {
		return "", errors.New("--query or --query-file is required")
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
