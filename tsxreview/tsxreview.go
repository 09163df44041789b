// Package tsxreview reviews TypeScript and TSX frontend sources against the
// built-in naming, structure and component design rules.
package tsxreview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/arjunmahishi/tsxreview/cache"
	"github.com/arjunmahishi/tsxreview/config"
	"github.com/arjunmahishi/tsxreview/engine"
	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/rules"
	"github.com/arjunmahishi/tsxreview/scanner"
	"github.com/arjunmahishi/tsxreview/types"
)

const defaultMaxBytes = 2 * 1024 * 1024

// Check scans the project, or the listed files, and returns the review
// report.
func Check(ctx context.Context, opts Options) (*types.Report, error) {
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Jobs == 0 {
		opts.Jobs = opts.Config.Jobs
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	reg, err := opts.Config.Registry(rules.All())
	if err != nil {
		return nil, err
	}
	settings, err := opts.Config.Settings()
	if err != nil {
		return nil, err
	}
	units := opts.Cache
	if units == nil {
		units, err = cache.New(opts.Config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create cache: %w", err)
		}
	}

	sc := scanner.New(scanner.Config{
		Root:     opts.Path,
		MaxBytes: opts.MaxBytes,
		Jobs:     opts.Jobs,
	})
	var res *scanner.Result
	if len(opts.Files) > 0 {
		res, err = sc.CollectFiles(ctx, opts.Files...)
	} else {
		res, err = sc.Collect(ctx)
	}
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("scanned", "inputs", len(res.Inputs), "files", len(res.Files))

	session := engine.NewSession(reg,
		engine.WithJobs(opts.Jobs),
		engine.WithMaxDepth(opts.Config.MaxDepth),
		engine.WithSettings(settings),
		engine.WithFiles(rule.NewFileSet(res.Files)),
		engine.WithCache(units),
		engine.WithLogger(opts.Logger),
	)
	return session.Run(ctx, res.Inputs)
}

// RuleInfo describes a built-in rule.
type RuleInfo struct {
	ID          string         `json:"id"`
	Category    types.Category `json:"category"`
	Severity    types.Severity `json:"severity"`
	Enabled     bool           `json:"enabled"`
	Description string         `json:"description"`
}

// Rules lists the built-in rules in declared order, with the severity and
// enablement cfg gives them. A nil cfg means config.Default().
func Rules(cfg *config.Config) ([]RuleInfo, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	reg, err := cfg.Registry(rules.All())
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	out := make([]RuleInfo, 0, len(reg.All()))
	for _, r := range reg.All() {
		out = append(out, RuleInfo{
			ID:          r.ID(),
			Category:    r.Category(),
			Severity:    settings.SeverityFor(r),
			Enabled:     reg.Enabled(r.ID()),
			Description: r.Description(),
		})
	}
	return out, nil
}

// Query executes a custom tree-sitter query and returns matches.
func Query(ctx context.Context, opts QueryOptions) ([]types.QueryMatch, error) {
	if opts.Query == "" {
		return nil, errors.New("query is required")
	}
	if opts.Language == "" {
		opts.Language = "tsx"
	}
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = defaultMaxBytes
	}

	language := lang.Get(opts.Language)
	if language == nil {
		return nil, errors.New(opts.Language + " language not registered")
	}

	sc := scanner.New(scanner.Config{Root: opts.Path, MaxBytes: opts.MaxBytes, Jobs: opts.Jobs})
	var (
		res *scanner.Result
		err error
	)
	if opts.File != "" {
		res, err = sc.CollectFiles(ctx, opts.File)
	} else {
		res, err = sc.Collect(ctx)
	}
	if err != nil {
		return nil, err
	}

	var inputs []engine.Input
	for _, in := range res.Inputs {
		if lang.ForPath(in.Path) == language {
			inputs = append(inputs, in)
		}
	}
	if len(inputs) == 0 {
		return []types.QueryMatch{}, nil
	}
	return runQueryWorkers(ctx, language, opts.Query, inputs, opts.Jobs)
}
