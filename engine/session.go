package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/parser"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/source"
	"github.com/arjunmahishi/tsxreview/types"
)

// Input is one file to analyze.
type Input struct {
	Path string
	Text []byte
}

// Cache stores parsed units across sessions. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(path string, text []byte) (*source.Unit, bool)
	Add(path string, text []byte, unit *source.Unit)
}

// ParserFactory builds a parser for a language. Each worker calls it at
// most once per language and never shares the result.
type ParserFactory func(language lang.Language) (source.Parser, error)

// Option configures a Session.
type Option func(*Session)

// WithJobs sets the number of parallel workers. Values below 1 mean
// runtime.NumCPU().
func WithJobs(n int) Option {
	return func(s *Session) { s.jobs = n }
}

// WithMaxDepth sets the traversal depth guard.
func WithMaxDepth(n int) Option {
	return func(s *Session) { s.maxDepth = n }
}

// WithSettings sets per-rule severities, thresholds and lists.
func WithSettings(settings rule.Settings) Option {
	return func(s *Session) { s.settings = settings }
}

// WithFiles sets the project file set used by co-location rules. By
// default it is built from the input paths.
func WithFiles(files *rule.FileSet) Option {
	return func(s *Session) { s.files = files }
}

// WithCache enables reuse of parsed units.
func WithCache(c Cache) Option {
	return func(s *Session) { s.cache = c }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithParserFactory replaces the tree-sitter parser.
func WithParserFactory(f ParserFactory) Option {
	return func(s *Session) { s.newParser = f }
}

// Session analyzes a batch of inputs against one registry.
type Session struct {
	reg       *rule.Registry
	jobs      int
	maxDepth  int
	settings  rule.Settings
	files     *rule.FileSet
	cache     Cache
	logger    *slog.Logger
	newParser ParserFactory
}

// NewSession creates a session over the enabled rules of reg.
func NewSession(reg *rule.Registry, opts ...Option) *Session {
	s := &Session{
		reg:      reg,
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
		newParser: func(l lang.Language) (source.Parser, error) {
			return parser.New(l), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.jobs < 1 {
		s.jobs = runtime.NumCPU()
	}
	return s
}

// classify resolves category and effective severity for rule ids,
// including the engine's own.
func (s *Session) classify(id string) (types.Category, types.Severity) {
	switch id {
	case ParseErrorID:
		return types.CategoryEngine, types.SeverityError
	case ExcessiveDepthID:
		return types.CategoryEngine, types.SeverityWarning
	}
	r, ok := s.reg.Lookup(id)
	if !ok {
		return types.CategoryEngine, types.SeverityError
	}
	return r.Category(), s.settings.SeverityFor(r)
}

type fileResult struct {
	path      string
	collector *Collector
	entries   map[string][]rule.Entry
	skipped   bool
	err       error
}

// Run analyzes inputs and returns the report. Parse failures and depth
// guard hits become findings of the affected file; an offset a rule
// reports outside its file fails the whole run. When ctx is cancelled,
// files not yet started are listed in Report.Skipped and the findings of
// finished files are kept.
func (s *Session) Run(ctx context.Context, inputs []Input) (*types.Report, error) {
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.Path] {
			return nil, fmt.Errorf("duplicate input %s", in.Path)
		}
		seen[in.Path] = true
	}

	files := s.files
	if files == nil {
		paths := make([]string, len(inputs))
		for i, in := range inputs {
			paths[i] = in.Path
		}
		files = rule.NewFileSet(paths)
	}

	results := s.runWorkers(ctx, inputs, files)
	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

	report := &types.Report{Files: make(map[string][]types.Finding, len(results))}
	collectors := make(map[string]*Collector, len(results))
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.skipped {
			report.Cancelled = true
			report.Skipped = append(report.Skipped, res.path)
			continue
		}
		collectors[res.path] = res.collector
	}
	if ctx.Err() != nil {
		report.Cancelled = true
	}

	for _, cf := range s.reg.CrossFile() {
		var entries []rule.Entry
		for _, res := range results {
			if res.skipped {
				continue
			}
			part := res.entries[cf.ID()]
			sort.SliceStable(part, func(i, j int) bool { return part[i].Span.Start < part[j].Span.Start })
			entries = append(entries, part...)
		}
		if len(entries) == 0 {
			continue
		}
		cat, sev := s.classify(cf.ID())
		for _, r := range cf.Finalize(entries) {
			c, ok := collectors[r.Path]
			if !ok {
				return nil, fmt.Errorf("rule %s reported unknown file %s", cf.ID(), r.Path)
			}
			c.AddFinding(types.Finding{
				RuleID:   cf.ID(),
				Category: cat,
				Severity: sev,
				File:     r.Path,
				Span:     r.Span,
				Range:    r.Range,
				Message:  r.Message,
				Fix:      r.Fix,
			})
		}
	}

	for p, c := range collectors {
		report.Files[p] = c.Findings()
	}
	report.Summary = summarize(report)
	return report, nil
}

// runWorkers analyzes inputs on a bounded pool. Each worker owns its
// parsers; results are gathered on a channel.
func (s *Session) runWorkers(ctx context.Context, inputs []Input, files *rule.FileSet) []fileResult {
	if len(inputs) == 0 {
		return nil
	}

	results := make(chan fileResult, 128)
	jobQueue := make(chan Input, 128)
	var wg sync.WaitGroup

	workerCount := s.jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(inputs) {
		workerCount = len(inputs)
	}

	worker := func() {
		defer wg.Done()
		parsers := make(map[string]source.Parser)
		for in := range jobQueue {
			if ctx.Err() != nil {
				results <- fileResult{path: in.Path, skipped: true}
				continue
			}
			results <- s.analyze(ctx, in, files, parsers)
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		for _, in := range inputs {
			jobQueue <- in
		}
		close(jobQueue)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []fileResult
	for res := range results {
		all = append(all, res)
	}
	return all
}

// analyze parses, traverses and collects one input.
func (s *Session) analyze(ctx context.Context, in Input, files *rule.FileSet, parsers map[string]source.Parser) fileResult {
	start := time.Now()
	res := fileResult{path: in.Path}
	logger := s.logger.With("path", in.Path)

	unit, err := s.parse(ctx, in, parsers)
	if err != nil {
		if ctx.Err() != nil {
			res.skipped = true
			return res
		}
		// the file still gets a unit so the finding can be located
		unit = source.New(in.Path, string(in.Text), nil)
		res.collector = NewCollector(unit, s.classify)
		if err := res.collector.Add(parseFragment(err, len(in.Text))); err != nil {
			res.err = err
		}
		logger.Warn("parse failed", "error", err)
		return res
	}

	res.collector = NewCollector(unit, s.classify)
	rctx := rule.NewContext(unit, files, s.settings)
	frags, err := Traverse(unit, s.reg, rctx, s.maxDepth)
	for _, f := range frags {
		if err := res.collector.Add(f); err != nil {
			res.err = err
			return res
		}
	}

	var deep *DepthError
	if errors.As(err, &deep) {
		logger.Warn("nesting too deep", "limit", deep.Limit, "offset", deep.Span.Start, "skipped", deep.Skipped)
		if err := res.collector.Add(Fragment{
			RuleID:  ExcessiveDepthID,
			Start:   deep.Span.Start,
			End:     deep.Span.End,
			Message: fmt.Sprintf("code nested deeper than %d levels was not analyzed", deep.Limit),
		}); err != nil {
			res.err = err
			return res
		}
	} else if err != nil {
		res.err = err
		return res
	}
	if err := rctx.Err(); err != nil {
		res.err = err
		return res
	}

	res.entries = rctx.Entries()
	logger.Debug("analyzed", "findings", res.collector.Len(), "duration", time.Since(start))
	return res
}

func (s *Session) parse(ctx context.Context, in Input, parsers map[string]source.Parser) (*source.Unit, error) {
	if s.cache != nil {
		if u, ok := s.cache.Get(in.Path, in.Text); ok {
			return u, nil
		}
	}

	language := lang.ForPath(in.Path)
	if language == nil {
		return nil, &parser.ParseError{Message: fmt.Sprintf("no grammar for %q files", path.Ext(in.Path))}
	}
	p, ok := parsers[language.Name()]
	if !ok {
		var err error
		p, err = s.newParser(language)
		if err != nil {
			return nil, fmt.Errorf("create %s parser: %w", language.Name(), err)
		}
		parsers[language.Name()] = p
	}

	unit, err := source.Parse(ctx, p, in.Path, string(in.Text))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(in.Path, in.Text, unit)
	}
	return unit, nil
}

// parseFragment locates a parse failure, clamped to the text.
func parseFragment(err error, size int) Fragment {
	f := Fragment{RuleID: ParseErrorID, Message: err.Error()}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		f.Start = clamp(pe.Offset, 0, size)
		f.End = clamp(pe.End, f.Start, size)
	}
	return f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func summarize(r *types.Report) types.Summary {
	sum := types.Summary{
		Files:      len(r.Files),
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, findings := range r.Files {
		sum.Findings += len(findings)
		for _, f := range findings {
			sum.BySeverity[f.Severity.String()]++
			sum.ByCategory[f.Category.String()]++
		}
	}
	return sum
}
