// Package scanner discovers TypeScript and TSX sources under a project root
// and reads them for analysis.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/arjunmahishi/tsxreview/engine"
	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/types"
)

// DefaultIgnoreDirs returns the default list of directories to ignore.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":             {},
		".hg":              {},
		".svn":             {},
		".jj":              {},
		"node_modules":     {},
		"vendor":           {},
		"dist":             {},
		"build":            {},
		"out":              {},
		".next":            {},
		".nuxt":            {},
		".cache":           {},
		".turbo":           {},
		".vite":            {},
		"storybook-static": {},
		"coverage":         {},
	}
}

// Config holds scanner configuration.
type Config struct {
	Root       string
	IgnoreDirs map[string]struct{}
	// MaxBytes skips sources larger than this. Zero means no limit.
	MaxBytes int64
	// Jobs bounds concurrent file reads. Zero means runtime.NumCPU().
	Jobs int
}

// Result is the outcome of a scan.
type Result struct {
	// Inputs are the analyzable sources, in walk order.
	Inputs []engine.Input
	// Files lists every project file seen, analyzable or not, with slash
	// separated display paths.
	Files []string
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg Config
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) *Scanner {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = runtime.NumCPU()
	}
	return &Scanner{cfg: cfg}
}

// Collect walks the root and reads every supported source.
func (s *Scanner) Collect(ctx context.Context) (*Result, error) {
	absRoot, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	res := &Result{}
	var jobs []types.FileJob
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == absRoot {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			rel = p
		}
		display := filepath.ToSlash(rel)
		res.Files = append(res.Files, display)

		if lang.ForPath(d.Name()) == nil || s.tooLarge(d) {
			return nil
		}
		jobs = append(jobs, types.FileJob{AbsPath: p, DisplayPath: display})
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Inputs, err = s.read(ctx, jobs)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CollectFiles reads the named files. The project file set is made of the
// files in their directories, so co-location checks still apply.
func (s *Scanner) CollectFiles(ctx context.Context, paths ...string) (*Result, error) {
	res := &Result{}
	jobs := make([]types.FileJob, 0, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
		if lang.ForPath(p) == nil {
			return nil, fmt.Errorf("%s: not a TypeScript or TSX source", p)
		}
		display := path.Clean(filepath.ToSlash(p))
		jobs = append(jobs, types.FileJob{AbsPath: absPath, DisplayPath: display})

		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				res.Files = append(res.Files, path.Join(path.Dir(display), e.Name()))
			}
		}
	}

	var err error
	res.Inputs, err = s.read(ctx, jobs)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// read loads jobs concurrently, keeping their order.
func (s *Scanner) read(ctx context.Context, jobs []types.FileJob) ([]engine.Input, error) {
	inputs := make([]engine.Input, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := os.ReadFile(job.AbsPath)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			inputs[i] = engine.Input{Path: job.DisplayPath, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func (s *Scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}

func (s *Scanner) tooLarge(d fs.DirEntry) bool {
	if s.cfg.MaxBytes <= 0 {
		return false
	}
	info, err := d.Info()
	if err != nil {
		// Skip files we can't stat
		return true
	}
	return info.Size() > s.cfg.MaxBytes
}
