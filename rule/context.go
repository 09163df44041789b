package rule

import (
	"path"
	"sort"
	"strings"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/source"
	"github.com/arjunmahishi/tsxreview/types"
)

// Settings carries per-rule configuration. All maps are keyed by rule id.
type Settings struct {
	Severity   map[string]types.Severity
	Thresholds map[string]float64
	Lists      map[string][]string
}

// SeverityFor returns the effective severity of r.
func (s Settings) SeverityFor(r Rule) types.Severity {
	if sev, ok := s.Severity[r.ID()]; ok {
		return sev
	}
	return r.DefaultSeverity()
}

// FileSet is the set of project paths, slash separated, used by rules that
// check for co-located files. Paths need not be analyzable sources.
type FileSet struct {
	paths map[string]struct{}
}

// NewFileSet builds a FileSet from paths.
func NewFileSet(paths []string) *FileSet {
	fs := &FileSet{paths: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		fs.paths[clean(p)] = struct{}{}
	}
	return fs
}

// Has reports whether p is in the set.
func (fs *FileSet) Has(p string) bool {
	if fs == nil {
		return false
	}
	_, ok := fs.paths[clean(p)]
	return ok
}

// Dir returns the base names of the files directly inside dir, sorted.
func (fs *FileSet) Dir(dir string) []string {
	if fs == nil {
		return nil
	}
	dir = clean(dir)
	var names []string
	for p := range fs.paths {
		if path.Dir(p) == dir {
			names = append(names, path.Base(p))
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of paths.
func (fs *FileSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.paths)
}

func clean(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// Context is handed to every Check call for one unit. It is created fresh
// per unit and owned by the worker analyzing it.
type Context struct {
	Unit  *source.Unit
	Files *FileSet

	settings Settings
	current  Rule
	entries  map[string][]Entry
	err      error
}

// NewContext creates the context for one unit.
func NewContext(unit *source.Unit, files *FileSet, settings Settings) *Context {
	return &Context{
		Unit:     unit,
		Files:    files,
		settings: settings,
	}
}

// Enter sets the rule whose Check is about to run. Threshold, List and
// Declare resolve against it.
func (c *Context) Enter(r Rule) {
	c.current = r
}

// Path returns the unit path with forward slashes.
func (c *Context) Path() string {
	return clean(c.Unit.Path)
}

// Text returns the source text of n.
func (c *Context) Text(n *ast.Node) string {
	return c.Unit.Content(n)
}

// Threshold returns the configured numeric threshold for the current rule
// or def when none is set.
func (c *Context) Threshold(def float64) float64 {
	if c.current == nil {
		return def
	}
	if v, ok := c.settings.Thresholds[c.current.ID()]; ok {
		return v
	}
	return def
}

// List returns the configured list for the current rule or def.
func (c *Context) List(def []string) []string {
	if c.current == nil {
		return def
	}
	if v, ok := c.settings.Lists[c.current.ID()]; ok {
		return v
	}
	return def
}

// Declare records a cross-file entry for the current rule. Entries are
// kept per unit and merged by the session after all units are analyzed.
func (c *Context) Declare(key string, n *ast.Node) {
	if c.current == nil {
		return
	}
	span := types.Span{Start: n.Start, End: n.End}
	rng, err := c.Unit.ResolveSpan(span)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	if c.entries == nil {
		c.entries = make(map[string][]Entry)
	}
	id := c.current.ID()
	c.entries[id] = append(c.entries[id], Entry{
		Key:   key,
		Path:  c.Unit.Path,
		Span:  span,
		Range: rng,
	})
}

// Err returns the first span resolution failure seen by Declare.
func (c *Context) Err() error {
	return c.err
}

// Entries returns the cross-file entries recorded for this unit.
func (c *Context) Entries() map[string][]Entry {
	return c.entries
}
