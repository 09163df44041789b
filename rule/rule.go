// Package rule defines the capability every check implements, the context
// checks run in and the registry that indexes enabled checks by node kind.
package rule

import (
	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/types"
)

// Rule is a self-contained check. Check must be a pure function of its
// arguments: it may not mutate the tree, the context's unit or any state
// shared with other rules.
type Rule interface {
	// ID returns the stable identifier, e.g. "naming.boolean-prefix".
	ID() string

	// Category returns the group the rule belongs to.
	Category() types.Category

	// Description is a one-line summary shown by `tsxreview rules`.
	Description() string

	// DefaultSeverity is used unless configuration overrides it.
	DefaultSeverity() types.Severity

	// Kinds lists the node kinds that trigger Check.
	Kinds() []ast.Kind

	// Check inspects one node and returns fragments with offsets
	// relative to n.Start.
	Check(n *ast.Node, ctx *Context) []Fragment
}

// CrossFile is implemented by rules that need every file before they can
// report. During traversal they record entries with Context.Declare; once
// all files are done Finalize receives the merged entries, ordered by
// path then offset, and returns findings.
type CrossFile interface {
	Rule
	Finalize(entries []Entry) []Report
}

// Fragment is a finding produced by Check before it is located in the
// file. Start and End are relative to the checked node.
type Fragment struct {
	Start   int
	End     int
	Message string
	Fix     string
}

// Entry is one cross-file record.
type Entry struct {
	Key   string
	Path  string
	Span  types.Span
	Range types.Range
}

// Report is a finding produced by a cross-file rule.
type Report struct {
	Path    string
	Span    types.Span
	Range   types.Range
	Message string
	Fix     string
}

// At returns a fragment covering target, relative to the checked node n.
func At(n, target *ast.Node, message string) Fragment {
	return Fragment{
		Start:   target.Start - n.Start,
		End:     target.End - n.Start,
		Message: message,
	}
}

// WithFix returns a copy of f carrying a suggested replacement.
func (f Fragment) WithFix(fix string) Fragment {
	f.Fix = fix
	return f
}

// Base provides the descriptive half of Rule for embedding.
type Base struct {
	RuleID       string
	RuleCategory types.Category
	Summary      string
	Severity     types.Severity
	Triggers     []ast.Kind
}

func (b Base) ID() string                      { return b.RuleID }
func (b Base) Category() types.Category        { return b.RuleCategory }
func (b Base) Description() string             { return b.Summary }
func (b Base) DefaultSeverity() types.Severity { return b.Severity }
func (b Base) Kinds() []ast.Kind               { return b.Triggers }
