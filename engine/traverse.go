// Package engine runs registered rules over parsed units and turns their
// output into an ordered, located report.
package engine

import (
	"errors"
	"fmt"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/source"
	"github.com/arjunmahishi/tsxreview/types"
)

// DefaultMaxDepth is the nesting depth beyond which Traverse stops
// descending.
const DefaultMaxDepth = 2048

// ErrExcessiveDepth matches any *DepthError.
var ErrExcessiveDepth = errors.New("excessive nesting depth")

// DepthError reports that part of a tree was not visited because it is
// nested deeper than the limit.
type DepthError struct {
	Limit int
	// Span is the first node that was not visited.
	Span types.Span
	// Skipped counts the subtrees that were not visited.
	Skipped int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("nesting deeper than %d at offset %d", e.Limit, e.Span.Start)
}

func (e *DepthError) Is(target error) bool {
	return target == ErrExcessiveDepth
}

// Fragment is a rule result located by absolute byte offsets.
type Fragment struct {
	RuleID  string
	Start   int
	End     int
	Message string
	Fix     string
}

type frame struct {
	node  *ast.Node
	depth int
}

// Traverse walks unit's tree once in pre-order and runs, at every node,
// the rules reg subscribes to the node's kind, in registry order. Subtrees
// deeper than maxDepth are skipped and reported as *DepthError alongside
// the fragments of everything that was visited. maxDepth <= 0 means
// DefaultMaxDepth.
func Traverse(unit *source.Unit, reg *rule.Registry, ctx *rule.Context, maxDepth int) ([]Fragment, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if unit.Root == nil {
		return nil, nil
	}

	var (
		out   []Fragment
		deep  *DepthError
		stack = []frame{{node: unit.Root}}
	)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.depth > maxDepth {
			if deep == nil {
				deep = &DepthError{
					Limit: maxDepth,
					Span:  types.Span{Start: cur.node.Start, End: cur.node.End},
				}
			}
			deep.Skipped++
			continue
		}

		n := cur.node
		for _, r := range reg.For(n.Kind) {
			ctx.Enter(r)
			for _, f := range r.Check(n, ctx) {
				out = append(out, Fragment{
					RuleID:  r.ID(),
					Start:   n.Start + f.Start,
					End:     n.Start + f.End,
					Message: f.Message,
					Fix:     f.Fix,
				})
			}
		}
		ctx.Enter(nil)

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: n.Children[i], depth: cur.depth + 1})
		}
	}

	if deep != nil {
		return out, deep
	}
	return out, nil
}
