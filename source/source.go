// Package source holds the per-file unit the engine analyzes: the path,
// the immutable text, the parsed tree and a line index for turning byte
// offsets into positions.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/types"
)

// ErrOutOfRange is returned when an offset lies outside the unit's text.
var ErrOutOfRange = errors.New("offset out of range")

// Parser turns source text into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, source []byte) (*ast.Node, error)
}

// Unit is one parsed input file.
type Unit struct {
	Path string
	Text string
	Root *ast.Node

	lineStarts []int
}

// New builds a Unit from already parsed text.
func New(path, text string, root *ast.Node) *Unit {
	return &Unit{
		Path:       path,
		Text:       text,
		Root:       root,
		lineStarts: lineStarts(text),
	}
}

// Parse parses text with p and builds a Unit. Parse errors from p are
// returned unchanged so callers can inspect them with errors.As.
func Parse(ctx context.Context, p Parser, path, text string) (*Unit, error) {
	root, err := p.Parse(ctx, []byte(text))
	if err != nil {
		return nil, err
	}
	return New(path, text, root), nil
}

func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Lines returns the number of lines in the text.
func (u *Unit) Lines() int {
	return len(u.lineStarts)
}

// Resolve maps a byte offset in [0, len(Text)] to a 1-based position.
func (u *Unit) Resolve(offset int) (types.Position, error) {
	if offset < 0 || offset > len(u.Text) {
		return types.Position{}, fmt.Errorf("%w: %d not in [0, %d] of %s", ErrOutOfRange, offset, len(u.Text), u.Path)
	}
	// index of the last line starting at or before offset
	line := sort.Search(len(u.lineStarts), func(i int) bool {
		return u.lineStarts[i] > offset
	}) - 1
	return types.Position{
		Line:   line + 1,
		Column: offset - u.lineStarts[line] + 1,
	}, nil
}

// ResolveSpan resolves both ends of a span.
func (u *Unit) ResolveSpan(span types.Span) (types.Range, error) {
	if span.Start > span.End {
		return types.Range{}, fmt.Errorf("%w: span [%d, %d) is inverted", ErrOutOfRange, span.Start, span.End)
	}
	start, err := u.Resolve(span.Start)
	if err != nil {
		return types.Range{}, err
	}
	end, err := u.Resolve(span.End)
	if err != nil {
		return types.Range{}, err
	}
	return types.Range{Start: start, End: end}, nil
}

// Content returns the text covered by n.
func (u *Unit) Content(n *ast.Node) string {
	return n.Text(u.Text)
}

// Span returns the unit's root span, or the whole text when there is no
// tree.
func (u *Unit) Span() types.Span {
	if u.Root == nil {
		return types.Span{Start: 0, End: len(u.Text)}
	}
	return types.Span{Start: u.Root.Start, End: u.Root.End}
}
