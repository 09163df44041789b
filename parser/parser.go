// Package parser provides tree-sitter parsing into the ast package's tree.
package parser

import (
	"context"
	"fmt"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/lang"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseError reports source text that is not syntactically valid.
type ParseError struct {
	// Offset is the byte offset of the first error or missing node.
	Offset int
	End    int
	// Message describes the offending construct.
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parser wraps a tree-sitter parser for a specific language.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
	lang   lang.Language
}

// New creates a new Parser for the given language.
func New(language lang.Language) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &Parser{
		parser: p,
		lang:   language,
	}
}

// Language returns the grammar this parser was built for.
func (p *Parser) Language() lang.Language {
	return p.lang
}

// ParseTree parses source code and returns the raw syntax tree.
func (p *Parser) ParseTree(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree, nil
}

// Parse parses source code into an ast tree. It fails with *ParseError
// when tree-sitter had to recover from a syntax error.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ast.Node, error) {
	tree, err := p.ParseTree(ctx, source)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, firstError(root, source)
	}
	return convert(root, ""), nil
}

// convert copies the named part of a tree-sitter subtree.
func convert(n *sitter.Node, field string) *ast.Node {
	out := &ast.Node{
		Kind:  kindOf(n.Type()),
		Type:  n.Type(),
		Field: field,
		Start: int(n.StartByte()),
		End:   int(n.EndByte()),
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		out.Append(convert(child, n.FieldNameForChild(i)))
	}
	return out
}

// firstError finds the first ERROR or MISSING node in pre-order.
func firstError(root *sitter.Node, source []byte) *ParseError {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsMissing() {
			return &ParseError{
				Offset:  int(n.StartByte()),
				End:     int(n.EndByte()),
				Message: fmt.Sprintf("missing %s", n.Type()),
			}
		}
		if n.Type() == "ERROR" {
			return &ParseError{
				Offset:  int(n.StartByte()),
				End:     int(n.EndByte()),
				Message: fmt.Sprintf("unexpected %s", excerpt(n.Content(source))),
			}
		}
		if !n.HasError() {
			continue
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return &ParseError{Message: "invalid syntax"}
}

func excerpt(s string) string {
	const limit = 24
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return fmt.Sprintf("%q", s)
}
