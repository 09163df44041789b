package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/parser"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/source"
	"github.com/arjunmahishi/tsxreview/types"
)

// wordParser builds a flat tree: a program holding one identifier per
// whitespace separated word. Leading '(' characters wrap the word in that
// many nested blocks, and a "!" word fails the parse at its offset.
type wordParser struct{}

func (wordParser) Parse(_ context.Context, src []byte) (*ast.Node, error) {
	text := string(src)
	root := &ast.Node{Kind: ast.KindProgram, Type: "program", Start: 0, End: len(text)}
	for i := 0; i < len(text); {
		if isSpace(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && !isSpace(text[j]) {
			j++
		}
		word := text[i:j]
		if word == "!" {
			return nil, &parser.ParseError{Offset: i, End: j, Message: fmt.Sprintf("syntax error at offset %d", i)}
		}
		parent := root
		depth := len(word) - len(strings.TrimLeft(word, "("))
		for d := 0; d < depth; d++ {
			block := &ast.Node{Kind: ast.KindBlock, Type: "statement_block", Start: i, End: j}
			parent.Append(block)
			parent = block
		}
		parent.Append(&ast.Node{Kind: ast.KindIdentifier, Type: "identifier", Start: i + depth, End: j})
		i = j
	}
	return root, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t'
}

func wordParserFactory(lang.Language) (source.Parser, error) {
	return wordParser{}, nil
}

// wordRule reports every identifier with the given text.
type wordRule struct {
	rule.Base
	word string
}

func newWordRule(id, word string) wordRule {
	return wordRule{
		Base: rule.Base{
			RuleID:       id,
			RuleCategory: types.CategoryNaming,
			Summary:      "flags " + word,
			Severity:     types.SeverityWarning,
			Triggers:     []ast.Kind{ast.KindIdentifier},
		},
		word: word,
	}
}

func (r wordRule) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	if ctx.Text(n) != r.word {
		return nil
	}
	return []rule.Fragment{rule.At(n, n, "found "+r.word)}
}

// echoRule reports the same span twice per identifier.
type echoRule struct{ rule.Base }

func (echoRule) Check(n *ast.Node, _ *rule.Context) []rule.Fragment {
	f := rule.Fragment{Start: 0, End: n.End - n.Start, Message: "echo"}
	return []rule.Fragment{f, f}
}

// strayRule reports an offset far past the end of the file.
type strayRule struct{ rule.Base }

func (strayRule) Check(n *ast.Node, _ *rule.Context) []rule.Fragment {
	return []rule.Fragment{{Start: 1 << 20, End: 1<<20 + 1, Message: "stray"}}
}

// declRule declares capitalized words and reports repeats across the
// project, pointing at the first declaration.
type declRule struct{ rule.Base }

func (declRule) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	if text := ctx.Text(n); text != "" && text[0] >= 'A' && text[0] <= 'Z' {
		ctx.Declare(text, n)
	}
	return nil
}

func (declRule) Finalize(entries []rule.Entry) []rule.Report {
	first := make(map[string]rule.Entry)
	var out []rule.Report
	for _, e := range entries {
		f, ok := first[e.Key]
		if !ok {
			first[e.Key] = e
			continue
		}
		out = append(out, rule.Report{
			Path:    e.Path,
			Span:    e.Span,
			Range:   e.Range,
			Message: fmt.Sprintf("%s first declared in %s", e.Key, f.Path),
		})
	}
	return out
}

func base(id string, kinds ...ast.Kind) rule.Base {
	return rule.Base{
		RuleID:       id,
		RuleCategory: types.CategoryStructure,
		Summary:      id,
		Severity:     types.SeverityInfo,
		Triggers:     kinds,
	}
}
