package parser

import (
	"fmt"

	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// Query represents a compiled tree-sitter query.
type Query struct {
	query        *sitter.Query
	captureNames []string
}

// NewQuery compiles a tree-sitter query string.
func NewQuery(queryStr string, language lang.Language) (*Query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	captureCount := int(q.CaptureCount())
	captureNames := make([]string, captureCount)
	for i := 0; i < captureCount; i++ {
		captureNames[i] = q.CaptureNameForId(uint32(i))
	}

	return &Query{
		query:        q,
		captureNames: captureNames,
	}, nil
}

// Run executes the query on a syntax tree and returns matches.
func (q *Query) Run(tree *sitter.Tree, source []byte, displayPath string) []types.QueryMatch {
	cursor := sitter.NewQueryCursor()
	cursor.Exec(q.query, tree.RootNode())

	var matches []types.QueryMatch
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)

		result := types.QueryMatch{
			File:    displayPath,
			Pattern: int(match.PatternIndex),
		}

		for _, capture := range match.Captures {
			node := capture.Node
			start := node.StartPoint()
			end := node.EndPoint()

			result.Captures = append(result.Captures, types.CaptureResult{
				Name:     q.captureName(capture.Index),
				NodeType: node.Type(),
				Text:     node.Content(source),
				Range: types.Range{
					Start: types.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
					End:   types.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
				},
			})
		}

		if len(result.Captures) > 0 {
			matches = append(matches, result)
		}
	}

	return matches
}

func (q *Query) captureName(index uint32) string {
	if int(index) >= len(q.captureNames) {
		return fmt.Sprintf("capture_%d", index)
	}
	return q.captureNames[index]
}
