package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/source"
	"github.com/arjunmahishi/tsxreview/types"
)

func TestContextSettingsFollowCurrentRule(t *testing.T) {
	a := newStub("naming.a", types.CategoryNaming)
	b := newStub("naming.b", types.CategoryNaming)
	ctx := NewContext(source.New("a.ts", "", nil), nil, Settings{
		Thresholds: map[string]float64{"naming.a": 7},
		Lists:      map[string][]string{"naming.b": {"x"}},
	})

	require.Equal(t, 1.0, ctx.Threshold(1))
	ctx.Enter(a)
	require.Equal(t, 7.0, ctx.Threshold(1))
	require.Equal(t, []string{"d"}, ctx.List([]string{"d"}))
	ctx.Enter(b)
	require.Equal(t, 1.0, ctx.Threshold(1))
	require.Equal(t, []string{"x"}, ctx.List([]string{"d"}))
}

func TestContextDeclare(t *testing.T) {
	text := "const Card = 1;\nconst List = 2;"
	unit := source.New(`src\a.ts`, text, nil)
	ctx := NewContext(unit, nil, Settings{})

	node := &ast.Node{Start: 22, End: 26}
	ctx.Declare("List", node)
	require.Empty(t, ctx.Entries(), "declare outside a rule is ignored")

	ctx.Enter(newStub("naming.dup", types.CategoryNaming))
	ctx.Declare("List", node)
	ctx.Declare("Bad", &ast.Node{Start: 10, End: 500})
	require.ErrorIs(t, ctx.Err(), source.ErrOutOfRange)

	entries := ctx.Entries()["naming.dup"]
	require.Len(t, entries, 1)
	require.Equal(t, types.Position{Line: 2, Column: 7}, entries[0].Range.Start)
	require.Equal(t, "src/a.ts", ctx.Path())
}

func TestAt(t *testing.T) {
	n := &ast.Node{Start: 10, End: 30}
	target := &ast.Node{Start: 14, End: 18}
	f := At(n, target, "msg").WithFix("fix")
	require.Equal(t, Fragment{Start: 4, End: 8, Message: "msg", Fix: "fix"}, f)
}
