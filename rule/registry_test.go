package rule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/types"
)

type stub struct{ Base }

func (stub) Check(*ast.Node, *Context) []Fragment { return nil }

type crossStub struct{ stub }

func (crossStub) Finalize([]Entry) []Report { return nil }

func newStub(id string, cat types.Category, kinds ...ast.Kind) Rule {
	return stub{Base{RuleID: id, RuleCategory: cat, Severity: types.SeverityWarning, Triggers: kinds}}
}

func testRules() []Rule {
	return []Rule{
		newStub("naming.b", types.CategoryNaming, ast.KindIdentifier, ast.KindVariableDeclarator),
		newStub("naming.a", types.CategoryNaming, ast.KindIdentifier, ast.KindIdentifier),
		newStub("structure.a", types.CategoryStructure, ast.KindProgram, ast.KindUnknown),
		crossStub{stub{Base{RuleID: "naming.cross", RuleCategory: types.CategoryNaming, Triggers: []ast.Kind{ast.KindProgram}}}},
	}
}

func ids(rules []Rule) []string {
	var out []string
	for _, r := range rules {
		out = append(out, r.ID())
	}
	return out
}

func TestRegistryKeepsDeclaredOrder(t *testing.T) {
	reg, err := NewRegistry(testRules(), Selection{})
	require.NoError(t, err)
	require.Equal(t, []string{"naming.b", "naming.a", "structure.a", "naming.cross"}, ids(reg.Rules()))
	require.Equal(t, []string{"naming.b", "naming.a"}, ids(reg.For(ast.KindIdentifier)))
	require.Equal(t, []string{"naming.b"}, ids(reg.For(ast.KindVariableDeclarator)))
	require.Equal(t, []string{"structure.a", "naming.cross"}, ids(reg.For(ast.KindProgram)))
	require.Empty(t, reg.For(ast.KindUnknown))
	require.Empty(t, reg.For(ast.Kind(999)))
	require.Len(t, reg.CrossFile(), 1)
	require.Equal(t, []string{"naming.b", "naming.a", "naming.cross"}, ids(reg.ByCategory(types.CategoryNaming)))
}

func TestRegistrySelection(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"only", Selection{Only: []string{"naming.a", "structure.a"}}, []string{"naming.a", "structure.a"}},
		{"disable", Selection{Disable: []string{"naming.b"}}, []string{"naming.a", "structure.a", "naming.cross"}},
		{"only_then_disable", Selection{Only: []string{"naming.a", "naming.b"}, Disable: []string{"naming.a"}}, []string{"naming.b"}},
		{"category", Selection{DisableCategories: []types.Category{types.CategoryNaming}}, []string{"structure.a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := NewRegistry(testRules(), tc.sel)
			require.NoError(t, err)
			require.Equal(t, tc.want, ids(reg.Rules()))
			require.Len(t, reg.All(), 4)
		})
	}
}

func TestRegistryUnknownIDs(t *testing.T) {
	_, err := NewRegistry(testRules(), Selection{Only: []string{"naming.a", "naming.zzz"}, Disable: []string{"x.y", "naming.zzz"}})
	require.ErrorIs(t, err, ErrUnknownRule)
	var unknown *UnknownRuleError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, []string{"naming.zzz", "x.y"}, unknown.IDs)
	require.EqualError(t, err, "unknown rule id: naming.zzz, x.y")
}

func TestRegistryDuplicateID(t *testing.T) {
	rules := append(testRules(), newStub("naming.a", types.CategoryNaming))
	_, err := NewRegistry(rules, Selection{})
	require.EqualError(t, err, `duplicate rule id "naming.a"`)
}

func TestFileSet(t *testing.T) {
	fs := NewFileSet([]string{"src/Card/Card.tsx", "src/Card/index.ts", `src\Card\types.ts`, "src/other.ts"})
	require.True(t, fs.Has("src/Card/types.ts"))
	require.True(t, fs.Has("src/Card/../Card/index.ts"))
	require.False(t, fs.Has("src/Card/Card.module.css"))
	require.Equal(t, []string{"Card.tsx", "index.ts", "types.ts"}, fs.Dir("src/Card"))
	require.Equal(t, 4, fs.Len())

	var empty *FileSet
	require.False(t, empty.Has("x"))
	require.Zero(t, empty.Len())
}
