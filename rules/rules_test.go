package rules

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/tsxreview/engine"
	"github.com/arjunmahishi/tsxreview/lang"
	"github.com/arjunmahishi/tsxreview/parser"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/source"
)

// run checks src as the file at path with the single rule r and returns
// "line:col message [fix]" per fragment, in traversal order.
func run(t *testing.T, r rule.Rule, path, src string, settings rule.Settings) []string {
	t.Helper()
	l := lang.ForPath(path)
	require.NotNil(t, l, path)
	unit, err := source.Parse(context.Background(), parser.New(l), path, src)
	require.NoError(t, err)

	reg, err := rule.NewRegistry([]rule.Rule{r}, rule.Selection{})
	require.NoError(t, err)
	frags, err := engine.Traverse(unit, reg, rule.NewContext(unit, rule.NewFileSet([]string{path}), settings), 0)
	require.NoError(t, err)

	var out []string
	for _, f := range frags {
		pos, err := unit.Resolve(f.Start)
		require.NoError(t, err)
		line := fmt.Sprintf("%d:%d %s", pos.Line, pos.Column, f.Message)
		if f.Fix != "" {
			line += " [" + f.Fix + "]"
		}
		out = append(out, line)
	}
	return out
}

func TestBooleanPrefix(t *testing.T) {
	got := run(t, BooleanPrefix(), "src/flags.ts", `const visible = true;
const isOpen = false;
let enabled: boolean;
const ready = count > 0 && !done;
function loaded() { return items.length === 0; }
const total = 3;
`, rule.Settings{})
	require.Equal(t, []string{
		"1:7 boolean `visible` should start with a predicate prefix such as is or has (e.g. isVisible) [isVisible]",
		"3:5 boolean `enabled` should start with a predicate prefix such as is or has (e.g. isEnabled) [isEnabled]",
		"4:7 boolean `ready` should start with a predicate prefix such as is or has (e.g. isReady) [isReady]",
		"5:10 boolean `loaded` should start with a predicate prefix such as is or has (e.g. isLoaded) [isLoaded]",
	}, got)
}

func TestBooleanPrefixCustomPrefixes(t *testing.T) {
	got := run(t, BooleanPrefix(), "src/flags.ts", "const visible = true;\nconst isShown = true;\n", rule.Settings{
		Lists: map[string][]string{"naming.boolean-prefix": {"show"}},
	})
	require.Equal(t, []string{
		"1:7 boolean `visible` should start with a predicate prefix such as is or has (e.g. showVisible) [showVisible]",
		"2:7 boolean `isShown` should start with a predicate prefix such as is or has (e.g. showIsShown) [showIsShown]",
	}, got)
}

func TestCamelCase(t *testing.T) {
	got := run(t, CamelCase(), "src/api.ts", `const api_resp = { status: 200 };
const MAX_RETRIES = 3;
const userName = "x";
const Button = styled("button");
const Widget = 4;
`, rule.Settings{})
	require.Equal(t, []string{
		"1:7 `api_resp` should be camelCase (e.g. apiResp) [apiResp]",
		"2:7 `MAX_RETRIES` should be camelCase (e.g. maxRetries) [maxRetries]",
		"5:7 `Widget` should be camelCase (e.g. widget) [widget]",
	}, got)
}

func TestMaxState(t *testing.T) {
	src := `export const Dashboard = () => {
  const [a, setA] = useState(0);
  const [b, setB] = useState(0);
  const [c, setC] = useState(0);
  const [d, setD] = useState(0);
  const [e, setE] = useState(0);
  const [f, setF] = useState(0);
  const [g, setG] = useState(0);
  return <div />;
};
`
	settings := rule.Settings{Thresholds: map[string]float64{"component.max-state": 3}}
	require.Equal(t, []string{
		"1:14 component `Dashboard` has 7 state hooks, more than the allowed 3; split it into smaller components or move state into a custom hook",
	}, run(t, MaxState(), "src/Components/Dashboard/Dashboard.tsx", src, settings))

	settings.Thresholds["component.max-state"] = 7
	require.Empty(t, run(t, MaxState(), "src/Components/Dashboard/Dashboard.tsx", src, settings))
}

func TestMaxStateSkipsNestedComponents(t *testing.T) {
	src := `function Outer() {
  const [a, setA] = useState(0);
  function Inner() {
    const [b, setB] = useState(0);
    const [c, setC] = useState(0);
    return <span />;
  }
  return <Inner />;
}
`
	settings := rule.Settings{Thresholds: map[string]float64{"component.max-state": 1}}
	require.Equal(t, []string{
		"3:12 component `Inner` has 2 state hooks, more than the allowed 1; split it into smaller components or move state into a custom hook",
	}, run(t, MaxState(), "src/Components/Outer/Outer.tsx", src, settings))
}

func TestForbiddenImport(t *testing.T) {
	src := `import { Button } from "@mui/material";
import { Modal } from "../UIKit/Modal";
import Select from "antd";
`
	require.Equal(t, []string{
		"1:24 import from `@mui/material` is not allowed; use components from the project UIKit",
		"3:20 import from `antd` is not allowed; use components from the project UIKit",
	}, run(t, ForbiddenImport(), "src/Components/Form/Form.tsx", src, rule.Settings{}))
}

func TestTernaryNull(t *testing.T) {
	src := `const A = ({ open }: Props) => (open ? <Menu /> : null);
const B = ({ open }: Props) => (open ? null : <Menu />);
const C = ({ open }: Props) => (open ? <Menu /> : <Closed />);
`
	require.Equal(t, []string{
		"1:33 render conditionally with && instead of a ternary returning null [open && <Menu />]",
		"2:33 render conditionally with && instead of a ternary returning null [!(open) && <Menu />]",
	}, run(t, TernaryNull(), "src/Components/A/A.tsx", src, rule.Settings{}))
}

func TestAllRulesHaveUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range All() {
		require.False(t, seen[r.ID()], r.ID())
		seen[r.ID()] = true
		require.NotEmpty(t, r.Description(), r.ID())
		require.NotEmpty(t, r.Kinds(), r.ID())
	}
	_, err := rule.NewRegistry(All(), rule.Selection{})
	require.NoError(t, err)
}

func TestNameHelpers(t *testing.T) {
	require.True(t, isSnake("api_resp"))
	require.False(t, isSnake("_private"))
	require.True(t, isScreaming("MAX_RETRIES"))
	require.False(t, isScreaming("X"))
	require.True(t, isPascal("UserCard"))
	require.True(t, isLowerCamel("$userCard"))
	require.True(t, hasPrefix("isOpen", defaultBooleanPrefixes))
	require.False(t, hasPrefix("island", defaultBooleanPrefixes))
	require.True(t, hasPrefix("_hasItems", defaultBooleanPrefixes))
	require.Equal(t, "_isVisible", fixBoolean("_visible", defaultBooleanPrefixes))
	require.True(t, isOnHandler("onClick"))
	require.False(t, isOnHandler("online"))
	require.Equal(t, "Card", capitalize("card"))
}

func TestMatchAny(t *testing.T) {
	require.True(t, matchAny([]string{"@mui/**"}, "@mui/material/Button", '/'))
	require.False(t, matchAny([]string{"@mui/**"}, "@mui", '/'))
	require.True(t, matchAny([]string{"axios.*"}, "axios.get", '.'))
	require.False(t, matchAny([]string{"axios.*"}, "axios.get.then", '.'))
	// an invalid pattern only matches itself
	require.True(t, matchAny([]string{"[bad"}, "[bad"))
	require.False(t, matchAny([]string{"[bad"}, "bad"))
}

func TestComponentFolderUsesComponentName(t *testing.T) {
	src := "export function Card() {\n  return <div />;\n}\n"
	require.Equal(t, []string{
		"1:17 component file `card.tsx` should sit in its own folder: `Card/Card.tsx`",
	}, run(t, ComponentFolder(), "src/widgets/card.tsx", src, rule.Settings{}))
	require.Equal(t, []string{
		"1:17 component file `Card.tsx` should sit in its own folder: `Card/Card.tsx`",
	}, run(t, ComponentFolder(), "src/widgets/Card.tsx", src, rule.Settings{}))
	require.Empty(t, run(t, ComponentFolder(), "src/Components/Card/Card.tsx", src, rule.Settings{}))
}
