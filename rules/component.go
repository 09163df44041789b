package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/types"
)

// callLimit counts calls of a family inside each component against a
// threshold.
type callLimit struct {
	rule.Base
	patterns  []string
	threshold float64
	noun      string
	advice    string
}

func newCallLimit(id, summary, noun, advice string, threshold float64, patterns ...string) callLimit {
	return callLimit{
		Base: rule.Base{
			RuleID:       id,
			RuleCategory: types.CategoryComponentDesign,
			Summary:      summary,
			Severity:     types.SeverityWarning,
			Triggers:     []ast.Kind{ast.KindFunctionDeclaration, ast.KindVariableDeclarator},
		},
		patterns:  patterns,
		threshold: threshold,
		noun:      noun,
		advice:    advice,
	}
}

// MaxState flags components with more than five state hooks.
func MaxState() rule.Rule {
	return newCallLimit("component.max-state",
		"components keep a small amount of local state",
		"state hooks", "split it into smaller components or move state into a custom hook",
		5, "useState", "React.useState", "useReducer", "React.useReducer")
}

// MaxEffects flags components with more than three effects.
func MaxEffects() rule.Rule {
	return newCallLimit("component.max-effects",
		"components run a small number of effects",
		"effects", "extract the side effects into custom hooks",
		3, "useEffect", "React.useEffect", "useLayoutEffect", "React.useLayoutEffect")
}

// MaxResponsibilities flags components that fetch data from more than one
// place. Rendering components receive data through props.
func MaxResponsibilities() rule.Rule {
	return newCallLimit("component.max-responsibilities",
		"components have a single responsibility; data fetching lives in a service or hook",
		"data-fetching calls", "move data access into a service or a container component",
		1, "fetch", "axios", "axios.*", "useQuery", "useSWR", "useMutation", "useInfiniteQuery")
}

func (r callLimit) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	src := ctx.Unit.Text
	c, ok := componentOf(n, src)
	if !ok {
		return nil
	}
	limit := ctx.Threshold(r.threshold)
	count := countCalls(c, ctx.List(r.patterns), src)
	if float64(count) <= limit {
		return nil
	}
	return []rule.Fragment{
		rule.At(n, c.name, fmt.Sprintf("component %s has %d %s, more than the allowed %s; %s",
			quote(ctx.Text(c.name)), count, r.noun, strconv.FormatFloat(limit, 'f', -1, 64), r.advice)),
	}
}

var looseTypes = map[string]bool{"any": true, "unknown": true, "object": true, "{}": true, "Object": true}

// fcType matches React.FC<T>, FC<T>, FunctionComponent<T> and VFC<T>.
var fcType = regexp.MustCompile(`^(?:React\.)?(?:FC|FunctionComponent|VFC)\s*<\s*(.+?)\s*>$`)

type typedProps struct{ rule.Base }

// TypedProps flags components whose props are untyped or typed as any,
// and Props aliases that resolve to a loose type.
func TypedProps() rule.Rule {
	return typedProps{rule.Base{
		RuleID:       "component.typed-props",
		RuleCategory: types.CategoryComponentDesign,
		Summary:      "component props have an explicit type",
		Severity:     types.SeverityError,
		Triggers:     []ast.Kind{ast.KindFunctionDeclaration, ast.KindVariableDeclarator, ast.KindTypeAlias},
	}}
}

func (typedProps) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	src := ctx.Unit.Text
	if n.Kind == ast.KindTypeAlias {
		name := declName(n)
		value := n.ChildByField("value")
		if name == nil || value == nil || !strings.HasSuffix(name.Text(src), "Props") {
			return nil
		}
		if t := strings.Join(strings.Fields(value.Text(src)), ""); looseTypes[t] {
			return []rule.Fragment{
				rule.At(n, value, fmt.Sprintf("%s is %s; describe each prop explicitly", quote(name.Text(src)), quote(t))),
			}
		}
		return nil
	}

	c, ok := componentOf(n, src)
	if !ok {
		return nil
	}
	name := ctx.Text(c.name)

	if n.Kind == ast.KindVariableDeclarator {
		if m := fcType.FindStringSubmatch(typeText(n, "type", src)); m != nil {
			if looseTypes[m[1]] {
				return []rule.Fragment{
					rule.At(n, n.ChildByField("type"), fmt.Sprintf("props of %s are typed as %s; declare a Props interface", quote(name), quote(m[1]))),
				}
			}
			return nil
		}
	}

	params := c.fn.ChildByField("parameters")
	if params == nil {
		// a single bare parameter: `props => ...`
		if p := c.fn.ChildByField("parameter"); p != nil {
			return []rule.Fragment{
				rule.At(n, p, fmt.Sprintf("props of %s are untyped; declare a Props interface", quote(name))),
			}
		}
		return nil
	}
	first := params.FirstChild(ast.KindParameter)
	if first == nil {
		return nil
	}
	t := typeText(first, "type", src)
	switch {
	case t == "":
		return []rule.Fragment{
			rule.At(n, first, fmt.Sprintf("props of %s are untyped; declare a Props interface", quote(name))),
		}
	case looseTypes[strings.Join(strings.Fields(t), "")]:
		return []rule.Fragment{
			rule.At(n, first, fmt.Sprintf("props of %s are typed as %s; declare a Props interface", quote(name), quote(t))),
		}
	}
	return nil
}

// defaultPassthroughExtends are the extended types that already carry
// className and style.
var defaultPassthroughExtends = []string{"*HTMLAttributes*", "*HTMLProps*", "*ComponentProps*", "*SVGProps*"}

type propsStylePassthrough struct{ rule.Base }

// PropsStylePassthrough flags Props object types that do not accept
// className and style, so callers cannot adjust the component's layout.
func PropsStylePassthrough() rule.Rule {
	return propsStylePassthrough{rule.Base{
		RuleID:       "component.props-style-passthrough",
		RuleCategory: types.CategoryComponentDesign,
		Summary:      "Props accept className and style",
		Severity:     types.SeverityInfo,
		Triggers:     []ast.Kind{ast.KindInterface, ast.KindTypeAlias},
	}}
}

func (propsStylePassthrough) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	src := ctx.Unit.Text
	name := declName(n)
	if name == nil || !strings.HasSuffix(name.Text(src), "Props") {
		return nil
	}

	var body *ast.Node
	if n.Kind == ast.KindInterface {
		for _, c := range n.Children {
			if strings.HasPrefix(c.Type, "extends") && matchAny(ctx.List(defaultPassthroughExtends), strings.Join(strings.Fields(c.Text(src)), "")) {
				return nil
			}
		}
		body = n.ChildByField("body")
	} else {
		body = n.ChildByField("value")
		if body == nil || body.Type != "object_type" {
			// unions and intersections are composed elsewhere
			return nil
		}
	}
	if body == nil {
		return nil
	}

	declared := make(map[string]bool)
	for _, m := range body.Children {
		if m.Kind == ast.KindPropertySignature {
			declared[m.ChildByField("name").Text(src)] = true
		}
	}
	var missing []string
	if !declared["className"] {
		missing = append(missing, "className?: string")
	}
	if !declared["style"] {
		missing = append(missing, "style?: React.CSSProperties")
	}
	if len(missing) == 0 {
		return nil
	}
	return []rule.Fragment{
		rule.At(n, name, fmt.Sprintf("%s should accept %s so callers can adjust layout", quote(name.Text(src)), strings.Join(missing, " and "))),
	}
}

type ternaryNull struct{ rule.Base }

// TernaryNull flags `cond ? <X/> : null` in favour of `cond && <X/>`.
func TernaryNull() rule.Rule {
	return ternaryNull{rule.Base{
		RuleID:       "component.ternary-null",
		RuleCategory: types.CategoryComponentDesign,
		Summary:      "conditional rendering uses && instead of a ternary with null",
		Severity:     types.SeverityInfo,
		Triggers:     []ast.Kind{ast.KindTernary},
	}}
}

func (ternaryNull) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	src := ctx.Unit.Text
	cond := n.ChildByField("condition")
	yes := unwrap(n.ChildByField("consequence"))
	no := unwrap(n.ChildByField("alternative"))
	if cond == nil || yes == nil || no == nil {
		return nil
	}

	var fix string
	switch {
	case no.Type == "null" && yes.Kind == ast.KindJSXElement:
		fix = cond.Text(src) + " && " + yes.Text(src)
	case yes.Type == "null" && no.Kind == ast.KindJSXElement:
		fix = "!(" + cond.Text(src) + ") && " + no.Text(src)
	default:
		return nil
	}
	return []rule.Fragment{
		rule.At(n, n, "render conditionally with && instead of a ternary returning null").WithFix(fix),
	}
}
