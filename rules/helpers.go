package rules

import (
	"path"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/gobwas/glob"
)

// declName returns the identifier naming a declaration, or nil when the
// declaration binds a pattern or is anonymous.
func declName(n *ast.Node) *ast.Node {
	name := n.ChildByField("name")
	if name == nil || name.Kind != ast.KindIdentifier {
		return nil
	}
	return name
}

// unwrap strips parentheses, `as` expressions and non-null assertions.
func unwrap(n *ast.Node) *ast.Node {
	for n != nil {
		switch n.Type {
		case "parenthesized_expression", "non_null_expression", "as_expression", "satisfies_expression":
			if len(n.Children) == 0 {
				return n
			}
			n = n.Children[0]
		default:
			return n
		}
	}
	return nil
}

// isFunction reports whether n is an arrow function or function expression.
func isFunction(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindFunctionExpression
}

// functionValue returns the function bound by a declarator, looking
// through wrapper calls like memo(...) and forwardRef(...).
func functionValue(decl *ast.Node) *ast.Node {
	v := unwrap(decl.ChildByField("value"))
	if isFunction(v) {
		return v
	}
	if v != nil && v.Kind == ast.KindCall {
		args := v.ChildByField("arguments")
		if args != nil && len(args.Children) > 0 {
			if first := unwrap(args.Children[0]); isFunction(first) {
				return first
			}
		}
	}
	return nil
}

// typeText returns the annotated type of n without the leading colon.
func typeText(n *ast.Node, field, src string) string {
	ann := n.ChildByField(field)
	if ann == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ann.Text(src)), ":"))
}

var comparisonOps = map[string]bool{
	"===": true, "!==": true, "==": true, "!=": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"instanceof": true, "in": true,
}

// binaryOp returns the operator text between the operands of a binary
// expression.
func binaryOp(n *ast.Node, src string) string {
	left := n.ChildByField("left")
	right := n.ChildByField("right")
	if left == nil || right == nil || left.End > right.Start || right.Start > len(src) {
		return ""
	}
	return strings.TrimSpace(src[left.End:right.Start])
}

// isBooleanExpr reports whether n is lexically boolean: a boolean
// literal, a comparison, a negation, or a logical combination of those.
func isBooleanExpr(n *ast.Node, src string) bool {
	n = unwrap(n)
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.KindBoolean:
		return true
	case ast.KindUnary:
		return strings.HasPrefix(strings.TrimSpace(n.Text(src)), "!")
	case ast.KindBinary:
		op := binaryOp(n, src)
		if comparisonOps[op] {
			return true
		}
		if op == "&&" || op == "||" {
			return isBooleanExpr(n.ChildByField("left"), src) && isBooleanExpr(n.ChildByField("right"), src)
		}
	}
	return false
}

// returnsBoolean reports whether fn is declared to return boolean or every
// return expression in its own body is lexically boolean.
func returnsBoolean(fn *ast.Node, src string) bool {
	if t := typeText(fn, "return_type", src); t != "" {
		return t == "boolean"
	}
	body := fn.ChildByField("body")
	if body == nil {
		return false
	}
	if body.Kind != ast.KindBlock {
		return isBooleanExpr(body, src)
	}
	returns := 0
	allBool := true
	ast.Inspect(body, func(c *ast.Node) bool {
		if c != body && (c.Kind == ast.KindFunctionExpression || c.Kind == ast.KindFunctionDeclaration || c.Kind == ast.KindClass || c.Kind == ast.KindMethod) {
			return false
		}
		if c.Kind == ast.KindReturn {
			returns++
			if len(c.Children) == 0 || !isBooleanExpr(c.Children[0], src) {
				allBool = false
			}
			return false
		}
		return true
	})
	return returns > 0 && allBool
}

// bareName strips the leading characters that do not take part in case
// conventions: `_` for unused or private names and `#` for private fields.
func bareName(name string) string {
	return strings.TrimLeft(name, "_#")
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func isScreaming(name string) bool {
	name = bareName(name)
	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters > 1
}

func isSnake(name string) bool {
	return strings.Contains(strings.Trim(name, "_"), "_")
}

func isPascal(name string) bool {
	name = strings.TrimPrefix(bareName(name), "$")
	return name != "" && unicode.IsUpper(firstRune(name)) && !strings.Contains(name, "_")
}

func isLowerCamel(name string) bool {
	name = strings.TrimPrefix(bareName(name), "$")
	return name != "" && !unicode.IsUpper(firstRune(name)) && !strings.Contains(name, "_")
}

// containsJSX reports whether the subtree at n renders any JSX.
func containsJSX(n *ast.Node) bool {
	found := false
	ast.Inspect(n, func(c *ast.Node) bool {
		if found {
			return false
		}
		if c.Kind == ast.KindJSXElement {
			found = true
			return false
		}
		return true
	})
	return found
}

// component is a function-like declaration that renders JSX under a
// PascalCase name.
type component struct {
	name *ast.Node
	fn   *ast.Node
	decl *ast.Node
}

// componentOf recognizes `function Name() { return <X/> }` and
// `const Name = (...) => <X/>`, including wrapped forms like
// `const Name = memo(() => ...)`.
func componentOf(n *ast.Node, src string) (component, bool) {
	name := declName(n)
	if name == nil || !isPascal(name.Text(src)) {
		return component{}, false
	}
	var fn *ast.Node
	switch n.Kind {
	case ast.KindFunctionDeclaration:
		fn = n
	case ast.KindVariableDeclarator:
		fn = functionValue(n)
	}
	if fn == nil || !containsJSX(fn.ChildByField("body")) {
		return component{}, false
	}
	return component{name: name, fn: fn, decl: n}, true
}

// topLevelComponents returns the components declared at the top level of
// a program, including exported ones, in source order.
func topLevelComponents(root *ast.Node, src string) []component {
	var out []component
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		switch n.Kind {
		case ast.KindExport:
			for _, c := range n.Children {
				visit(c)
			}
		case ast.KindFunctionDeclaration:
			if c, ok := componentOf(n, src); ok {
				out = append(out, c)
			}
		case ast.KindVariableDeclaration:
			for _, d := range n.Children {
				if d.Kind != ast.KindVariableDeclarator {
					continue
				}
				if c, ok := componentOf(d, src); ok {
					out = append(out, c)
				}
			}
		}
	}
	for _, n := range root.Children {
		visit(n)
	}
	return out
}

// isNestedComponent reports whether n, found inside another function,
// declares a component of its own.
func isNestedComponent(n *ast.Node, src string) bool {
	if n.Kind != ast.KindFunctionDeclaration && n.Kind != ast.KindVariableDeclarator {
		return false
	}
	_, ok := componentOf(n, src)
	return ok
}

// calleeName returns the dotted callee of a call, e.g. "axios.get".
func calleeName(call *ast.Node, src string) string {
	fn := call.ChildByField("function")
	if fn == nil {
		return ""
	}
	return strings.Join(strings.Fields(fn.Text(src)), "")
}

// countCalls counts calls whose callee matches one of patterns inside the
// body of c, not descending into nested components.
func countCalls(c component, patterns []string, src string) int {
	body := c.fn.ChildByField("body")
	count := 0
	ast.Inspect(body, func(n *ast.Node) bool {
		if isNestedComponent(n, src) {
			return false
		}
		if n.Kind == ast.KindCall && matchAny(patterns, calleeName(n, src), '.') {
			count++
		}
		return true
	})
	return count
}

// ext returns the lower-cased extension of p.
func ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

// stem returns the base name of p without its extension.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// stringValue returns the unquoted content of a string literal node.
func stringValue(n *ast.Node, src string) string {
	if n == nil {
		return ""
	}
	return strings.Trim(n.Text(src), "\"'`")
}

var globs sync.Map // pattern + separators -> glob.Glob

// matchAny reports whether s matches any of the glob patterns. Invalid
// patterns fall back to exact comparison.
func matchAny(patterns []string, s string, separators ...rune) bool {
	for _, p := range patterns {
		key := p + "\x00" + string(separators)
		g, ok := globs.Load(key)
		if !ok {
			compiled, err := glob.Compile(p, separators...)
			if err != nil {
				if p == s {
					return true
				}
				continue
			}
			g, _ = globs.LoadOrStore(key, compiled)
		}
		if g.(glob.Glob).Match(s) {
			return true
		}
	}
	return false
}

// quote wraps s in backticks the way review comments cite code.
func quote(s string) string {
	return "`" + s + "`"
}
