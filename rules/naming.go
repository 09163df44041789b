package rules

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/types"
	"github.com/stoewer/go-strcase"
)

var defaultBooleanPrefixes = []string{"is", "has", "should", "can", "will", "did", "was", "are"}

type booleanPrefix struct{ rule.Base }

// BooleanPrefix flags boolean variables, fields, properties and
// boolean-returning functions whose names lack a predicate prefix.
func BooleanPrefix() rule.Rule {
	return booleanPrefix{rule.Base{
		RuleID:       "naming.boolean-prefix",
		RuleCategory: types.CategoryNaming,
		Summary:      "boolean names start with a predicate prefix such as is or has",
		Severity:     types.SeverityWarning,
		Triggers: []ast.Kind{
			ast.KindVariableDeclarator,
			ast.KindFunctionDeclaration,
			ast.KindMethod,
			ast.KindField,
			ast.KindPropertySignature,
		},
	}}
}

func (r booleanPrefix) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	name := declName(n)
	if name == nil {
		return nil
	}
	src := ctx.Unit.Text
	if !r.isBoolean(n, src) {
		return nil
	}
	text := name.Text(src)
	prefixes := ctx.List(defaultBooleanPrefixes)
	if hasPrefix(text, prefixes) {
		return nil
	}
	fix := fixBoolean(text, prefixes)
	return []rule.Fragment{
		rule.At(n, name, fmt.Sprintf("boolean %s should start with a predicate prefix such as is or has (e.g. %s)", quote(text), fix)).WithFix(fix),
	}
}

func (booleanPrefix) isBoolean(n *ast.Node, src string) bool {
	switch n.Kind {
	case ast.KindFunctionDeclaration:
		return returnsBoolean(n, src)
	case ast.KindMethod:
		if n.Type == "method_definition" && declName(n).Text(src) == "constructor" {
			return false
		}
		return returnsBoolean(n, src)
	case ast.KindPropertySignature:
		return typeText(n, "type", src) == "boolean"
	}

	// declarators and class fields
	if t := typeText(n, "type", src); t != "" {
		return t == "boolean"
	}
	value := unwrap(n.ChildByField("value"))
	if isFunction(value) {
		return returnsBoolean(value, src)
	}
	return isBooleanExpr(value, src)
}

// hasPrefix reports whether name starts with one of prefixes followed by
// an upper-case letter, digit or underscore. Leading `_`, `#` and `$` are
// ignored.
func hasPrefix(name string, prefixes []string) bool {
	name = strings.TrimLeft(name, "_#$")
	for _, p := range prefixes {
		if !strings.HasPrefix(name, p) || len(name) == len(p) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(name[len(p):])
		if unicode.IsUpper(next) || unicode.IsDigit(next) || next == '_' {
			return true
		}
	}
	return false
}

func fixBoolean(name string, prefixes []string) string {
	prefix := "is"
	if len(prefixes) > 0 {
		prefix = prefixes[0]
	}
	lead := name[:len(name)-len(strings.TrimLeft(name, "_#"))]
	return lead + prefix + strcase.UpperCamelCase(bareName(name))
}

type camelCase struct{ rule.Base }

// CamelCase flags variables and functions that are neither camelCase nor,
// where a function, class or component binding makes it legitimate,
// PascalCase.
func CamelCase() rule.Rule {
	return camelCase{rule.Base{
		RuleID:       "naming.camel-case",
		RuleCategory: types.CategoryNaming,
		Summary:      "variables and functions use camelCase",
		Severity:     types.SeverityWarning,
		Triggers: []ast.Kind{
			ast.KindVariableDeclarator,
			ast.KindFunctionDeclaration,
			ast.KindMethod,
		},
	}}
}

func (camelCase) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	name := declName(n)
	if name == nil {
		return nil
	}
	src := ctx.Unit.Text
	text := name.Text(src)
	if matchAny(ctx.List(nil), text) {
		return nil
	}

	bad := isSnake(text) || isScreaming(text)
	if !bad && n.Kind == ast.KindVariableDeclarator && !isLowerCamel(text) {
		bad = !pascalBinding(n)
	}
	if !bad {
		return nil
	}

	fix := strcase.LowerCamelCase(strings.TrimLeft(text, "_$#"))
	if fix == "" {
		return []rule.Fragment{rule.At(n, name, fmt.Sprintf("%s should be camelCase", quote(text)))}
	}
	return []rule.Fragment{
		rule.At(n, name, fmt.Sprintf("%s should be camelCase (e.g. %s)", quote(text), fix)).WithFix(fix),
	}
}

// pascalBinding reports whether a PascalCase declarator binds something
// that is conventionally PascalCase: a function (components, HOCs), a
// class, a call result such as styled(...) or createContext(), or JSX.
func pascalBinding(decl *ast.Node) bool {
	v := unwrap(decl.ChildByField("value"))
	if v == nil {
		return false
	}
	switch v.Kind {
	case ast.KindFunctionExpression, ast.KindClass, ast.KindCall, ast.KindJSXElement:
		return true
	}
	return v.Type == "new_expression"
}

type pascalCaseTypes struct{ rule.Base }

// PascalCaseTypes flags classes, interfaces and type aliases not named in
// PascalCase.
func PascalCaseTypes() rule.Rule {
	return pascalCaseTypes{rule.Base{
		RuleID:       "naming.pascal-case-types",
		RuleCategory: types.CategoryNaming,
		Summary:      "classes, interfaces and type aliases use PascalCase",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindClass, ast.KindInterface, ast.KindTypeAlias},
	}}
}

func (pascalCaseTypes) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	name := declName(n)
	if name == nil {
		return nil
	}
	text := name.Text(ctx.Unit.Text)
	if isPascal(text) {
		return nil
	}
	fix := strcase.UpperCamelCase(text)
	return []rule.Fragment{
		rule.At(n, name, fmt.Sprintf("type %s should be PascalCase (e.g. %s)", quote(text), fix)).WithFix(fix),
	}
}

type camelCaseKeys struct{ rule.Base }

// CamelCaseKeys flags snake_case or SCREAMING_CASE keys in object
// literals, type members and class fields.
func CamelCaseKeys() rule.Rule {
	return camelCaseKeys{rule.Base{
		RuleID:       "naming.camel-case-keys",
		RuleCategory: types.CategoryNaming,
		Summary:      "object keys, type members and class fields use camelCase",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindPair, ast.KindPropertySignature, ast.KindField},
	}}
}

func (camelCaseKeys) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	field := "name"
	if n.Kind == ast.KindPair {
		field = "key"
	}
	key := n.ChildByField(field)
	if key == nil || key.Type != "property_identifier" {
		// quoted, computed and numeric keys are exempt
		return nil
	}
	text := key.Text(ctx.Unit.Text)
	if !isSnake(text) && !isScreaming(text) {
		return nil
	}
	if matchAny(ctx.List(nil), text) {
		return nil
	}
	fix := strcase.LowerCamelCase(text)
	return []rule.Fragment{
		rule.At(n, key, fmt.Sprintf("key %s should be camelCase (e.g. %s)", quote(text), fix)).WithFix(fix),
	}
}

type handlerPrefix struct{ rule.Base }

// HandlerPrefix flags event handlers defined inside components or classes
// with the `on` prefix. `on` belongs to the prop that receives the
// handler; the handler itself is `handleX`.
func HandlerPrefix() rule.Rule {
	return handlerPrefix{rule.Base{
		RuleID:       "naming.handler-prefix",
		RuleCategory: types.CategoryNaming,
		Summary:      "event handlers are named handleX, not onX",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindVariableDeclarator, ast.KindFunctionDeclaration, ast.KindMethod, ast.KindField},
	}}
}

func (handlerPrefix) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	name := declName(n)
	if name == nil {
		return nil
	}
	src := ctx.Unit.Text
	text := name.Text(src)
	if !isOnHandler(text) {
		return nil
	}

	switch n.Kind {
	case ast.KindMethod:
		if n.Type != "method_definition" {
			return nil
		}
	case ast.KindField:
		if !isFunction(unwrap(n.ChildByField("value"))) {
			return nil
		}
	case ast.KindVariableDeclarator:
		// only handlers local to a function body
		if !isFunction(unwrap(n.ChildByField("value"))) || n.Ancestor(ast.KindFunctionExpression, ast.KindFunctionDeclaration, ast.KindMethod) == nil {
			return nil
		}
	case ast.KindFunctionDeclaration:
		if n.Ancestor(ast.KindFunctionExpression, ast.KindFunctionDeclaration, ast.KindMethod) == nil {
			return nil
		}
	}

	fix := "handle" + text[2:]
	return []rule.Fragment{
		rule.At(n, name, fmt.Sprintf("handler %s should be named %s; keep the on prefix for props", quote(text), fix)).WithFix(fix),
	}
}

func isOnHandler(name string) bool {
	if len(name) < 3 || !strings.HasPrefix(name, "on") {
		return false
	}
	next, _ := utf8.DecodeRuneInString(name[2:])
	return unicode.IsUpper(next)
}

var defaultVagueNames = []string{
	"data", "info", "temp", "tmp", "obj", "val", "res", "stuff", "thing", "calc", "foo", "bar", "baz",
}

type descriptiveName struct{ rule.Base }

// DescriptiveName flags very short and vague variable and function names.
// Loop counters declared in a for header are exempt.
func DescriptiveName() rule.Rule {
	return descriptiveName{rule.Base{
		RuleID:       "naming.descriptive-name",
		RuleCategory: types.CategoryNaming,
		Summary:      "names describe what they hold; avoid single letters and vague words",
		Severity:     types.SeverityInfo,
		Triggers:     []ast.Kind{ast.KindVariableDeclarator, ast.KindFunctionDeclaration},
	}}
}

func (descriptiveName) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	name := declName(n)
	if name == nil {
		return nil
	}
	text := name.Text(ctx.Unit.Text)
	if strings.Trim(text, "_") == "" || inForHeader(n) {
		return nil
	}
	if utf8.RuneCountInString(text) < int(ctx.Threshold(2)) {
		return []rule.Fragment{rule.At(n, name, fmt.Sprintf("%s is too short to describe what it holds", quote(text)))}
	}
	for _, vague := range ctx.List(defaultVagueNames) {
		if strings.EqualFold(text, vague) {
			return []rule.Fragment{rule.At(n, name, fmt.Sprintf("%s is vague; name it after what it holds", quote(text)))}
		}
	}
	return nil
}

func inForHeader(n *ast.Node) bool {
	p := n.Parent
	if p != nil && p.Kind == ast.KindVariableDeclaration {
		p = p.Parent
	}
	return p != nil && (p.Type == "for_statement" || p.Type == "for_in_statement")
}

type noDollar struct{ rule.Base }

// NoDollar flags identifiers containing `$`.
func NoDollar() rule.Rule {
	return noDollar{rule.Base{
		RuleID:       "naming.no-dollar",
		RuleCategory: types.CategoryNaming,
		Summary:      "identifiers do not contain $",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindVariableDeclarator, ast.KindFunctionDeclaration, ast.KindMethod, ast.KindField},
	}}
}

func (noDollar) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	name := declName(n)
	if name == nil {
		return nil
	}
	text := name.Text(ctx.Unit.Text)
	if !strings.Contains(text, "$") {
		return nil
	}
	f := rule.At(n, name, fmt.Sprintf("%s should not contain $", quote(text)))
	if fix := strings.ReplaceAll(text, "$", ""); fix != "" {
		f = f.WithFix(fix)
	}
	return []rule.Fragment{f}
}

type duplicateComponent struct{ rule.Base }

// DuplicateComponent flags components declared under the same name in
// more than one file.
func DuplicateComponent() rule.Rule {
	return duplicateComponent{rule.Base{
		RuleID:       "naming.duplicate-component",
		RuleCategory: types.CategoryNaming,
		Summary:      "component names are unique across the project",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindFunctionDeclaration, ast.KindVariableDeclarator},
	}}
}

func (duplicateComponent) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	// nested components are private to their parent
	if n.Ancestor(ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindMethod, ast.KindClass) != nil {
		return nil
	}
	if c, ok := componentOf(n, ctx.Unit.Text); ok {
		ctx.Declare(ctx.Text(c.name), c.name)
	}
	return nil
}

func (duplicateComponent) Finalize(entries []rule.Entry) []rule.Report {
	first := make(map[string]rule.Entry)
	var out []rule.Report
	for _, e := range entries {
		prev, seen := first[e.Key]
		if !seen {
			first[e.Key] = e
			continue
		}
		if prev.Path == e.Path {
			continue
		}
		out = append(out, rule.Report{
			Path:    e.Path,
			Span:    e.Span,
			Range:   e.Range,
			Message: fmt.Sprintf("component %s is also declared in %s", quote(e.Key), prev.Path),
		})
	}
	return out
}
