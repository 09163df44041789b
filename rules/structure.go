package rules

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/rule"
	"github.com/arjunmahishi/tsxreview/types"
)

var defaultForbiddenImports = []string{
	"@chakra-ui/**",
	"@mui/**",
	"@material-ui/**",
	"antd",
	"antd/**",
	"react-bootstrap",
	"react-bootstrap/**",
	"semantic-ui-react",
	"@mantine/**",
	"primereact",
	"primereact/**",
	"@blueprintjs/**",
}

type forbiddenImport struct{ rule.Base }

// ForbiddenImport flags imports of third-party UI component libraries.
// The list setting replaces the forbidden source globs.
func ForbiddenImport() rule.Rule {
	return forbiddenImport{rule.Base{
		RuleID:       "structure.forbidden-import",
		RuleCategory: types.CategoryStructure,
		Summary:      "UI components come from the project's UIKit, not third-party component libraries",
		Severity:     types.SeverityError,
		Triggers:     []ast.Kind{ast.KindImport},
	}}
}

func (forbiddenImport) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	src := n.ChildByField("source")
	if src == nil {
		return nil
	}
	from := stringValue(src, ctx.Unit.Text)
	if !matchAny(ctx.List(defaultForbiddenImports), from, '/') {
		return nil
	}
	return []rule.Fragment{
		rule.At(n, src, fmt.Sprintf("import from %s is not allowed; use components from the project UIKit", quote(from))),
	}
}

var defaultComponentDirs = []string{
	"**/Components/**",
	"**/Containers/**",
	"**/pages/**",
	"**/Pages/**",
	"**/UIKit/**",
	"**/ui-kit/**",
}

// componentFile returns the top-level components of a .tsx unit.
func componentFile(n *ast.Node, ctx *rule.Context) []component {
	if n.Kind != ast.KindProgram || ext(ctx.Path()) != ".tsx" {
		return nil
	}
	return topLevelComponents(n, ctx.Unit.Text)
}

type componentLocation struct{ rule.Base }

// ComponentLocation flags component files outside the component
// directories.
func ComponentLocation() rule.Rule {
	return componentLocation{rule.Base{
		RuleID:       "structure.component-location",
		RuleCategory: types.CategoryStructure,
		Summary:      "component files live under Components, Containers, pages or UIKit",
		Severity:     types.SeverityError,
		Triggers:     []ast.Kind{ast.KindProgram},
	}}
}

func (componentLocation) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	comps := componentFile(n, ctx)
	if len(comps) == 0 {
		return nil
	}
	// rooted so that "**/" also matches a leading directory
	if matchAny(ctx.List(defaultComponentDirs), "/"+ctx.Path(), '/') {
		return nil
	}
	return []rule.Fragment{
		rule.At(n, comps[0].name, fmt.Sprintf("component %s is declared outside the component directories (Components, Containers, pages, UIKit)", quote(ctx.Text(comps[0].name)))),
	}
}

type componentFolder struct{ rule.Base }

// ComponentFolder flags component files that are not in a folder named
// after them.
func ComponentFolder() rule.Rule {
	return componentFolder{rule.Base{
		RuleID:       "structure.component-folder",
		RuleCategory: types.CategoryStructure,
		Summary:      "each component lives in its own folder: Button/Button.tsx",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindProgram},
	}}
}

func (componentFolder) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	comps := componentFile(n, ctx)
	if len(comps) == 0 {
		return nil
	}
	p := ctx.Path()
	name := stem(p)
	if name == "index" || path.Base(path.Dir(p)) == name {
		return nil
	}
	// the folder takes the component's name, not the file stem
	comp := ctx.Text(comps[0].name)
	want := comp + "/" + comp + path.Ext(p)
	return []rule.Fragment{
		rule.At(n, comps[0].name, fmt.Sprintf("component file %s should sit in its own folder: %s", quote(path.Base(p)), quote(want))),
	}
}

var defaultLowercaseFiles = []string{"index", "main"}

type componentFileName struct{ rule.Base }

// ComponentFileName flags .tsx files that render JSX under a lower-case
// file name. Entry points listed in the list setting are exempt.
func ComponentFileName() rule.Rule {
	return componentFileName{rule.Base{
		RuleID:       "structure.component-file-name",
		RuleCategory: types.CategoryStructure,
		Summary:      ".tsx files that render content have capitalized names",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindProgram},
	}}
}

func (componentFileName) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	p := ctx.Path()
	if ext(p) != ".tsx" {
		return nil
	}
	name := stem(p)
	if name == "" || unicode.IsUpper(firstRune(name)) || contains(ctx.List(defaultLowercaseFiles), name) {
		return nil
	}
	if !containsJSX(n) {
		return nil
	}
	return []rule.Fragment{{
		Message: fmt.Sprintf("file %s renders JSX and should be capitalized", quote(path.Base(p))),
		Fix:     capitalize(name) + ".tsx",
	}}
}

func capitalize(s string) string {
	r := firstRune(s)
	return string(unicode.ToUpper(r)) + s[len(string(r)):]
}

// defaultColocated lists the files a component folder must contain.
// Alternatives are separated by `|`; {name} is the component name.
var defaultColocated = []string{
	"index.ts|index.tsx",
	"types.ts",
	"{name}.module.css|{name}.module.scss",
}

type colocatedFiles struct{ rule.Base }

// ColocatedFiles flags component folders missing their index, types or
// CSS module file, in one finding per component file. It needs the
// project file set.
func ColocatedFiles() rule.Rule {
	return colocatedFiles{rule.Base{
		RuleID:       "structure.colocated-files",
		RuleCategory: types.CategoryStructure,
		Summary:      "component folders contain index.ts, types.ts and a CSS module",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindProgram},
	}}
}

func (colocatedFiles) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	comps := componentFile(n, ctx)
	if len(comps) == 0 {
		return nil
	}
	p := ctx.Path()
	dir := path.Dir(p)
	name := stem(p)
	if name == "index" {
		name = path.Base(dir)
	}

	var missing []string
	for _, req := range ctx.List(defaultColocated) {
		alts := strings.Split(strings.ReplaceAll(req, "{name}", name), "|")
		found := false
		for _, alt := range alts {
			alt = strings.TrimSpace(alt)
			if alt == path.Base(p) || ctx.Files.Has(path.Join(dir, alt)) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		missing = append(missing, quote(strings.TrimSpace(alts[0])))
	}
	if len(missing) == 0 {
		return nil
	}
	return []rule.Fragment{
		rule.At(n, comps[0].name, fmt.Sprintf("component folder %s is missing %s", quote(dir), strings.Join(missing, ", "))),
	}
}

var stylesheetExts = []string{".css", ".scss", ".sass", ".less"}

type moduleStyles struct{ rule.Base }

// ModuleStyles flags global stylesheet imports and string class names.
func ModuleStyles() rule.Rule {
	return moduleStyles{rule.Base{
		RuleID:       "structure.module-styles",
		RuleCategory: types.CategoryStructure,
		Summary:      "styles come from CSS modules, not global stylesheets",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindImport, ast.KindJSXAttribute},
	}}
}

func (moduleStyles) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	src := ctx.Unit.Text
	if n.Kind == ast.KindJSXAttribute {
		if len(n.Children) < 2 || n.Children[0].Text(src) != "className" || n.Children[1].Kind != ast.KindString {
			return nil
		}
		value := n.Children[1]
		return []rule.Fragment{
			rule.At(n, value, fmt.Sprintf("className %s is a global class; use a class from a CSS module", value.Text(src))),
		}
	}

	from := n.ChildByField("source")
	importPath := stringValue(from, src)
	if !strings.HasPrefix(importPath, ".") {
		// package stylesheets are not ours to convert
		return nil
	}
	e := ext(importPath)
	if !contains(stylesheetExts, e) || strings.HasSuffix(strings.TrimSuffix(strings.ToLower(importPath), e), ".module") {
		return nil
	}
	fix := strings.TrimSuffix(importPath, path.Ext(importPath)) + ".module" + path.Ext(importPath)
	return []rule.Fragment{
		rule.At(n, from, fmt.Sprintf("stylesheet %s is global; import a CSS module such as %s", quote(importPath), quote(path.Base(fix)))).WithFix(fix),
	}
}

type propsTypesFile struct{ rule.Base }

// PropsTypesFile flags Props types declared inside .tsx files.
func PropsTypesFile() rule.Rule {
	return propsTypesFile{rule.Base{
		RuleID:       "structure.props-types-file",
		RuleCategory: types.CategoryStructure,
		Summary:      "Props types are declared in the component's types.ts",
		Severity:     types.SeverityWarning,
		Triggers:     []ast.Kind{ast.KindInterface, ast.KindTypeAlias},
	}}
}

func (propsTypesFile) Check(n *ast.Node, ctx *rule.Context) []rule.Fragment {
	if ext(ctx.Path()) != ".tsx" {
		return nil
	}
	name := declName(n)
	if name == nil {
		return nil
	}
	text := name.Text(ctx.Unit.Text)
	if !strings.HasSuffix(text, "Props") {
		return nil
	}
	return []rule.Fragment{
		rule.At(n, name, fmt.Sprintf("move %s to types.ts next to the component", quote(text))),
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
