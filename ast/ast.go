// Package ast is the normalized syntax tree rules operate on.
//
// Trees are produced by the parser package from tree-sitter output. Only
// named grammar nodes are kept; the raw grammar type is preserved in
// Node.Type so rules can distinguish, say, a property_identifier from a
// type_identifier while dispatch works on the coarser Kind.
package ast

// Kind is the normalized node kind used for rule dispatch.
type Kind int

const (
	KindUnknown Kind = iota
	KindProgram
	KindIdentifier
	KindVariableDeclaration
	KindVariableDeclarator
	KindFunctionDeclaration
	KindFunctionExpression
	KindClass
	KindMethod
	KindField
	KindInterface
	KindTypeAlias
	KindPropertySignature
	KindImport
	KindExport
	KindJSXElement
	KindJSXAttribute
	KindCall
	KindReturn
	KindObject
	KindPair
	KindTypeAnnotation
	KindParameter
	KindString
	KindBoolean
	KindBinary
	KindUnary
	KindTernary
	KindBlock
	KindComment
	KindPredefinedType
	KindError

	kindCount
)

var kindNames = [...]string{
	KindUnknown:             "unknown",
	KindProgram:             "program",
	KindIdentifier:          "identifier",
	KindVariableDeclaration: "variable_declaration",
	KindVariableDeclarator:  "variable_declarator",
	KindFunctionDeclaration: "function_declaration",
	KindFunctionExpression:  "function_expression",
	KindClass:               "class",
	KindMethod:              "method",
	KindField:               "field",
	KindInterface:           "interface",
	KindTypeAlias:           "type_alias",
	KindPropertySignature:   "property_signature",
	KindImport:              "import",
	KindExport:              "export",
	KindJSXElement:          "jsx_element",
	KindJSXAttribute:        "jsx_attribute",
	KindCall:                "call",
	KindReturn:              "return",
	KindObject:              "object",
	KindPair:                "pair",
	KindTypeAnnotation:      "type_annotation",
	KindParameter:           "parameter",
	KindString:              "string",
	KindBoolean:             "boolean",
	KindBinary:              "binary",
	KindUnary:               "unary",
	KindTernary:             "ternary",
	KindBlock:               "block",
	KindComment:             "comment",
	KindPredefinedType:      "predefined_type",
	KindError:               "error",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Node is one syntax tree node. Start and End are byte offsets into the
// file text, End exclusive. A node's span contains its children's spans
// and children are ordered by Start without overlap.
type Node struct {
	Kind Kind
	// Type is the grammar node type, e.g. "lexical_declaration".
	Type string
	// Field is the grammar field name this node occupies in its parent.
	Field    string
	Start    int
	End      int
	Parent   *Node
	Children []*Node
}

// Text returns the node's text within src.
func (n *Node) Text(src string) string {
	if n == nil || n.Start < 0 || n.End > len(src) || n.Start > n.End {
		return ""
	}
	return src[n.Start:n.End]
}

// ChildByField returns the first child stored under the given grammar field.
func (n *Node) ChildByField(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child stored under the given field.
func (n *Node) ChildrenByField(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child of the given kind.
func (n *Node) FirstChild(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FirstChildType returns the first child with one of the grammar types.
func (n *Node) FirstChildType(types ...string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		for _, t := range types {
			if c.Type == t {
				return c
			}
		}
	}
	return nil
}

// Ancestor returns the closest ancestor of one of the given kinds.
func (n *Node) Ancestor(kinds ...Kind) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		for _, k := range kinds {
			if p.Kind == k {
				return p
			}
		}
	}
	return nil
}

// AncestorType returns the closest ancestor with one of the grammar types.
func (n *Node) AncestorType(types ...string) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		for _, t := range types {
			if p.Type == t {
				return p
			}
		}
	}
	return nil
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Inspect walks the subtree rooted at n in pre-order. When fn returns
// false the children of that node are skipped.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Append attaches children to n in order and sets their Parent.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}
