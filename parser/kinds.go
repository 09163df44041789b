package parser

import "github.com/arjunmahishi/tsxreview/ast"

// kinds maps tree-sitter TypeScript/TSX node types onto ast kinds. Types
// not listed become ast.KindUnknown and are visited without dispatch.
var kinds = map[string]ast.Kind{
	"program": ast.KindProgram,

	"identifier":                            ast.KindIdentifier,
	"property_identifier":                   ast.KindIdentifier,
	"type_identifier":                       ast.KindIdentifier,
	"shorthand_property_identifier":         ast.KindIdentifier,
	"shorthand_property_identifier_pattern": ast.KindIdentifier,
	"private_property_identifier":           ast.KindIdentifier,

	"lexical_declaration":  ast.KindVariableDeclaration,
	"variable_declaration": ast.KindVariableDeclaration,
	"variable_declarator":  ast.KindVariableDeclarator,

	"function_declaration":           ast.KindFunctionDeclaration,
	"generator_function_declaration": ast.KindFunctionDeclaration,
	"function_signature":             ast.KindFunctionDeclaration,
	"arrow_function":                 ast.KindFunctionExpression,
	"function_expression":            ast.KindFunctionExpression,
	"function":                       ast.KindFunctionExpression,
	"generator_function":             ast.KindFunctionExpression,

	"class_declaration":          ast.KindClass,
	"abstract_class_declaration": ast.KindClass,
	"class":                      ast.KindClass,

	"method_definition":         ast.KindMethod,
	"method_signature":          ast.KindMethod,
	"abstract_method_signature": ast.KindMethod,
	"public_field_definition":   ast.KindField,
	"field_definition":          ast.KindField,

	"interface_declaration":  ast.KindInterface,
	"type_alias_declaration": ast.KindTypeAlias,
	"property_signature":     ast.KindPropertySignature,

	"import_statement": ast.KindImport,
	"export_statement": ast.KindExport,

	"jsx_element":              ast.KindJSXElement,
	"jsx_self_closing_element": ast.KindJSXElement,
	"jsx_fragment":             ast.KindJSXElement,
	"jsx_attribute":            ast.KindJSXAttribute,

	"call_expression":  ast.KindCall,
	"return_statement": ast.KindReturn,
	"object":           ast.KindObject,
	"pair":             ast.KindPair,
	"type_annotation":  ast.KindTypeAnnotation,

	"required_parameter": ast.KindParameter,
	"optional_parameter": ast.KindParameter,

	"string":          ast.KindString,
	"template_string": ast.KindString,
	"true":            ast.KindBoolean,
	"false":           ast.KindBoolean,

	"binary_expression":  ast.KindBinary,
	"unary_expression":   ast.KindUnary,
	"ternary_expression": ast.KindTernary,
	"statement_block":    ast.KindBlock,
	"comment":            ast.KindComment,
	"predefined_type":    ast.KindPredefinedType,
	"ERROR":              ast.KindError,
}

func kindOf(nodeType string) ast.Kind {
	if k, ok := kinds[nodeType]; ok {
		return k
	}
	return ast.KindUnknown
}
