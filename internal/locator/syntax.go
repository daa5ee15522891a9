package locator

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node kinds of the tree-sitter PHP grammar used by the index builder
const (
	kindNamespaceDefinition = "namespace_definition"
	kindNamespaceUse        = "namespace_use_declaration"
	kindUseClause           = "namespace_use_clause"
	kindUseGroupClause      = "namespace_use_group_clause"
	kindClass               = "class_declaration"
	kindInterface           = "interface_declaration"
	kindTrait               = "trait_declaration"
	kindEnum                = "enum_declaration"
	kindFunction            = "function_definition"
	kindConstDeclaration    = "const_declaration"
	kindConstElement        = "const_element"
	kindFunctionCall        = "function_call_expression"
	kindDeclarationList     = "declaration_list"
	kindEnumDeclarationList = "enum_declaration_list"
)

// IsClassLikeKind reports whether a node kind declares a class-like symbol
func IsClassLikeKind(kind string) bool {
	switch kind {
	case kindClass, kindInterface, kindTrait, kindEnum:
		return true
	}
	return false
}

// insideClassBody reports whether node has a class-like body or enum
// declaration among its ancestors
func insideClassBody(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case kindDeclarationList, kindEnumDeclarationList, kindEnum:
			return true
		}
	}
	return false
}

// NodeText extracts text content from an AST node
func NodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()

	if start > uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}

	return string(content[start:end])
}

// FindChildByType finds the first child node of the given type
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			return child
		}
	}

	return nil
}

// FindChildrenByType finds all child nodes of the given type
func FindChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	if node == nil {
		return nil
	}

	var children []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			children = append(children, child)
		}
	}

	return children
}

// ConstElements returns the const_element children of a const statement in order
func ConstElements(stmt *sitter.Node) []*sitter.Node {
	return FindChildrenByType(stmt, kindConstElement)
}

// CallArguments returns the argument nodes of a call expression
func CallArguments(call *sitter.Node) []*sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		args = FindChildByType(call, "arguments")
	}
	return FindChildrenByType(args, "argument")
}

// CalleeName returns the called function name of a call expression with a
// single leading namespace separator removed, or "" for dynamic calls
func CalleeName(call *sitter.Node, content []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "name", "qualified_name":
		return strings.TrimPrefix(NodeText(fn, content), `\`)
	}
	return ""
}

// StringLiteral returns the value of a plain string literal expression.
// Interpolated strings, heredocs and any other expression report false.
func StringLiteral(expr *sitter.Node, content []byte) (string, bool) {
	if expr == nil {
		return "", false
	}
	switch expr.Kind() {
	case "string", "encapsed_string":
	default:
		return "", false
	}

	if expr.NamedChildCount() == 0 {
		// grammars without string_content children expose the raw token
		text := NodeText(expr, content)
		text = strings.TrimPrefix(strings.TrimPrefix(text, "b"), "B")
		if len(text) < 2 {
			return "", false
		}
		return text[1 : len(text)-1], true
	}

	var sb strings.Builder
	for i := uint(0); i < expr.NamedChildCount(); i++ {
		part := expr.NamedChild(i)
		switch part.Kind() {
		case "string_content", "string_value":
			sb.WriteString(NodeText(part, content))
		case "escape_sequence":
			sb.WriteString(unescape(NodeText(part, content)))
		default:
			// variables and other interpolation
			return "", false
		}
	}
	return sb.String(), true
}

// unescape handles the escape sequences that can appear in constant names
func unescape(seq string) string {
	switch seq {
	case `\\`:
		return `\`
	case `\'`:
		return `'`
	case `\"`:
		return `"`
	case `\$`:
		return `$`
	case `\n`:
		return "\n"
	case `\t`:
		return "\t"
	}
	return seq
}

// ArgumentValue returns the expression of an argument node, or nil for
// spread and named arguments
func ArgumentValue(arg *sitter.Node) *sitter.Node {
	if arg == nil {
		return nil
	}
	if arg.ChildByFieldName("name") != nil {
		return nil
	}
	for i := uint(0); i < arg.NamedChildCount(); i++ {
		child := arg.NamedChild(i)
		switch child.Kind() {
		case "comment", "reference_modifier":
			continue
		case "variadic_unpacking":
			return nil
		}
		return child
	}
	return nil
}
