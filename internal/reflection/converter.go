package reflection

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/phpsym/internal/locator"
	"github.com/standardbeagle/phpsym/internal/types"
)

// NodeConverter is the default locator.Converter. It reads everything from
// the syntax tree and resolves referenced class names through the use
// imports of the declaration's namespace context.
type NodeConverter struct{}

var _ locator.Converter = NodeConverter{}

// NewNodeConverter creates the default converter
func NewNodeConverter() NodeConverter {
	return NodeConverter{}
}

// Convert implements locator.Converter
func (c NodeConverter) Convert(node locator.DeclarationNode, src *types.LocatedSource, position int) (types.Reflection, error) {
	if node.Node == nil {
		return nil, fmt.Errorf("declaration node without syntax node")
	}

	switch node.Kind {
	case locator.DeclClass:
		return c.convertClass(node, src)
	case locator.DeclFunction:
		return c.convertFunction(node, src)
	case locator.DeclConstStatement:
		return c.convertConstStatement(node, src, position)
	case locator.DeclDefineCall:
		return c.convertDefineCall(node, src)
	default:
		return nil, fmt.Errorf("unsupported declaration kind %s", node.Kind)
	}
}

func (c NodeConverter) convertClass(node locator.DeclarationNode, src *types.LocatedSource) (types.Reflection, error) {
	content := src.Content()
	n := node.Node
	if !locator.IsClassLikeKind(n.Kind()) {
		return nil, fmt.Errorf("%s node is not a class-like declaration", n.Kind())
	}

	short := locator.NodeText(n.ChildByFieldName("name"), content)
	refl := &ClassReflection{
		QualifiedName: node.Namespace.Qualify(short),
		ShortName:     short,
		NamespaceName: node.Namespace.Name,
		ClassKind:     classKindOf(n.Kind()),
		Location:      locationOf(n),
		source:        src,
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "abstract_modifier", "final_modifier", "readonly_modifier":
			refl.Modifiers = append(refl.Modifiers, strings.ToLower(locator.NodeText(child, content)))
		case "base_clause":
			names := c.classNames(child, node.Namespace, content)
			if refl.ClassKind == ClassKindInterface {
				// interface A extends B, C
				refl.Interfaces = append(refl.Interfaces, names...)
			} else if len(names) > 0 {
				refl.Parent = names[0]
			}
		case "class_interface_clause":
			refl.Interfaces = append(refl.Interfaces, c.classNames(child, node.Namespace, content)...)
		case "primitive_type", "union_type", "named_type":
			// enum Suit: string
			if refl.ClassKind == ClassKindEnum {
				refl.BackingType = locator.NodeText(child, content)
			}
		}
	}

	return refl, nil
}

// classNames resolves every name listed in an extends/implements clause
func (c NodeConverter) classNames(clause *sitter.Node, ns locator.Namespace, content []byte) []string {
	var names []string
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "name", "qualified_name":
			names = append(names, ns.ResolveClassName(locator.NodeText(child, content)))
		}
	}
	return names
}

func classKindOf(kind string) ClassKind {
	switch kind {
	case "interface_declaration":
		return ClassKindInterface
	case "trait_declaration":
		return ClassKindTrait
	case "enum_declaration":
		return ClassKindEnum
	default:
		return ClassKindClass
	}
}

func (c NodeConverter) convertFunction(node locator.DeclarationNode, src *types.LocatedSource) (types.Reflection, error) {
	content := src.Content()
	n := node.Node
	if n.Kind() != "function_definition" {
		return nil, fmt.Errorf("%s node is not a function definition", n.Kind())
	}

	short := locator.NodeText(n.ChildByFieldName("name"), content)
	refl := &FunctionReflection{
		QualifiedName:    node.Namespace.Qualify(short),
		ShortName:        short,
		NamespaceName:    node.Namespace.Name,
		ReturnsReference: locator.FindChildByType(n, "reference_modifier") != nil,
		Location:         locationOf(n),
		source:           src,
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		refl.ReturnType = strings.TrimSpace(strings.TrimPrefix(locator.NodeText(rt, content), ":"))
	}

	params := n.ChildByFieldName("parameters")
	if params == nil {
		params = locator.FindChildByType(n, "formal_parameters")
	}
	for i := uint(0); params != nil && i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		switch p.Kind() {
		case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
			refl.Parameters = append(refl.Parameters, parameterOf(p, content))
		}
	}

	return refl, nil
}

func parameterOf(p *sitter.Node, content []byte) Parameter {
	param := Parameter{
		Name:     strings.TrimPrefix(locator.NodeText(p.ChildByFieldName("name"), content), "$"),
		Type:     locator.NodeText(p.ChildByFieldName("type"), content),
		Variadic: p.Kind() == "variadic_parameter",
		Promoted: p.Kind() == "property_promotion_parameter",
		ByRef:    p.ChildByFieldName("reference_modifier") != nil || locator.FindChildByType(p, "reference_modifier") != nil,
	}
	if def := p.ChildByFieldName("default_value"); def != nil {
		param.Default = locator.NodeText(def, content)
		param.HasDefault = true
	}
	return param
}

func (c NodeConverter) convertConstStatement(node locator.DeclarationNode, src *types.LocatedSource, position int) (types.Reflection, error) {
	content := src.Content()
	elements := locator.ConstElements(node.Node)
	if position < 0 || position >= len(elements) {
		return nil, fmt.Errorf("const position %d out of range (statement declares %d)", position, len(elements))
	}
	el := elements[position]

	nameNode := locator.FindChildByType(el, "name")
	if nameNode == nil {
		return nil, fmt.Errorf("const element %d has no name", position)
	}
	short := locator.NodeText(nameNode, content)

	// const_element: name '=' expression
	var value string
	if count := el.NamedChildCount(); count > 1 {
		value = locator.NodeText(el.NamedChild(count-1), content)
	}

	return &ConstantReflection{
		QualifiedName: node.Namespace.Qualify(short),
		ShortName:     short,
		NamespaceName: node.Namespace.Name,
		Value:         value,
		Position:      position,
		Location:      locationOf(el),
		source:        src,
	}, nil
}

// convertDefineCall yields no result unless the call is define('NAME', value)
// with a literal name; define() names are global unless they contain a
// separator, independent of the namespace the call appears in.
func (c NodeConverter) convertDefineCall(node locator.DeclarationNode, src *types.LocatedSource) (types.Reflection, error) {
	content := src.Content()
	if node.Node.Kind() != "function_call_expression" {
		return nil, fmt.Errorf("%s node is not a call expression", node.Node.Kind())
	}

	args := locator.CallArguments(node.Node)
	if len(args) < 2 || len(args) > 3 {
		return nil, nil
	}
	name, ok := locator.StringLiteral(locator.ArgumentValue(args[0]), content)
	if !ok {
		return nil, nil
	}
	name = strings.TrimPrefix(name, types.NamespaceSeparator)
	if name == "" {
		return nil, nil
	}
	value := locator.ArgumentValue(args[1])
	if value == nil {
		return nil, nil
	}

	ns, short := "", name
	if i := strings.LastIndex(name, types.NamespaceSeparator); i >= 0 {
		ns, short = name[:i], name[i+1:]
	}

	return &ConstantReflection{
		QualifiedName: name,
		ShortName:     short,
		NamespaceName: ns,
		Value:         locator.NodeText(value, content),
		ViaDefine:     true,
		Position:      locator.NoPosition,
		Location:      locationOf(node.Node),
		source:        src,
	}, nil
}
