package locator

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/phpsym/internal/types"
)

// DeclarationKind classifies an indexed syntax node
type DeclarationKind uint8

const (
	DeclUnknown DeclarationKind = iota
	DeclClass                   // class, interface, trait or enum
	DeclFunction
	DeclConstStatement // const A = 1, B = 2;
	DeclDefineCall     // define('A', 1) or another configured define function
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclFunction:
		return "function"
	case DeclConstStatement:
		return "const_statement"
	case DeclDefineCall:
		return "define_call"
	default:
		return "unknown"
	}
}

// IdentifierKind maps a declaration kind to the identifier kind it yields
func (k DeclarationKind) IdentifierKind() types.IdentifierKind {
	switch k {
	case DeclClass:
		return types.KindClass
	case DeclFunction:
		return types.KindFunction
	case DeclConstStatement, DeclDefineCall:
		return types.KindConstant
	default:
		return types.KindUnknown
	}
}

// UseKind is the kind of symbol a use clause imports
type UseKind uint8

const (
	UseClass UseKind = iota
	UseFunction
	UseConstant
)

// UseImport is one clause of a `use` declaration
type UseImport struct {
	Kind  UseKind
	Name  string // fully qualified, no leading separator
	Alias string // explicit alias or the last segment of Name
}

// Namespace is the namespace context active at a declaration
type Namespace struct {
	Name string       // "" for the global namespace
	Node *sitter.Node // namespace_definition, nil for the implicit global namespace
	Uses []UseImport  // imports declared before the declaration, in file order
}

// IsGlobal reports whether this is the global namespace
func (ns Namespace) IsGlobal() bool {
	return ns.Name == ""
}

// Qualify prefixes a short declared name with the namespace
func (ns Namespace) Qualify(short string) string {
	if ns.Name == "" {
		return short
	}
	return ns.Name + types.NamespaceSeparator + short
}

// ResolveClassName resolves a class reference written inside this namespace
// using PHP's rules: fully qualified names are taken as is, the first segment
// is matched against class imports (case-insensitive), otherwise the current
// namespace is prepended. self, static and parent are returned unchanged.
func (ns Namespace) ResolveClassName(ref string) string {
	if strings.HasPrefix(ref, types.NamespaceSeparator) {
		return strings.TrimPrefix(ref, types.NamespaceSeparator)
	}
	switch strings.ToLower(ref) {
	case "self", "static", "parent":
		return ref
	}
	if strings.HasPrefix(strings.ToLower(ref), "namespace"+types.NamespaceSeparator) {
		return ns.Qualify(ref[len("namespace")+1:])
	}

	first, rest, qualified := strings.Cut(ref, types.NamespaceSeparator)
	for i := len(ns.Uses) - 1; i >= 0; i-- {
		use := ns.Uses[i]
		if use.Kind != UseClass || !strings.EqualFold(use.Alias, first) {
			continue
		}
		if qualified {
			return use.Name + types.NamespaceSeparator + rest
		}
		return use.Name
	}
	return ns.Qualify(ref)
}

// DeclarationNode is one indexed declaration: the syntax node plus the
// namespace context it was declared in. It is owned by a Snapshot and
// must not be used after the Snapshot is closed.
type DeclarationNode struct {
	Node      *sitter.Node
	Kind      DeclarationKind
	Namespace Namespace

	// Name is the declared fully qualified name for classes and functions.
	// Constants carry no name: it is only known after conversion.
	Name string

	// ElementCount is the number of const_element children of a const statement
	ElementCount int
}

// Line returns the 1-based start line of the node
func (d DeclarationNode) Line() int {
	if d.Node == nil {
		return 0
	}
	return int(d.Node.StartPosition().Row) + 1
}
