package types

import (
	"fmt"
	"strings"
)

// IdentifierKind is the kind of symbol a caller asks a locator for
type IdentifierKind int

const (
	KindUnknown IdentifierKind = iota
	KindClass
	KindFunction
	KindConstant
)

// identifierKindStrings provides O(1) lookup for identifier kind names
var identifierKindStrings = map[IdentifierKind]string{
	KindClass:    "class",
	KindFunction: "function",
	KindConstant: "constant",
}

// String returns a string representation of the identifier kind
func (k IdentifierKind) String() string {
	if name, ok := identifierKindStrings[k]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether k is one of the kinds a locator understands
func (k IdentifierKind) IsValid() bool {
	_, ok := identifierKindStrings[k]
	return ok
}

// ParseIdentifierKind parses "class", "function" or "constant" (case-insensitive).
// The short forms "fn" and "const" are accepted as well.
func ParseIdentifierKind(s string) (IdentifierKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class":
		return KindClass, nil
	case "function", "fn":
		return KindFunction, nil
	case "constant", "const":
		return KindConstant, nil
	default:
		return KindUnknown, fmt.Errorf("unknown identifier kind %q", s)
	}
}

// NamespaceSeparator separates PHP namespace segments
const NamespaceSeparator = `\`

// Identifier is a (kind, name) query key. Name is fully qualified without
// a leading namespace separator.
type Identifier struct {
	Kind IdentifierKind
	Name string
}

// NewIdentifier creates an identifier, stripping a leading namespace separator
func NewIdentifier(kind IdentifierKind, name string) Identifier {
	return Identifier{
		Kind: kind,
		Name: strings.TrimPrefix(name, NamespaceSeparator),
	}
}

// IsClass reports whether the identifier asks for a class-like symbol
func (id Identifier) IsClass() bool { return id.Kind == KindClass }

// IsFunction reports whether the identifier asks for a function
func (id Identifier) IsFunction() bool { return id.Kind == KindFunction }

// IsConstant reports whether the identifier asks for a global constant
func (id Identifier) IsConstant() bool { return id.Kind == KindConstant }

func (id Identifier) String() string {
	return id.Kind.String() + " " + id.Name
}

// Reflection is a realized view of one declared symbol.
// Implementations live outside this package; callers must check Kind
// before narrowing to a concrete type.
type Reflection interface {
	Kind() IdentifierKind
	// Name is the fully qualified name, without a leading separator
	Name() string
	// Source is the file the symbol was declared in
	Source() *LocatedSource
}
