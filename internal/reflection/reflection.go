package reflection

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/phpsym/internal/types"
)

// ClassKind distinguishes the class-like declarations PHP shares one symbol table for
type ClassKind string

const (
	ClassKindClass     ClassKind = "class"
	ClassKindInterface ClassKind = "interface"
	ClassKindTrait     ClassKind = "trait"
	ClassKindEnum      ClassKind = "enum"
)

// Location is the span of a declaration in its file (lines are 1-based)
type Location struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
	StartByte int `json:"start_byte"`
	EndByte   int `json:"end_byte"`
}

func locationOf(node *sitter.Node) Location {
	return Location{
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
	}
}

// ClassReflection describes a class, interface, trait or enum
type ClassReflection struct {
	QualifiedName string    `json:"name"`
	ShortName     string    `json:"short_name"`
	NamespaceName string    `json:"namespace,omitempty"`
	ClassKind     ClassKind `json:"class_kind"`
	Modifiers     []string  `json:"modifiers,omitempty"`
	Parent        string    `json:"parent,omitempty"`
	Interfaces    []string  `json:"interfaces,omitempty"`
	BackingType   string    `json:"backing_type,omitempty"` // enums only
	Location      Location  `json:"location"`

	source *types.LocatedSource
}

func (c *ClassReflection) Kind() types.IdentifierKind   { return types.KindClass }
func (c *ClassReflection) Name() string                 { return c.QualifiedName }
func (c *ClassReflection) Source() *types.LocatedSource { return c.source }
func (c *ClassReflection) Line() int                    { return c.Location.StartLine }

// IsAbstract reports an abstract class
func (c *ClassReflection) IsAbstract() bool { return c.hasModifier("abstract") }

// IsFinal reports a final class
func (c *ClassReflection) IsFinal() bool { return c.hasModifier("final") }

func (c *ClassReflection) hasModifier(m string) bool {
	for _, have := range c.Modifiers {
		if have == m {
			return true
		}
	}
	return false
}

// Parameter is one formal parameter of a function
type Parameter struct {
	Name       string `json:"name"` // without the leading $
	Type       string `json:"type,omitempty"`
	Default    string `json:"default,omitempty"`
	Variadic   bool   `json:"variadic,omitempty"`
	ByRef      bool   `json:"by_ref,omitempty"`
	Promoted   bool   `json:"promoted,omitempty"`
	HasDefault bool   `json:"has_default,omitempty"`
}

// FunctionReflection describes a global or namespaced function
type FunctionReflection struct {
	QualifiedName    string      `json:"name"`
	ShortName        string      `json:"short_name"`
	NamespaceName    string      `json:"namespace,omitempty"`
	Parameters       []Parameter `json:"parameters,omitempty"`
	ReturnType       string      `json:"return_type,omitempty"`
	ReturnsReference bool        `json:"returns_reference,omitempty"`
	Location         Location    `json:"location"`

	source *types.LocatedSource
}

func (f *FunctionReflection) Kind() types.IdentifierKind   { return types.KindFunction }
func (f *FunctionReflection) Name() string                 { return f.QualifiedName }
func (f *FunctionReflection) Source() *types.LocatedSource { return f.source }
func (f *FunctionReflection) Line() int                    { return f.Location.StartLine }

// ConstantReflection describes a global constant from a const statement or a define() call
type ConstantReflection struct {
	QualifiedName string   `json:"name"`
	ShortName     string   `json:"short_name"`
	NamespaceName string   `json:"namespace,omitempty"`
	Value         string   `json:"value"` // source text of the value expression
	ViaDefine     bool     `json:"via_define,omitempty"`
	Position      int      `json:"position"` // index within a const statement, -1 for define()
	Location      Location `json:"location"`

	source *types.LocatedSource
}

func (c *ConstantReflection) Kind() types.IdentifierKind   { return types.KindConstant }
func (c *ConstantReflection) Name() string                 { return c.QualifiedName }
func (c *ConstantReflection) Source() *types.LocatedSource { return c.source }
func (c *ConstantReflection) Line() int                    { return c.Location.StartLine }
