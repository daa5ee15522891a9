package locator

import (
	"github.com/standardbeagle/phpsym/internal/types"
)

// NoPosition is passed to Convert for nodes that are not const statements
const NoPosition = -1

// Converter materializes a declaration node into a reflection.
//
// position is the const_element index for DeclConstStatement nodes and
// NoPosition otherwise. A nil reflection with a nil error means "no result":
// the node turned out not to declare anything, which is expected for define
// calls whose arguments are not a literal name and a value.
//
// Conversion may be expensive, so the resolver only calls it for the
// candidates needed to answer one query.
type Converter interface {
	Convert(node DeclarationNode, src *types.LocatedSource, position int) (types.Reflection, error)
}

// ConverterFunc adapts a function to Converter
type ConverterFunc func(node DeclarationNode, src *types.LocatedSource, position int) (types.Reflection, error)

// Convert calls f
func (f ConverterFunc) Convert(node DeclarationNode, src *types.LocatedSource, position int) (types.Reflection, error) {
	return f(node, src, position)
}
