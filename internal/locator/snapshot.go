package locator

import (
	"iter"
	"slices"
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/phpsym/internal/types"
)

// SnapshotStats summarizes what a build found
type SnapshotStats struct {
	Namespaces         int
	Classes            int // distinct lower-cased class names
	DuplicateClasses   int // declarations beyond the first for a name
	Functions          int
	DuplicateFunctions int
	ConstStatements    int
	DefineCalls        int
	BuildDuration      time.Duration
}

// Snapshot is the immutable per-file index. All maps are keyed by the
// lower-cased fully qualified name; constants are kept in file order and are
// not keyed at all, since a define() call only reveals its name on conversion.
type Snapshot struct {
	source *types.LocatedSource
	tree   *sitter.Tree

	classes       map[string][]DeclarationNode
	classOrder    []string
	functions     map[string]DeclarationNode
	functionOrder []string
	constants     []DeclarationNode

	stats     SnapshotStats
	closeOnce sync.Once
}

func newSnapshot(src *types.LocatedSource, tree *sitter.Tree) *Snapshot {
	return &Snapshot{
		source:    src,
		tree:      tree,
		classes:   make(map[string][]DeclarationNode),
		functions: make(map[string]DeclarationNode),
	}
}

// Source returns the file the snapshot was built from
func (s *Snapshot) Source() *types.LocatedSource {
	return s.source
}

// Stats returns build statistics
func (s *Snapshot) Stats() SnapshotStats {
	return s.stats
}

// ClassNodes returns every declaration of a class-like name in file order.
// key must already be lower-cased.
func (s *Snapshot) ClassNodes(key string) ([]DeclarationNode, bool) {
	nodes, ok := s.classes[key]
	return slices.Clone(nodes), ok
}

// FunctionNode returns the function declared under key (lower-cased)
func (s *Snapshot) FunctionNode(key string) (DeclarationNode, bool) {
	node, ok := s.functions[key]
	return node, ok
}

// ConstantNodes returns the constant-bearing nodes in file order
func (s *Snapshot) ConstantNodes() []DeclarationNode {
	return slices.Clone(s.constants)
}

// Classes iterates class-like names in file order of their first declaration
func (s *Snapshot) Classes() iter.Seq2[string, []DeclarationNode] {
	return func(yield func(string, []DeclarationNode) bool) {
		for _, key := range s.classOrder {
			if !yield(key, slices.Clone(s.classes[key])) {
				return
			}
		}
	}
}

// Functions iterates functions in file order
func (s *Snapshot) Functions() iter.Seq2[string, DeclarationNode] {
	return func(yield func(string, DeclarationNode) bool) {
		for _, key := range s.functionOrder {
			if !yield(key, s.functions[key]) {
				return
			}
		}
	}
}

// Constants iterates constant-bearing nodes in file order
func (s *Snapshot) Constants() iter.Seq[DeclarationNode] {
	return func(yield func(DeclarationNode) bool) {
		for _, node := range s.constants {
			if !yield(node) {
				return
			}
		}
	}
}

// Close releases the syntax tree. Declaration nodes are invalid afterwards.
func (s *Snapshot) Close() {
	s.closeOnce.Do(func() {
		if s.tree != nil {
			s.tree.Close()
		}
	})
}

func (s *Snapshot) addClass(key string, node DeclarationNode) {
	existing, ok := s.classes[key]
	if !ok {
		s.classOrder = append(s.classOrder, key)
		s.stats.Classes++
	} else {
		s.stats.DuplicateClasses++
	}
	s.classes[key] = append(existing, node)
}

// addFunction keeps the first declaration of a name
func (s *Snapshot) addFunction(key string, node DeclarationNode) {
	if _, ok := s.functions[key]; ok {
		s.stats.DuplicateFunctions++
		return
	}
	s.functions[key] = node
	s.functionOrder = append(s.functionOrder, key)
	s.stats.Functions++
}

func (s *Snapshot) addConstant(node DeclarationNode) {
	s.constants = append(s.constants, node)
	switch node.Kind {
	case DeclConstStatement:
		s.stats.ConstStatements++
	case DeclDefineCall:
		s.stats.DefineCalls++
	}
}
