package locator

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/phpsym/internal/config"
	"github.com/standardbeagle/phpsym/internal/debug"
	"github.com/standardbeagle/phpsym/internal/parser"
	"github.com/standardbeagle/phpsym/internal/types"
)

// IndexBuilder produces the snapshot for one file
type IndexBuilder interface {
	Build(src *types.LocatedSource) (*Snapshot, error)
}

// BuildFunc adapts a function to IndexBuilder
type BuildFunc func(src *types.LocatedSource) (*Snapshot, error)

// Build calls f(src)
func (f BuildFunc) Build(src *types.LocatedSource) (*Snapshot, error) {
	return f(src)
}

// Builder walks a PHP syntax tree once and classifies every declaration
// into the class, function or constant bucket of a Snapshot.
type Builder struct {
	parser          *parser.PHPParser
	defineFunctions map[string]struct{}
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithParser sets the parser used to produce syntax trees
func WithParser(p *parser.PHPParser) BuilderOption {
	return func(b *Builder) {
		b.parser = p
	}
}

// WithDefineFunctions replaces the set of call names treated as runtime
// constant definitions. Matching is case-insensitive.
func WithDefineFunctions(names ...string) BuilderOption {
	return func(b *Builder) {
		b.defineFunctions = make(map[string]struct{}, len(names))
		for _, name := range names {
			b.defineFunctions[strings.ToLower(strings.TrimPrefix(name, `\`))] = struct{}{}
		}
	}
}

// NewBuilder creates a builder with a strict parser and `define` as the
// only define function
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	WithDefineFunctions("define")(b)
	for _, opt := range opts {
		opt(b)
	}
	if b.parser == nil {
		b.parser = parser.NewPHPParser()
	}
	return b
}

// NewBuilderFromConfig creates a builder from the parser and index sections
func NewBuilderFromConfig(cfg *config.Config) *Builder {
	return NewBuilder(
		WithParser(parser.NewPHPParser(parser.WithStrict(cfg.Parser.Strict))),
		WithDefineFunctions(cfg.Index.DefineFunctions...),
	)
}

// Build parses src and indexes it. The only expected failure is a
// SourceUnreadableError from the parser.
func (b *Builder) Build(src *types.LocatedSource) (*Snapshot, error) {
	start := time.Now()

	tree, err := b.parser.Parse(src)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(src, tree)
	w := &walker{
		builder: b,
		content: src.Content(),
		snap:    snap,
	}
	w.walkProgram(tree.RootNode())

	snap.stats.BuildDuration = time.Since(start)
	debug.LogIndex("%s: %d classes, %d functions, %d const statements, %d define calls in %v\n",
		src.Path(), snap.stats.Classes, snap.stats.Functions,
		snap.stats.ConstStatements, snap.stats.DefineCalls, snap.stats.BuildDuration)

	return snap, nil
}

func (b *Builder) isDefineFunction(name string) bool {
	if name == "" || strings.Contains(name, `\`) {
		return false
	}
	_, ok := b.defineFunctions[strings.ToLower(name)]
	return ok
}

// nsState is the mutable namespace context while walking. Declarations take
// a capped copy of uses so later imports never leak into earlier nodes.
type nsState struct {
	name string
	node *sitter.Node
	uses []UseImport
}

func (ns *nsState) context() Namespace {
	return Namespace{
		Name: ns.name,
		Node: ns.node,
		Uses: ns.uses[:len(ns.uses):len(ns.uses)],
	}
}

type walker struct {
	builder *Builder
	content []byte
	snap    *Snapshot
}

// walkProgram handles top-level statements, where namespace definitions
// without a body scope every following sibling up to the next definition
func (w *walker) walkProgram(root *sitter.Node) {
	global := &nsState{}
	current := global

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() != kindNamespaceDefinition {
			w.walk(child, current)
			continue
		}

		w.snap.stats.Namespaces++
		ns := &nsState{
			name: strings.TrimPrefix(NodeText(child.ChildByFieldName("name"), w.content), `\`),
			node: child,
		}
		if body := child.ChildByFieldName("body"); body != nil {
			w.walk(body, ns)
			current = &nsState{}
			continue
		}
		current = ns
	}
}

func (w *walker) walk(node *sitter.Node, ns *nsState) {
	if node == nil {
		return
	}

	switch kind := node.Kind(); kind {
	case kindNamespaceUse:
		ns.uses = append(ns.uses, w.useImports(node)...)
		return

	case kindClass, kindInterface, kindTrait, kindEnum:
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			fqn := ns.context().Qualify(NodeText(nameNode, w.content))
			w.snap.addClass(strings.ToLower(fqn), DeclarationNode{
				Node:      node,
				Kind:      DeclClass,
				Namespace: ns.context(),
				Name:      fqn,
			})
		}

	case kindFunction:
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			fqn := ns.context().Qualify(NodeText(nameNode, w.content))
			w.snap.addFunction(strings.ToLower(fqn), DeclarationNode{
				Node:      node,
				Kind:      DeclFunction,
				Namespace: ns.context(),
				Name:      fqn,
			})
		}

	case kindConstDeclaration:
		// class constants normally stop at the declaration list case; this
		// catches ones an error-recovered tree attaches elsewhere
		if insideClassBody(node) {
			return
		}
		w.snap.addConstant(DeclarationNode{
			Node:         node,
			Kind:         DeclConstStatement,
			Namespace:    ns.context(),
			ElementCount: len(ConstElements(node)),
		})
		return

	case kindFunctionCall:
		if w.builder.isDefineFunction(CalleeName(node, w.content)) {
			w.snap.addConstant(DeclarationNode{
				Node:      node,
				Kind:      DeclDefineCall,
				Namespace: ns.context(),
			})
		}

	case kindDeclarationList, kindEnumDeclarationList:
		// class-like bodies, including anonymous classes: skip class
		// constants but still look into methods for define() calls
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil || child.Kind() == kindConstDeclaration {
				continue
			}
			w.walk(child, ns)
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i), ns)
	}
}

// useImports extracts the clauses of a use declaration, including group uses
func (w *walker) useImports(decl *sitter.Node) []UseImport {
	declKind := useKindOf(decl, w.content)

	prefix := ""
	if nsName := FindChildByType(decl, "namespace_name"); nsName != nil {
		prefix = strings.TrimPrefix(NodeText(nsName, w.content), `\`)
	}

	var imports []UseImport
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case kindUseClause, kindUseGroupClause:
				if imp, ok := w.useClause(child, declKind, prefix); ok {
					imports = append(imports, imp)
				}
			case "namespace_use_group":
				visit(child)
			}
		}
	}
	visit(decl)
	return imports
}

func (w *walker) useClause(clause *sitter.Node, declKind UseKind, prefix string) (UseImport, bool) {
	imp := UseImport{Kind: declKind}
	if k := useKindOf(clause, w.content); k != UseClass {
		imp.Kind = k
	}

	seenAs := false
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		if !child.IsNamed() {
			if strings.EqualFold(NodeText(child, w.content), "as") {
				seenAs = true
			}
			continue
		}
		switch child.Kind() {
		case "name", "qualified_name", "namespace_name":
			if seenAs {
				imp.Alias = NodeText(child, w.content)
			} else if imp.Name == "" {
				imp.Name = strings.TrimPrefix(NodeText(child, w.content), `\`)
			}
		}
	}
	if alias := clause.ChildByFieldName("alias"); alias != nil {
		imp.Alias = NodeText(alias, w.content)
	}
	if imp.Name == "" {
		return imp, false
	}

	if prefix != "" {
		imp.Name = prefix + types.NamespaceSeparator + imp.Name
	}
	if imp.Alias == "" {
		imp.Alias = imp.Name[strings.LastIndex(imp.Name, types.NamespaceSeparator)+1:]
	}
	return imp, true
}

// useKindOf reads a `function` or `const` keyword among the direct children
func useKindOf(node *sitter.Node, content []byte) UseKind {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch strings.ToLower(NodeText(child, content)) {
		case "function":
			return UseFunction
		case "const":
			return UseConstant
		}
	}
	return UseClass
}
