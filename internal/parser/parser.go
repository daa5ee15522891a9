package parser

import (
	"errors"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/standardbeagle/phpsym/internal/debug"
	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
	"github.com/standardbeagle/phpsym/internal/types"
)

// PHPParser turns PHP source into tree-sitter syntax trees.
// It is safe for concurrent use; each Parse borrows a pooled tree-sitter
// parser, which itself must never be shared between goroutines.
type PHPParser struct {
	strict   bool
	language *tree_sitter.Language
	pool     sync.Pool
}

// Option configures a PHPParser
type Option func(*PHPParser)

// WithStrict controls whether trees containing syntax errors are rejected
func WithStrict(strict bool) Option {
	return func(p *PHPParser) {
		p.strict = strict
	}
}

var (
	phpLanguage     *tree_sitter.Language
	phpLanguageOnce sync.Once
)

// Language returns the shared PHP grammar
func Language() *tree_sitter.Language {
	phpLanguageOnce.Do(func() {
		phpLanguage = tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	})
	return phpLanguage
}

// NewPHPParser creates a parser; strict mode is on by default
func NewPHPParser(opts ...Option) *PHPParser {
	p := &PHPParser{
		strict:   true,
		language: Language(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.pool.New = func() any {
		parser := tree_sitter.NewParser()
		if err := parser.SetLanguage(p.language); err != nil {
			debug.LogParse("failed to set PHP language: %v\n", err)
			parser.Close()
			return nil
		}
		return parser
	}
	return p
}

// Strict reports whether syntax errors are rejected
func (p *PHPParser) Strict() bool {
	return p.strict
}

// Parse parses the source. The caller owns the returned tree and must Close it.
// Failures are reported as SourceUnreadableError.
func (p *PHPParser) Parse(src *types.LocatedSource) (*tree_sitter.Tree, error) {
	parser, _ := p.pool.Get().(*tree_sitter.Parser)
	if parser == nil {
		return nil, lcierrors.NewSourceUnreadableError("parse", src.Path(), errors.New("PHP grammar unavailable"))
	}
	tree := parser.Parse(src.Content(), nil)
	if tree != nil && tree.RootNode() != nil && tree.RootNode().HasError() {
		if spans := enumConstSpans(tree.RootNode()); len(spans) > 0 {
			debug.LogParse("%s: reparsing without %d enum constant(s)\n", src.Path(), len(spans))
			parser.Reset()
			tree.Close()
			tree = parser.Parse(maskSpans(src.Content(), spans), nil)
		}
	}
	parser.Reset()
	p.pool.Put(parser)

	if tree == nil {
		return nil, lcierrors.NewSourceUnreadableError("parse", src.Path(), errors.New("parser produced no tree"))
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, lcierrors.NewSourceUnreadableError("parse", src.Path(), errors.New("empty syntax tree"))
	}

	if root.HasError() {
		bad := FirstErrorNode(root)
		if p.strict {
			tree.Close()
			err := lcierrors.NewSourceUnreadableError("parse", src.Path(), errors.New("syntax error"))
			if bad != nil {
				pos := bad.StartPosition()
				err.Underlying = fmt.Errorf("syntax error near %q", snippet(bad, src.Content()))
				err.WithPosition(int(pos.Row)+1, int(pos.Column)+1)
			}
			return nil, err
		}
		if bad != nil {
			debug.LogParse("%s: indexing error-tolerant tree, first error at line %d\n", src.Path(), bad.StartPosition().Row+1)
		}
	}

	return tree, nil
}

// FirstErrorNode returns the first ERROR or MISSING node in document order
func FirstErrorNode(node *tree_sitter.Node) *tree_sitter.Node {
	if node == nil || !node.HasError() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := FirstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	// HasError can be set without an error child on zero-width nodes
	return node
}

// snippet returns a short, single-line excerpt of the node text
func snippet(node *tree_sitter.Node, content []byte) string {
	const maxLen = 32
	start, end := node.StartByte(), node.EndByte()
	if start > uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}
	text := content[start:end]
	for i, b := range text {
		if b == '\n' || b == '\r' {
			text = text[:i]
			break
		}
	}
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return string(text)
}
