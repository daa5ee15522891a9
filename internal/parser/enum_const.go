package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// The PHP grammar has no rule for constants declared in an enum body, so
// `enum Suit { const Wild = 'w'; case Hearts; }` closes the enum with a
// MISSING brace and leaves Wild at the enclosing level. Enum constants are
// never global constants, so blanking them out and parsing again yields the
// tree of a file with the same declarations and the same byte offsets.

// enumConstSpans returns the byte ranges of const declarations that are
// direct members of an enum body, found by brace depth over the tokens of a
// possibly error-recovered tree
func enumConstSpans(root *tree_sitter.Node) [][2]uint {
	var enums []*tree_sitter.Node
	var tokens []*tree_sitter.Node
	collectEnumsAndTokens(root, &enums, &tokens)

	var spans [][2]uint
	for _, enum := range enums {
		start := enum.StartByte()
		i := 0
		for i < len(tokens) && (tokens[i].StartByte() < start || tokens[i].Kind() != "{") {
			i++
		}

		depth := 1
		for i++; i < len(tokens) && depth > 0; i++ {
			switch kind := tokens[i].Kind(); {
			case kind == "}":
				depth--
			case opensBrace(kind):
				depth++
			case kind == "const" && depth == 1:
				end := i + 1
				for end < len(tokens) && tokens[end].Kind() != ";" {
					end++
				}
				if end == len(tokens) {
					return spans
				}
				spans = append(spans, [2]uint{tokens[i].StartByte(), tokens[end].EndByte()})
				i = end
			}
		}
	}
	return spans
}

func opensBrace(kind string) bool {
	return kind == "{" || kind == "${"
}

func collectEnumsAndTokens(node *tree_sitter.Node, enums, tokens *[]*tree_sitter.Node) {
	if node == nil || node.IsMissing() {
		return
	}
	if node.Kind() == "enum_declaration" {
		*enums = append(*enums, node)
	}
	if node.ChildCount() == 0 {
		*tokens = append(*tokens, node)
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectEnumsAndTokens(node.Child(i), enums, tokens)
	}
}

// maskSpans returns a copy of content with every span blanked to spaces.
// Line breaks are kept so rows and columns elsewhere do not move.
func maskSpans(content []byte, spans [][2]uint) []byte {
	masked := make([]byte, len(content))
	copy(masked, content)
	for _, span := range spans {
		for i := span[0]; i < span[1] && i < uint(len(masked)); i++ {
			if masked[i] != '\n' && masked[i] != '\r' {
				masked[i] = ' '
			}
		}
	}
	return masked
}
