package locator

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/phpsym/internal/types"
)

// Suggestion is a declared name close to a name that was not found
type Suggestion struct {
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// Suggest returns declared names of the same kind close to id.Name, nearest
// first. It only reads the syntax tree and never calls the converter, so
// define() calls contribute only when their name argument is a literal.
func (r *Resolver) Suggest(id types.Identifier) ([]Suggestion, error) {
	if !id.Kind.IsValid() {
		return nil, r.invariant("suggest", id.String(), "class, function or constant identifier", id.Kind.String())
	}
	if !r.suggest.Enabled || r.suggest.MaxResults <= 0 {
		return nil, nil
	}

	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(id.Name)
	seen := make(map[string]struct{})
	var out []Suggestion
	for _, name := range snap.declaredNames(id.Kind) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		dist := edlib.LevenshteinDistance(target, strings.ToLower(name))
		if dist > r.suggest.MaxDistance {
			continue
		}
		out = append(out, Suggestion{Name: name, Distance: dist})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > r.suggest.MaxResults {
		out = out[:r.suggest.MaxResults]
	}
	return out, nil
}

// declaredNames lists syntactically visible names of one kind in file order
func (s *Snapshot) declaredNames(kind types.IdentifierKind) []string {
	var names []string
	switch kind {
	case types.KindClass:
		for _, key := range s.classOrder {
			names = append(names, s.classes[key][0].Name)
		}
	case types.KindFunction:
		for _, key := range s.functionOrder {
			names = append(names, s.functions[key].Name)
		}
	case types.KindConstant:
		content := s.source.Content()
		for _, node := range s.constants {
			switch node.Kind {
			case DeclConstStatement:
				for _, el := range ConstElements(node.Node) {
					if nameNode := FindChildByType(el, "name"); nameNode != nil {
						names = append(names, node.Namespace.Qualify(NodeText(nameNode, content)))
					}
				}
			case DeclDefineCall:
				args := CallArguments(node.Node)
				if len(args) == 0 {
					continue
				}
				if lit, ok := StringLiteral(ArgumentValue(args[0]), content); ok && lit != "" {
					names = append(names, strings.TrimPrefix(lit, types.NamespaceSeparator))
				}
			}
		}
	}
	return names
}
