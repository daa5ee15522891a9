package locator

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/phpsym/internal/config"
	"github.com/standardbeagle/phpsym/internal/debug"
	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
	"github.com/standardbeagle/phpsym/internal/types"
)

// ErrResolverClosed is returned by every operation after Close
var ErrResolverClosed = errors.New("resolver closed")

// Resolver answers "does this file declare X" for one LocatedSource.
//
// The snapshot is built on first use and reused for the lifetime of the
// Resolver; the file content is assumed immutable. A Resolver may be shared
// between goroutines, except that Close must not race with other calls.
type Resolver struct {
	source    *types.LocatedSource
	builder   IndexBuilder
	converter Converter
	suggest   config.Suggest

	mu       sync.Mutex // guards the empty -> built transition
	snapshot atomic.Pointer[Snapshot]
	closed   atomic.Bool

	stats resolverCounters
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithSuggestConfig sets the bounds used by Suggest
func WithSuggestConfig(cfg config.Suggest) ResolverOption {
	return func(r *Resolver) {
		r.suggest = cfg
	}
}

// NewResolver creates a resolver for src. Nothing is parsed until the first query.
func NewResolver(src *types.LocatedSource, builder IndexBuilder, converter Converter, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:    src,
		builder:   builder,
		converter: converter,
		suggest:   config.Default().Suggest,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the file this resolver answers for
func (r *Resolver) Source() *types.LocatedSource {
	return r.source
}

// Snapshot returns the index, building it on first use
func (r *Resolver) Snapshot() (*Snapshot, error) {
	if r.closed.Load() {
		return nil, ErrResolverClosed
	}
	if snap := r.snapshot.Load(); snap != nil {
		return snap, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return nil, ErrResolverClosed
	}
	if snap := r.snapshot.Load(); snap != nil {
		return snap, nil
	}

	r.stats.builds.Add(1)
	snap, err := r.builder.Build(r.source)
	if err != nil {
		// not cached: a later call builds again
		r.stats.buildFailures.Add(1)
		return nil, err
	}
	if snap == nil {
		return nil, r.invariant("build", "", "snapshot", "nil snapshot")
	}
	if snap.source == nil || snap.source.FastHash() != r.source.FastHash() {
		snap.Close()
		return nil, r.invariant("build", "", "snapshot of "+r.source.String(), "snapshot of a different source")
	}

	r.snapshot.Store(snap)
	return snap, nil
}

// Resolve returns the reflection of id declared in this file, or nil when the
// file does not declare it. Errors are either SourceUnreadable (the file could
// not be indexed), an InvariantError (a collaborator broke its contract), or a
// converter failure.
func (r *Resolver) Resolve(id types.Identifier) (types.Reflection, error) {
	if !id.Kind.IsValid() {
		return nil, r.invariant("resolve", id.String(), "class, function or constant identifier", id.Kind.String())
	}

	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	r.stats.lookups.Add(1)

	var refl types.Reflection
	switch id.Kind {
	case types.KindClass:
		refl, err = r.resolveClass(snap, id)
	case types.KindFunction:
		refl, err = r.resolveFunction(snap, id)
	case types.KindConstant:
		refl, err = r.resolveConstant(snap, id)
	}
	if err != nil {
		return nil, err
	}

	if refl != nil {
		r.stats.hits.Add(1)
		debug.LogResolve("%s: found %s\n", r.source.Path(), id)
	} else {
		debug.LogResolve("%s: %s not declared\n", r.source.Path(), id)
	}
	return refl, nil
}

// resolveClass converts the first declaration of the name; duplicates are
// tolerated and always lose to the earliest one in the file
func (r *Resolver) resolveClass(snap *Snapshot, id types.Identifier) (types.Reflection, error) {
	nodes, ok := snap.classes[strings.ToLower(id.Name)]
	if !ok || len(nodes) == 0 {
		return nil, nil
	}
	return r.convert(id, nodes[0], NoPosition, true)
}

func (r *Resolver) resolveFunction(snap *Snapshot, id types.Identifier) (types.Reflection, error) {
	node, ok := snap.functions[strings.ToLower(id.Name)]
	if !ok {
		return nil, nil
	}
	return r.convert(id, node, NoPosition, true)
}

// resolveConstant scans constant-bearing nodes in file order. Constant names
// are case-sensitive and only known after conversion, so every candidate is
// converted and its produced name compared with the requested one.
func (r *Resolver) resolveConstant(snap *Snapshot, id types.Identifier) (types.Reflection, error) {
	for _, node := range snap.constants {
		switch node.Kind {
		case DeclDefineCall:
			refl, err := r.convert(id, node, NoPosition, false)
			if err != nil {
				return nil, err
			}
			if refl != nil && refl.Name() == id.Name {
				return refl, nil
			}

		case DeclConstStatement:
			for pos := 0; pos < node.ElementCount; pos++ {
				refl, err := r.convert(id, node, pos, false)
				if err != nil {
					return nil, err
				}
				if refl != nil && refl.Name() == id.Name {
					return refl, nil
				}
			}

		default:
			return nil, r.invariant("resolve", id.String(), "constant-bearing node", node.Kind.String())
		}
	}
	return nil, nil
}

// convert runs the converter and checks the result kind against the kind the
// index promised. required marks nodes that must always convert.
func (r *Resolver) convert(id types.Identifier, node DeclarationNode, position int, required bool) (types.Reflection, error) {
	r.stats.conversions.Add(1)
	refl, err := r.converter.Convert(node, r.source, position)
	if err != nil {
		return nil, fmt.Errorf("converting %s at %s:%d: %w", id, r.source.Path(), node.Line(), err)
	}

	want := node.Kind.IdentifierKind()
	if refl == nil {
		if required {
			return nil, r.invariant("convert", id.String(), want.String()+" reflection", "no result")
		}
		return nil, nil
	}
	if refl.Kind() != want {
		return nil, r.invariant("convert", id.String(), want.String()+" reflection", refl.Kind().String()+" reflection")
	}
	return refl, nil
}

// ResolveAllOfKind is the bulk "every identifier of a kind" query. It is not
// implemented yet and always returns an empty slice; the snapshot iterators
// (Classes, Functions, Constants) are the intended building blocks.
func (r *Resolver) ResolveAllOfKind(kind types.IdentifierKind) ([]types.Reflection, error) {
	if !kind.IsValid() {
		return nil, r.invariant("resolve_all", "", "class, function or constant kind", kind.String())
	}
	if r.closed.Load() {
		return nil, ErrResolverClosed
	}
	return []types.Reflection{}, nil
}

// Close releases the snapshot. Further calls return ErrResolverClosed.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Swap(true) {
		return nil
	}
	if snap := r.snapshot.Swap(nil); snap != nil {
		snap.Close()
	}
	return nil
}

func (r *Resolver) invariant(op, identifier, expected, actual string) error {
	err := lcierrors.NewInvariantError(op, identifier, expected, actual)
	debug.Invariant("%s: %v\n", r.source.Path(), err)
	return err
}
