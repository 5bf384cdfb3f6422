// Package registry implements the in-memory type registry. It owns every
// atomic, aggregate and variant type by name and computes their layouts once,
// at definition time.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/typelayout/internal/layout"
	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// atomicType is a leaf type with a declared size and alignment.
type atomicType struct {
	size      uint64
	alignment uint64
	layouts   types.Layouts
}

// compositeType is an aggregate or a variant. Members are stored by name;
// the registry resolves them, so composites never own other types.
type compositeType struct {
	members        []string
	layouts        types.Layouts
	optimizedOrder []int
}

// Registry is the in-memory types.Registry. A single mutex guards every
// define and describe call.
type Registry struct {
	mu     sync.Mutex
	policy types.PackedAlignmentPolicy

	atomics    map[string]*atomicType
	aggregates map[string]*compositeType
	variants   map[string]*compositeType

	// log holds successful definitions in order.
	log []types.Definition
}

var _ types.Registry = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithPackedAlignment selects the packed alignment policy. An empty policy
// keeps the default.
func WithPackedAlignment(p types.PackedAlignmentPolicy) Option {
	return func(r *Registry) {
		if p != "" {
			r.policy = p
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		policy:     types.DefaultPackedAlignment,
		atomics:    make(map[string]*atomicType),
		aggregates: make(map[string]*compositeType),
		variants:   make(map[string]*compositeType),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PackedAlignment returns the registry's packed alignment policy.
func (r *Registry) PackedAlignment() types.PackedAlignmentPolicy {
	return r.policy
}

// DefineAtomic registers a leaf type.
func (r *Registry) DefineAtomic(name string, size, alignment uint64) error {
	return r.Define(types.Atomic(name, size, alignment))
}

// DefineAggregate registers a record whose members are existing type names.
func (r *Registry) DefineAggregate(name string, members []string) error {
	return r.Define(types.Aggregate(name, members...))
}

// DefineVariant registers a tagged union whose alternatives are existing type names.
func (r *Registry) DefineVariant(name string, members []string) error {
	return r.Define(types.Variant(name, members...))
}

// Define registers def according to its kind. On error the registry is left
// unchanged.
func (r *Registry) Define(def types.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.defineLocked(def); err != nil {
		Logger().Info("define rejected",
			zap.String("name", def.Name),
			zap.String("kind", string(def.Kind)),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *Registry) defineLocked(def types.Definition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("define %q: %w", def.Name, err)
	}
	if r.existsLocked(def.Name) {
		return fmt.Errorf("define %q: %w", def.Name, types.ErrDuplicateName)
	}

	var ls types.Layouts
	switch def.Kind {
	case types.KindAtomic:
		ls = layout.Atomic(def.Size, def.Alignment)
		r.atomics[def.Name] = &atomicType{size: def.Size, alignment: def.Alignment, layouts: ls}

	case types.KindAggregate:
		members, err := r.resolveLocked(def.Members)
		if err != nil {
			return fmt.Errorf("define %q: %w", def.Name, err)
		}
		agg, err := layout.Aggregate(members, r.policy)
		if err != nil {
			return fmt.Errorf("define %q: %w", def.Name, err)
		}
		ls = agg.Layouts
		r.aggregates[def.Name] = &compositeType{
			members:        slices.Clone(def.Members),
			layouts:        ls,
			optimizedOrder: agg.OptimizedOrder,
		}

	case types.KindVariant:
		members, err := r.resolveLocked(def.Members)
		if err != nil {
			return fmt.Errorf("define %q: %w", def.Name, err)
		}
		ls, err = layout.Variant(members, r.policy)
		if err != nil {
			return fmt.Errorf("define %q: %w", def.Name, err)
		}
		r.variants[def.Name] = &compositeType{members: slices.Clone(def.Members), layouts: ls}
	}

	def.Members = slices.Clone(def.Members)
	r.log = append(r.log, def)

	Logger().Debug("defined type",
		zap.String("name", def.Name),
		zap.String("kind", string(def.Kind)),
		zap.Any("unpacked", ls.Unpacked),
		zap.Any("packed", ls.Packed),
		zap.Any("optimized", ls.Optimized))
	return nil
}

// resolveLocked returns the layouts of the named members in order. Every name
// must already be registered.
func (r *Registry) resolveLocked(names []string) ([]types.Layouts, error) {
	out := make([]types.Layouts, len(names))
	for i, n := range names {
		ls, ok := r.layoutsLocked(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownMember, n)
		}
		out[i] = ls
	}
	return out, nil
}

func (r *Registry) layoutsLocked(name string) (types.Layouts, bool) {
	if t, ok := r.atomics[name]; ok {
		return t.layouts, true
	}
	if t, ok := r.aggregates[name]; ok {
		return t.layouts, true
	}
	if t, ok := r.variants[name]; ok {
		return t.layouts, true
	}
	return types.Layouts{}, false
}

func (r *Registry) existsLocked(name string) bool {
	_, ok := r.lookupLocked(name)
	return ok
}

func (r *Registry) lookupLocked(name string) (types.Kind, bool) {
	if _, ok := r.atomics[name]; ok {
		return types.KindAtomic, true
	}
	if _, ok := r.aggregates[name]; ok {
		return types.KindAggregate, true
	}
	if _, ok := r.variants[name]; ok {
		return types.KindVariant, true
	}
	return "", false
}

// Describe returns the layouts of a registered type.
func (r *Registry) Describe(name string) (types.LayoutReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.atomics[name]; ok {
		return types.LayoutReport{Name: name, Kind: types.KindAtomic, Layouts: t.layouts}, nil
	}
	if t, ok := r.aggregates[name]; ok {
		order := make([]string, len(t.optimizedOrder))
		for i, idx := range t.optimizedOrder {
			order[i] = t.members[idx]
		}
		return types.LayoutReport{
			Name:           name,
			Kind:           types.KindAggregate,
			Members:        slices.Clone(t.members),
			Layouts:        t.layouts,
			OptimizedOrder: order,
		}, nil
	}
	if t, ok := r.variants[name]; ok {
		return types.LayoutReport{
			Name:    name,
			Kind:    types.KindVariant,
			Members: slices.Clone(t.members),
			Layouts: t.layouts,
		}, nil
	}
	return types.LayoutReport{}, fmt.Errorf("describe %q: %w", name, types.ErrUnknownName)
}

// Exists reports whether name is registered in any category.
func (r *Registry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.existsLocked(name)
}

// Lookup returns the kind of a registered type.
func (r *Registry) Lookup(name string) (types.Kind, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(name)
}

// Names returns every registered name in definition order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.log))
	for i, d := range r.log {
		names[i] = d.Name
	}
	return names
}

// Definitions returns the successful definitions in order.
func (r *Registry) Definitions() []types.Definition {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.Definition, len(r.log))
	for i, d := range r.log {
		d.Members = slices.Clone(d.Members)
		out[i] = d
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.log)
}
