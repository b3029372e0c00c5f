package reflection

import (
	"fmt"
	"reflect"
	"sync"
)

// Runtime is a registry of types and the metadata reflect does not carry.
// It is safe for concurrent use.
type Runtime struct {
	mu    sync.RWMutex
	types map[reflect.Type]*rtype
	names map[string]*rtype
	order []*rtype
}

var defaultRuntime = NewRuntime()

// NewRuntime returns an empty registry.
func NewRuntime() *Runtime {
	return &Runtime{
		types: map[reflect.Type]*rtype{},
		names: map[string]*rtype{},
	}
}

// Default returns the process wide registry.
func Default() *Runtime {
	return defaultRuntime
}

// Register records t, or the element type when t is a pointer to a named
// type, with the given options. Only named types can be registered, and
// only once.
func (r *Runtime) Register(t reflect.Type, opts ...Option) error {
	t = normalize(t)
	if t == nil || t.Name() == "" {
		return fmt.Errorf("%w: %v is not a named type", ErrOption, t)
	}

	d := newDecl(t)
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return err
		}
	}

	rt := r.intern(t)

	r.mu.Lock()
	defer r.mu.Unlock()
	if rt.decl.Load() != nil {
		return fmt.Errorf("%w: type %s", ErrRegistered, rt.FullName())
	}
	names := append([]string{rt.FullName()}, d.aliases...)
	for _, n := range names {
		if other, ok := r.names[n]; ok && other != rt {
			return fmt.Errorf("%w: name %q is taken by %s", ErrRegistered, n, other.t)
		}
	}
	for _, n := range names {
		r.names[n] = rt
	}
	rt.decl.Store(d)
	rt.declared.Store(nil)
	r.order = append(r.order, rt)
	return nil
}

// TypeOf returns the Type for t. Unregistered types are described from
// reflect alone.
func (r *Runtime) TypeOf(t reflect.Type) Type {
	if t == nil {
		return nil
	}
	return r.intern(t)
}

// Resolve looks up a registered type by full name or alias.
func (r *Runtime) Resolve(name string) (Type, error) {
	r.mu.RLock()
	rt, ok := r.names[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolved, name)
	}
	return rt, nil
}

// Types lists registered types in registration order.
func (r *Runtime) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.order))
	for _, rt := range r.order {
		out = append(out, rt)
	}
	return out
}

func (r *Runtime) intern(t reflect.Type) *rtype {
	r.mu.RLock()
	rt, ok := r.types[t]
	r.mu.RUnlock()
	if ok {
		return rt
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.types[t]; ok {
		return rt
	}
	rt = &rtype{rt: r, t: t}
	r.types[t] = rt
	return rt
}

func (r *Runtime) typesOf(ts []reflect.Type) []Type {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		out = append(out, r.intern(t))
	}
	return out
}
