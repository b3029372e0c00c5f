package reflection

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

type methodKind int

const (
	reflectMethod methodKind = iota
	interfaceMethod
	boundMethod
	staticMethod
)

type method struct {
	owner      *rtype
	kind       methodKind
	name       string
	params     []reflect.Type
	results    []reflect.Type
	variadic   bool
	fn         reflect.Value
	tag        reflect.StructTag
	mods       Modifier
	accessible atomic.Bool
}

var _ Method = (*method)(nil)

func newReflectMethod(owner *rtype, rm reflect.Method, tags map[string]reflect.StructTag) *method {
	return &method{
		owner:    owner,
		kind:     reflectMethod,
		name:     rm.Name,
		params:   inTypes(rm.Type, 1),
		results:  outTypes(rm.Type),
		variadic: rm.Type.IsVariadic(),
		tag:      tags[rm.Name],
		mods:     modifiers(rm.Name, tags[rm.Name]),
	}
}

func newInterfaceMethod(owner *rtype, rm reflect.Method, tags map[string]reflect.StructTag) *method {
	return &method{
		owner:    owner,
		kind:     interfaceMethod,
		name:     rm.Name,
		params:   inTypes(rm.Type, 0),
		results:  outTypes(rm.Type),
		variadic: rm.Type.IsVariadic(),
		tag:      tags[rm.Name],
		mods:     modifiers(rm.Name, tags[rm.Name]) | Abstract,
	}
}

func newBoundMethod(owner *rtype, bf boundFunc, tags map[string]reflect.StructTag) *method {
	m := &method{
		owner:    owner,
		kind:     boundMethod,
		name:     bf.name,
		params:   inTypes(bf.fn.Type(), 1),
		results:  outTypes(bf.fn.Type()),
		variadic: bf.fn.Type().IsVariadic(),
		fn:       bf.fn,
		tag:      tags[bf.name],
		mods:     modifiers(bf.name, tags[bf.name]),
	}
	if bf.static {
		m.kind = staticMethod
		m.params = inTypes(bf.fn.Type(), 0)
		m.mods |= Static
	}
	return m
}

func (m *method) Name() string            { return m.name }
func (m *method) DeclaringType() Type     { return m.owner }
func (m *method) Modifiers() Modifier     { return m.mods }
func (m *method) Tag() reflect.StructTag  { return m.tag }
func (m *method) Params() []Type          { return m.owner.rt.typesOf(m.params) }
func (m *method) Results() []Type         { return m.owner.rt.typesOf(m.results) }
func (m *method) Variadic() bool          { return m.variadic }
func (m *method) Accessible() bool        { return m.accessible.Load() }
func (m *method) SetAccessible(flag bool) { m.accessible.Store(flag) }

func (m *method) String() string {
	return fmt.Sprintf("%s.%s(%s)", m.owner.Name(), m.name, reflectList(m.params))
}

func (m *method) Invoke(instance any, args ...any) (any, error) {
	if !m.accessible.Load() && !m.mods.Has(Public) {
		return nil, fmt.Errorf("%w: method %s is %s", ErrAccess, m, m.mods)
	}
	in, err := convertArgs(m.String(), m.params, m.variadic, args)
	if err != nil {
		return nil, err
	}
	fn, err := m.bind(instance)
	if err != nil {
		return nil, err
	}
	if m.kind == boundMethod {
		recv := fn
		fn = m.fn
		in = append([]reflect.Value{recv}, in...)
	}
	return call(m.String(), fn, in)
}

// bind returns the callable for instance. For bound methods it returns the
// receiver value instead, ready to be passed as the first argument.
func (m *method) bind(instance any) (reflect.Value, error) {
	if m.kind == staticMethod {
		return m.fn, nil
	}
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("%w: method %s: nil instance", ErrTarget, m)
	}

	iv := reflect.ValueOf(instance)
	recv, ok := locate(iv, m.owner.t)
	if !ok && m.kind == interfaceMethod && iv.Type().Implements(m.owner.t) {
		return iv.MethodByName(m.name), nil
	}
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: method %s: %T is not a %s", ErrTarget, m, instance, m.owner.Name())
	}

	switch m.kind {
	case interfaceMethod:
		if recv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: method %s: embedded %s is nil", ErrTarget, m, m.owner.Name())
		}
		return recv.MethodByName(m.name), nil
	case boundMethod:
		if m.fn.Type().In(0).Kind() == reflect.Pointer {
			return recv.Addr(), nil
		}
		return recv, nil
	default:
		return recv.Addr().MethodByName(m.name), nil
	}
}

type ctor struct {
	owner    *rtype
	fn       reflect.Value
	params   []reflect.Type
	variadic bool
}

var _ Constructor = (*ctor)(nil)

func newCtor(owner *rtype, fn reflect.Value) *ctor {
	return &ctor{
		owner:    owner,
		fn:       fn,
		params:   inTypes(fn.Type(), 0),
		variadic: fn.Type().IsVariadic(),
	}
}

func (c *ctor) DeclaringType() Type { return c.owner }
func (c *ctor) Params() []Type      { return c.owner.rt.typesOf(c.params) }
func (c *ctor) Variadic() bool      { return c.variadic }

func (c *ctor) String() string {
	return fmt.Sprintf("%s(%s)", c.owner.Name(), reflectList(c.params))
}

// New calls the constructor. The implicit constructor of a type without
// registered ones returns a pointer to a zero value.
func (c *ctor) New(args ...any) (any, error) {
	in, err := convertArgs(c.String(), c.params, c.variadic, args)
	if err != nil {
		return nil, err
	}
	if !c.fn.IsValid() {
		return reflect.New(c.owner.t).Interface(), nil
	}
	return call(c.String(), c.fn, in)
}
