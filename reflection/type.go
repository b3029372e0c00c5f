package reflection

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

type rtype struct {
	rt       *Runtime
	t        reflect.Type
	decl     atomic.Pointer[decl]
	declared atomic.Pointer[members]
}

type members struct {
	fields  []*field
	methods []*method
	ctors   []*ctor
}

var _ Type = (*rtype)(nil)

func (t *rtype) meta() *decl {
	if d := t.decl.Load(); d != nil {
		return d
	}
	return newDecl(t.t)
}

// members builds the declared members once per registration. Only the
// type's own declaration is read, so building never recurses into other
// types and pointer cycles between embedded types are harmless.
func (t *rtype) members() *members {
	if m := t.declared.Load(); m != nil {
		return m
	}
	m := t.buildMembers()
	if t.declared.CompareAndSwap(nil, m) {
		return m
	}
	if cur := t.declared.Load(); cur != nil {
		return cur
	}
	return m
}

func (t *rtype) buildMembers() *members {
	d := t.meta()
	m := &members{}

	if t.t.Kind() == reflect.Struct {
		for i := range t.t.NumField() {
			sf := t.t.Field(i)
			if sf.Anonymous {
				continue
			}
			m.fields = append(m.fields, newStructField(t, sf, i))
		}
	}
	for _, s := range d.statics {
		m.fields = append(m.fields, newStaticField(t, s))
	}

	if t.t.Kind() == reflect.Interface {
		for i := range t.t.NumMethod() {
			m.methods = append(m.methods, newInterfaceMethod(t, t.t.Method(i), d.methodTags))
		}
	} else if t.t.Name() != "" {
		promoted := promotedNames(t.t)
		pt := reflect.PointerTo(t.t)
		for i := range pt.NumMethod() {
			rm := pt.Method(i)
			if promoted[rm.Name] && !d.shadows[rm.Name] {
				continue
			}
			m.methods = append(m.methods, newReflectMethod(t, rm, d.methodTags))
		}
	}
	for _, bf := range d.funcs {
		m.methods = append(m.methods, newBoundMethod(t, bf, d.methodTags))
	}

	if t.t.Kind() != reflect.Interface && t.t.Name() != "" {
		for _, fn := range d.ctors {
			m.ctors = append(m.ctors, newCtor(t, fn))
		}
		if len(m.ctors) == 0 {
			m.ctors = append(m.ctors, &ctor{owner: t})
		}
	}
	return m
}

// promotedNames collects the exported method names reachable through
// embedded fields of st.
func promotedNames(st reflect.Type) map[string]bool {
	names := map[string]bool{}
	if st.Kind() != reflect.Struct {
		return names
	}
	for i := range st.NumField() {
		sf := st.Field(i)
		if !sf.Anonymous {
			continue
		}
		mt := sf.Type
		if mt.Kind() != reflect.Pointer && mt.Kind() != reflect.Interface {
			mt = reflect.PointerTo(mt)
		}
		for j := range mt.NumMethod() {
			names[mt.Method(j).Name] = true
		}
	}
	return names
}

func (t *rtype) Name() string {
	if n := t.t.Name(); n != "" {
		return n
	}
	return t.t.String()
}

func (t *rtype) FullName() string {
	if t.t.Name() != "" && t.t.PkgPath() != "" {
		return t.t.PkgPath() + "." + t.t.Name()
	}
	return t.Name()
}

func (t *rtype) Namespace() string {
	return t.t.PkgPath()
}

func (t *rtype) Reflect() reflect.Type {
	return t.t
}

func (t *rtype) String() string {
	return t.FullName()
}

func (t *rtype) Enclosing() (Type, bool) {
	outer := t.meta().enclosing
	if outer == nil {
		return nil, false
	}
	return t.rt.intern(outer), true
}

func (t *rtype) IsInterface() bool {
	return t.t.Kind() == reflect.Interface
}

func (t *rtype) Super() (Type, bool) {
	if t.t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := range t.t.NumField() {
		sf := t.t.Field(i)
		if !sf.Anonymous {
			continue
		}
		if base := normalize(sf.Type); base.Kind() == reflect.Struct {
			return t.rt.intern(base), true
		}
	}
	return nil, false
}

// embeds lists the types embedded in t, dereferencing pointers.
func (t *rtype) embeds() []*rtype {
	if t.t.Kind() != reflect.Struct {
		return nil
	}
	var out []*rtype
	for i := range t.t.NumField() {
		sf := t.t.Field(i)
		if sf.Anonymous {
			out = append(out, t.rt.intern(normalize(sf.Type)))
		}
	}
	return out
}

func (t *rtype) Interfaces() []Type {
	return t.rt.typesOf(t.meta().implements)
}

func (t *rtype) AssignableFrom(other Type) bool {
	if other == nil {
		return false
	}
	ot := other.Reflect()
	if ot == t.t {
		return true
	}
	if t.IsInterface() {
		if ot.Implements(t.t) {
			return true
		}
		return ot.Kind() != reflect.Interface && reflect.PointerTo(ot).Implements(t.t)
	}
	seen := map[reflect.Type]bool{ot: true}
	for s, ok := other.Super(); ok; s, ok = s.Super() {
		st := s.Reflect()
		if st == t.t {
			return true
		}
		if seen[st] {
			return false
		}
		seen[st] = true
	}
	return false
}

func (t *rtype) IsInstance(v any) bool {
	if v == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if t.IsInterface() {
		return vt.Implements(t.t)
	}
	return t.AssignableFrom(t.rt.intern(normalize(vt)))
}

func (t *rtype) Tag() reflect.StructTag {
	return t.meta().tag
}

func (t *rtype) Fields() []Field {
	return toFields(promote(t, func(rt *rtype) []*field { return rt.members().fields }))
}

func (t *rtype) DeclaredFields() []Field {
	return toFields(t.members().fields)
}

func (t *rtype) Field(name string) (Field, error) {
	for _, f := range t.Fields() {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: field %s.%s", ErrLookup, t.Name(), name)
}

func (t *rtype) DeclaredField(name string) (Field, error) {
	for _, f := range t.members().fields {
		if f.name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: declared field %s.%s", ErrLookup, t.Name(), name)
}

func (t *rtype) Methods() []Method {
	return toMethods(promote(t, func(rt *rtype) []*method { return rt.members().methods }))
}

func (t *rtype) DeclaredMethods() []Method {
	return toMethods(t.members().methods)
}

func (t *rtype) Method(name string, params ...Type) (Method, error) {
	for _, m := range t.Methods() {
		if m.Name() == name && SameTypes(m.Params(), params) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: method %s.%s(%s)", ErrLookup, t.Name(), name, typeList(params))
}

func (t *rtype) Constructors() []Constructor {
	cs := t.members().ctors
	out := make([]Constructor, 0, len(cs))
	for _, c := range cs {
		out = append(out, c)
	}
	return out
}

func (t *rtype) Constructor(params ...Type) (Constructor, error) {
	for _, c := range t.members().ctors {
		if SameTypes(c.Params(), params) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: constructor %s(%s)", ErrLookup, t.Name(), typeList(params))
}

func (t *rtype) EnumConstants() []any {
	enum := t.meta().enum
	if len(enum) == 0 {
		return nil
	}
	out := make([]any, len(enum))
	copy(out, enum)
	return out
}

type named interface {
	comparable
	Name() string
	Modifiers() Modifier
}

// promote applies Go's selector rules to the public members of t: a name
// found at a shallower embedding depth hides deeper ones, and a name found
// twice at the same depth is ambiguous and dropped.
func promote[M named](t *rtype, own func(*rtype) []M) []M {
	var out []M
	hidden := map[string]bool{}
	visited := map[*rtype]bool{}
	level := []*rtype{t}
	for len(level) > 0 {
		found := map[string][]M{}
		var order []string
		var next []*rtype
		for _, lt := range level {
			if visited[lt] {
				continue
			}
			visited[lt] = true
			for _, m := range own(lt) {
				if hidden[m.Name()] {
					continue
				}
				if _, ok := found[m.Name()]; !ok {
					order = append(order, m.Name())
				}
				found[m.Name()] = append(found[m.Name()], m)
			}
			next = append(next, lt.embeds()...)
		}
		for _, name := range order {
			hidden[name] = true
			ms := found[name]
			if len(ms) == 1 && ms[0].Modifiers().Has(Public) {
				out = append(out, ms[0])
			}
		}
		level = next
	}
	return out
}

func toFields(fs []*field) []Field {
	out := make([]Field, 0, len(fs))
	for _, f := range fs {
		out = append(out, f)
	}
	return out
}

func toMethods(ms []*method) []Method {
	out := make([]Method, 0, len(ms))
	for _, m := range ms {
		out = append(out, m)
	}
	return out
}

// SameTypes reports whether a and b list the same types in the same order.
func SameTypes(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil || a[i].Reflect() != b[i].Reflect() {
			return false
		}
	}
	return true
}

func typeList(ts []Type) string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		if t == nil {
			names = append(names, "nil")
			continue
		}
		names = append(names, t.Name())
	}
	return strings.Join(names, ", ")
}

func reflectList(ts []reflect.Type) string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
