package mirror

import (
	"fmt"

	"github.com/seitarof/mirror/reflection"
	"github.com/seitarof/mirror/stream"
)

// Type is a handle on one type. Handles are comparable: two handles are
// equal exactly when they wrap the same reflection.Type, so they can be
// used as map keys.
type Type struct {
	t reflection.Type
}

// Of wraps a raw type.
func Of(t reflection.Type) Type {
	return Type{t: t}
}

func (t Type) Unwrap() reflection.Type { return t.t }

// IsZero reports whether t wraps no type. A zero Type answers every
// query as an empty, unrelated type: names are empty, predicates are
// false, lookups fail and streams are empty.
func (t Type) IsZero() bool { return t.t == nil }

func (t Type) Name() string {
	if t.t == nil {
		return ""
	}
	return t.t.Name()
}

func (t Type) FullName() string {
	if t.t == nil {
		return ""
	}
	return t.t.FullName()
}

func (t Type) Namespace() string {
	if t.t == nil {
		return ""
	}
	return t.t.Namespace()
}

func (t Type) String() string { return t.FullName() }

func (t Type) IsInterface() bool { return t.t != nil && t.t.IsInterface() }

// IsInner reports whether the type is nested in another type.
func (t Type) IsInner() bool {
	_, ok := t.EnclosingType()
	return ok
}

func (t Type) EnclosingType() (Type, bool) {
	if t.t == nil {
		return Type{}, false
	}
	outer, ok := t.t.Enclosing()
	if !ok {
		return Type{}, false
	}
	return Of(outer), true
}

// SuperType returns the embedded supertype. It reports false at the root
// of a hierarchy.
func (t Type) SuperType() (Type, bool) {
	if t.t == nil {
		return Type{}, false
	}
	s, ok := t.t.Super()
	if !ok {
		return Type{}, false
	}
	return Of(s), true
}

// Interfaces streams the interfaces the type implements directly.
func (t Type) Interfaces() TypeStream {
	if t.t == nil {
		return RawTypes()
	}
	return RawTypes(t.t.Interfaces()...)
}

// IsSubtypeOf reports whether t is other, embeds other, or implements it.
func (t Type) IsSubtypeOf(other Type) bool {
	return t.IsSubtypeOfRaw(other.t)
}

func (t Type) IsSubtypeOfRaw(other reflection.Type) bool {
	return t.t != nil && other != nil && other.AssignableFrom(t.t)
}

// IsSupertypeOf reports whether other is a subtype of t.
func (t Type) IsSupertypeOf(other Type) bool {
	return t.IsSupertypeOfRaw(other.t)
}

func (t Type) IsSupertypeOfRaw(other reflection.Type) bool {
	return t.t != nil && other != nil && t.t.AssignableFrom(other)
}

func (t Type) IsInstance(v any) bool {
	return t.t != nil && t.t.IsInstance(v)
}

// HasTag reports whether the type carries tag metadata under key.
func (t Type) HasTag(key string) bool {
	_, ok := t.Tag(key)
	return ok
}

func (t Type) Tag(key string) (string, bool) {
	if t.t == nil {
		return "", false
	}
	return t.t.Tag().Lookup(key)
}

// Field returns the first public field, declared or inherited, matching
// one of names in order.
func (t Type) Field(names ...string) (Field, bool) {
	if t.t == nil {
		return Field{}, false
	}
	for _, name := range names {
		if f, err := t.t.Field(name); err == nil {
			return FieldOf(f), true
		}
	}
	return Field{}, false
}

// DeclaredField returns the first field declared by t itself matching one
// of names in order, whatever its visibility.
func (t Type) DeclaredField(names ...string) (Field, bool) {
	if t.t == nil {
		return Field{}, false
	}
	for _, name := range names {
		if f, err := t.t.DeclaredField(name); err == nil {
			return FieldOf(f), true
		}
	}
	return Field{}, false
}

// Method returns the first public method, declared or inherited, matching
// one of names with exactly the given parameter types.
func (t Type) Method(names []string, params ...Type) (Method, bool) {
	if t.t == nil {
		return Method{}, false
	}
	raw := unwrapTypes(params)
	for _, name := range names {
		if m, err := t.t.Method(name, raw...); err == nil {
			return MethodOf(m), true
		}
	}
	return Method{}, false
}

// DeclaredMethod is Method restricted to methods declared by t. Parameter
// types are compared position by position.
func (t Type) DeclaredMethod(names []string, params ...Type) (Method, bool) {
	if t.t == nil {
		return Method{}, false
	}
	declared := t.t.DeclaredMethods()
	for _, name := range names {
		for _, m := range declared {
			if m.Name() == name && sameParams(m.Params(), params) {
				return MethodOf(m), true
			}
		}
	}
	return Method{}, false
}

func sameParams(declared []reflection.Type, want []Type) bool {
	if len(declared) != len(want) {
		return false
	}
	for i, p := range declared {
		if want[i].t == nil || p.Reflect() != want[i].t.Reflect() {
			return false
		}
	}
	return true
}

// Fields streams the public fields of t, including inherited ones.
func (t Type) Fields() FieldStream {
	if t.t == nil {
		return RawFields()
	}
	return RawFields(t.t.Fields()...)
}

// DeclaredFields streams every field declared by t.
func (t Type) DeclaredFields() FieldStream {
	if t.t == nil {
		return RawFields()
	}
	return RawFields(t.t.DeclaredFields()...)
}

// Methods streams the public methods of t, including inherited ones.
func (t Type) Methods() MethodStream {
	if t.t == nil {
		return RawMethods()
	}
	return RawMethods(t.t.Methods()...)
}

// DeclaredMethods streams every method declared by t.
func (t Type) DeclaredMethods() MethodStream {
	if t.t == nil {
		return RawMethods()
	}
	return RawMethods(t.t.DeclaredMethods()...)
}

// Constructor returns the constructor with exactly the given parameter
// types.
func (t Type) Constructor(params ...Type) (Constructor, error) {
	if t.t == nil {
		return Constructor{}, fmt.Errorf("%w: constructor of zero type", reflection.ErrLookup)
	}
	c, err := t.t.Constructor(unwrapTypes(params)...)
	if err != nil {
		return Constructor{}, err
	}
	return ConstructorOf(c), nil
}

func (t Type) Constructors() *stream.Stream[Constructor] {
	if t.t == nil {
		return stream.Empty[Constructor]()
	}
	return stream.Map(stream.FromSlice(t.t.Constructors()), ConstructorOf)
}

// IsEnum reports whether the type has enum constants.
func (t Type) IsEnum() bool {
	return t.t != nil && len(t.t.EnumConstants()) > 0
}

// AsEnum returns an enum view of t.
func (t Type) AsEnum() (Enum, bool) {
	if !t.IsEnum() {
		return Enum{}, false
	}
	return Enum{Type: t}, true
}

func unwrapTypes(ts []Type) []reflection.Type {
	out := make([]reflection.Type, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.t)
	}
	return out
}
