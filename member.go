package mirror

import (
	"github.com/seitarof/mirror/reflection"
)

// member holds what fields and methods share.
type member struct {
	m reflection.Member
}

func (m member) Name() string                   { return m.m.Name() }
func (m member) DeclaringType() Type            { return Of(m.m.DeclaringType()) }
func (m member) Modifiers() reflection.Modifier { return m.m.Modifiers() }

func (m member) HasModifier(mod reflection.Modifier) bool {
	return m.m.Modifiers().Has(mod)
}

func (m member) IsPublic() bool       { return m.HasModifier(reflection.Public) }
func (m member) IsNotPublic() bool    { return !m.IsPublic() }
func (m member) IsProtected() bool    { return m.HasModifier(reflection.Protected) }
func (m member) IsNotProtected() bool { return !m.IsProtected() }
func (m member) IsPrivate() bool      { return m.HasModifier(reflection.Private) }
func (m member) IsNotPrivate() bool   { return !m.IsPrivate() }
func (m member) IsStatic() bool       { return m.HasModifier(reflection.Static) }
func (m member) IsNotStatic() bool    { return !m.IsStatic() }
func (m member) IsFinal() bool        { return m.HasModifier(reflection.Final) }
func (m member) IsNotFinal() bool     { return !m.IsFinal() }

// IsAccessible reports whether the accessibility override is granted.
func (m member) IsAccessible() bool { return m.m.Accessible() }

func (m member) HasTag(key string) bool {
	_, ok := m.m.Tag().Lookup(key)
	return ok
}

func (m member) Tag(key string) (string, bool) {
	return m.m.Tag().Lookup(key)
}

func (m member) setAccessible(flag bool) {
	m.m.SetAccessible(flag)
}

// Field is a handle on one field.
type Field struct {
	member
	f reflection.Field
}

// FieldOf wraps a raw field.
func FieldOf(f reflection.Field) Field {
	return Field{member: member{m: f}, f: f}
}

func (f Field) Unwrap() reflection.Field { return f.f }
func (f Field) IsZero() bool             { return f.f == nil }
func (f Field) Type() Type               { return Of(f.f.Type()) }

func (f Field) String() string {
	return f.f.DeclaringType().Name() + "." + f.f.Name()
}

// Get reads the field from instance. Static fields ignore instance.
func (f Field) Get(instance any) (any, error) {
	return f.f.Get(instance)
}

// Set writes value into the field of instance, which must be a pointer
// unless the field is static.
func (f Field) Set(instance, value any) error {
	return f.f.Set(instance, value)
}

// SetAccessible grants or revokes the accessibility override. The flag is
// stored on the shared field, so every handle on the same field sees it.
func (f Field) SetAccessible(flag bool) Field {
	f.setAccessible(flag)
	return f
}

// Method is a handle on one method.
type Method struct {
	member
	raw reflection.Method
}

// MethodOf wraps a raw method.
func MethodOf(m reflection.Method) Method {
	return Method{member: member{m: m}, raw: m}
}

func (m Method) Unwrap() reflection.Method { return m.raw }
func (m Method) IsZero() bool              { return m.raw == nil }
func (m Method) IsAbstract() bool          { return m.HasModifier(reflection.Abstract) }
func (m Method) IsNotAbstract() bool       { return !m.IsAbstract() }
func (m Method) Variadic() bool            { return m.raw.Variadic() }

func (m Method) String() string {
	return m.raw.DeclaringType().Name() + "." + m.raw.Name()
}

func (m Method) Params() []Type {
	return wrapTypes(m.raw.Params())
}

func (m Method) Results() []Type {
	return wrapTypes(m.raw.Results())
}

// Invoke calls the method on instance. Static methods ignore instance.
func (m Method) Invoke(instance any, args ...any) (any, error) {
	return m.raw.Invoke(instance, args...)
}

// SetAccessible grants or revokes the accessibility override on the shared
// method.
func (m Method) SetAccessible(flag bool) Method {
	m.setAccessible(flag)
	return m
}

// Constructor is a handle on one constructor.
type Constructor struct {
	c reflection.Constructor
}

// ConstructorOf wraps a raw constructor.
func ConstructorOf(c reflection.Constructor) Constructor {
	return Constructor{c: c}
}

func (c Constructor) Unwrap() reflection.Constructor { return c.c }
func (c Constructor) DeclaringType() Type            { return Of(c.c.DeclaringType()) }

func (c Constructor) Params() []Type {
	return wrapTypes(c.c.Params())
}

// Invoke creates a new instance. Every argument is checked against the
// declared parameter types before the constructor runs.
func (c Constructor) Invoke(args ...any) (any, error) {
	return c.c.New(args...)
}

func wrapTypes(ts []reflection.Type) []Type {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		out = append(out, Of(t))
	}
	return out
}
