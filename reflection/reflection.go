// Package reflection is the introspection provider used by mirror.
//
// Go does not enumerate loaded types and carries no declared class
// hierarchy, so a Runtime holds the metadata the language leaves out
// (supertypes through embedding, implemented interfaces, constructors,
// static members, enum constants) next to what reflect already knows.
// Every primitive handed out by a Runtime is interned: the same
// reflect.Type always yields the same Type, and the same member always
// yields the same Field, Method or Constructor value.
package reflection

import (
	"errors"
	"reflect"
	"strings"
)

var (
	// ErrLookup reports a named member or constructor that does not exist.
	ErrLookup = errors.New("member not found")
	// ErrAccess reports use of a non-public or final member without an
	// accessibility override.
	ErrAccess = errors.New("member not accessible")
	// ErrTarget reports an instance that is not of the declaring type.
	ErrTarget = errors.New("invalid target instance")
	// ErrArity reports a wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrTypeMismatch reports an argument or value that is not assignable
	// to the declared type.
	ErrTypeMismatch = errors.New("argument type mismatch")
	// ErrInvocation wraps a failure raised by invoked code.
	ErrInvocation = errors.New("invocation failed")
	// ErrUnresolved reports a type name with no registered type.
	ErrUnresolved = errors.New("type not resolved")
	// ErrRegistered reports a type or name registered twice.
	ErrRegistered = errors.New("already registered")
	// ErrOption reports an invalid registration option.
	ErrOption = errors.New("invalid registration option")
)

// Modifier is a set of member flags.
type Modifier uint8

const (
	Public Modifier = 1 << iota
	Protected
	Private
	Static
	Final
	Abstract
)

var modifierNames = []struct {
	m    Modifier
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Static, "static"},
	{Final, "final"},
	{Abstract, "abstract"},
}

// Has reports whether every flag in o is set in m.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

func (m Modifier) String() string {
	parts := make([]string, 0, len(modifierNames))
	for _, mn := range modifierNames {
		if m&mn.m != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// Type describes one type known to a Runtime.
type Type interface {
	// Name is the unqualified type name.
	Name() string
	// FullName is Namespace() + "." + Name() for named types.
	FullName() string
	// Namespace is the import path of the declaring package.
	Namespace() string
	Reflect() reflect.Type
	Enclosing() (Type, bool)
	IsInterface() bool
	// Super is the type embedded as the first struct field, if any.
	Super() (Type, bool)
	// Interfaces lists the interfaces the type is registered to
	// implement directly.
	Interfaces() []Type
	// AssignableFrom reports whether other is this type, one of its
	// subtypes, or an implementation of this interface.
	AssignableFrom(other Type) bool
	IsInstance(v any) bool
	Tag() reflect.StructTag

	Fields() []Field
	DeclaredFields() []Field
	Field(name string) (Field, error)
	DeclaredField(name string) (Field, error)

	Methods() []Method
	DeclaredMethods() []Method
	Method(name string, params ...Type) (Method, error)

	Constructors() []Constructor
	Constructor(params ...Type) (Constructor, error)

	EnumConstants() []any
}

// Member is the part shared by fields and methods.
//
// The accessibility override lives on the member itself, so granting it
// through one holder grants it to everyone holding the same member.
type Member interface {
	Name() string
	DeclaringType() Type
	Modifiers() Modifier
	Tag() reflect.StructTag
	Accessible() bool
	SetAccessible(flag bool)
}

// Field is a struct field or a registered static variable.
type Field interface {
	Member
	Type() Type
	Get(instance any) (any, error)
	Set(instance, value any) error
}

// Method is a method of a type or a registered function bound to it.
type Method interface {
	Member
	Params() []Type
	Results() []Type
	Variadic() bool
	// Invoke calls the method on instance. A single result is returned as
	// is, several results as []any, none as nil. A trailing non-nil error
	// result is returned wrapped in ErrInvocation.
	Invoke(instance any, args ...any) (any, error)
}

// Constructor creates instances of its declaring type.
type Constructor interface {
	DeclaringType() Type
	Params() []Type
	Variadic() bool
	New(args ...any) (any, error)
}

// Resolver turns a full type name into a Type.
type Resolver interface {
	Resolve(name string) (Type, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (Type, error)

func (f ResolverFunc) Resolve(name string) (Type, error) {
	return f(name)
}
