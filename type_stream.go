package mirror

import (
	"github.com/seitarof/mirror/reflection"
	"github.com/seitarof/mirror/stream"
)

// TypeStream is a lazy sequence of types with type-specific filters and
// mappings. It is single use like any stream.
type TypeStream struct {
	sequence[Type, TypeStream]
}

func newTypeStream(s *stream.Stream[Type]) TypeStream {
	return TypeStream{sequence[Type, TypeStream]{Stream: s, wrap: newTypeStream}}
}

// Unwrap maps the stream back to raw types.
func (s TypeStream) Unwrap() *stream.Stream[reflection.Type] {
	return stream.Map(s.Stream, Type.Unwrap)
}

func (s TypeStream) IsInner() TypeStream        { return s.Filter(Type.IsInner) }
func (s TypeStream) IsNotInner() TypeStream     { return s.Filter(not(Type.IsInner)) }
func (s TypeStream) IsInterface() TypeStream    { return s.Filter(Type.IsInterface) }
func (s TypeStream) IsNotInterface() TypeStream { return s.Filter(not(Type.IsInterface)) }

// IsSubtypeOf keeps the types assignable to other.
func (s TypeStream) IsSubtypeOf(other Type) TypeStream {
	return s.Filter(func(t Type) bool { return t.IsSubtypeOf(other) })
}

func (s TypeStream) IsSubtypeOfRaw(other reflection.Type) TypeStream {
	return s.IsSubtypeOf(Of(other))
}

// IsSupertypeOf keeps the types other is assignable to.
func (s TypeStream) IsSupertypeOf(other Type) TypeStream {
	return s.Filter(func(t Type) bool { return t.IsSupertypeOf(other) })
}

func (s TypeStream) IsSupertypeOfRaw(other reflection.Type) TypeStream {
	return s.IsSupertypeOf(Of(other))
}

// MapToSuperType replaces every type by its supertype. Root types have
// none and are dropped.
func (s TypeStream) MapToSuperType() TypeStream {
	return newTypeStream(stream.FilterMap(s.Stream, Type.SuperType))
}

// FlatMapToInterfaces replaces every type by the interfaces it declares.
func (s TypeStream) FlatMapToInterfaces() TypeStream {
	return newTypeStream(stream.FlatMapSlice(s.Stream, func(t Type) []Type {
		return wrapTypes(t.t.Interfaces())
	}))
}

// HasTag keeps the types carrying tag metadata under key.
func (s TypeStream) HasTag(key string) TypeStream {
	return s.Filter(func(t Type) bool { return t.HasTag(key) })
}

// Tag maps every type to its tag value under key, dropping types without
// it.
func (s TypeStream) Tag(key string) *stream.Stream[string] {
	return stream.FilterMap(s.Stream, func(t Type) (string, bool) { return t.Tag(key) })
}

// MapToField maps every type to its first public field matching one of
// names. Types without a match are dropped.
func (s TypeStream) MapToField(names ...string) FieldStream {
	return newFieldStream(stream.FilterMap(s.Stream, func(t Type) (Field, bool) {
		return t.Field(names...)
	}))
}

func (s TypeStream) MapToDeclaredField(names ...string) FieldStream {
	return newFieldStream(stream.FilterMap(s.Stream, func(t Type) (Field, bool) {
		return t.DeclaredField(names...)
	}))
}

// MapToMethod maps every type to its first public method matching one of
// names and params exactly. Types without a match are dropped.
func (s TypeStream) MapToMethod(names []string, params ...Type) MethodStream {
	return newMethodStream(stream.FilterMap(s.Stream, func(t Type) (Method, bool) {
		return t.Method(names, params...)
	}))
}

func (s TypeStream) MapToDeclaredMethod(names []string, params ...Type) MethodStream {
	return newMethodStream(stream.FilterMap(s.Stream, func(t Type) (Method, bool) {
		return t.DeclaredMethod(names, params...)
	}))
}

func (s TypeStream) FlatMapToFields() FieldStream {
	return newFieldStream(stream.FlatMapSlice(s.Stream, func(t Type) []Field {
		return wrapFields(t.t.Fields())
	}))
}

func (s TypeStream) FlatMapToDeclaredFields() FieldStream {
	return newFieldStream(stream.FlatMapSlice(s.Stream, func(t Type) []Field {
		return wrapFields(t.t.DeclaredFields())
	}))
}

func (s TypeStream) FlatMapToMethods() MethodStream {
	return newMethodStream(stream.FlatMapSlice(s.Stream, func(t Type) []Method {
		return wrapMethods(t.t.Methods())
	}))
}

func (s TypeStream) FlatMapToDeclaredMethods() MethodStream {
	return newMethodStream(stream.FlatMapSlice(s.Stream, func(t Type) []Method {
		return wrapMethods(t.t.DeclaredMethods())
	}))
}

func not[T any](pred func(T) bool) func(T) bool {
	return func(v T) bool { return !pred(v) }
}
