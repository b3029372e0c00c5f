package mirror

import (
	"github.com/seitarof/mirror/reflection"
	"github.com/seitarof/mirror/stream"
)

// sequence forwards the same-type operations of a stream and rewraps the
// result as W. Terminal operations and Close come from the embedded
// stream unchanged. Operations that change the element type go through
// the stream package functions on the embedded Stream and return a bare
// stream.
type sequence[T any, W any] struct {
	*stream.Stream[T]
	wrap func(*stream.Stream[T]) W
}

func (s sequence[T, W]) Filter(pred func(T) bool) W    { return s.wrap(s.Stream.Filter(pred)) }
func (s sequence[T, W]) Peek(fn func(T)) W             { return s.wrap(s.Stream.Peek(fn)) }
func (s sequence[T, W]) Distinct() W                   { return s.wrap(s.Stream.Distinct()) }
func (s sequence[T, W]) Sorted(cmp func(a, b T) int) W { return s.wrap(s.Stream.Sorted(cmp)) }
func (s sequence[T, W]) Limit(n int) W                 { return s.wrap(s.Stream.Limit(n)) }
func (s sequence[T, W]) Skip(n int) W                  { return s.wrap(s.Stream.Skip(n)) }
func (s sequence[T, W]) Parallel() W                   { return s.wrap(s.Stream.Parallel()) }
func (s sequence[T, W]) Sequential() W                 { return s.wrap(s.Stream.Sequential()) }
func (s sequence[T, W]) Unordered() W                  { return s.wrap(s.Stream.Unordered()) }
func (s sequence[T, W]) OnClose(fn func() error) W     { return s.wrap(s.Stream.OnClose(fn)) }
func (s sequence[T, W]) FlatMap(fn func(T) *stream.Stream[T]) W {
	return s.wrap(stream.FlatMap(s.Stream, fn))
}

// Map transforms elements without changing their type.
func (s sequence[T, W]) Map(fn func(T) T) W {
	return s.wrap(stream.Map(s.Stream, fn))
}

// memberHandle is what FieldStream and MethodStream filter on.
type memberHandle interface {
	DeclaringType() Type
	HasModifier(m reflection.Modifier) bool
	HasTag(key string) bool
	Tag(key string) (string, bool)
	setAccessible(flag bool)
}

// members adds the filters shared by field and method streams.
type members[T memberHandle, W any] struct {
	sequence[T, W]
}

// FilterDeclaringType keeps members declared by one of types.
func (s members[T, W]) FilterDeclaringType(types ...Type) W {
	return s.Filter(func(m T) bool {
		d := m.DeclaringType()
		for _, t := range types {
			if d.t == t.t {
				return true
			}
		}
		return false
	})
}

func (s members[T, W]) FilterDeclaringTypeRaw(types ...reflection.Type) W {
	return s.FilterDeclaringType(wrapTypes(types)...)
}

func (s members[T, W]) HasModifier(mod reflection.Modifier) W {
	return s.Filter(func(m T) bool { return m.HasModifier(mod) })
}

func (s members[T, W]) without(mod reflection.Modifier) W {
	return s.Filter(func(m T) bool { return !m.HasModifier(mod) })
}

func (s members[T, W]) IsPublic() W       { return s.HasModifier(reflection.Public) }
func (s members[T, W]) IsNotPublic() W    { return s.without(reflection.Public) }
func (s members[T, W]) IsProtected() W    { return s.HasModifier(reflection.Protected) }
func (s members[T, W]) IsNotProtected() W { return s.without(reflection.Protected) }
func (s members[T, W]) IsPrivate() W      { return s.HasModifier(reflection.Private) }
func (s members[T, W]) IsNotPrivate() W   { return s.without(reflection.Private) }
func (s members[T, W]) IsStatic() W       { return s.HasModifier(reflection.Static) }
func (s members[T, W]) IsNotStatic() W    { return s.without(reflection.Static) }
func (s members[T, W]) IsFinal() W        { return s.HasModifier(reflection.Final) }
func (s members[T, W]) IsNotFinal() W     { return s.without(reflection.Final) }

// HasTag keeps members carrying tag metadata under key.
func (s members[T, W]) HasTag(key string) W {
	return s.Filter(func(m T) bool { return m.HasTag(key) })
}

// Tag maps every member to its tag value under key. Members without the
// tag are dropped.
func (s members[T, W]) Tag(key string) *stream.Stream[string] {
	return stream.FilterMap(s.Stream, func(m T) (string, bool) { return m.Tag(key) })
}

// SetAccessible sets the accessibility override of every member as the
// stream is walked. It does not force evaluation.
func (s members[T, W]) SetAccessible(flag bool) W {
	return s.Peek(func(m T) { m.setAccessible(flag) })
}
