package mirror

import (
	"github.com/seitarof/mirror/reflection"
	"github.com/seitarof/mirror/stream"
)

// FieldStream is a lazy sequence of fields.
type FieldStream struct {
	members[Field, FieldStream]
}

func newFieldStream(s *stream.Stream[Field]) FieldStream {
	return FieldStream{members[Field, FieldStream]{sequence[Field, FieldStream]{Stream: s, wrap: newFieldStream}}}
}

func (s FieldStream) Unwrap() *stream.Stream[reflection.Field] {
	return stream.Map(s.Stream, Field.Unwrap)
}

// Get reads every field from instance. The first failure stops the stream
// and is reported by Err.
func (s FieldStream) Get(instance any) *stream.Stream[any] {
	return stream.TryMap(s.Stream, func(f Field) (any, error) {
		return f.Get(instance)
	})
}

// GetToArray reads every field from instance and fails on the first error.
func (s FieldStream) GetToArray(instance any) ([]any, error) {
	values := s.Get(instance)
	out := values.ToSlice()
	if err := values.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MethodStream is a lazy sequence of methods.
type MethodStream struct {
	members[Method, MethodStream]
}

func newMethodStream(s *stream.Stream[Method]) MethodStream {
	return MethodStream{members[Method, MethodStream]{sequence[Method, MethodStream]{Stream: s, wrap: newMethodStream}}}
}

func (s MethodStream) Unwrap() *stream.Stream[reflection.Method] {
	return stream.Map(s.Stream, Method.Unwrap)
}

func (s MethodStream) IsAbstract() MethodStream    { return s.Filter(Method.IsAbstract) }
func (s MethodStream) IsNotAbstract() MethodStream { return s.Filter(Method.IsNotAbstract) }

// Invoke calls every method on instance with args. The first failure stops
// the stream and is reported by Err.
func (s MethodStream) Invoke(instance any, args ...any) *stream.Stream[any] {
	return stream.TryMap(s.Stream, func(m Method) (any, error) {
		return m.Invoke(instance, args...)
	})
}

// InvokeToArray calls every method on instance and fails on the first
// error.
func (s MethodStream) InvokeToArray(instance any, args ...any) ([]any, error) {
	results := s.Invoke(instance, args...)
	out := results.ToSlice()
	if err := results.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapFields(fs []reflection.Field) []Field {
	out := make([]Field, 0, len(fs))
	for _, f := range fs {
		out = append(out, FieldOf(f))
	}
	return out
}

func wrapMethods(ms []reflection.Method) []Method {
	out := make([]Method, 0, len(ms))
	for _, m := range ms {
		out = append(out, MethodOf(m))
	}
	return out
}
