// Package stream is a lazy, single use sequence pipeline over iter.Seq.
//
// Intermediate operations only describe work; a terminal operation runs the
// whole pipeline. A stream can feed exactly one operation: reusing it, or
// using it after Close, panics with ErrConsumed. Evaluation is sequential
// unless Parallel is requested somewhere in the pipeline, in which case
// element-wise stages read upstream in bounded chunks and fan each chunk
// out over a bounded worker group. Results keep encounter order unless
// Unordered is requested.
package stream

import (
	"cmp"
	"errors"
	"iter"
	"slices"
	"sync"
	"sync/atomic"
)

// ErrConsumed is the panic value for reuse of a linked or closed stream.
var ErrConsumed = errors.New("stream has already been operated upon or closed")

type pipeline struct {
	mu        sync.Mutex
	parallel  bool
	unordered bool
	closers   []func() error
	closed    bool
	err       error
}

func (p *pipeline) isParallel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parallel
}

func (p *pipeline) isOrdered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.unordered
}

func (p *pipeline) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fail records the first error raised inside the pipeline.
func (p *pipeline) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

func (p *pipeline) failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err != nil
}

// Stream is a lazy sequence of T.
type Stream[T any] struct {
	seq  iter.Seq[T]
	p    *pipeline
	used atomic.Bool
}

// From wraps seq. seq is not read until a terminal operation runs.
func From[T any](seq iter.Seq[T]) *Stream[T] {
	return &Stream[T]{seq: seq, p: &pipeline{}}
}

// Of streams vs in order.
func Of[T any](vs ...T) *Stream[T] {
	return From(slices.Values(vs))
}

// FromSlice streams the elements of vs in order.
func FromSlice[T any](vs []T) *Stream[T] {
	return From(slices.Values(vs))
}

func Empty[T any]() *Stream[T] {
	return From(func(func(T) bool) {})
}

// Concat streams a then b. Closing the result closes both.
func Concat[T any](a, b *Stream[T]) *Stream[T] {
	sa, sb := a.link(), b.link()
	out := From(func(yield func(T) bool) {
		for v := range sa {
			if !yield(v) {
				return
			}
		}
		for v := range sb {
			if !yield(v) {
				return
			}
		}
	})
	out.p.parallel = a.IsParallel() || b.IsParallel()
	out.p.closers = append(out.p.closers, a.Close, b.Close)
	return out
}

func (s *Stream[T]) link() iter.Seq[T] {
	if !s.used.CompareAndSwap(false, true) || s.p.isClosed() {
		panic(ErrConsumed)
	}
	return s.seq
}

func derive[T, U any](s *Stream[T], seq iter.Seq[U]) *Stream[U] {
	return &Stream[U]{seq: seq, p: s.p}
}

// Filter keeps the elements matching pred.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	return derive(s, apply(s.p, s.link(), func(v T) (T, bool) {
		return v, pred(v)
	}))
}

// Peek calls fn on every element as it passes.
func (s *Stream[T]) Peek(fn func(T)) *Stream[T] {
	return derive(s, apply(s.p, s.link(), func(v T) (T, bool) {
		fn(v)
		return v, true
	}))
}

// Distinct drops repeated elements, keeping the first occurrence. Elements
// must be comparable at run time.
func (s *Stream[T]) Distinct() *Stream[T] {
	seq := s.link()
	return derive(s, func(yield func(T) bool) {
		seen := map[any]struct{}{}
		for v := range seq {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			if !yield(v) {
				return
			}
		}
	})
}

// Sorted orders the elements by cmp. The sort is stable.
func (s *Stream[T]) Sorted(cmp func(a, b T) int) *Stream[T] {
	seq := s.link()
	return derive(s, func(yield func(T) bool) {
		all := slices.Collect(seq)
		slices.SortStableFunc(all, cmp)
		for _, v := range all {
			if !yield(v) {
				return
			}
		}
	})
}

// Limit truncates the stream to at most n elements.
func (s *Stream[T]) Limit(n int) *Stream[T] {
	seq := s.link()
	return derive(s, func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	})
}

// Skip drops the first n elements.
func (s *Stream[T]) Skip(n int) *Stream[T] {
	seq := s.link()
	return derive(s, func(yield func(T) bool) {
		i := 0
		for v := range seq {
			if i < n {
				i++
				continue
			}
			if !yield(v) {
				return
			}
		}
	})
}

// Parallel switches the whole pipeline to parallel evaluation.
func (s *Stream[T]) Parallel() *Stream[T] {
	return s.mode(true)
}

// Sequential switches the whole pipeline to sequential evaluation.
func (s *Stream[T]) Sequential() *Stream[T] {
	return s.mode(false)
}

func (s *Stream[T]) mode(parallel bool) *Stream[T] {
	seq := s.link()
	s.p.mu.Lock()
	s.p.parallel = parallel
	s.p.mu.Unlock()
	return derive(s, seq)
}

// Unordered lifts the encounter order constraint. Parallel element-wise
// stages then yield results as they complete; sequential evaluation is
// unaffected.
func (s *Stream[T]) Unordered() *Stream[T] {
	seq := s.link()
	s.p.mu.Lock()
	s.p.unordered = true
	s.p.mu.Unlock()
	return derive(s, seq)
}

func (s *Stream[T]) IsParallel() bool {
	return s.p.isParallel()
}

func (s *Stream[T]) IsOrdered() bool {
	return s.p.isOrdered()
}

// OnClose registers fn to run when the pipeline is closed and returns s.
func (s *Stream[T]) OnClose(fn func() error) *Stream[T] {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.closers = append(s.p.closers, fn)
	return s
}

// Close runs the close handlers of the pipeline once, in registration
// order, and joins their errors.
func (s *Stream[T]) Close() error {
	s.p.mu.Lock()
	if s.p.closed {
		s.p.mu.Unlock()
		return nil
	}
	s.p.closed = true
	closers := s.p.closers
	s.p.closers = nil
	s.p.mu.Unlock()

	var errs []error
	for _, fn := range closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Err returns the first error raised inside the pipeline, if any.
func (s *Stream[T]) Err() error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	return s.p.err
}

// ForEach calls fn for every element. In parallel mode fn runs
// concurrently and in no particular order.
func (s *Stream[T]) ForEach(fn func(T)) {
	seq := s.link()
	if !s.p.isParallel() {
		for v := range seq {
			fn(v)
		}
		return
	}
	for range apply(s.p, seq, func(v T) (struct{}, bool) {
		fn(v)
		return struct{}{}, false
	}) {
	}
}

// ForEachOrdered calls fn for every element in encounter order.
func (s *Stream[T]) ForEachOrdered(fn func(T)) {
	for v := range s.link() {
		fn(v)
	}
}

func (s *Stream[T]) ToSlice() []T {
	out := slices.Collect(s.link())
	if out == nil {
		out = []T{}
	}
	return out
}

// All consumes the stream and returns its remaining sequence.
func (s *Stream[T]) All() iter.Seq[T] {
	return s.link()
}

// Iterator consumes the stream and returns a pull iterator over it. stop
// must be called if next is not drained.
func (s *Stream[T]) Iterator() (next func() (T, bool), stop func()) {
	return iter.Pull(s.link())
}

func (s *Stream[T]) Reduce(identity T, op func(a, b T) T) T {
	acc := identity
	for v := range s.link() {
		acc = op(acc, v)
	}
	return acc
}

// ReduceOptional folds the elements with op. It reports false for an
// empty stream.
func (s *Stream[T]) ReduceOptional(op func(a, b T) T) (T, bool) {
	var acc T
	found := false
	for v := range s.link() {
		if !found {
			acc, found = v, true
			continue
		}
		acc = op(acc, v)
	}
	return acc, found
}

func (s *Stream[T]) Min(cmp func(a, b T) int) (T, bool) {
	return s.ReduceOptional(func(a, b T) T {
		if cmp(b, a) < 0 {
			return b
		}
		return a
	})
}

func (s *Stream[T]) Max(cmp func(a, b T) int) (T, bool) {
	return s.ReduceOptional(func(a, b T) T {
		if cmp(b, a) > 0 {
			return b
		}
		return a
	})
}

func (s *Stream[T]) Count() int {
	n := 0
	for range s.link() {
		n++
	}
	return n
}

func (s *Stream[T]) AnyMatch(pred func(T) bool) bool {
	for v := range s.link() {
		if pred(v) {
			return true
		}
	}
	return false
}

func (s *Stream[T]) AllMatch(pred func(T) bool) bool {
	for v := range s.link() {
		if !pred(v) {
			return false
		}
	}
	return true
}

func (s *Stream[T]) NoneMatch(pred func(T) bool) bool {
	return !s.AnyMatch(pred)
}

func (s *Stream[T]) FindFirst() (T, bool) {
	for v := range s.link() {
		return v, true
	}
	var zero T
	return zero, false
}

// FindAny returns some element. Sequential streams return the first one.
func (s *Stream[T]) FindAny() (T, bool) {
	return s.FindFirst()
}

// Map transforms every element with fn.
func Map[T, U any](s *Stream[T], fn func(T) U) *Stream[U] {
	return derive(s, apply(s.p, s.link(), func(v T) (U, bool) {
		return fn(v), true
	}))
}

// FilterMap transforms every element with fn and keeps the results fn
// reports as present.
func FilterMap[T, U any](s *Stream[T], fn func(T) (U, bool)) *Stream[U] {
	return derive(s, apply(s.p, s.link(), fn))
}

// TryMap transforms every element with fn. The first error stops the
// stream and is reported by Err.
func TryMap[T, U any](s *Stream[T], fn func(T) (U, error)) *Stream[U] {
	p := s.p
	return derive(s, apply(p, s.link(), func(v T) (U, bool) {
		if p.failed() {
			var zero U
			return zero, false
		}
		u, err := fn(v)
		if err != nil {
			p.fail(err)
			return u, false
		}
		return u, true
	}))
}

// FlatMap replaces every element by the contents of the stream fn returns
// for it. Each inner stream is closed once drained; its errors are
// reported by Err.
func FlatMap[T, U any](s *Stream[T], fn func(T) *Stream[U]) *Stream[U] {
	p := s.p
	seq := s.link()
	return derive(s, func(yield func(U) bool) {
		for v := range seq {
			inner := fn(v)
			if inner == nil {
				continue
			}
			stop := false
			for u := range inner.All() {
				if !yield(u) {
					stop = true
					break
				}
			}
			if err := inner.Err(); err != nil {
				p.fail(err)
			}
			if err := inner.Close(); err != nil {
				p.fail(err)
			}
			if stop {
				return
			}
		}
	})
}

// FlatMapSlice replaces every element by the slice fn returns for it.
func FlatMapSlice[T, U any](s *Stream[T], fn func(T) []U) *Stream[U] {
	seq := s.link()
	return derive(s, func(yield func(U) bool) {
		for v := range seq {
			for _, u := range fn(v) {
				if !yield(u) {
					return
				}
			}
		}
	})
}

// Fold reduces the stream into a value of another type.
func Fold[T, U any](s *Stream[T], init U, fn func(U, T) U) U {
	acc := init
	for v := range s.link() {
		acc = fn(acc, v)
	}
	return acc
}

// Natural orders cmp.Ordered values ascending. It is meant for Sorted,
// Min and Max.
func Natural[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}
