package stream

import (
	"strings"

	"golang.org/x/exp/constraints"
)

// Collector describes a mutable reduction: Supply creates the container,
// Accumulate adds one element, Finish turns the container into the result.
type Collector[T, A, R any] struct {
	Supply     func() A
	Accumulate func(A, T) A
	Finish     func(A) R
}

// Collect runs c over the stream.
func Collect[T, A, R any](s *Stream[T], c Collector[T, A, R]) R {
	acc := c.Supply()
	for v := range s.link() {
		acc = c.Accumulate(acc, v)
	}
	return c.Finish(acc)
}

func identity[A any](a A) A { return a }

// ToList collects the elements into a slice.
func ToList[T any]() Collector[T, []T, []T] {
	return Collector[T, []T, []T]{
		Supply:     func() []T { return []T{} },
		Accumulate: func(acc []T, v T) []T { return append(acc, v) },
		Finish:     identity[[]T],
	}
}

// ToSet collects the elements into a set.
func ToSet[T comparable]() Collector[T, map[T]struct{}, map[T]struct{}] {
	return Collector[T, map[T]struct{}, map[T]struct{}]{
		Supply: func() map[T]struct{} { return map[T]struct{}{} },
		Accumulate: func(acc map[T]struct{}, v T) map[T]struct{} {
			acc[v] = struct{}{}
			return acc
		},
		Finish: identity[map[T]struct{}],
	}
}

// GroupBy groups the elements by key, keeping encounter order per group.
func GroupBy[T any, K comparable](key func(T) K) Collector[T, map[K][]T, map[K][]T] {
	return Collector[T, map[K][]T, map[K][]T]{
		Supply: func() map[K][]T { return map[K][]T{} },
		Accumulate: func(acc map[K][]T, v T) map[K][]T {
			k := key(v)
			acc[k] = append(acc[k], v)
			return acc
		},
		Finish: identity[map[K][]T],
	}
}

// ToMap collects the elements into a map. Later keys overwrite earlier ones.
func ToMap[T any, K comparable, V any](key func(T) K, val func(T) V) Collector[T, map[K]V, map[K]V] {
	return Collector[T, map[K]V, map[K]V]{
		Supply: func() map[K]V { return map[K]V{} },
		Accumulate: func(acc map[K]V, v T) map[K]V {
			acc[key(v)] = val(v)
			return acc
		},
		Finish: identity[map[K]V],
	}
}

// Joining concatenates strings with sep.
func Joining(sep string) Collector[string, []string, string] {
	return Collector[string, []string, string]{
		Supply:     func() []string { return nil },
		Accumulate: func(acc []string, v string) []string { return append(acc, v) },
		Finish:     func(acc []string) string { return strings.Join(acc, sep) },
	}
}

// Number is what Sum and Average accept.
type Number interface {
	constraints.Integer | constraints.Float
}

func Sum[T Number](s *Stream[T]) T {
	return s.Reduce(0, func(a, b T) T { return a + b })
}

// Average reports false for an empty stream.
func Average[T Number](s *Stream[T]) (float64, bool) {
	var sum float64
	n := 0
	for v := range s.link() {
		sum += float64(v)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
