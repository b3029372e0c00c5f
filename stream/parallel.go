package stream

import (
	"iter"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// chunkFactor times GOMAXPROCS elements are read from upstream before a
// parallel stage fans them out.
const chunkFactor = 4

// apply runs an element-wise stage. In sequential mode it pulls one element
// at a time; in parallel mode it reads upstream in bounded chunks and fans
// each chunk out, so a downstream stop also stops upstream after the
// current chunk. Ordered pipelines yield a chunk in encounter order,
// unordered ones in completion order.
func apply[T, U any](p *pipeline, seq iter.Seq[T], fn func(T) (U, bool)) iter.Seq[U] {
	return func(yield func(U) bool) {
		if !p.isParallel() {
			for v := range seq {
				if u, ok := fn(v); ok && !yield(u) {
					return
				}
			}
			return
		}

		workers := runtime.GOMAXPROCS(0)
		flush := func(chunk []T) bool {
			if !p.isOrdered() {
				return fanOutUnordered(chunk, fn, workers, yield)
			}
			for _, r := range fanOut(chunk, fn, workers) {
				if r.ok && !yield(r.v) {
					return false
				}
			}
			return true
		}

		chunk := make([]T, 0, workers*chunkFactor)
		for v := range seq {
			chunk = append(chunk, v)
			if len(chunk) == cap(chunk) {
				if !flush(chunk) {
					return
				}
				chunk = chunk[:0]
			}
		}
		if len(chunk) > 0 {
			flush(chunk)
		}
	}
}

type result[U any] struct {
	v  U
	ok bool
}

// fanOut calls fn for every element on up to workers goroutines. A panic
// in fn is re-raised on the calling goroutine once all workers are done.
func fanOut[T, U any](in []T, fn func(T) (U, bool), workers int) []result[U] {
	out := make([]result[U], len(in))

	var (
		once     sync.Once
		panicked any
	)
	var g errgroup.Group
	g.SetLimit(workers)
	for i, v := range in {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { panicked = r })
				}
			}()
			u, ok := fn(v)
			out[i] = result[U]{v: u, ok: ok}
			return nil
		})
	}
	_ = g.Wait()
	if panicked != nil {
		panic(panicked)
	}
	return out
}

// fanOutUnordered is fanOut yielding kept results as workers finish. yield
// is only called on the calling goroutine. It reports false once yield
// has asked to stop; the remaining workers of the chunk still run to
// completion.
func fanOutUnordered[T, U any](in []T, fn func(T) (U, bool), workers int, yield func(U) bool) bool {
	done := make(chan result[U], len(in))

	var (
		once     sync.Once
		panicked any
	)
	go func() {
		var g errgroup.Group
		g.SetLimit(workers)
		for _, v := range in {
			g.Go(func() error {
				defer func() {
					if r := recover(); r != nil {
						once.Do(func() { panicked = r })
					}
				}()
				u, ok := fn(v)
				done <- result[U]{v: u, ok: ok}
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()

	more := true
	for r := range done {
		if more && r.ok && !yield(r.v) {
			more = false
		}
	}
	if panicked != nil {
		panic(panicked)
	}
	return more
}
