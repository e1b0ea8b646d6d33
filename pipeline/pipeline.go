package pipeline

import (
	"context"
	"iter"

	"github.com/kbukum/flatkit/flatten"
)

// Iterator provides pull-based sequential access to a stream of values that
// may fail.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline represents a lazy, pull-based data pipeline.
// No work happens until values are pulled via Collect, Drain, or ForEach.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// --- Constructors ---

// From creates a pipeline from an existing Iterator.
func From[T any](it Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return it
		},
	}
}

// FromSlice creates a pipeline from a slice of values.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// FromFunc creates a pipeline from a factory that produces an Iterator.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: fn}
}

// FromIterator lifts an infallible flatten.Iterator into a pipeline.
// The pipeline stops with ctx.Err() once ctx is done.
func FromIterator[T any](it flatten.Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &liftIter[T]{source: it}
		},
	}
}

// FromSeq creates a pipeline from a push sequence. Each run pulls seq anew.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			p := flatten.Pull(seq)
			return &liftIter[T]{source: p, stop: p.Stop}
		},
	}
}

// --- Terminals ---

// Collect runs the pipeline and returns all values as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) (result []T, err error) {
	it := p.create(ctx)
	defer closeInto(it, &err)
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// All returns a range-over-func view of the pipeline. A failure, including a
// Close failure, is yielded once as (zero, err) and ends the sequence.
func All[T any](ctx context.Context, p *Pipeline[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		it := p.create(ctx)
		for {
			val, ok, err := it.Next(ctx)
			if err != nil {
				_ = it.Close()
				yield(zero, err)
				return
			}
			if !ok {
				break
			}
			if !yield(val, nil) {
				_ = it.Close()
				return
			}
		}
		if err := it.Close(); err != nil {
			yield(zero, err)
		}
	}
}

// Iter returns the raw Iterator for this pipeline. The caller must Close() it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// closeInto closes it and reports the close error through err unless err
// already holds one.
func closeInto(it interface{ Close() error }, err *error) {
	if cerr := it.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type liftIter[T any] struct {
	source flatten.Iterator[T]
	stop   func()
}

func (it *liftIter[T]) Next(ctx context.Context) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := it.source.Next()
	return v, ok, nil
}

func (it *liftIter[T]) Close() error {
	if it.stop != nil {
		it.stop()
	}
	return nil
}
