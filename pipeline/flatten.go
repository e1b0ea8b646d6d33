package pipeline

import "context"

// Flatten yields the elements of each inner iterator produced by p, in order.
// Empty and nil inner iterators are skipped, and each inner iterator is closed
// as soon as it is exhausted. Errors from p or from an inner iterator are
// returned as they are.
func Flatten[T any](p *Pipeline[Iterator[T]]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &flattenIter[Iterator[T], T]{
				source: p.create(ctx),
				into: func(_ context.Context, it Iterator[T]) (Iterator[T], error) {
					return it, nil
				},
			}
		},
	}
}

// FlatMap transforms each value into an iterator and flattens the results.
func FlatMap[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &flattenIter[I, O]{source: p.create(ctx), into: fn}
		},
	}
}

// Concat joins multiple pipelines sequentially.
// All values from the first pipeline are yielded before the second, etc.
// A pipeline's iterator is created only when the previous one is exhausted.
func Concat[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return FlatMap(FromSlice(pipelines), func(ctx context.Context, p *Pipeline[T]) (Iterator[T], error) {
		return p.create(ctx), nil
	})
}

// flattenIter drains one inner iterator at a time, pulling the next from
// source only when the current one is exhausted.
type flattenIter[S, T any] struct {
	source  Iterator[S]
	into    func(context.Context, S) (Iterator[T], error)
	current Iterator[T]
	done    bool
}

func (it *flattenIter[S, T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return result, false, err
			}
			if ok {
				return val, true, nil
			}
			cerr := it.current.Close()
			it.current = nil
			if cerr != nil {
				return result, false, cerr
			}
		}
		if it.done {
			return result, false, nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil {
			return result, false, err
		}
		if !ok {
			it.done = true
			return result, false, nil
		}
		inner, err := it.into(ctx, in)
		if err != nil {
			return result, false, err
		}
		it.current = inner
	}
}

func (it *flattenIter[S, T]) Close() error {
	var firstErr error
	if it.current != nil {
		firstErr = it.current.Close()
		it.current = nil
	}
	if err := it.source.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
