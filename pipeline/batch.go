package pipeline

import (
	"context"
	"time"
)

// Batch collects up to size values or waits timeout (whichever comes first),
// then emits them as a slice.
//
// size=0 means collect until timeout. timeout=0 means collect until size.
// Both zero is invalid and defaults to size=1.
//
// Batch is the inverse of Flatten: Flatten of a batched pipeline yields the
// original values in their original order. The timeout is only checked
// between pulls, so a slow source delays the batch rather than being
// interrupted.
func Batch[T any](p *Pipeline[T], size int, timeout time.Duration) *Pipeline[[]T] {
	if size <= 0 && timeout <= 0 {
		size = 1
	}
	return &Pipeline[[]T]{
		create: func(ctx context.Context) Iterator[[]T] {
			return &batchIter[T]{
				source:  p.create(ctx),
				size:    size,
				timeout: timeout,
			}
		},
	}
}

type batchIter[T any] struct {
	source  Iterator[T]
	size    int
	timeout time.Duration
	done    bool
	// err is a source error held back so a partial batch can be emitted
	// first.
	err error
}

func (it *batchIter[T]) Next(ctx context.Context) (result []T, ok bool, err error) {
	if it.err != nil {
		err, it.err = it.err, nil
		it.done = true
		return nil, false, err
	}
	if it.done {
		return nil, false, nil
	}

	var batch []T
	var timer <-chan time.Time

	if it.timeout > 0 {
		t := time.NewTimer(it.timeout)
		defer t.Stop()
		timer = t.C
	}

	for {
		if it.size > 0 && len(batch) >= it.size {
			return batch, true, nil
		}

		val, ok, err := it.source.Next(ctx)
		if err != nil {
			if len(batch) > 0 {
				it.err = err
				return batch, true, nil
			}
			it.done = true
			return nil, false, err
		}
		if !ok {
			it.done = true
			if len(batch) > 0 {
				return batch, true, nil
			}
			return nil, false, nil
		}

		batch = append(batch, val)

		if timer != nil {
			select {
			case <-timer:
				return batch, true, nil
			default:
			}
		}
	}
}

func (it *batchIter[T]) Close() error { return it.source.Close() }
