package flatten

import "iter"

type reversed[T any] struct {
	it DoubleEndedIterator[T]
}

func (r reversed[T]) Next() (T, bool)     { return r.it.NextBack() }
func (r reversed[T]) NextBack() (T, bool) { return r.it.Next() }

// Rev swaps the ends of it.
func Rev[T any](it DoubleEndedIterator[T]) DoubleEndedIterator[T] {
	if r, ok := it.(reversed[T]); ok {
		return r.it
	}
	return reversed[T]{it: it}
}

// Collect drains it into a slice.
func Collect[T any](it Iterator[T]) []T {
	var out []T
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		out = append(out, v)
	}
	return out
}

// Count drains it and returns the number of elements seen.
func Count[T any](it Iterator[T]) int {
	n := 0
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

// All returns a range-over-func view of it. Ranging consumes it.
func All[T any](it Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward returns a range-over-func view of it drained from the back.
func Backward[T any](it DoubleEndedIterator[T]) iter.Seq[T] {
	return All[T](Rev[T](it))
}

// PullIterator adapts a push sequence to Iterator.
// Stop must be called if the sequence is not drained.
type PullIterator[T any] struct {
	next func() (T, bool)
	stop func()
}

// Pull converts seq to a pull iterator.
func Pull[T any](seq iter.Seq[T]) *PullIterator[T] {
	next, stop := iter.Pull(seq)
	return &PullIterator[T]{next: next, stop: stop}
}

func (p *PullIterator[T]) Next() (T, bool) { return p.next() }

// Stop releases the underlying sequence. It is safe to call more than once.
func (p *PullIterator[T]) Stop() { p.stop() }

// Seq flattens a push sequence of push sequences. Nil inner sequences are skipped.
func Seq[T any](seqs iter.Seq[iter.Seq[T]]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for inner := range seqs {
			if inner == nil {
				continue
			}
			for v := range inner {
				if !yield(v) {
					return
				}
			}
		}
	}
}
