package flatten

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false) when exhausted.
	Next() (T, bool)
}

// DoubleEndedIterator can also be pulled from its back end.
// Next and NextBack draw from the same remaining elements and never
// return an element twice.
type DoubleEndedIterator[T any] interface {
	Iterator[T]
	// NextBack returns the last remaining value. Returns (zero, false) when exhausted.
	NextBack() (T, bool)
}

// Func adapts a pull function to Iterator.
type Func[T any] func() (T, bool)

// Next calls f.
func (f Func[T]) Next() (T, bool) { return f() }

// SliceIterator is a double-ended iterator over a slice.
// The slice is not copied.
type SliceIterator[T any] struct {
	items []T
	front int
	back  int
}

// FromSlice returns a double-ended iterator over items.
func FromSlice[T any](items []T) *SliceIterator[T] {
	return &SliceIterator[T]{items: items, back: len(items)}
}

// Empty returns an iterator that yields nothing.
func Empty[T any]() *SliceIterator[T] {
	return FromSlice[T](nil)
}

// Once returns an iterator that yields v exactly once.
func Once[T any](v T) *SliceIterator[T] {
	return FromSlice([]T{v})
}

func (it *SliceIterator[T]) Next() (T, bool) {
	if it.front >= it.back {
		var zero T
		return zero, false
	}
	v := it.items[it.front]
	it.front++
	return v, true
}

func (it *SliceIterator[T]) NextBack() (T, bool) {
	if it.front >= it.back {
		var zero T
		return zero, false
	}
	it.back--
	return it.items[it.back], true
}

// Len reports the number of elements not yet yielded.
func (it *SliceIterator[T]) Len() int { return it.back - it.front }
