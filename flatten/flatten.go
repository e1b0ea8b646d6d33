package flatten

// Flattener yields the elements of every inner producer of an outer producer,
// front to back. S is the outer element type, T the flattened element type.
type Flattener[S, T any] struct {
	st state[S, Iterator[T], T]
}

// New flattens an iterator of iterators.
func New[T any](outer Iterator[Iterator[T]], opts ...Option) *Flattener[Iterator[T], T] {
	return NewFunc(outer, identity[Iterator[T]], opts...)
}

// NewFunc flattens outer, converting each of its elements to an inner
// iterator with into. into may return nil for an empty inner sequence.
func NewFunc[S, T any](outer Iterator[S], into func(S) Iterator[T], opts ...Option) *Flattener[S, T] {
	o := applyOptions(opts)
	return &Flattener[S, T]{
		st: state[S, Iterator[T], T]{outer: outer, into: into, observer: o.observer},
	}
}

// Next returns the next flattened element, or (zero, false) once every inner
// producer is exhausted. Further calls keep returning false.
func (f *Flattener[S, T]) Next() (T, bool) {
	return f.st.next()
}

// DoubleEnded is a Flattener that can also be drained from the back.
type DoubleEnded[S, T any] struct {
	st    state[S, DoubleEndedIterator[T], T]
	outer DoubleEndedIterator[S]
}

// NewDoubleEnded flattens a double-ended iterator of double-ended iterators.
func NewDoubleEnded[T any](outer DoubleEndedIterator[DoubleEndedIterator[T]], opts ...Option) *DoubleEnded[DoubleEndedIterator[T], T] {
	return NewDoubleEndedFunc(outer, identity[DoubleEndedIterator[T]], opts...)
}

// NewDoubleEndedFunc flattens outer, converting each of its elements to a
// double-ended inner iterator with into. into may return nil for an empty
// inner sequence.
func NewDoubleEndedFunc[S, T any](outer DoubleEndedIterator[S], into func(S) DoubleEndedIterator[T], opts ...Option) *DoubleEnded[S, T] {
	o := applyOptions(opts)
	return &DoubleEnded[S, T]{
		st:    state[S, DoubleEndedIterator[T], T]{outer: outer, into: into, observer: o.observer},
		outer: outer,
	}
}

// Slices flattens a slice of slices without copying them.
func Slices[T any](s [][]T, opts ...Option) *DoubleEnded[[]T, T] {
	return NewDoubleEndedFunc(FromSlice(s), func(inner []T) DoubleEndedIterator[T] {
		return FromSlice(inner)
	}, opts...)
}

// Next returns the next element from the front.
func (d *DoubleEnded[S, T]) Next() (T, bool) {
	return d.st.next()
}

// NextBack returns the next element from the back.
//
// When the outer producer is exhausted and the back cursor is empty, NextBack
// continues from the front cursor's forward end, not its back end.
func (d *DoubleEnded[S, T]) NextBack() (T, bool) {
	s := &d.st
	for {
		if s.back.live {
			if v, ok := s.back.it.NextBack(); ok {
				return v, true
			}
			s.back.clear()
			s.emit(InnerExhausted, Back)
		}
		if !s.outerDone {
			if src, ok := d.outer.NextBack(); ok {
				s.open(&s.back, src, Back)
				continue
			}
			s.outerDone = true
		}
		return s.fallback(&s.front, Back)
	}
}

func identity[I any](it I) I { return it }
