package flatten

import "reflect"

// cursor is an ownership slot: empty, or holding exactly one inner producer.
type cursor[I any] struct {
	it   I
	live bool
}

func (c *cursor[I]) set(it I) {
	c.it = it
	c.live = true
}

func (c *cursor[I]) clear() {
	var zero I
	c.it = zero
	c.live = false
}

// state is the cursor machine shared by Flattener and DoubleEnded.
// I is the inner producer type; it is Iterator[T] or DoubleEndedIterator[T].
type state[S any, I Iterator[T], T any] struct {
	outer Iterator[S]
	into  func(S) I
	front cursor[I]
	back  cursor[I]
	// outerDone latches once the outer producer reports end from either side.
	outerDone bool
	observer  Observer
}

func (s *state[S, I, T]) next() (T, bool) {
	for {
		if s.front.live {
			if v, ok := s.front.it.Next(); ok {
				return v, true
			}
			s.front.clear()
			s.emit(InnerExhausted, Front)
		}
		if !s.outerDone {
			if src, ok := s.outer.Next(); ok {
				s.open(&s.front, src, Front)
				continue
			}
			s.outerDone = true
		}
		return s.fallback(&s.back, Front)
	}
}

// open converts src and installs it in c. A nil inner producer, including a
// typed nil pointer, is an empty one.
func (s *state[S, I, T]) open(c *cursor[I], src S, dir Direction) {
	it := s.into(src)
	if isNil(it) {
		return
	}
	c.set(it)
	s.emit(InnerOpened, dir)
}

// fallback drains the opposite cursor once the outer producer is exhausted.
// It always reads the cursor's forward end, whichever direction asked.
func (s *state[S, I, T]) fallback(c *cursor[I], dir Direction) (T, bool) {
	if c.live {
		if v, ok := c.it.Next(); ok {
			return v, true
		}
		c.clear()
		s.emit(InnerExhausted, dir.opposite())
	}
	s.emit(End, dir)
	var zero T
	return zero, false
}

func (s *state[S, I, T]) emit(kind EventKind, dir Direction) {
	if s.observer != nil {
		s.observer.Observe(Event{Kind: kind, Direction: dir})
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
