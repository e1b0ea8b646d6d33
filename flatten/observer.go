package flatten

// Direction is the end a call pulls from.
type Direction uint8

const (
	Front Direction = iota
	Back
)

func (d Direction) String() string {
	if d == Back {
		return "back"
	}
	return "front"
}

func (d Direction) opposite() Direction {
	if d == Back {
		return Front
	}
	return Back
}

// EventKind identifies a cursor transition.
type EventKind uint8

const (
	// InnerOpened: an inner producer was pulled from the outer producer
	// and installed as the cursor for Direction.
	InnerOpened EventKind = iota + 1
	// InnerExhausted: the cursor for Direction ran dry and was cleared.
	InnerExhausted
	// End: a call in Direction signalled end-of-sequence.
	End
)

func (k EventKind) String() string {
	switch k {
	case InnerOpened:
		return "inner_opened"
	case InnerExhausted:
		return "inner_exhausted"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Event describes one cursor transition.
type Event struct {
	Kind      EventKind
	Direction Direction
}

// Observer receives cursor transitions. It is never called per element.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type multiObserver []Observer

func (m multiObserver) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Observers fans an event out to every non-nil observer.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
