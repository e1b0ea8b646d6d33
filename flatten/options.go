package flatten

// Option configures a Flattener or DoubleEnded.
type Option func(*options)

type options struct {
	observer Observer
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithObserver reports cursor transitions to obs.
// Repeated use combines observers in the order given.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs == nil {
			return
		}
		if o.observer == nil {
			o.observer = obs
			return
		}
		o.observer = Observers(o.observer, obs)
	}
}
