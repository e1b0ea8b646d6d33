package flatten

import (
	"context"

	"github.com/kbukum/flatkit/observability"
)

// MetricsObserver returns an Observer that counts cursor transitions on m.
// ctx is used for every recording.
func MetricsObserver(ctx context.Context, m *observability.FlattenMetrics) Observer {
	if m == nil {
		return nil
	}
	return ObserverFunc(func(e Event) {
		dir := e.Direction.String()
		switch e.Kind {
		case InnerOpened:
			m.RecordInnerOpened(ctx, dir)
		case InnerExhausted:
			m.RecordInnerExhausted(ctx, dir)
		case End:
			m.RecordEnd(ctx, dir)
		}
	})
}
