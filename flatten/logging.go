package flatten

import (
	"github.com/kbukum/flatkit/logger"
)

// LogObserver returns an Observer that logs each cursor transition at debug
// level. It does nothing when log is nil or debug logging is disabled.
func LogObserver(log *logger.Logger) Observer {
	if log == nil || !log.DebugEnabled() {
		return nil
	}
	return ObserverFunc(func(e Event) {
		log.Debug("flatten cursor transition", logger.Fields(
			logger.FieldEvent, e.Kind.String(),
			logger.FieldDirection, e.Direction.String(),
		))
	})
}
