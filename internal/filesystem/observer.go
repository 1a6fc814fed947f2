package filesystem

// Observer records filesystem operation metrics. The metrics package provides
// the implementation so that filesystem does not import Prometheus directly.
type Observer interface {
	// ObserveOperation records duration and error status for one logical
	// operation ("stat", "open", "readdir", "rename"), retries included.
	ObserveOperation(operation string, durationSeconds float64, err error)

	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

// defaultObserver is set once at startup. When nil, metric recording is
// skipped, which keeps tests free of global Prometheus state.
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
