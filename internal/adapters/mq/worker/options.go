package worker

import (
	"time"

	"github.com/okian/herofan/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMaxTries bounds attempts for each store or notify call.
func WithMaxTries(n uint) Option {
	return func(w *Worker) {
		if n > 0 {
			w.maxTries = n
		}
	}
}

// WithRetryInterval sets the first retry delay. Later delays grow
// exponentially.
func WithRetryInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.retryInterval = d
		}
	}
}
