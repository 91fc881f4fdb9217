package arena

import (
	"time"

	"github.com/okian/herofan/pkg/logger"
)

// DefaultRevealDelay is the pause between Start and the reveal.
const DefaultRevealDelay = 2000 * time.Millisecond

// Option applies a configuration option to the Arena.
type Option func(*Arena)

// WithRevealDelay sets the delay between Start and the reveal. Negative
// values are ignored.
func WithRevealDelay(d time.Duration) Option {
	return func(a *Arena) {
		if d >= 0 {
			a.delay = d
		}
	}
}

// WithScheduler replaces the wall clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(a *Arena) {
		if s != nil {
			a.scheduler = s
		}
	}
}

// WithListener registers a callback invoked after every committed
// transition, under the arena lock. It must not call back into the Arena.
func WithListener(l Listener) Option {
	return func(a *Arena) {
		if l != nil {
			a.listeners = append(a.listeners, l)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

// WithName tags log records with a session name.
func WithName(name string) Option {
	return func(a *Arena) {
		a.name = name
	}
}
