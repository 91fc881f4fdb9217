package service

import (
	"time"

	"github.com/okian/herofan/internal/adapters/mq/worker"
	"github.com/okian/herofan/internal/domain/arena"
	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the number of signup workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the signup queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many signup addresses are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRevealDelay sets the arena reveal delay.
func WithRevealDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.revealDelay = d
		}
	}
}

// WithJitter sets the random factor bounds.
func WithJitter(minFactor, maxFactor float64) Option {
	return func(s *Service) {
		s.resolverOpts = append(s.resolverOpts, battle.WithJitter(minFactor, maxFactor))
	}
}

// WithSeed fixes the battle random source.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.resolverOpts = append(s.resolverOpts, battle.WithSeed(seed))
	}
}

// WithFactorSource replaces the battle random source.
func WithFactorSource(src battle.FactorSource) Option {
	return func(s *Service) {
		s.resolverOpts = append(s.resolverOpts, battle.WithFactorSource(src))
	}
}

// WithCatalog uses c instead of loading one.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCatalogPath loads the catalog from a YAML file on Start.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithNewsletterDB stores subscribers in the SQLite file at path.
func WithNewsletterDB(path string) Option {
	return func(s *Service) {
		s.newsletterDB = path
	}
}

// WithNotifier replaces the log notifier used to welcome subscribers.
func WithNotifier(n worker.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithScheduler sets the scheduler used by arenas.
func WithScheduler(sch arena.Scheduler) Option {
	return func(s *Service) {
		if sch != nil {
			s.scheduler = sch
		}
	}
}
