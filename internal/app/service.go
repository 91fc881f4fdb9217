// Package service provides the business service behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/herofan/internal/adapters/mq/queue"
	"github.com/okian/herofan/internal/adapters/mq/worker"
	"github.com/okian/herofan/internal/adapters/repository"
	"github.com/okian/herofan/internal/domain/arena"
	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/internal/domain/dedupe"
	"github.com/okian/herofan/internal/domain/model"
	"github.com/okian/herofan/pkg/logger"
	"github.com/okian/herofan/pkg/metrics"
)

// Service implements the API dependencies for the fan site.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  *catalog.Catalog
	resolver *meteredResolver
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	store    repository.Store
	notifier worker.Notifier
	pool     *worker.Pool

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	revealDelay  time.Duration
	catalogPath  string
	newsletterDB string
	resolverOpts []battle.Option
	scheduler    arena.Scheduler

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  50_000,
		revealDelay: arena.DefaultRevealDelay,
		scheduler:   arena.ClockScheduler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and starts the newsletter pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting herofan service...")

	if s.catalog == nil {
		c, err := catalog.LoadFile(s.catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s.catalog = c
	}
	opts := append([]battle.Option{battle.WithAttributeOrder(s.catalog.AttributeOrder())}, s.resolverOpts...)
	s.resolver = &meteredResolver{r: battle.NewResolver(opts...)}

	if s.newsletterDB != "" {
		st, err := repository.OpenSQLite(ctx, s.newsletterDB)
		if err != nil {
			return fmt.Errorf("open newsletter db: %w", err)
		}
		s.store = st
		s.logger.Info(ctx, "using sqlite subscriber store", logger.String("path", s.newsletterDB))
	} else {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory subscriber store")
	}
	if s.notifier == nil {
		s.notifier = worker.LogNotifier{Logger: s.logger.Named("newsletter")}
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, s.notifier)
	// Workers outlive the start context; Stop drains them.
	s.pool.Start(context.WithoutCancel(ctx))

	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateSubscribers(n)
	}

	s.started = true
	s.logger.Info(ctx, "herofan service started",
		logger.Int("heroes", len(s.catalog.Roster)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("revealDelay", s.revealDelay),
	)
	return nil
}

// Stop drains the signup queue and closes the subscriber store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping herofan service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing subscriber store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "herofan service stopped")
}

func (s *Service) running() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Roster returns every hero that can enter the arena.
func (s *Service) Roster(_ context.Context) ([]model.CompetitorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return nil, err
	}
	return append([]model.CompetitorProfile(nil), s.catalog.Roster...), nil
}

// Hero returns one roster hero. Unknown ids wrap catalog.ErrNotFound.
func (s *Service) Hero(_ context.Context, id int) (model.CompetitorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return model.CompetitorProfile{}, err
	}
	return s.catalog.Hero(id)
}

// Content returns the static site content.
func (s *Service) Content(_ context.Context) (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.catalog, nil
}

// RevealDelay returns the pause clients should wait before showing a result.
func (s *Service) RevealDelay() time.Duration { return s.revealDelay }

// Battle resolves challengerID against opponentID.
func (s *Service) Battle(ctx context.Context, challengerID, opponentID int) (string, model.BattleOutcome, error) {
	if challengerID == opponentID {
		return "", model.BattleOutcome{}, fmt.Errorf("%w: %d", ErrSameHero, challengerID)
	}
	a, err := s.Hero(ctx, challengerID)
	if err != nil {
		return "", model.BattleOutcome{}, err
	}
	b, err := s.Hero(ctx, opponentID)
	if err != nil {
		return "", model.BattleOutcome{}, err
	}
	out, err := s.resolver.Resolve(&a, &b)
	if err != nil {
		return "", model.BattleOutcome{}, err
	}
	id := uuid.NewString()
	s.logger.Debug(ctx, "battle resolved",
		logger.String("battle_id", id),
		logger.Int("winner", out.WinnerID),
		logger.Bool("tie_break", out.TieBreak),
	)
	return id, out, nil
}

// NewArena opens a live arena sharing the service resolver.
func (s *Service) NewArena(opts ...arena.Option) (*arena.Arena, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return nil, err
	}
	base := []arena.Option{
		arena.WithRevealDelay(s.revealDelay),
		arena.WithScheduler(s.scheduler),
		arena.WithLogger(s.logger.Named("arena")),
	}
	return arena.New(s.resolver, append(base, opts...)...), nil
}

// SeenAndRecord atomically checks if an address was seen and records it if not.
// It reports false when the service is stopped.
func (s *Service) SeenAndRecord(ctx context.Context, email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.running() != nil || s.deduper == nil {
		return false
	}
	seen := s.deduper.SeenAndRecord(ctx, email)
	if seen {
		metrics.RecordSignupDuplicate()
	}
	return seen
}

// Unrecord forgets an address so the signup can be retried.
func (s *Service) Unrecord(ctx context.Context, email string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.running() != nil || s.deduper == nil {
		return
	}
	s.deduper.Unrecord(ctx, email)
}

// Size returns the number of remembered addresses.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// EnqueueSignup queues a normalized address for storage. Returns false on
// backpressure or when the service is stopped.
func (s *Service) EnqueueSignup(ctx context.Context, email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.running() != nil {
		return false
	}
	sub := model.Subscription{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	err := s.queue.Enqueue(ctx, queue.Job{Subscription: sub})
	switch {
	case err == nil:
		metrics.RecordSignupAccepted()
		return true
	case errors.Is(err, queue.ErrFull):
		metrics.RecordSignupRejected("backpressure")
	default:
		metrics.RecordSignupRejected("queue")
	}
	s.logger.Warn(ctx, "signup not queued", logger.Error(err))
	return false
}

// Subscriber returns the stored subscription for email.
func (s *Service) Subscriber(ctx context.Context, email string) (model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return model.Subscription{}, err
	}
	return s.store.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"revealDelayMs": s.revealDelay.Milliseconds(),
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	queueLen := s.queue.Len()
	stats["queueLength"] = queueLen
	stats["heroes"] = len(s.catalog.Roster)
	stats["battlesResolved"] = s.resolver.resolved.Load()
	stats["signupsSeen"] = s.deduper.Size()
	if n, err := s.store.Count(ctx); err == nil {
		stats["subscribers"] = n
		metrics.UpdateSubscribers(n)
	}
	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateWorkerCount(s.pool.Size())
	return stats
}
