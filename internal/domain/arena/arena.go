package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/herofan/internal/domain/model"
	"github.com/okian/herofan/pkg/logger"
	"github.com/okian/herofan/pkg/metrics"
)

// Resolver decides a battle between the two slots.
type Resolver interface {
	Resolve(a, b *model.CompetitorProfile) (model.BattleOutcome, error)
}

// Listener observes committed sessions.
type Listener func(Session)

// Arena drives one Session. It is safe for concurrent use.
type Arena struct {
	mu        sync.Mutex
	session   Session
	resolver  Resolver
	scheduler Scheduler
	delay     time.Duration
	pending   Timer
	startedAt time.Time
	closed    bool

	listeners []Listener
	log       logger.Logger
	name      string
}

// New returns an idle Arena that resolves battles with r.
func New(r Resolver, opts ...Option) *Arena {
	a := &Arena{
		resolver:  r,
		scheduler: ClockScheduler{},
		delay:     DefaultRevealDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get().Named("arena")
	}
	if a.name != "" {
		a.log = a.log.With(logger.String("session", a.name))
	}
	metrics.ArenaOpened()
	return a
}

// Session returns the current snapshot.
func (a *Arena) Session() Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Delay returns the configured reveal delay.
func (a *Arena) Delay() time.Duration { return a.delay }

// Pick places p using the automatic slot rule.
func (a *Arena) Pick(ctx context.Context, p model.CompetitorProfile) (Session, error) {
	return a.apply(ctx, Pick{Profile: p})
}

// Select places p in slot.
func (a *Arena) Select(ctx context.Context, slot Slot, p model.CompetitorProfile) (Session, error) {
	return a.apply(ctx, Select{Slot: slot, Profile: p})
}

// Clear empties slot and abandons any pending reveal.
func (a *Arena) Clear(ctx context.Context, slot Slot) (Session, error) {
	return a.apply(ctx, Clear{Slot: slot})
}

// Reset clears the session and abandons any pending reveal.
func (a *Arena) Reset(ctx context.Context) (Session, error) {
	return a.apply(ctx, Reset{})
}

// Start resolves the selected pair and schedules the reveal. The outcome is
// decided now but only published to the session when the reveal fires.
func (a *Arena) Start(ctx context.Context) (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return a.session, ErrClosed
	}

	next, err := Transition(a.session, Start{})
	if err != nil {
		return a.session, err
	}
	out, err := a.resolver.Resolve(next.One, next.Two)
	if err != nil {
		return a.session, fmt.Errorf("resolve round %d: %w", next.Round, err)
	}

	a.stopPending()
	a.commit(next)
	round := next.Round
	a.startedAt = time.Now()
	a.pending = a.scheduler.AfterFunc(a.delay, func() {
		a.reveal(ctx, round, out)
	})
	a.log.Debug(ctx, "battle started",
		logger.Int("round", round),
		logger.Int("challenger", out.ChallengerID),
		logger.Int("opponent", out.OpponentID),
		logger.Duration("reveal_after", a.delay),
	)
	return a.session, nil
}

// Close stops any pending reveal. Further operations return ErrClosed.
func (a *Arena) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.stopPending()
	metrics.ArenaClosed()
}

func (a *Arena) apply(ctx context.Context, e Event) (Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return a.session, ErrClosed
	}
	next, err := Transition(a.session, e)
	if err != nil {
		return a.session, err
	}
	a.stopPending()
	a.commit(next)
	a.log.Debug(ctx, "session updated", logger.String("state", next.State.String()))
	return a.session, nil
}

func (a *Arena) reveal(ctx context.Context, round int, out model.BattleOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	next, err := Transition(a.session, Reveal{Round: round, Outcome: out})
	if err != nil {
		if errors.Is(err, ErrStaleReveal) {
			metrics.RecordStaleReveal()
		}
		a.log.Debug(ctx, "reveal dropped", logger.Int("round", round), logger.Error(err))
		return
	}
	a.pending = nil
	metrics.RecordRevealDelay(float64(time.Since(a.startedAt).Milliseconds()))
	a.commit(next)
	a.log.Info(ctx, "battle revealed",
		logger.Int("round", round),
		logger.Int("winner", out.WinnerID),
		logger.Bool("tie_break", out.TieBreak),
	)
}

func (a *Arena) stopPending() {
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
}

func (a *Arena) commit(next Session) {
	a.session = next
	metrics.RecordArenaTransition(next.State.String())
	for _, l := range a.listeners {
		l(next)
	}
}
