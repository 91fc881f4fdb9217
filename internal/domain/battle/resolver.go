// Package battle resolves a duel between two competitor profiles.
//
// The winner is picked from raw attribute totals scaled by an independent
// random factor per side. The per-attribute breakdown is descriptive only and
// never influences the winner.
package battle

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/herofan/internal/domain/model"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithFactorSource replaces the random factor source.
func WithFactorSource(src FactorSource) Option {
	return func(r *Resolver) {
		if src != nil {
			r.factors = src
		}
	}
}

// WithSeed seeds the default random source. Zero keeps the time-based seed.
func WithSeed(seed int64) Option {
	return func(r *Resolver) {
		if seed != 0 {
			r.seed = seed
		}
	}
}

// WithJitter sets the bounds of the default random source.
func WithJitter(minFactor, maxFactor float64) Option {
	return func(r *Resolver) {
		r.minFactor = minFactor
		r.maxFactor = maxFactor
	}
}

// WithAttributeOrder sets the order of rows in BattleOutcome.Attributes.
func WithAttributeOrder(order []string) Option {
	return func(r *Resolver) {
		if len(order) > 0 {
			r.order = order
		}
	}
}

// Resolver compares two profiles. It holds no mutable state of its own and
// is safe for concurrent use as long as its FactorSource is.
type Resolver struct {
	factors   FactorSource
	seed      int64
	minFactor float64
	maxFactor float64
	order     []string
}

// NewResolver returns a Resolver. Without WithFactorSource it draws factors
// uniformly from [0.9, 1.1).
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		seed:      time.Now().UnixNano(),
		minFactor: DefaultMinFactor,
		maxFactor: DefaultMaxFactor,
		order:     model.DefaultAttributeOrder,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.factors == nil {
		r.factors = NewRandFactorSource(rand.New(rand.NewSource(r.seed)), r.minFactor, r.maxFactor) //nolint:gosec // not security sensitive
	}
	return r
}

// Resolve pits a against b.
//
// The factor for a is drawn before the factor for b. When both scaled totals
// are exactly equal, a wins: the first argument is the tie-break winner.
func (r *Resolver) Resolve(a, b *model.CompetitorProfile) (model.BattleOutcome, error) {
	if err := Validate(a, b); err != nil {
		return model.BattleOutcome{}, err
	}

	rawA, rawB := a.Attributes.Total(), b.Attributes.Total()
	factorA := r.factors.Factor()
	factorB := r.factors.Factor()
	scaledA := float64(rawA) * factorA
	scaledB := float64(rawB) * factorB

	out := model.BattleOutcome{
		ChallengerID: a.ID,
		OpponentID:   b.ID,
		TieBreak:     scaledA == scaledB,
		RawTotals:    map[model.Side]int{model.Challenger: rawA, model.Opponent: rawB},
		Factors:      map[model.Side]float64{model.Challenger: factorA, model.Opponent: factorB},
		ScaledTotals: map[model.Side]float64{model.Challenger: scaledA, model.Opponent: scaledB},
	}

	winner, loser := a, b
	out.WinnerSide = model.Challenger
	if scaledB > scaledA {
		winner, loser = b, a
		out.WinnerSide = model.Opponent
	}
	out.WinnerID, out.LoserID = winner.ID, loser.ID
	out.Breakdown, out.Attributes = breakdown(winner, loser, a.Attributes.Keys(r.order), out.WinnerSide)
	return out, nil
}

// breakdown compares raw scores per attribute from the winner's point of view.
func breakdown(winner, loser *model.CompetitorProfile, keys []string, side model.Side) (model.Breakdown, []model.AttributeResult) {
	var b model.Breakdown
	rows := make([]model.AttributeResult, 0, len(keys))
	for _, k := range keys {
		w, l := winner.Attributes[k], loser.Attributes[k]
		row := model.AttributeResult{Name: k}
		switch {
		case w > l:
			b.Wins++
			row.Result = model.ResultWin
		case w < l:
			b.Losses++
			row.Result = model.ResultLoss
		default:
			b.Ties++
			row.Result = model.ResultTie
		}
		if side == model.Challenger {
			row.Challenger, row.Opponent = w, l
		} else {
			row.Challenger, row.Opponent = l, w
		}
		rows = append(rows, row)
	}
	return b, rows
}

// Validate checks that a and b can be compared.
func Validate(a, b *model.CompetitorProfile) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}
	for _, p := range []*model.CompetitorProfile{a, b} {
		if len(p.Attributes) == 0 {
			return fmt.Errorf("%w: profile %d has no attributes", ErrInvalidProfile, p.ID)
		}
		for k, v := range p.Attributes {
			if v < 0 {
				return fmt.Errorf("%w: profile %d has negative %s", ErrInvalidProfile, p.ID, k)
			}
		}
	}
	if !a.Attributes.SameKeys(b.Attributes) {
		return fmt.Errorf("%w: profiles %d and %d have different attributes", ErrInvalidProfile, a.ID, b.ID)
	}
	return nil
}
