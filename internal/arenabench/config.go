package arenabench

import (
	"fmt"
	"time"

	"github.com/okian/herofan/internal/domain/model"
)

// Config holds configuration for a bench run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Battles    int           // Number of battles to fire
	Signups    int           // Number of newsletter signups to submit
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       int64         // Pair generator seed; zero uses the clock
	OutputFile string        // Optional JSON report file
	Verbose    bool          // Log every failed battle
}

// Validate rejects negative counts.
func (c *Config) Validate() error {
	switch {
	case c.Battles < 0:
		return fmt.Errorf("%w: battles must be >= 0, got %d", ErrInvalidConfig, c.Battles)
	case c.Signups < 0:
		return fmt.Errorf("%w: signups must be >= 0, got %d", ErrInvalidConfig, c.Signups)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Pair is one scheduled battle.
type Pair struct {
	ChallengerID int `json:"challenger_id"`
	OpponentID   int `json:"opponent_id"`
}

// BattleResponse mirrors POST /api/battles.
type BattleResponse struct {
	BattleID      string              `json:"battle_id"`
	Outcome       model.BattleOutcome `json:"outcome"`
	RevealAfterMS int64               `json:"reveal_after_ms"`
}

// Record is the result of one fired battle.
type Record struct {
	Pair
	BattleID  string               `json:"battle_id,omitempty"`
	Outcome   *model.BattleOutcome `json:"outcome,omitempty"`
	LatencyMS float64              `json:"latency_ms"`
	Error     string               `json:"error,omitempty"`
}

// HeroRate is a hero's record over the run.
type HeroRate struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Battles int     `json:"battles"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// Stats holds run statistics.
type Stats struct {
	BattlesFired    int           `json:"battles_fired"`
	BattlesVerified int           `json:"battles_verified"`
	BattlesFailed   int           `json:"battles_failed"`
	TieBreaks       int           `json:"tie_breaks"`
	Upsets          int           `json:"upsets"`
	SignupsAccepted int           `json:"signups_accepted"`
	SignupsFailed   int           `json:"signups_failed"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Duration        time.Duration `json:"duration_ns"`
}

// Report is everything a run produced.
type Report struct {
	Stats   Stats      `json:"stats"`
	Rates   []HeroRate `json:"win_rates"`
	Records []Record   `json:"records"`
}
