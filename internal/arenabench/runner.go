package arenabench

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/herofan/internal/domain/model"
	"github.com/okian/herofan/pkg/logger"
)

// Run executes the complete bench and returns its report. A report is
// returned alongside ErrFailures when some battles failed.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("bench")
	report := &Report{Stats: Stats{StartTime: time.Now()}}

	log.Info(ctx, "starting herofan arena bench",
		logger.String("baseURL", config.BaseURL),
		logger.Int("battles", config.Battles),
		logger.Int("signups", config.Signups),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, err
	}

	// Step 2: Load the roster
	var roster []model.CompetitorProfile
	resp, err := client.Get(ctx, "/api/heroes")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	if err := decode(resp, http.StatusOK, &roster); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoster, err)
	}

	// Step 3: Fire and verify battles
	pairs, err := GeneratePairs(roster, config.Battles, config.Seed)
	if err != nil {
		return nil, err
	}
	report.Records = fireBattles(ctx, config, client, roster, pairs)

	// Step 4: Newsletter signups
	if config.Signups > 0 {
		report.Stats.SignupsAccepted, report.Stats.SignupsFailed = submitSignups(ctx, config, client, GenerateEmails(config.Signups))
	}

	// Step 5: Tally
	for _, r := range report.Records {
		report.Stats.BattlesFired++
		if r.Error != "" {
			report.Stats.BattlesFailed++
			if config.Verbose {
				log.Warn(ctx, "battle failed",
					logger.Int("challenger", r.ChallengerID),
					logger.Int("opponent", r.OpponentID),
					logger.String("error", r.Error))
			}
			continue
		}
		report.Stats.BattlesVerified++
		if r.Outcome.TieBreak {
			report.Stats.TieBreaks++
		}
		if upset(r.Outcome) {
			report.Stats.Upsets++
		}
	}
	report.Rates = WinRates(roster, report.Records)
	report.Stats.EndTime = time.Now()
	report.Stats.Duration = report.Stats.EndTime.Sub(report.Stats.StartTime)

	if config.OutputFile != "" {
		if err := SaveReport(config.OutputFile, report); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		} else {
			log.Info(ctx, "report saved", logger.String("filename", config.OutputFile))
		}
	}

	displayFinalStats(ctx, log, report)

	if report.Stats.BattlesFailed > 0 || report.Stats.SignupsFailed > 0 {
		return report, fmt.Errorf("%w: %d battles, %d signups", ErrFailures, report.Stats.BattlesFailed, report.Stats.SignupsFailed)
	}
	log.Info(ctx, "bench completed successfully")
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	if err := decode(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	return nil
}

// fireBattles runs pairs over a worker pool. Records keep the pair order.
func fireBattles(ctx context.Context, config *Config, client *HTTPClient, roster []model.CompetitorProfile, pairs []Pair) []Record {
	byID := make(map[int]model.CompetitorProfile, len(roster))
	for _, h := range roster {
		byID[h.ID] = h
	}

	records := make([]Record, len(pairs))
	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	workers := max(config.Workers, 1)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = fireBattle(ctx, client, pairs[i], byID)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range pairs {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	// Pairs never sent because ctx ended are recorded as failures.
	for i := range records {
		if records[i].ChallengerID == 0 {
			reason := "not sent"
			if cause := context.Cause(ctx); cause != nil {
				reason = cause.Error()
			}
			records[i] = Record{Pair: pairs[i], Error: reason}
		}
	}
	return records
}

func fireBattle(ctx context.Context, client *HTTPClient, p Pair, byID map[int]model.CompetitorProfile) Record {
	rec := Record{Pair: p}
	start := time.Now()
	resp, err := client.Post(ctx, "/api/battles", p)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	var br BattleResponse
	err = decode(resp, http.StatusOK, &br)
	rec.LatencyMS = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	rec.BattleID = br.BattleID
	rec.Outcome = &br.Outcome
	if err := Verify(br.Outcome, byID[p.ChallengerID], byID[p.OpponentID]); err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// submitSignups posts emails concurrently and counts accepted and failed.
func submitSignups(ctx context.Context, config *Config, client *HTTPClient, emails []string) (accepted, failed int) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(config.Workers, 1))

	for _, email := range emails {
		wg.Add(1)
		sem <- struct{}{}
		go func(email string) {
			defer wg.Done()
			defer func() { <-sem }()
			ok := false
			if resp, err := client.Post(ctx, "/api/newsletter", map[string]string{"email": email}); err == nil {
				ok = decode(resp, http.StatusAccepted, nil) == nil
			}
			mu.Lock()
			defer mu.Unlock()
			if ok {
				accepted++
			} else {
				failed++
			}
		}(email)
	}
	wg.Wait()
	return accepted, failed
}

// SaveReport writes report as indented JSON.
func SaveReport(filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

// displayFinalStats logs the run summary and the win rate table.
func displayFinalStats(ctx context.Context, log logger.Logger, report *Report) {
	s := report.Stats
	var battlesPerSecond float64
	if s.Duration > 0 {
		battlesPerSecond = float64(s.BattlesFired) / s.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("battlesFired", s.BattlesFired),
		logger.Int("battlesVerified", s.BattlesVerified),
		logger.Int("battlesFailed", s.BattlesFailed),
		logger.Int("tieBreaks", s.TieBreaks),
		logger.Int("upsets", s.Upsets),
		logger.Int("signupsAccepted", s.SignupsAccepted),
		logger.Int("signupsFailed", s.SignupsFailed),
		logger.Duration("duration", s.Duration),
		logger.Float64("battlesPerSecond", battlesPerSecond))

	for i, r := range report.Rates {
		log.Info(ctx, "win rate",
			logger.Int("rank", i+1),
			logger.String("hero", r.Name),
			logger.Int("battles", r.Battles),
			logger.Int("wins", r.Wins),
			logger.Float64("winRatePct", r.WinRate*PercentageMultiplier))
	}
}
