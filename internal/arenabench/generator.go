package arenabench

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/herofan/internal/domain/model"
)

// GeneratePairs draws n battles between distinct random heroes.
func GeneratePairs(roster []model.CompetitorProfile, n int, seed int64) ([]Pair, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative battle count %d", ErrInvalidConfig, n)
	}
	if len(roster) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 heroes, got %d", ErrRoster, len(roster))
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // not security sensitive

	pairs := make([]Pair, n)
	for i := range pairs {
		a := rng.Intn(len(roster))
		b := rng.Intn(len(roster) - 1)
		if b >= a {
			b++
		}
		pairs[i] = Pair{ChallengerID: roster[a].ID, OpponentID: roster[b].ID}
	}
	return pairs, nil
}

// GenerateEmails returns n unique bench addresses.
func GenerateEmails(n int) []string {
	emails := make([]string, n)
	for i := range emails {
		emails[i] = "bench+" + uuid.NewString() + "@herofan.test"
	}
	return emails
}
