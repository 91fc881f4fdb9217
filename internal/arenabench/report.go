package arenabench

import (
	"sort"

	"github.com/okian/herofan/internal/domain/model"
)

// WinRates tallies verified records per hero, best rate first.
func WinRates(roster []model.CompetitorProfile, records []Record) []HeroRate {
	byID := make(map[int]*HeroRate, len(roster))
	rates := make([]HeroRate, len(roster))
	for i, h := range roster {
		rates[i] = HeroRate{ID: h.ID, Name: h.Name}
		byID[h.ID] = &rates[i]
	}
	for _, r := range records {
		if r.Outcome == nil || r.Error != "" {
			continue
		}
		for _, id := range []int{r.ChallengerID, r.OpponentID} {
			if h, ok := byID[id]; ok {
				h.Battles++
			}
		}
		if h, ok := byID[r.Outcome.WinnerID]; ok {
			h.Wins++
		}
	}
	for i := range rates {
		if rates[i].Battles > 0 {
			rates[i].WinRate = float64(rates[i].Wins) / float64(rates[i].Battles)
		}
	}
	sort.SliceStable(rates, func(i, j int) bool {
		if rates[i].WinRate != rates[j].WinRate {
			return rates[i].WinRate > rates[j].WinRate
		}
		return rates[i].ID < rates[j].ID
	})
	return rates
}

// upset reports whether the lower raw total won.
func upset(out *model.BattleOutcome) bool {
	winner := out.RawTotals[out.WinnerSide]
	loser := out.RawTotals[other(out.WinnerSide)]
	return winner < loser
}
