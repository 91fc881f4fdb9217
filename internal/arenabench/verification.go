package arenabench

import (
	"fmt"

	"github.com/okian/herofan/internal/domain/model"
)

// Verify checks an outcome against the roster profiles that fought.
func Verify(out model.BattleOutcome, a, b model.CompetitorProfile) error {
	if out.ChallengerID != a.ID || out.OpponentID != b.ID {
		return fmt.Errorf("%w: fighters %d/%d, want %d/%d", ErrMismatch, out.ChallengerID, out.OpponentID, a.ID, b.ID)
	}

	winner, loser := a, b
	switch out.WinnerSide {
	case model.Challenger:
	case model.Opponent:
		winner, loser = b, a
	default:
		return fmt.Errorf("%w: unknown winner side %q", ErrMismatch, out.WinnerSide)
	}
	if out.WinnerID != winner.ID || out.LoserID != loser.ID {
		return fmt.Errorf("%w: winner %d loser %d disagree with side %s", ErrMismatch, out.WinnerID, out.LoserID, out.WinnerSide)
	}

	if out.RawTotals[model.Challenger] != a.Attributes.Total() || out.RawTotals[model.Opponent] != b.Attributes.Total() {
		return fmt.Errorf("%w: raw totals %v", ErrMismatch, out.RawTotals)
	}
	if out.ScaledTotals[out.WinnerSide] < out.ScaledTotals[other(out.WinnerSide)] {
		return fmt.Errorf("%w: winner has the lower scaled total", ErrMismatch)
	}

	if out.Breakdown.Total() != len(a.Attributes) || len(out.Attributes) != len(a.Attributes) {
		return fmt.Errorf("%w: breakdown covers %d of %d attributes", ErrMismatch, out.Breakdown.Total(), len(a.Attributes))
	}

	var counted model.Breakdown
	for _, row := range out.Attributes {
		if row.Challenger != a.Attributes[row.Name] || row.Opponent != b.Attributes[row.Name] {
			return fmt.Errorf("%w: %s scores %d/%d", ErrMismatch, row.Name, row.Challenger, row.Opponent)
		}
		w, l := winner.Attributes[row.Name], loser.Attributes[row.Name]
		want := model.ResultTie
		switch {
		case w > l:
			want = model.ResultWin
			counted.Wins++
		case w < l:
			want = model.ResultLoss
			counted.Losses++
		default:
			counted.Ties++
		}
		if row.Result != want {
			return fmt.Errorf("%w: %s is %s, want %s", ErrMismatch, row.Name, row.Result, want)
		}
	}
	if counted != out.Breakdown {
		return fmt.Errorf("%w: breakdown %+v, rows give %+v", ErrMismatch, out.Breakdown, counted)
	}
	return nil
}

func other(s model.Side) model.Side {
	if s == model.Challenger {
		return model.Opponent
	}
	return model.Challenger
}
