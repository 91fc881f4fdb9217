package service

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/model"
	"github.com/okian/herofan/pkg/metrics"
)

// meteredResolver records every resolution. It is what arenas and the
// battles endpoint share.
type meteredResolver struct {
	r        *battle.Resolver
	resolved atomic.Int64
}

func (m *meteredResolver) Resolve(a, b *model.CompetitorProfile) (model.BattleOutcome, error) {
	out, err := m.r.Resolve(a, b)
	if err != nil {
		if errors.Is(err, battle.ErrInvalidProfile) {
			metrics.RecordInvalidProfile()
		}
		return out, err
	}
	m.resolved.Add(1)
	metrics.RecordBattle(strconv.Itoa(out.WinnerID), margin(out), out.TieBreak)
	for _, row := range out.Attributes {
		metrics.RecordBattleAttribute(row.Name, string(row.Result))
	}
	return out, nil
}

// margin is the winner's scaled lead relative to the loser's scaled total.
func margin(out model.BattleOutcome) float64 {
	loserSide := model.Opponent
	if out.WinnerSide == model.Opponent {
		loserSide = model.Challenger
	}
	loser := out.ScaledTotals[loserSide]
	if loser == 0 {
		return 0
	}
	return (out.ScaledTotals[out.WinnerSide] - loser) / loser
}
