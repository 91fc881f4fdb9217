package model

// Side names one of the two competitors in a resolution.
type Side string

// Sides of a resolution, in argument order.
const (
	Challenger Side = "challenger"
	Opponent   Side = "opponent"
)

// Result is a winner-relative comparison of one attribute.
type Result string

// Attribute results.
const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultTie  Result = "tie"
)

// Breakdown tallies attribute results relative to the winner.
type Breakdown struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Total returns wins + losses + ties.
func (b Breakdown) Total() int { return b.Wins + b.Losses + b.Ties }

// AttributeResult compares one attribute's raw scores.
type AttributeResult struct {
	Name       string `json:"name"`
	Challenger int    `json:"challenger"`
	Opponent   int    `json:"opponent"`
	Result     Result `json:"result"`
}

// BattleOutcome is the immutable result of resolving two profiles.
type BattleOutcome struct {
	ChallengerID int               `json:"challenger_id"`
	OpponentID   int               `json:"opponent_id"`
	WinnerID     int               `json:"winner_id"`
	LoserID      int               `json:"loser_id"`
	WinnerSide   Side              `json:"winner_side"`
	TieBreak     bool              `json:"tie_break"`
	RawTotals    map[Side]int      `json:"raw_totals"`
	Factors      map[Side]float64  `json:"factors"`
	ScaledTotals map[Side]float64  `json:"scaled_totals"`
	Breakdown    Breakdown         `json:"breakdown"`
	Attributes   []AttributeResult `json:"attributes"`
}
