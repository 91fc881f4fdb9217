package arenabench

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/internal/domain/model"
)

func roster() []model.CompetitorProfile {
	c, err := catalog.Default()
	if err != nil {
		panic(err)
	}
	return c.Roster
}

func TestVerify(t *testing.T) {
	Convey("Given Iron Man against Captain America", t, func() {
		heroes := roster()
		a, b := heroes[0], heroes[1]

		Convey("When the challenger wins with neutral factors", func() {
			out, err := battle.NewResolver(battle.WithFactorSource(battle.FixedFactor(1))).Resolve(&a, &b)
			So(err, ShouldBeNil)

			Convey("Then the outcome should verify", func() {
				So(Verify(out, a, b), ShouldBeNil)
			})

			Convey("Then a tampered breakdown should not", func() {
				out.Breakdown.Wins++
				out.Breakdown.Ties--
				So(errors.Is(Verify(out, a, b), ErrMismatch), ShouldBeTrue)
			})

			Convey("Then a swapped winner should not", func() {
				out.WinnerID, out.LoserID = out.LoserID, out.WinnerID
				So(errors.Is(Verify(out, a, b), ErrMismatch), ShouldBeTrue)
			})

			Convey("Then a wrong raw total should not", func() {
				out.RawTotals = map[model.Side]int{model.Challenger: 1, model.Opponent: 420}
				So(errors.Is(Verify(out, a, b), ErrMismatch), ShouldBeTrue)
			})
		})

		Convey("When the opponent wins an upset", func() {
			r := battle.NewResolver(battle.WithFactorSource(battle.NewSequenceSource(0.9, 1.1)))
			out, err := r.Resolve(&a, &b)
			So(err, ShouldBeNil)

			Convey("Then the outcome should verify and count as an upset", func() {
				So(out.WinnerID, ShouldEqual, b.ID)
				So(Verify(out, a, b), ShouldBeNil)
				So(upset(&out), ShouldBeTrue)
			})
		})
	})
}

func TestGeneratePairs(t *testing.T) {
	Convey("Given the default roster", t, func() {
		heroes := roster()

		Convey("When pairs are generated with a seed", func() {
			pairs, err := GeneratePairs(heroes, 200, 42)
			So(err, ShouldBeNil)
			again, _ := GeneratePairs(heroes, 200, 42)

			Convey("Then every pair should be distinct heroes and repeatable", func() {
				So(pairs, ShouldHaveLength, 200)
				for _, p := range pairs {
					So(p.ChallengerID, ShouldNotEqual, p.OpponentID)
				}
				So(again, ShouldResemble, pairs)
			})
		})

		Convey("When the roster is too small", func() {
			_, err := GeneratePairs(heroes[:1], 1, 1)
			So(errors.Is(err, ErrRoster), ShouldBeTrue)
		})
	})
}

func TestWinRates(t *testing.T) {
	Convey("Given verified and failed records", t, func() {
		heroes := roster()[:3]
		win := func(a, b, w int) Record {
			return Record{Pair: Pair{a, b}, Outcome: &model.BattleOutcome{WinnerID: w}}
		}
		records := []Record{
			win(1, 2, 1),
			win(1, 3, 1),
			win(2, 3, 3),
			{Pair: Pair{2, 3}, Error: "boom"},
		}

		Convey("Then failures should be ignored and rates sorted", func() {
			rates := WinRates(heroes, records)
			So(rates[0].ID, ShouldEqual, 1)
			So(rates[0].WinRate, ShouldEqual, 1.0)
			So(rates[1].ID, ShouldEqual, 3)
			So(rates[1].Battles, ShouldEqual, 2)
			So(rates[2].Wins, ShouldEqual, 0)
		})
	})
}

func TestGenerateEmails(t *testing.T) {
	Convey("Given generated emails", t, func() {
		emails := GenerateEmails(10)
		seen := map[string]bool{}
		for _, e := range emails {
			seen[e] = true
		}
		So(seen, ShouldHaveLength, 10)
	})
}
