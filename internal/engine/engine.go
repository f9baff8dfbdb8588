// Package engine settles single and combination bets against match facts.
//
// Settlement is pure and synchronous: no I/O, no shared mutable state, no
// logging. Data problems become canceled or lost verdicts; a panic inside a
// market algorithm becomes an error outcome with zero payout. Payouts are
// always computed by model.Payout.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atmx/settlement-engine/internal/market"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/validate"
)

// Settle settles a single bet. Nil facts leave the bet pending; an invalid
// bet is canceled with its stake refunded.
func Settle(bet model.Bet, facts *matchdata.Facts) model.Outcome {
	if bet.IsCombination() {
		return model.Outcome{
			Status: model.StatusCanceled,
			Payout: model.Payout(model.StatusCanceled, bet.Stake, bet.Odds),
			Reason: "combination bet passed to single settlement",
		}
	}
	if err := validate.Bet(bet); err != nil {
		return model.Outcome{
			Status:  model.StatusCanceled,
			Payout:  model.Payout(model.StatusCanceled, bet.Stake, bet.Odds),
			Reason:  err.Error(),
			Details: model.Details{MarketID: bet.Selection.MarketID, RawSelection: bet.Selection.Text()},
		}
	}
	return settleSelection(bet.Stake, bet.Odds, bet.Selection, bet.PlacedLive, facts)
}

// SettleLeg settles one combination leg as if it were a single bet of the
// given stake; the leg payout is reported for audit only.
func SettleLeg(leg model.Leg, stake decimal.Decimal, facts *matchdata.Facts) model.LegOutcome {
	var out model.Outcome
	if err := validate.Leg(leg); err != nil {
		out = model.Outcome{
			Status: model.StatusCanceled,
			Payout: model.Payout(model.StatusCanceled, stake, leg.Odds),
			Reason: err.Error(),
		}
	} else {
		out = settleSelection(stake, leg.Odds, leg.Selection, leg.PlacedLive, facts)
	}
	return model.LegOutcome{
		LegID:   leg.ID,
		EventID: leg.EventID,
		Odds:    leg.Odds,
		Status:  out.Status,
		Payout:  out.Payout,
		Reason:  out.Reason,
		Details: out.Details,
	}
}

// settleSelection is the failure boundary around evaluate.
func settleSelection(stake, odds decimal.Decimal, sel model.Selection, placedLive bool, facts *matchdata.Facts) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = model.Outcome{
				Status: model.StatusError,
				Payout: decimal.Zero,
				Reason: fmt.Sprint(r),
				Details: model.Details{
					MarketID:     sel.MarketID,
					RawSelection: sel.Text(),
				},
			}
		}
	}()

	v := evaluate(sel, placedLive, facts)
	return model.Outcome{
		Status:  v.status,
		Payout:  model.Payout(v.status, stake, odds),
		Reason:  v.reason,
		Details: v.details,
	}
}

// evaluate routes a selection through the winning-flag path or the
// market family's algorithm.
func evaluate(sel model.Selection, placedLive bool, facts *matchdata.Facts) verdict {
	def := market.Classify(sel.MarketID)
	v := route(sel, def, placedLive, facts)

	v.details.MarketID = def.ID
	v.details.Family = string(def.Family)
	v.details.RawSelection = sel.Text()
	return v
}

func route(sel model.Selection, def market.Definition, placedLive bool, facts *matchdata.Facts) verdict {
	if facts == nil {
		return pending("match facts not available")
	}

	if def.WinningFlag || def.Family == market.FamilyGeneric {
		if sel.Winning != nil {
			return decide(*sel.Winning, "upstream winning flag %t", *sel.Winning)
		}
		switch {
		case def.Family == market.FamilyGeneric && !facts.Finished:
			return pending("awaiting result for unknown market %s", def.ID)
		case def.Family == market.FamilyGeneric:
			return canceled("unknown market %s without winning flag", def.ID)
		case !placedLive && !facts.Finished:
			return pending("awaiting upstream winning flag")
		case !placedLive:
			return canceled("upstream winning flag unresolved after full time")
		}
		// Placed in-play with no flag yet: recompute locally.
	}

	algo, ok := algorithms[def.Family]
	if !ok {
		return canceled("no settlement rule for market %s", def.ID)
	}
	if !facts.Finished && !def.EarlySettling {
		return pending("match not finished")
	}
	return algo(input{sel: sel, def: def, facts: facts})
}
