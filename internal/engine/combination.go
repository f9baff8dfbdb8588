package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/validate"
)

// SettleCombination settles a multi-leg bet. Legs that already carry a
// terminal status are preserved unchanged; every other leg is settled
// against the facts of its event (missing facts leave it pending).
//
// Aggregation: canceled/void beats lost, lost beats error, error beats
// pending, pending beats won. Push legs are resolved with an odds factor of
// 1, and a combination whose legs all pushed is itself a push. A won
// combination pays stake × the product of the won legs' odds.
func SettleCombination(bet model.Bet, factsByEvent map[string]*matchdata.Facts) model.Outcome {
	if err := validate.Bet(bet); err != nil {
		return model.Outcome{
			Status: model.StatusCanceled,
			Payout: model.Payout(model.StatusCanceled, bet.Stake, bet.Odds),
			Reason: err.Error(),
		}
	}

	legs := make([]model.LegOutcome, len(bet.Legs))
	for i, leg := range bet.Legs {
		if leg.Status.Terminal() {
			legs[i] = model.LegOutcome{
				LegID:     leg.ID,
				EventID:   leg.EventID,
				Odds:      leg.Odds,
				Status:    leg.Status,
				Payout:    leg.Payout,
				Reason:    leg.Reason,
				Preserved: true,
			}
			continue
		}
		legs[i] = SettleLeg(leg, bet.Stake, factsByEvent[leg.EventID])
	}

	status, odds := aggregate(legs)
	return model.Outcome{
		Status:  status,
		Payout:  model.Payout(status, bet.Stake, odds),
		Reason:  combinedReason(status, legs),
		Details: model.Details{Family: "combination", Actual: tally(legs)},
		Legs:    legs,
	}
}

// aggregate returns the overall status and the odds the payout applies to.
func aggregate(legs []model.LegOutcome) (model.Status, decimal.Decimal) {
	counts := make(map[model.Status]int, len(legs))
	odds := decimal.NewFromInt(1)
	for _, l := range legs {
		counts[l.Status]++
		if l.Status == model.StatusWon {
			odds = odds.Mul(l.Odds)
		}
	}

	switch {
	case counts[model.StatusCanceled] > 0 || counts[model.StatusVoid] > 0:
		return model.StatusCanceled, odds
	case counts[model.StatusLost] > 0:
		return model.StatusLost, odds
	case counts[model.StatusError] > 0:
		return model.StatusError, odds
	case counts[model.StatusPending] > 0:
		return model.StatusPending, odds
	case counts[model.StatusPush] == len(legs):
		return model.StatusPush, odds
	case counts[model.StatusWon]+counts[model.StatusPush] == len(legs):
		return model.StatusWon, odds
	}
	// Unknown leg statuses.
	return model.StatusPending, odds
}

func combinedReason(status model.Status, legs []model.LegOutcome) string {
	parts := make([]string, len(legs))
	for i, l := range legs {
		id := l.LegID
		if id == "" {
			id = fmt.Sprint(i + 1)
		}
		parts[i] = fmt.Sprintf("leg %s (event %s) %s: %s", id, l.EventID, l.Status, l.Reason)
	}
	return fmt.Sprintf("combination %s; %s", status, strings.Join(parts, "; "))
}

func tally(legs []model.LegOutcome) string {
	order := []model.Status{
		model.StatusWon, model.StatusLost, model.StatusPush, model.StatusCanceled,
		model.StatusVoid, model.StatusError, model.StatusPending,
	}
	counts := make(map[model.Status]int, len(order))
	for _, l := range legs {
		counts[l.Status]++
	}
	var parts []string
	for _, s := range order {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	return strings.Join(parts, ", ")
}
