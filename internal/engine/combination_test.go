package engine

import (
	"strings"
	"testing"

	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
)

func comboLeg(id, eventID string, odds float64, sel model.Selection) model.Leg {
	return model.Leg{ID: id, EventID: eventID, Odds: d(odds), Selection: sel}
}

func combo(stake float64, legs ...model.Leg) model.Bet {
	return model.Bet{ID: "combo-1", Stake: d(stake), Odds: d(1), Legs: legs}
}

var (
	over15 = model.Selection{MarketID: "OVER_UNDER", Label: "Over", Line: line(1.5)}
	bttsY  = model.Selection{MarketID: "BTTS", Label: "Yes"}
)

func TestSettleCombination_Scenario(t *testing.T) {
	bet := combo(10,
		comboLeg("A", "e1", 1.4, over15),
		comboLeg("B", "e2", 1.6, bttsY),
	)
	facts := map[string]*matchdata.Facts{
		"e1": match(2, 1, event("e1")),
		"e2": match(0, 1, event("e2")),
	}

	out := SettleCombination(bet, facts)
	if out.Status != model.StatusLost {
		t.Fatalf("expected lost, got %s: %s", out.Status, out.Reason)
	}
	if !out.Payout.IsZero() {
		t.Errorf("expected zero payout, got %s", out.Payout)
	}
	if out.Legs[0].Status != model.StatusWon || out.Legs[1].Status != model.StatusLost {
		t.Errorf("unexpected leg statuses %s, %s", out.Legs[0].Status, out.Legs[1].Status)
	}
	// Leg payouts follow the single-bet convention for audit.
	if !out.Legs[0].Payout.Equal(d(14)) {
		t.Errorf("expected leg A audit payout 14, got %s", out.Legs[0].Payout)
	}
	for _, want := range []string{"leg A (event e1) won", "leg B (event e2) lost"} {
		if !strings.Contains(out.Reason, want) {
			t.Errorf("reason %q missing %q", out.Reason, want)
		}
	}
}

func TestSettleCombination_AllWonPaysProduct(t *testing.T) {
	bet := combo(10,
		comboLeg("A", "e1", 1.4, over15),
		comboLeg("B", "e2", 1.6, bttsY),
	)
	facts := map[string]*matchdata.Facts{
		"e1": match(2, 1, event("e1")),
		"e2": match(1, 1, event("e2")),
	}

	out := SettleCombination(bet, facts)
	if out.Status != model.StatusWon {
		t.Fatalf("expected won, got %s: %s", out.Status, out.Reason)
	}
	if !out.Payout.Equal(d(22.4)) {
		t.Errorf("expected payout 10 × 1.4 × 1.6 = 22.4, got %s", out.Payout)
	}
}

func TestSettleCombination_CancellationDominates(t *testing.T) {
	bet := combo(25,
		model.Leg{ID: "1", EventID: "e1", Odds: d(1.5), Selection: over15, Status: model.StatusCanceled, Payout: d(25)},
		model.Leg{ID: "2", EventID: "e2", Odds: d(1.8), Selection: over15, Status: model.StatusWon, Payout: d(45)},
		model.Leg{ID: "3", EventID: "e3", Odds: d(2.1), Selection: over15, Status: model.StatusLost},
	)

	out := SettleCombination(bet, nil)
	if out.Status != model.StatusCanceled {
		t.Fatalf("expected canceled, got %s", out.Status)
	}
	if !out.Payout.Equal(d(25)) {
		t.Errorf("expected refund of 25, got %s", out.Payout)
	}
}

func TestSettleCombination_TerminalLegsPreserved(t *testing.T) {
	prior := model.Leg{
		ID: "1", EventID: "e1", Odds: d(1.5), Selection: over15,
		Status: model.StatusWon, Payout: d(15), Reason: "3 total goals, selected over 1.5",
	}
	bet := combo(10, prior, comboLeg("2", "e2", 2, bttsY))

	// Facts for e1 now say the leg would lose; they must be ignored.
	facts := map[string]*matchdata.Facts{
		"e1": match(0, 0, event("e1")),
	}

	out := SettleCombination(bet, facts)
	if out.Status != model.StatusPending {
		t.Fatalf("expected pending, got %s: %s", out.Status, out.Reason)
	}
	leg := out.Legs[0]
	if !leg.Preserved || leg.Status != model.StatusWon || !leg.Payout.Equal(d(15)) || leg.Reason != prior.Reason {
		t.Errorf("terminal leg was modified: %+v", leg)
	}
	if out.Legs[1].Status != model.StatusPending {
		t.Errorf("expected leg without facts to be pending, got %s", out.Legs[1].Status)
	}

	// Settle again once e2 finishes: leg 1 is still untouched.
	facts["e2"] = match(1, 1, event("e2"))
	out = SettleCombination(bet, facts)
	if out.Status != model.StatusWon {
		t.Fatalf("expected won, got %s: %s", out.Status, out.Reason)
	}
	if !out.Payout.Equal(d(30)) {
		t.Errorf("expected payout 10 × 1.5 × 2 = 30, got %s", out.Payout)
	}
	if !out.Legs[0].Preserved {
		t.Error("expected leg 1 preserved on re-settlement")
	}
}

func TestSettleCombination_PushLegs(t *testing.T) {
	ah := model.Selection{MarketID: "ASIAN_HANDICAP", Label: "Arsenal", Line: line(-1)}

	bet := combo(10, comboLeg("A", "e1", 1.9, ah), comboLeg("B", "e2", 1.5, over15))
	facts := map[string]*matchdata.Facts{
		"e1": match(2, 1, event("e1")),
		"e2": match(2, 0, event("e2")),
	}
	out := SettleCombination(bet, facts)
	if out.Status != model.StatusWon {
		t.Fatalf("expected won, got %s: %s", out.Status, out.Reason)
	}
	if !out.Payout.Equal(d(15)) {
		t.Errorf("expected push leg at odds 1: payout 15, got %s", out.Payout)
	}

	bet = combo(10, comboLeg("A", "e1", 1.9, ah), comboLeg("B", "e2", 1.9, ah))
	facts["e2"] = match(3, 2, event("e2"))
	out = SettleCombination(bet, facts)
	if out.Status != model.StatusPush {
		t.Fatalf("expected push, got %s: %s", out.Status, out.Reason)
	}
	if !out.Payout.Equal(d(10)) {
		t.Errorf("expected refund, got %s", out.Payout)
	}
}

func TestAggregate_Order(t *testing.T) {
	legs := func(statuses ...model.Status) []model.LegOutcome {
		out := make([]model.LegOutcome, len(statuses))
		for i, s := range statuses {
			out[i] = model.LegOutcome{Status: s, Odds: d(2)}
		}
		return out
	}
	tests := []struct {
		name string
		legs []model.LegOutcome
		want model.Status
	}{
		{"void beats lost", legs(model.StatusVoid, model.StatusLost), model.StatusCanceled},
		{"lost beats error", legs(model.StatusLost, model.StatusError), model.StatusLost},
		{"error beats pending", legs(model.StatusError, model.StatusPending), model.StatusError},
		{"pending beats won", legs(model.StatusWon, model.StatusPending), model.StatusPending},
		{"all won", legs(model.StatusWon, model.StatusWon), model.StatusWon},
		{"won and push", legs(model.StatusWon, model.StatusPush), model.StatusWon},
		{"all push", legs(model.StatusPush, model.StatusPush), model.StatusPush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := aggregate(tt.legs)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSettleCombination_InvalidCanceled(t *testing.T) {
	bet := combo(10, comboLeg("A", "e1", 1.4, over15))
	out := SettleCombination(bet, nil)
	if out.Status != model.StatusCanceled || !out.Payout.Equal(d(10)) {
		t.Errorf("expected canceled refund, got %s %s", out.Status, out.Payout)
	}
}

func TestSettle_RejectsCombination(t *testing.T) {
	bet := combo(10, comboLeg("A", "e1", 1.4, over15), comboLeg("B", "e2", 1.6, bttsY))
	out := Settle(bet, match(1, 0))
	if out.Status != model.StatusCanceled {
		t.Errorf("expected canceled, got %s", out.Status)
	}
}
