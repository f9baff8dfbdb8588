// Package model defines the core domain types shared across the settlement
// engine. All monetary values use shopspring/decimal, never float64.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the settlement state of a bet or a leg.
type Status string

const (
	StatusPending  Status = "pending"
	StatusWon      Status = "won"
	StatusLost     Status = "lost"
	StatusPush     Status = "push"
	StatusCanceled Status = "canceled"
	StatusVoid     Status = "void"
	StatusError    Status = "error"
)

// Terminal reports whether the status is final. Terminal legs are never
// re-evaluated by a later combination settlement.
func (s Status) Terminal() bool {
	switch s {
	case StatusWon, StatusLost, StatusPush, StatusCanceled, StatusVoid:
		return true
	}
	return false
}

// Refunds reports whether the status returns the stake.
func (s Status) Refunds() bool {
	return s == StatusPush || s == StatusCanceled || s == StatusVoid
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusWon, StatusLost, StatusPush, StatusCanceled, StatusVoid, StatusError:
		return true
	}
	return false
}

// Selection identifies the market a bet is placed on and the outcome chosen
// within it. Line carries the threshold or handicap when the feed supplies it
// as a structured field; otherwise it is parsed from Label/Name.
type Selection struct {
	MarketID    string   `json:"market_id"`
	MarketName  string   `json:"market_name,omitempty"`
	Label       string   `json:"label"`
	Name        string   `json:"name,omitempty"`
	Line        *float64 `json:"line,omitempty"`
	Participant string   `json:"participant,omitempty"`
	Direction   string   `json:"direction,omitempty"` // "over", "under", "exactly"
	Winning     *bool    `json:"winning,omitempty"`   // upstream-computed result flag
}

// Text returns the human-readable selection text used for parsing and audit.
func (s Selection) Text() string {
	switch {
	case s.Label != "" && s.Name != "" && s.Label != s.Name:
		return s.Label + " | " + s.Name
	case s.Label != "":
		return s.Label
	default:
		return s.Name
	}
}

// Leg is one single-event wager embedded inside a combination bet.
type Leg struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	Odds       decimal.Decimal `json:"odds"`
	Selection  Selection       `json:"selection"`
	PlacedLive bool            `json:"placed_live,omitempty"`

	// Settlement state from a prior (partial) settlement.
	Status Status          `json:"status,omitempty"`
	Payout decimal.Decimal `json:"payout"`
	Reason string          `json:"reason,omitempty"`
}

// Bet is a placed wager. A single bet carries EventID and Selection; a
// combination carries two or more Legs and Odds is the product of leg odds.
type Bet struct {
	ID         string          `json:"id"`
	Stake      decimal.Decimal `json:"stake"`
	Odds       decimal.Decimal `json:"odds"`
	EventID    string          `json:"event_id,omitempty"`
	Selection  Selection       `json:"selection"`
	PlacedLive bool            `json:"placed_live,omitempty"`
	Legs       []Leg           `json:"legs,omitempty"`
}

// IsCombination reports whether the bet is a multi-leg wager.
func (b Bet) IsCombination() bool {
	return len(b.Legs) > 0
}

// Details holds structured audit fields attached to an outcome.
type Details struct {
	MarketID     string   `json:"market_id,omitempty"`
	Family       string   `json:"family,omitempty"`
	Actual       string   `json:"actual,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty"`
	Source       string   `json:"source,omitempty"` // where the threshold came from
	Participant  string   `json:"participant,omitempty"`
	RawSelection string   `json:"raw_selection,omitempty"`
}

// LegOutcome is the per-leg result reported for a combination.
type LegOutcome struct {
	LegID     string          `json:"leg_id"`
	EventID   string          `json:"event_id"`
	Odds      decimal.Decimal `json:"odds"`
	Status    Status          `json:"status"`
	Payout    decimal.Decimal `json:"payout"`
	Reason    string          `json:"reason"`
	Details   Details         `json:"details"`
	Preserved bool            `json:"preserved,omitempty"` // terminal from a prior settlement
}

// Outcome is the result of evaluating a bet.
type Outcome struct {
	Status  Status          `json:"status"`
	Payout  decimal.Decimal `json:"payout"`
	Reason  string          `json:"reason"`
	Details Details         `json:"details"`
	Legs    []LegOutcome    `json:"legs,omitempty"`
}

// Payout returns the amount paid for a status:
// won → stake × odds, push/canceled/void → stake, anything else → 0.
func Payout(status Status, stake, odds decimal.Decimal) decimal.Decimal {
	switch {
	case status == StatusWon:
		return stake.Mul(odds)
	case status.Refunds():
		return stake
	default:
		return decimal.Zero
	}
}

// Kind distinguishes single-bet from combination settlements.
type Kind string

const (
	KindSingle      Kind = "single"
	KindCombination Kind = "combination"
)

// Settlement is a persisted outcome. Each evaluation of a bet appends a new
// record; the most recent one per bet is authoritative.
type Settlement struct {
	ID        string          `json:"id"`
	BetID     string          `json:"bet_id"`
	EventID   string          `json:"event_id,omitempty"`
	Kind      Kind            `json:"kind"`
	Status    Status          `json:"status"`
	Stake     decimal.Decimal `json:"stake"`
	Odds      decimal.Decimal `json:"odds"`
	Payout    decimal.Decimal `json:"payout"`
	Reason    string          `json:"reason"`
	Details   Details         `json:"details"`
	Legs      []LegOutcome    `json:"legs,omitempty"`
	SettledAt time.Time       `json:"settled_at"`
}
