// Package validate checks the shape invariants of a bet before it is
// settled: positive stake, odds of at least 1.0, a market on every
// selection, and at least two distinct legs for a combination.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atmx/settlement-engine/internal/model"
)

var (
	// ErrInvalidStake is returned when the stake is zero or negative.
	ErrInvalidStake = errors.New("validate: stake must be positive")

	// ErrInvalidOdds is returned when the bet or a leg has odds below 1.0.
	ErrInvalidOdds = errors.New("validate: odds must be at least 1.0")

	// ErrTooFewLegs is returned when a combination has fewer than two legs.
	ErrTooFewLegs = errors.New("validate: combination needs at least two legs")

	// ErrMissingMarket is returned when a selection has no market id.
	ErrMissingMarket = errors.New("validate: selection has no market")

	// ErrDuplicateLeg is returned when two legs share an id.
	ErrDuplicateLeg = errors.New("validate: duplicate leg id")
)

var minOdds = decimal.NewFromInt(1)

// Bet returns the first invariant the bet violates, or nil.
func Bet(b model.Bet) error {
	if !b.Stake.IsPositive() {
		return fmt.Errorf("%w: bet %s stake %s", ErrInvalidStake, b.ID, b.Stake)
	}
	if !b.IsCombination() {
		if b.Odds.LessThan(minOdds) {
			return fmt.Errorf("%w: bet %s odds %s", ErrInvalidOdds, b.ID, b.Odds)
		}
		if strings.TrimSpace(b.Selection.MarketID) == "" {
			return fmt.Errorf("%w: bet %s", ErrMissingMarket, b.ID)
		}
		return nil
	}

	if len(b.Legs) < 2 {
		return fmt.Errorf("%w: bet %s has %d", ErrTooFewLegs, b.ID, len(b.Legs))
	}
	seen := make(map[string]bool, len(b.Legs))
	for i, leg := range b.Legs {
		if err := Leg(leg); err != nil {
			return fmt.Errorf("leg %d: %w", i+1, err)
		}
		if leg.ID == "" {
			continue
		}
		if seen[leg.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateLeg, leg.ID)
		}
		seen[leg.ID] = true
	}
	return nil
}

// Leg checks a single combination leg.
func Leg(l model.Leg) error {
	if l.Odds.LessThan(minOdds) {
		return fmt.Errorf("%w: leg %s odds %s", ErrInvalidOdds, l.ID, l.Odds)
	}
	if strings.TrimSpace(l.Selection.MarketID) == "" {
		return fmt.Errorf("%w: leg %s", ErrMissingMarket, l.ID)
	}
	return nil
}
