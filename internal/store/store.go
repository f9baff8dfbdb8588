// Package store defines the persistence interface for settlement records.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"

	"github.com/atmx/settlement-engine/internal/model"
)

// ErrNotFound is returned when no settlement matches the lookup.
var ErrNotFound = errors.New("store: settlement not found")

// DefaultListLimit caps ListSettlements when the filter sets no limit.
const DefaultListLimit = 100

// Filter narrows ListSettlements. A zero Status matches every status.
type Filter struct {
	Status model.Status
	Limit  int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// Store is the persistence interface. Records are append-only: a bet that is
// settled again gets a new record, and GetLatestByBet returns the newest.
type Store interface {
	// SaveSettlement appends a settlement record.
	SaveSettlement(ctx context.Context, rec *model.Settlement) error

	// GetSettlement retrieves a record by its ID.
	GetSettlement(ctx context.Context, id string) (*model.Settlement, error)

	// GetLatestByBet returns the most recent record for a bet.
	GetLatestByBet(ctx context.Context, betID string) (*model.Settlement, error)

	// ListSettlements returns records newest first.
	ListSettlements(ctx context.Context, f Filter) ([]model.Settlement, error)

	// CountByStatus returns the number of records per status.
	CountByStatus(ctx context.Context) (map[model.Status]int, error)
}
