package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/atmx/settlement-engine/internal/model"
)

// MemoryStore implements Store with an in-memory slice. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Settlement
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveSettlement(_ context.Context, rec *model.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.ID == rec.ID {
			return fmt.Errorf("settlement %s already exists", rec.ID)
		}
	}
	s.records = append(s.records, clone(*rec))
	return nil
}

func (s *MemoryStore) GetSettlement(_ context.Context, id string) (*model.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			c := clone(r)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("settlement %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) GetLatestByBet(_ context.Context, betID string) (*model.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Records are appended in settlement order.
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].BetID == betID {
			c := clone(s.records[i])
			return &c, nil
		}
	}
	return nil, fmt.Errorf("bet %s: %w", betID, ErrNotFound)
}

func (s *MemoryStore) ListSettlements(_ context.Context, f Filter) ([]model.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := f.limit()
	result := make([]model.Settlement, 0)
	for i := len(s.records) - 1; i >= 0 && len(result) < limit; i-- {
		r := s.records[i]
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		result = append(result, clone(r))
	}
	return result, nil
}

func (s *MemoryStore) CountByStatus(_ context.Context) (map[model.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Status]int)
	for _, r := range s.records {
		counts[r.Status]++
	}
	return counts, nil
}

// clone copies a record so callers cannot mutate stored legs.
func clone(r model.Settlement) model.Settlement {
	if r.Legs != nil {
		r.Legs = append([]model.LegOutcome(nil), r.Legs...)
	}
	return r
}
