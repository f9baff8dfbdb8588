package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atmx/settlement-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) SaveSettlement(ctx context.Context, rec *model.Settlement) error {
	if err := s.primary.SaveSettlement(ctx, rec); err != nil {
		return err
	}
	// The bet's latest record changed; next read re-populates.
	s.rdb.Del(ctx, latestKey(rec.BetID))
	s.cache(ctx, settlementKey(rec.ID), rec)
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetSettlement(ctx context.Context, id string) (*model.Settlement, error) {
	if rec, ok := s.cached(ctx, settlementKey(id)); ok {
		return rec, nil
	}

	rec, err := s.primary.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, settlementKey(id), rec)
	return rec, nil
}

func (s *CachedStore) GetLatestByBet(ctx context.Context, betID string) (*model.Settlement, error) {
	if rec, ok := s.cached(ctx, latestKey(betID)); ok {
		return rec, nil
	}

	rec, err := s.primary.GetLatestByBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, latestKey(betID), rec)
	return rec, nil
}

// --- Passthrough (not cached) ---

func (s *CachedStore) ListSettlements(ctx context.Context, f Filter) ([]model.Settlement, error) {
	return s.primary.ListSettlements(ctx, f)
}

func (s *CachedStore) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	return s.primary.CountByStatus(ctx)
}

// --- Cache helpers ---

func (s *CachedStore) cached(ctx context.Context, key string) (*model.Settlement, bool) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var rec model.Settlement
	if json.Unmarshal(data, &rec) != nil {
		return nil, false
	}
	return &rec, true
}

func (s *CachedStore) cache(ctx context.Context, key string, rec *model.Settlement) {
	if data, err := json.Marshal(rec); err == nil {
		s.rdb.Set(ctx, key, data, s.ttl)
	}
}

func settlementKey(id string) string { return fmt.Sprintf("settlement:%s", id) }
func latestKey(betID string) string  { return fmt.Sprintf("bet:%s:latest", betID) }
