package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atmx/settlement-engine/internal/model"
)

func record(id, betID string, status model.Status, at time.Time) *model.Settlement {
	return &model.Settlement{
		ID:        id,
		BetID:     betID,
		Kind:      model.KindSingle,
		Status:    status,
		Stake:     decimal.NewFromInt(10),
		Odds:      decimal.NewFromFloat(1.9),
		SettledAt: at,
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	now := time.Now().UTC()

	if err := ms.SaveSettlement(ctx, record("s1", "b1", model.StatusWon, now)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ms.SaveSettlement(ctx, record("s1", "b1", model.StatusWon, now)); err == nil {
		t.Error("expected duplicate id to be rejected")
	}

	got, err := ms.GetSettlement(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BetID != "b1" || got.Status != model.StatusWon {
		t.Errorf("unexpected record %+v", got)
	}

	if _, err := ms.GetSettlement(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_GetLatestByBet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	now := time.Now().UTC()

	ms.SaveSettlement(ctx, record("s1", "b1", model.StatusPending, now))
	ms.SaveSettlement(ctx, record("s2", "b2", model.StatusLost, now.Add(time.Second)))
	ms.SaveSettlement(ctx, record("s3", "b1", model.StatusWon, now.Add(2*time.Second)))

	got, err := ms.GetLatestByBet(ctx, "b1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.ID != "s3" {
		t.Errorf("expected s3, got %s", got.ID)
	}

	if _, err := ms.GetLatestByBet(ctx, "b9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListAndCount(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	now := time.Now().UTC()

	statuses := []model.Status{model.StatusWon, model.StatusLost, model.StatusWon, model.StatusPending}
	for i, s := range statuses {
		id := string(rune('a' + i))
		ms.SaveSettlement(ctx, record(id, "b-"+id, s, now.Add(time.Duration(i)*time.Second)))
	}

	all, _ := ms.ListSettlements(ctx, Filter{})
	if len(all) != 4 || all[0].ID != "d" {
		t.Fatalf("expected 4 records newest first, got %d (first %q)", len(all), all[0].ID)
	}

	won, _ := ms.ListSettlements(ctx, Filter{Status: model.StatusWon})
	if len(won) != 2 {
		t.Errorf("expected 2 won records, got %d", len(won))
	}

	limited, _ := ms.ListSettlements(ctx, Filter{Limit: 1})
	if len(limited) != 1 || limited[0].ID != "d" {
		t.Errorf("expected the newest record only, got %+v", limited)
	}

	counts, _ := ms.CountByStatus(ctx)
	if counts[model.StatusWon] != 2 || counts[model.StatusLost] != 1 || counts[model.StatusPending] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()

	rec := record("s1", "b1", model.StatusPending, time.Now().UTC())
	rec.Kind = model.KindCombination
	rec.Legs = []model.LegOutcome{{LegID: "1", Status: model.StatusWon}}
	ms.SaveSettlement(ctx, rec)

	// Mutating the caller's slice must not reach the store.
	rec.Legs[0].Status = model.StatusLost

	got, _ := ms.GetSettlement(ctx, "s1")
	if got.Legs[0].Status != model.StatusWon {
		t.Errorf("stored leg was mutated: %s", got.Legs[0].Status)
	}
	got.Legs[0].Status = model.StatusVoid

	again, _ := ms.GetSettlement(ctx, "s1")
	if again.Legs[0].Status != model.StatusWon {
		t.Errorf("returned record aliases stored legs: %s", again.Legs[0].Status)
	}
}
