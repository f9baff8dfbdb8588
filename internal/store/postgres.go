package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/atmx/settlement-engine/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS settlements (
	id          UUID PRIMARY KEY,
	bet_id      TEXT NOT NULL,
	event_id    TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL,
	stake       NUMERIC NOT NULL,
	odds        NUMERIC NOT NULL,
	payout      NUMERIC NOT NULL,
	reason      TEXT NOT NULL DEFAULT '',
	details     JSONB NOT NULL DEFAULT '{}',
	legs        JSONB NOT NULL DEFAULT '[]',
	settled_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_settlements_bet_id ON settlements(bet_id, settled_at DESC);
CREATE INDEX IF NOT EXISTS idx_settlements_status ON settlements(status);
`

const selectColumns = `SELECT id::TEXT, bet_id, event_id, kind, status,
        stake::TEXT, odds::TEXT, payout::TEXT,
        reason, details, legs, settled_at
 FROM settlements`

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Money is stored as NUMERIC; details and legs as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// InitSchema creates the settlements table and its indexes if missing.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveSettlement(ctx context.Context, r *model.Settlement) error {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	legs := r.Legs
	if legs == nil {
		legs = []model.LegOutcome{}
	}
	legsJSON, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("encode legs: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO settlements (id, bet_id, event_id, kind, status, stake, odds, payout, reason, details, legs, settled_at)
		 VALUES ($1::UUID, $2, $3, $4, $5, $6::NUMERIC, $7::NUMERIC, $8::NUMERIC, $9, $10, $11, $12)`,
		r.ID, r.BetID, r.EventID, string(r.Kind), string(r.Status),
		r.Stake.String(), r.Odds.String(), r.Payout.String(),
		r.Reason, details, legsJSON, r.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("save settlement %s: %w", r.ID, err)
	}
	return nil
}

func (s *PostgresStore) GetSettlement(ctx context.Context, id string) (*model.Settlement, error) {
	rec, err := scanSettlement(s.pool.QueryRow(ctx, selectColumns+` WHERE id::TEXT = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get settlement %s: %w", id, err)
	}
	return rec, nil
}

func (s *PostgresStore) GetLatestByBet(ctx context.Context, betID string) (*model.Settlement, error) {
	rec, err := scanSettlement(s.pool.QueryRow(ctx,
		selectColumns+` WHERE bet_id = $1 ORDER BY settled_at DESC LIMIT 1`, betID))
	if err != nil {
		return nil, fmt.Errorf("get latest settlement for bet %s: %w", betID, err)
	}
	return rec, nil
}

func (s *PostgresStore) ListSettlements(ctx context.Context, f Filter) ([]model.Settlement, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if f.Status != "" {
		rows, err = s.pool.Query(ctx,
			selectColumns+` WHERE status = $1 ORDER BY settled_at DESC LIMIT $2`,
			string(f.Status), f.limit())
	} else {
		rows, err = s.pool.Query(ctx,
			selectColumns+` ORDER BY settled_at DESC LIMIT $1`, f.limit())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.Settlement, 0)
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM settlements GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[model.Status(status)] = n
	}
	return counts, rows.Err()
}

func scanSettlement(row pgx.Row) (*model.Settlement, error) {
	var r model.Settlement
	var kind, status, stake, odds, payout string
	var details, legs []byte

	err := row.Scan(&r.ID, &r.BetID, &r.EventID, &kind, &status,
		&stake, &odds, &payout,
		&r.Reason, &details, &legs, &r.SettledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Kind = model.Kind(kind)
	r.Status = model.Status(status)
	r.Stake, _ = decimal.NewFromString(stake)
	r.Odds, _ = decimal.NewFromString(odds)
	r.Payout, _ = decimal.NewFromString(payout)

	if err := json.Unmarshal(details, &r.Details); err != nil {
		return nil, fmt.Errorf("decode details: %w", err)
	}
	if err := json.Unmarshal(legs, &r.Legs); err != nil {
		return nil, fmt.Errorf("decode legs: %w", err)
	}
	if len(r.Legs) == 0 {
		r.Legs = nil
	}
	return &r, nil
}
