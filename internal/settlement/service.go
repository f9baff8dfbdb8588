// Package settlement provides the HTTP handlers that run bets through the
// settlement engine, persist the outcomes and broadcast them to listeners.
//
// All monetary values use shopspring/decimal, never float64.
package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/atmx/settlement-engine/internal/engine"
	"github.com/atmx/settlement-engine/internal/market"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/metrics"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/store"
	"github.com/atmx/settlement-engine/internal/validate"
)

var (
	// ErrEventMismatch is returned when a single bet's snapshot belongs to a
	// different event.
	ErrEventMismatch = errors.New("settlement: snapshot does not match bet event")

	// ErrWrongKind is returned when a bet reaches the endpoint for the other
	// bet kind.
	ErrWrongKind = errors.New("settlement: wrong bet kind")
)

// Service settles bets and records the outcomes. The engine is pure, so
// requests run concurrently without locking.
type Service struct {
	store   store.Store
	wsHub   *WSHub // optional WebSocket hub for real-time broadcasts
	workers int
	now     func() time.Time
}

// NewService creates a new settlement service. workers bounds the
// concurrency of batch settlement.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(st store.Store, hub *WSHub, workers int) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		store:   st,
		wsHub:   hub,
		workers: workers,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// --- Request/Response types ---

// SettleRequest is the JSON body for POST /settle.
type SettleRequest struct {
	Bet      model.Bet           `json:"bet"`
	Snapshot *matchdata.Snapshot `json:"snapshot"`
}

// CombinationRequest is the JSON body for POST /settle/combination.
// Snapshots are keyed by event ID; a leg without one stays pending.
type CombinationRequest struct {
	Bet       model.Bet                      `json:"bet"`
	Snapshots map[string]*matchdata.Snapshot `json:"snapshots"`
}

// BatchItem is one bet in a batch. Single bets use Snapshot, combinations
// use Snapshots.
type BatchItem struct {
	Bet       model.Bet                      `json:"bet"`
	Snapshot  *matchdata.Snapshot            `json:"snapshot,omitempty"`
	Snapshots map[string]*matchdata.Snapshot `json:"snapshots,omitempty"`
}

// BatchRequest is the JSON body for POST /settle/batch.
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

// BatchResult reports one item of a batch; exactly one of Settlement and
// Error is set.
type BatchResult struct {
	BetID      string            `json:"bet_id"`
	Settlement *model.Settlement `json:"settlement,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// BatchResponse is the JSON body returned from POST /settle/batch.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
	Settled int           `json:"settled"`
	Failed  int           `json:"failed"`
}

// FactsRequest is the JSON body for POST /facts.
type FactsRequest struct {
	Snapshot *matchdata.Snapshot `json:"snapshot"`
}

// --- Settlement ---

// SettleSingle evaluates a single bet against its match snapshot and stores
// the result. A nil snapshot leaves the bet pending.
func (s *Service) SettleSingle(ctx context.Context, bet model.Bet, snap *matchdata.Snapshot) (*model.Settlement, error) {
	if bet.IsCombination() {
		return nil, fmt.Errorf("%w: bet %s has legs", ErrWrongKind, bet.ID)
	}
	if err := validate.Bet(bet); err != nil {
		return nil, err
	}
	if snap != nil && bet.EventID != "" && snap.ID != "" && snap.ID != bet.EventID {
		return nil, fmt.Errorf("%w: bet %s is on %s, snapshot is %s", ErrEventMismatch, bet.ID, bet.EventID, snap.ID)
	}

	start := time.Now()
	out := engine.Settle(bet, matchdata.Extract(snap))
	metrics.SettlementLatency.WithLabelValues(string(model.KindSingle)).Observe(time.Since(start).Seconds())

	rec := s.record(bet, model.KindSingle, out)
	rec.EventID = bet.EventID
	if err := s.persist(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SettleCombination evaluates a combination bet. Terminal legs from the
// bet's latest stored settlement are carried over so re-settling never
// changes a leg that already resolved.
func (s *Service) SettleCombination(ctx context.Context, bet model.Bet, snaps map[string]*matchdata.Snapshot) (*model.Settlement, error) {
	if !bet.IsCombination() {
		return nil, fmt.Errorf("%w: bet %s has no legs", ErrWrongKind, bet.ID)
	}
	if err := validate.Bet(bet); err != nil {
		return nil, err
	}

	bet, err := s.mergePriorLegs(ctx, bet)
	if err != nil {
		return nil, err
	}

	facts := make(map[string]*matchdata.Facts, len(snaps))
	for eventID, snap := range snaps {
		if snap != nil {
			facts[eventID] = matchdata.Extract(snap)
		}
	}

	start := time.Now()
	out := engine.SettleCombination(bet, facts)
	metrics.SettlementLatency.WithLabelValues(string(model.KindCombination)).Observe(time.Since(start).Seconds())

	for _, leg := range out.Legs {
		metrics.CombinationLegs.WithLabelValues(string(leg.Status)).Inc()
		if leg.Preserved {
			metrics.PreservedLegs.Inc()
		}
	}

	rec := s.record(bet, model.KindCombination, out)
	if err := s.persist(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// mergePriorLegs copies terminal leg state from the latest stored settlement
// onto legs the caller sent without one. Legs are matched by ID; a leg
// without an ID matches the prior leg at the same position.
func (s *Service) mergePriorLegs(ctx context.Context, bet model.Bet) (model.Bet, error) {
	prior, err := s.store.GetLatestByBet(ctx, bet.ID)
	if errors.Is(err, store.ErrNotFound) {
		return bet, nil
	}
	if err != nil {
		return bet, fmt.Errorf("load prior settlement: %w", err)
	}

	byID := make(map[string]model.LegOutcome, len(prior.Legs))
	for _, l := range prior.Legs {
		if l.LegID != "" {
			byID[l.LegID] = l
		}
	}

	legs := make([]model.Leg, len(bet.Legs))
	copy(legs, bet.Legs)
	for i, leg := range legs {
		if leg.Status.Terminal() {
			continue
		}
		p, ok := priorLeg(prior.Legs, byID, legs, i)
		if !ok || !p.Status.Terminal() {
			continue
		}
		legs[i].Status = p.Status
		legs[i].Payout = p.Payout
		legs[i].Reason = p.Reason
	}
	bet.Legs = legs
	return bet, nil
}

// priorLeg finds the stored outcome for leg i. Positional matching needs
// the same leg count and event so a reshaped bet never inherits results.
func priorLeg(prior []model.LegOutcome, byID map[string]model.LegOutcome, legs []model.Leg, i int) (model.LegOutcome, bool) {
	leg := legs[i]
	if leg.ID != "" {
		p, ok := byID[leg.ID]
		return p, ok
	}
	if len(prior) == len(legs) && prior[i].LegID == "" && prior[i].EventID == leg.EventID {
		return prior[i], true
	}
	return model.LegOutcome{}, false
}

func (s *Service) record(bet model.Bet, kind model.Kind, out model.Outcome) *model.Settlement {
	return &model.Settlement{
		ID:        uuid.New().String(),
		BetID:     bet.ID,
		Kind:      kind,
		Status:    out.Status,
		Stake:     bet.Stake,
		Odds:      bet.Odds,
		Payout:    out.Payout,
		Reason:    out.Reason,
		Details:   out.Details,
		Legs:      out.Legs,
		SettledAt: s.now(),
	}
}

// persist stores, counts, logs and broadcasts a settlement.
func (s *Service) persist(ctx context.Context, rec *model.Settlement) error {
	if err := s.store.SaveSettlement(ctx, rec); err != nil {
		return fmt.Errorf("save settlement: %w", err)
	}
	metrics.SettlementsTotal.WithLabelValues(string(rec.Kind), string(rec.Status)).Inc()

	attrs := []any{
		"settlement_id", rec.ID,
		"bet_id", rec.BetID,
		"kind", rec.Kind,
		"status", rec.Status,
		"payout", rec.Payout.String(),
		"market", rec.Details.MarketID,
	}
	if rec.Status == model.StatusError {
		slog.Error("settlement failed", append(attrs, "reason", rec.Reason)...)
	} else {
		slog.Info("bet settled", attrs...)
	}

	if s.wsHub != nil {
		s.wsHub.Broadcast(settledMessage(rec))
	}
	return nil
}

func (s *Service) settleItem(ctx context.Context, item BatchItem) (*model.Settlement, error) {
	if item.Bet.IsCombination() {
		return s.SettleCombination(ctx, item.Bet, item.Snapshots)
	}
	return s.SettleSingle(ctx, item.Bet, item.Snapshot)
}

// --- HTTP Handlers ---

// Settle handles POST /api/v1/settle
func (s *Service) Settle(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.SettleSingle(r.Context(), req.Bet, req.Snapshot)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SettleCombo handles POST /api/v1/settle/combination
func (s *Service) SettleCombo(w http.ResponseWriter, r *http.Request) {
	var req CombinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := s.SettleCombination(r.Context(), req.Bet, req.Snapshots)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SettleBatch handles POST /api/v1/settle/batch
// Items are settled concurrently; a failing item does not fail the batch.
func (s *Service) SettleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		writeError(w, "items must not be empty", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	results := make([]BatchResult, len(req.Items))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			res := BatchResult{BetID: item.Bet.ID}
			rec, err := s.settleItem(ctx, item)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Settlement = rec
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()

	resp := BatchResponse{Results: results}
	for _, res := range results {
		if res.Error != "" {
			resp.Failed++
		} else {
			resp.Settled++
		}
	}

	slog.Info("batch settled", "items", len(results), "settled", resp.Settled, "failed", resp.Failed)
	writeJSON(w, http.StatusOK, resp)
}

// ExtractFacts handles POST /api/v1/facts
// Returns the match facts the engine would see for a snapshot.
func (s *Service) ExtractFacts(w http.ResponseWriter, r *http.Request) {
	var req FactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Snapshot == nil {
		writeError(w, "snapshot is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, matchdata.Extract(req.Snapshot))
}

// ListMarkets handles GET /api/v1/markets
func (s *Service) ListMarkets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, market.All())
}

// ListSettlements handles GET /api/v1/settlements
// Optional filters: ?status=<status>&limit=<n>.
func (s *Service) ListSettlements(w http.ResponseWriter, r *http.Request) {
	var f store.Filter
	if v := r.URL.Query().Get("status"); v != "" {
		f.Status = model.Status(v)
		if !f.Status.Valid() {
			writeError(w, "unknown status: "+v, http.StatusBadRequest)
			return
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		f.Limit = n
	}

	records, err := s.store.ListSettlements(r.Context(), f)
	if err != nil {
		writeError(w, "failed to list settlements", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.Settlement{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetSettlement handles GET /api/v1/settlements/{settlementID}
func (s *Service) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "settlementID")

	rec, err := s.store.GetSettlement(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "settlement not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetBetSettlement handles GET /api/v1/bets/{betID}/settlement
// Returns the bet's latest settlement.
func (s *Service) GetBetSettlement(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "betID")

	rec, err := s.store.GetLatestByBet(r.Context(), betID)
	if err != nil {
		writeStoreError(w, err, "no settlement for bet "+betID)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetStats handles GET /api/v1/settlements/stats
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByStatus(r.Context())
	if err != nil {
		writeError(w, "failed to count settlements", http.StatusInternalServerError)
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     total,
		"by_status": counts,
	})
}

// statusFor maps a settlement error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validate.ErrInvalidStake),
		errors.Is(err, validate.ErrInvalidOdds),
		errors.Is(err, validate.ErrTooFewLegs),
		errors.Is(err, validate.ErrMissingMarket),
		errors.Is(err, validate.ErrDuplicateLeg),
		errors.Is(err, ErrEventMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrWrongKind):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeStoreError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, notFound, http.StatusNotFound)
		return
	}
	writeError(w, "failed to load settlement", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
