package settlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/store"
)

func (h *WSHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func TestWSHub_BroadcastsSettlement(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewWSHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.clientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	svc := NewService(store.NewMemoryStore(), hub, 1)
	line := 0.5
	rec, err := svc.SettleSingle(ctx, model.Bet{
		ID:        "bet-ws",
		Stake:     decimal.NewFromInt(5),
		Odds:      decimal.NewFromInt(2),
		Selection: model.Selection{MarketID: "OVER_UNDER", Label: "Over", Line: &line},
	}, &matchdata.Snapshot{
		ID:      "evt-ws",
		StateID: matchdata.StateFinished,
		Scores: []matchdata.ScoreEntry{
			{Description: matchdata.ScoreCurrent, Score: matchdata.ScoreValue{Goals: 1, Participant: "home"}},
			{Description: matchdata.ScoreCurrent, Score: matchdata.ScoreValue{Goals: 0, Participant: "away"}},
		},
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "bet_settled" || msg.SettlementID != rec.ID || msg.Status != model.StatusWon || msg.Payout != "10" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestWSHub_BroadcastDropsWhenFull(t *testing.T) {
	hub := NewWSHub()
	// No Run loop: the buffer fills and further messages are dropped
	// without blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Broadcast(WSMessage{Type: "bet_settled"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked")
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Errorf("expected full buffer, got %d", len(hub.broadcast))
	}
}
