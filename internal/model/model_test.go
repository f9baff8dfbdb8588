package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestPayout_Invariant(t *testing.T) {
	stake := d(100)
	odds := d(1.9)

	tests := []struct {
		status Status
		want   decimal.Decimal
	}{
		{StatusWon, d(190)},
		{StatusLost, decimal.Zero},
		{StatusPush, d(100)},
		{StatusCanceled, d(100)},
		{StatusVoid, d(100)},
		{StatusError, decimal.Zero},
		{StatusPending, decimal.Zero},
	}
	for _, tt := range tests {
		got := Payout(tt.status, stake, odds)
		if !got.Equal(tt.want) {
			t.Errorf("Payout(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := []Status{StatusWon, StatusLost, StatusPush, StatusCanceled, StatusVoid}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusError, Status("")} {
		if s.Terminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestSelection_Text(t *testing.T) {
	if got := (Selection{Label: "Over", Name: "Over 2.5"}).Text(); got != "Over | Over 2.5" {
		t.Errorf("unexpected text %q", got)
	}
	if got := (Selection{Name: "Over 2.5"}).Text(); got != "Over 2.5" {
		t.Errorf("unexpected text %q", got)
	}
	if got := (Selection{Label: "Yes", Name: "Yes"}).Text(); got != "Yes" {
		t.Errorf("unexpected text %q", got)
	}
}
