package selection

import (
	"testing"

	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
)

func f(v float64) *float64 { return &v }

func TestThreshold(t *testing.T) {
	tests := []struct {
		name       string
		sel        model.Selection
		wantValue  float64
		wantSource Source
	}{
		{"explicit field", model.Selection{Label: "Over 3.5", Line: f(1.5)}, 1.5, SourceField},
		{"plus form", model.Selection{Label: "3+ goals"}, 3, SourceText},
		{"over under form", model.Selection{Name: "Over/Under 1.5", Label: "Over"}, 1.5, SourceText},
		{"direction form", model.Selection{Label: "Under 4.5"}, 4.5, SourceText},
		{"bare number", model.Selection{Label: "Total 7.5"}, 7.5, SourceText},
		{"market name", model.Selection{Label: "Over", MarketName: "Goals Over/Under 0.5"}, 0.5, SourceText},
		{"default", model.Selection{Label: "Over"}, DefaultThreshold, SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Threshold(tt.sel)
			if got.Value != tt.wantValue || got.Source != tt.wantSource {
				t.Errorf("Threshold = %+v, want {%v %s}", got, tt.wantValue, tt.wantSource)
			}
		})
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		sel  model.Selection
		want Direction
	}{
		{model.Selection{Direction: "Under", Label: "Over 2.5"}, DirectionUnder},
		{model.Selection{Label: "Over 2.5"}, DirectionOver},
		{model.Selection{Label: "under"}, DirectionUnder},
		{model.Selection{Label: "Exactly 2"}, DirectionExactly},
		{model.Selection{Label: "3+"}, DirectionOver},
		{model.Selection{Label: "Total", Name: "Corners Over 9.5"}, DirectionOver},
		{model.Selection{Label: "Yes"}, DirectionNone},
	}
	for _, tt := range tests {
		if got := DirectionOf(tt.sel); got != tt.want {
			t.Errorf("DirectionOf(%+v) = %q, want %q", tt.sel, got, tt.want)
		}
	}
}

func TestHandicap(t *testing.T) {
	tests := []struct {
		sel    model.Selection
		want   float64
		wantOK bool
	}{
		{model.Selection{Label: "Home", Line: f(-1)}, -1, true},
		{model.Selection{Label: "Arsenal (-1.5)"}, -1.5, true},
		{model.Selection{Label: "Chelsea (+2)"}, 2, true},
		{model.Selection{Label: "Home −1"}, -1, true},
		{model.Selection{Label: "Away (0)"}, 0, true},
		{model.Selection{Label: "Arsenal 0"}, 0, true},
		{model.Selection{Label: "Arsenal 0.0"}, 0, true},
		{model.Selection{Label: "Home"}, 0, false},
		{model.Selection{Label: "Team 10"}, 0, false},
	}
	for _, tt := range tests {
		got, ok := Handicap(tt.sel)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Handicap(%q) = %v, %v; want %v, %v", tt.sel.Label, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestScore(t *testing.T) {
	for _, in := range []string{"2-1", "2:1", "2 - 1", "Arsenal 2-1"} {
		h, a, ok := Score(in)
		if !ok || h != 2 || a != 1 {
			t.Errorf("Score(%q) = %d, %d, %v", in, h, a, ok)
		}
	}
	if _, _, ok := Score("Any other"); ok {
		t.Error("expected no score in free text")
	}
}

func TestRangeAndExactly(t *testing.T) {
	for _, in := range []string{"6-8", "6–8", "6 to 8", "8-6"} {
		lo, hi, ok := Range(in)
		if !ok || lo != 6 || hi != 8 {
			t.Errorf("Range(%q) = %d, %d, %v", in, lo, hi, ok)
		}
	}
	for _, in := range []string{"Exactly 12", "12 exactly", " 12 "} {
		n, ok := Exactly(in)
		if !ok || n != 12 {
			t.Errorf("Exactly(%q) = %d, %v", in, n, ok)
		}
	}
	if _, ok := Exactly("Over 9.5"); ok {
		t.Error("Over 9.5 is not an exact selection")
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in, a, b string
	}{
		{"Home/Draw", "Home", "Draw"},
		{"1 & Over 2.5", "1", "Over 2.5"},
		{"Away and No", "Away", "No"},
		{"Draw + Yes", "Draw", "Yes"},
	}
	for _, tt := range tests {
		a, b, ok := Split(tt.in)
		if !ok || a != tt.a || b != tt.b {
			t.Errorf("Split(%q) = %q, %q, %v", tt.in, a, b, ok)
		}
	}
	if _, _, ok := Split("Draw"); ok {
		t.Error("single part should not split")
	}
}

func TestYesNoParityHalf(t *testing.T) {
	if yes, ok := YesNo("Yes"); !ok || !yes {
		t.Error("expected yes")
	}
	if yes, ok := YesNo("BTTS - No"); !ok || yes {
		t.Error("expected no")
	}
	if _, ok := YesNo("Maybe"); ok {
		t.Error("expected unparsed")
	}
	if odd, ok := Parity("Odd"); !ok || !odd {
		t.Error("expected odd")
	}
	if odd, ok := Parity("even goals"); !ok || odd {
		t.Error("expected even")
	}
	if h, ok := Half("2nd Half"); !ok || h != HalfSecond {
		t.Errorf("expected second half, got %q", h)
	}
	if h, ok := Half("Equal"); !ok || h != HalfEqual {
		t.Errorf("expected equal, got %q", h)
	}
}

func TestResolveSide(t *testing.T) {
	home, away := "Manchester United", "Manchester City"
	tests := []struct {
		in     string
		want   matchdata.Result
		wantOK bool
	}{
		{"1", matchdata.ResultHome, true},
		{"X", matchdata.ResultDraw, true},
		{"2", matchdata.ResultAway, true},
		{"Draw", matchdata.ResultDraw, true},
		{"Man Utd", matchdata.ResultHome, true},
		{"Manchester City (-1)", matchdata.ResultAway, true},
		{"Liverpool", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveSide(tt.in, home, away)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ResolveSide(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDoubleChance(t *testing.T) {
	tests := []struct {
		in   string
		want []matchdata.Result
	}{
		{"1X", []matchdata.Result{matchdata.ResultHome, matchdata.ResultDraw}},
		{"x2", []matchdata.Result{matchdata.ResultDraw, matchdata.ResultAway}},
		{"12", []matchdata.Result{matchdata.ResultHome, matchdata.ResultAway}},
		{"Arsenal/Draw", []matchdata.Result{matchdata.ResultHome, matchdata.ResultDraw}},
		{"Arsenal or Chelsea", []matchdata.Result{matchdata.ResultHome, matchdata.ResultAway}},
	}
	for _, tt := range tests {
		got, ok := DoubleChance(tt.in, "Arsenal", "Chelsea")
		if !ok || len(got) != 2 || got[0] != tt.want[0] || got[1] != tt.want[1] {
			t.Errorf("DoubleChance(%q) = %v, %v", tt.in, got, ok)
		}
	}
	if _, ok := DoubleChance("Draw/Draw", "Arsenal", "Chelsea"); ok {
		t.Error("duplicate outcomes are not a double chance")
	}
}

func TestAtLeastAndMargin(t *testing.T) {
	if n, ok := AtLeast("3+ goals"); !ok || n != 3 {
		t.Errorf("AtLeast = %v, %v", n, ok)
	}
	if _, ok := AtLeast("Over 2.5"); ok {
		t.Error("Over 2.5 is not an N+ selection")
	}

	tests := []struct {
		in     string
		n      int
		orMore bool
	}{
		{"Home by 2", 2, false},
		{"Arsenal by 3+", 3, true},
		{"1 goal", 1, false},
	}
	for _, tt := range tests {
		n, orMore, ok := Margin(tt.in)
		if !ok || n != tt.n || orMore != tt.orMore {
			t.Errorf("Margin(%q) = %d, %v, %v", tt.in, n, orMore, ok)
		}
	}
	if _, _, ok := Margin("Draw"); ok {
		t.Error("expected no margin in Draw")
	}
}
