package market

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		id         string
		wantFamily Family
		wantPeriod Period
		wantID     string
	}{
		{"80", FamilyOverUnder, PeriodFullTime, "80"},
		{"OVER_UNDER", FamilyOverUnder, PeriodFullTime, "80"},
		{"over under", FamilyOverUnder, PeriodFullTime, "80"},
		{"BTTS", FamilyBTTS, PeriodFullTime, "14"},
		{"15", FamilyBTTS, PeriodFirstHalf, "15"},
		{"match-result", FamilyMatchResult, PeriodFullTime, "1"},
		{"1X2", FamilyMatchResult, PeriodFullTime, "1"},
		{" 28 ", FamilyAsianHandicap, PeriodFullTime, "28"},
		{"999999", FamilyGeneric, PeriodFullTime, "999999"},
		{"", FamilyGeneric, PeriodFullTime, ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d := Classify(tt.id)
			if d.Family != tt.wantFamily || d.Period != tt.wantPeriod || d.ID != tt.wantID {
				t.Errorf("Classify(%q) = %+v", tt.id, d)
			}
		})
	}
}

func TestUsesWinningFlag(t *testing.T) {
	for _, id := range []string{"1", "MATCH_RESULT", "DOUBLE_CHANCE", "5"} {
		if !UsesWinningFlag(id) {
			t.Errorf("expected %q to use the winning flag", id)
		}
	}
	for _, id := range []string{"80", "BTTS", "unknown"} {
		if UsesWinningFlag(id) {
			t.Errorf("expected %q not to use the winning flag", id)
		}
	}
	if !Classify("1").WinningFlag {
		t.Error("definition should carry the winning flag bit")
	}
}

func TestTeamScopedDefinitions(t *testing.T) {
	if d := Classify("HOME_TEAM_TOTAL"); d.Team != TeamHome || d.Family != FamilyOverUnder {
		t.Errorf("unexpected home team total %+v", d)
	}
	if d := Classify("63"); d.Team != TeamAway || d.Family != FamilyCorners {
		t.Errorf("unexpected away corners %+v", d)
	}
}

func TestAll_OrderedByID(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("expected registered markets")
	}
	if all[0].ID != "1" {
		t.Errorf("expected first id 1, got %s", all[0].ID)
	}
	if all[len(all)-1].ID != "268" {
		t.Errorf("expected last id 268, got %s", all[len(all)-1].ID)
	}
	seen := map[Family]bool{}
	for _, d := range all {
		seen[d.Family] = true
	}
	// Every family except generic has at least one market.
	for _, fam := range []Family{
		FamilyMatchResult, FamilyDoubleChance, FamilyDrawNoBet, FamilyOverUnder,
		FamilyExactGoals, FamilyGoalsRange, FamilyBTTS, FamilyCorrectScore,
		FamilyAsianHandicap, FamilyThreeWayHandicap, FamilyHalfTimeResult,
		FamilySecondHalfResult, FamilyHalfTimeFullTime, FamilyFirstGoalscorer,
		FamilyLastGoalscorer, FamilyAnytimeGoalscorer, FamilyFirstTeamToScore,
		FamilyLastTeamToScore, FamilyPlayerShotsOnTarget, FamilyPlayerShots,
		FamilyCleanSheet, FamilyWinToNil, FamilyOddEven, FamilyHighestScoringHalf,
		FamilyCorners, FamilyResultTotalGoals, FamilyResultBTTS,
		FamilyWinningMargin, FamilyTeamToScore,
	} {
		if !seen[fam] {
			t.Errorf("no market registered for family %s", fam)
		}
	}
}
