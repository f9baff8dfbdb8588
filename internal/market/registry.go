// Package market is the static market registry: it maps a feed market
// identifier (numeric or symbolic) to the market family whose algorithm
// settles it, and names the markets whose result is taken from the upstream
// winning flag.
package market

import (
	"sort"
	"strconv"
	"strings"
)

// Family is a group of markets sharing one settlement algorithm.
type Family string

const (
	FamilyMatchResult         Family = "match_result"
	FamilyDoubleChance        Family = "double_chance"
	FamilyDrawNoBet           Family = "draw_no_bet"
	FamilyOverUnder           Family = "over_under"
	FamilyExactGoals          Family = "exact_goals"
	FamilyGoalsRange          Family = "goals_range"
	FamilyBTTS                Family = "btts"
	FamilyCorrectScore        Family = "correct_score"
	FamilyAsianHandicap       Family = "asian_handicap"
	FamilyThreeWayHandicap    Family = "three_way_handicap"
	FamilyHalfTimeResult      Family = "half_time_result"
	FamilySecondHalfResult    Family = "second_half_result"
	FamilyHalfTimeFullTime    Family = "half_time_full_time"
	FamilyFirstGoalscorer     Family = "first_goalscorer"
	FamilyLastGoalscorer      Family = "last_goalscorer"
	FamilyAnytimeGoalscorer   Family = "anytime_goalscorer"
	FamilyFirstTeamToScore    Family = "first_team_to_score"
	FamilyLastTeamToScore     Family = "last_team_to_score"
	FamilyPlayerShotsOnTarget Family = "player_shots_on_target"
	FamilyPlayerShots         Family = "player_shots"
	FamilyCleanSheet          Family = "clean_sheet"
	FamilyWinToNil            Family = "win_to_nil"
	FamilyOddEven             Family = "odd_even"
	FamilyHighestScoringHalf  Family = "highest_scoring_half"
	FamilyCorners             Family = "corners"
	FamilyResultTotalGoals    Family = "result_total_goals"
	FamilyResultBTTS          Family = "result_btts"
	FamilyWinningMargin       Family = "winning_margin"
	FamilyTeamToScore         Family = "team_to_score"
	FamilyGeneric             Family = "generic"
)

// Period scopes a market to the full match or one half.
type Period string

const (
	PeriodFullTime   Period = "full_time"
	PeriodFirstHalf  Period = "first_half"
	PeriodSecondHalf Period = "second_half"
)

// Team scopes a market to both sides or one of them. TeamSelection means
// the side is named by the selection itself.
type Team string

const (
	TeamBoth      Team = "both"
	TeamHome      Team = "home"
	TeamAway      Team = "away"
	TeamSelection Team = "selection"
)

// Definition describes one market.
type Definition struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Family        Family `json:"family"`
	Period        Period `json:"period"`
	Team          Team   `json:"team"`
	WinningFlag   bool   `json:"winning_flag"`
	EarlySettling bool   `json:"early_settling"`
}

func def(id int, name string, family Family, period Period, team Team) Definition {
	return Definition{
		ID:     strconv.Itoa(id),
		Name:   name,
		Family: family,
		Period: period,
		Team:   team,
	}
}

var definitions = map[string]Definition{}

// aliases map symbolic market names to numeric ids.
var aliases = map[string]string{
	"MATCH_RESULT":           "1",
	"FULLTIME_RESULT":        "1",
	"FULL_TIME_RESULT":       "1",
	"1X2":                    "1",
	"DOUBLE_CHANCE":          "2",
	"DRAW_NO_BET":            "4",
	"HALF_TIME_RESULT":       "5",
	"SECOND_HALF_RESULT":     "6",
	"HALF_TIME_FULL_TIME":    "7",
	"HT_FT":                  "7",
	"BTTS":                   "14",
	"BOTH_TEAMS_TO_SCORE":    "14",
	"BTTS_FIRST_HALF":        "15",
	"BTTS_SECOND_HALF":       "16",
	"CORRECT_SCORE":          "17",
	"HOME_TEAM_TOTAL":        "18",
	"AWAY_TEAM_TOTAL":        "19",
	"CLEAN_SHEET":            "20",
	"WIN_TO_NIL":             "22",
	"ODD_EVEN":               "23",
	"HIGHEST_SCORING_HALF":   "24",
	"FIRST_TEAM_TO_SCORE":    "25",
	"LAST_TEAM_TO_SCORE":     "26",
	"WINNING_MARGIN":         "27",
	"ASIAN_HANDICAP":         "28",
	"HANDICAP":               "29",
	"THREE_WAY_HANDICAP":     "29",
	"FIRST_HALF_GOALS":       "30",
	"SECOND_HALF_GOALS":      "31",
	"EXACT_GOALS":            "32",
	"GOALS_RANGE":            "33",
	"TEAM_TO_SCORE":          "35",
	"RESULT_TOTAL_GOALS":     "37",
	"RESULT_BTTS":            "38",
	"CORNERS":                "60",
	"CORNERS_OVER_UNDER":     "60",
	"TEAM_CORNERS":           "61",
	"OVER_UNDER":             "80",
	"GOALS_OVER_UNDER":       "80",
	"TOTAL_GOALS":            "80",
	"ANYTIME_GOALSCORER":     "90",
	"PLAYER_SHOTS_ON_TARGET": "267",
	"PLAYER_SHOTS":           "268",
	"FIRST_GOALSCORER":       "247",
	"LAST_GOALSCORER":        "248",
}

// winningFlag lists the markets whose result the feed computes upstream.
var winningFlag = map[string]bool{
	"1": true,
	"2": true,
	"5": true,
}

// earlySettling lists the families that may be decided before full time
// once the deciding event has happened.
var earlySettling = map[Family]bool{
	FamilyOverUnder:         true,
	FamilyBTTS:              true,
	FamilyAnytimeGoalscorer: true,
	FamilyFirstGoalscorer:   true,
	FamilyFirstTeamToScore:  true,
	FamilyTeamToScore:       true,
}

func init() {
	for _, d := range []Definition{
		def(1, "Fulltime Result", FamilyMatchResult, PeriodFullTime, TeamBoth),
		def(2, "Double Chance", FamilyDoubleChance, PeriodFullTime, TeamBoth),
		def(4, "Draw No Bet", FamilyDrawNoBet, PeriodFullTime, TeamBoth),
		def(5, "Half Time Result", FamilyHalfTimeResult, PeriodFirstHalf, TeamBoth),
		def(6, "Second Half Result", FamilySecondHalfResult, PeriodSecondHalf, TeamBoth),
		def(7, "Half Time/Full Time", FamilyHalfTimeFullTime, PeriodFullTime, TeamBoth),
		def(14, "Both Teams To Score", FamilyBTTS, PeriodFullTime, TeamBoth),
		def(15, "Both Teams To Score - 1st Half", FamilyBTTS, PeriodFirstHalf, TeamBoth),
		def(16, "Both Teams To Score - 2nd Half", FamilyBTTS, PeriodSecondHalf, TeamBoth),
		def(17, "Correct Score", FamilyCorrectScore, PeriodFullTime, TeamBoth),
		def(18, "Home Team Total Goals", FamilyOverUnder, PeriodFullTime, TeamHome),
		def(19, "Away Team Total Goals", FamilyOverUnder, PeriodFullTime, TeamAway),
		def(20, "Clean Sheet", FamilyCleanSheet, PeriodFullTime, TeamSelection),
		def(21, "Clean Sheet - Home", FamilyCleanSheet, PeriodFullTime, TeamHome),
		def(22, "Win To Nil", FamilyWinToNil, PeriodFullTime, TeamSelection),
		def(23, "Odd/Even Goals", FamilyOddEven, PeriodFullTime, TeamBoth),
		def(24, "Highest Scoring Half", FamilyHighestScoringHalf, PeriodFullTime, TeamBoth),
		def(25, "First Team To Score", FamilyFirstTeamToScore, PeriodFullTime, TeamSelection),
		def(26, "Last Team To Score", FamilyLastTeamToScore, PeriodFullTime, TeamSelection),
		def(27, "Winning Margin", FamilyWinningMargin, PeriodFullTime, TeamSelection),
		def(28, "Asian Handicap", FamilyAsianHandicap, PeriodFullTime, TeamSelection),
		def(29, "Handicap Result", FamilyThreeWayHandicap, PeriodFullTime, TeamSelection),
		def(30, "1st Half Goals Over/Under", FamilyOverUnder, PeriodFirstHalf, TeamBoth),
		def(31, "2nd Half Goals Over/Under", FamilyOverUnder, PeriodSecondHalf, TeamBoth),
		def(32, "Exact Total Goals", FamilyExactGoals, PeriodFullTime, TeamBoth),
		def(33, "Number Of Goals In Match", FamilyGoalsRange, PeriodFullTime, TeamBoth),
		def(34, "Clean Sheet - Away", FamilyCleanSheet, PeriodFullTime, TeamAway),
		def(35, "Team To Score", FamilyTeamToScore, PeriodFullTime, TeamSelection),
		def(36, "1st Half Exact Goals", FamilyExactGoals, PeriodFirstHalf, TeamBoth),
		def(37, "Result/Total Goals", FamilyResultTotalGoals, PeriodFullTime, TeamBoth),
		def(38, "Result/Both Teams To Score", FamilyResultBTTS, PeriodFullTime, TeamBoth),
		def(39, "1st Half Odd/Even", FamilyOddEven, PeriodFirstHalf, TeamBoth),
		def(40, "1st Half Correct Score", FamilyCorrectScore, PeriodFirstHalf, TeamBoth),
		def(41, "1st Half Asian Handicap", FamilyAsianHandicap, PeriodFirstHalf, TeamSelection),
		def(60, "Corners Over/Under", FamilyCorners, PeriodFullTime, TeamBoth),
		def(61, "Team Corners", FamilyCorners, PeriodFullTime, TeamSelection),
		def(62, "Home Team Corners", FamilyCorners, PeriodFullTime, TeamHome),
		def(63, "Away Team Corners", FamilyCorners, PeriodFullTime, TeamAway),
		def(64, "Total Corners Range", FamilyCorners, PeriodFullTime, TeamBoth),
		def(80, "Goals Over/Under", FamilyOverUnder, PeriodFullTime, TeamBoth),
		def(90, "Anytime Goalscorer", FamilyAnytimeGoalscorer, PeriodFullTime, TeamBoth),
		def(247, "First Goalscorer", FamilyFirstGoalscorer, PeriodFullTime, TeamBoth),
		def(248, "Last Goalscorer", FamilyLastGoalscorer, PeriodFullTime, TeamBoth),
		def(267, "Player Shots On Target", FamilyPlayerShotsOnTarget, PeriodFullTime, TeamBoth),
		def(268, "Player Shots", FamilyPlayerShots, PeriodFullTime, TeamBoth),
	} {
		d.WinningFlag = winningFlag[d.ID]
		d.EarlySettling = earlySettling[d.Family]
		definitions[d.ID] = d
	}
}

// canonicalID resolves a raw market identifier to a registry key.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if _, ok := definitions[id]; ok {
		return id
	}
	key := strings.ToUpper(id)
	key = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(key)
	if mapped, ok := aliases[key]; ok {
		return mapped
	}
	return id
}

// Classify returns the definition of a market. Unknown identifiers classify
// to the generic family.
func Classify(id string) Definition {
	if d, ok := definitions[canonicalID(id)]; ok {
		return d
	}
	return Definition{
		ID:     strings.TrimSpace(id),
		Name:   "Unknown market",
		Family: FamilyGeneric,
		Period: PeriodFullTime,
		Team:   TeamBoth,
	}
}

// UsesWinningFlag reports whether the market is settled from the upstream
// winning flag.
func UsesWinningFlag(id string) bool {
	return winningFlag[canonicalID(id)]
}

// All returns every registered definition ordered by numeric id.
func All() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a < b
	})
	return out
}
