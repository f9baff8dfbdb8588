package matchdata

import (
	"fmt"
	"sort"

	"github.com/atmx/settlement-engine/internal/identity"
)

// Side is a home/away designation.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Period scopes a statistic to the full match or one half.
type Period string

const (
	PeriodFullTime   Period = "full_time"
	PeriodFirstHalf  Period = "first_half"
	PeriodSecondHalf Period = "second_half"
)

// Result is a 1X2 match result.
type Result string

const (
	ResultHome Result = "1"
	ResultDraw Result = "X"
	ResultAway Result = "2"
)

// Score is a home/away goal pair.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns the number of goals scored by both sides.
func (s Score) Total() int { return s.Home + s.Away }

// For returns the goals of one side.
func (s Score) For(side Side) int {
	if side == SideAway {
		return s.Away
	}
	return s.Home
}

// Against returns the goals conceded by one side.
func (s Score) Against(side Side) int {
	if side == SideAway {
		return s.Home
	}
	return s.Away
}

// Result returns the 1X2 result of the score.
func (s Score) Result() Result {
	switch {
	case s.Home > s.Away:
		return ResultHome
	case s.Away > s.Home:
		return ResultAway
	default:
		return ResultDraw
	}
}

// String formats the score as "H-A".
func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// Goal is a goal event in match time.
type Goal struct {
	Minute        int    `json:"minute"`
	ExtraMinute   int    `json:"extra_minute,omitempty"`
	Side          Side   `json:"side,omitempty"`
	ParticipantID int64  `json:"participant_id,omitempty"`
	Scorer        string `json:"scorer,omitempty"`
	OwnGoal       bool   `json:"own_goal,omitempty"`
	Penalty       bool   `json:"penalty,omitempty"`
}

// Time returns minute + extra minute, the ordering key of goal events.
func (g Goal) Time() int { return g.Minute + g.ExtraMinute }

// Corners holds corner counts per side.
type Corners struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

// PlayerLine is a player's statistic line from the team sheet.
type PlayerLine struct {
	Name  string          `json:"name"`
	Side  Side            `json:"side,omitempty"`
	Stats map[int]float64 `json:"stats,omitempty"`
}

// Facts is the structured view of a match snapshot. It is derived, never
// stored; nil fields mean the snapshot did not carry that section.
type Facts struct {
	EventID    string       `json:"event_id"`
	HomeTeam   string       `json:"home_team,omitempty"`
	AwayTeam   string       `json:"away_team,omitempty"`
	HomeID     int64        `json:"home_id,omitempty"`
	AwayID     int64        `json:"away_id,omitempty"`
	Finished   bool         `json:"finished"`
	HasScore   bool         `json:"has_score"`
	FullTime   Score        `json:"full_time"`
	HalfTime   *Score       `json:"half_time,omitempty"`
	SecondHalf *Score       `json:"second_half,omitempty"`
	Goals      []Goal       `json:"goals,omitempty"`
	Corners    *Corners     `json:"corners,omitempty"`
	Players    []PlayerLine `json:"players,omitempty"`
}

// ScoreFor returns the score of a period, or nil when unavailable.
func (f *Facts) ScoreFor(p Period) *Score {
	switch p {
	case PeriodFirstHalf:
		return f.HalfTime
	case PeriodSecondHalf:
		return f.SecondHalf
	default:
		if !f.HasScore {
			return nil
		}
		s := f.FullTime
		return &s
	}
}

// GoalsAscending returns goal events sorted by match time, earliest first.
func (f *Facts) GoalsAscending() []Goal {
	goals := append([]Goal(nil), f.Goals...)
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Time() < goals[j].Time() })
	return goals
}

// GoalsDescending returns goal events sorted by match time, latest first.
func (f *Facts) GoalsDescending() []Goal {
	goals := append([]Goal(nil), f.Goals...)
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Time() > goals[j].Time() })
	return goals
}

// FirstGoal returns the earliest goal event.
func (f *Facts) FirstGoal() (Goal, bool) {
	goals := f.GoalsAscending()
	if len(goals) == 0 {
		return Goal{}, false
	}
	return goals[0], true
}

// LastGoal returns the latest goal event.
func (f *Facts) LastGoal() (Goal, bool) {
	goals := f.GoalsDescending()
	if len(goals) == 0 {
		return Goal{}, false
	}
	return goals[0], true
}

// GoalsBy returns the non-own-goal events credited to the named player.
func (f *Facts) GoalsBy(player string) []Goal {
	var out []Goal
	for _, g := range f.Goals {
		if g.OwnGoal || g.Scorer == "" {
			continue
		}
		if identity.NamesMatch(g.Scorer, player) {
			out = append(out, g)
		}
	}
	return out
}

// TeamName returns the team name of a side.
func (f *Facts) TeamName(side Side) string {
	if side == SideAway {
		return f.AwayTeam
	}
	return f.HomeTeam
}

// PlayerStat looks a player up in the team sheets through the identity
// normalizer and returns the requested statistic. inLineup reports whether
// the player was found at all; found whether the statistic was present.
func (f *Facts) PlayerStat(name string, statType int) (value float64, found, inLineup bool) {
	names := make([]string, len(f.Players))
	for i, p := range f.Players {
		names[i] = p.Name
	}
	idx := identity.FindPlayer(name, names)
	if idx < 0 {
		return 0, false, false
	}
	v, ok := f.Players[idx].Stats[statType]
	return v, ok, true
}

// PlayerName returns the lineup spelling of a player, or "" when absent.
func (f *Facts) PlayerName(name string) string {
	names := make([]string, len(f.Players))
	for i, p := range f.Players {
		names[i] = p.Name
	}
	if idx := identity.FindPlayer(name, names); idx >= 0 {
		return names[idx]
	}
	return ""
}
