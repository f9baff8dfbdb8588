package matchdata

import (
	"strings"
)

// Extract derives Facts from a raw snapshot. Missing sections produce nil
// or empty facts, never errors; a nil snapshot yields nil.
func Extract(s *Snapshot) *Facts {
	if s == nil {
		return nil
	}

	x := newExtractor(s)
	f := &Facts{
		EventID:  s.ID,
		HomeTeam: x.homeName,
		AwayTeam: x.awayName,
		HomeID:   x.homeID,
		AwayID:   x.awayID,
		Finished: isFinished(s),
	}

	x.scores(f)
	f.Goals = x.goals()
	f.Corners = x.corners()
	f.Players = x.players()
	return f
}

type extractor struct {
	snap     *Snapshot
	homeID   int64
	awayID   int64
	homeName string
	awayName string
}

func newExtractor(s *Snapshot) *extractor {
	x := &extractor{snap: s}
	var untagged []Participant
	for _, p := range s.Participants {
		switch strings.ToLower(p.Meta.Location) {
		case "home":
			x.homeID, x.homeName = p.ID, p.Name
		case "away":
			x.awayID, x.awayName = p.ID, p.Name
		default:
			untagged = append(untagged, p)
		}
	}

	// Positional fallback: untagged participants fill the empty sides in
	// order, home first. Upstream feeds occasionally omit meta.location;
	// with neither side tagged both participants must be present.
	if x.homeName == "" && x.awayName == "" && len(untagged) < 2 {
		return x
	}
	for _, p := range untagged {
		switch {
		case x.homeName == "" && x.homeID == 0:
			x.homeID, x.homeName = p.ID, p.Name
		case x.awayName == "" && x.awayID == 0:
			x.awayID, x.awayName = p.ID, p.Name
		}
	}
	return x
}

// sideOf maps a participant id to home/away.
func (x *extractor) sideOf(participantID int64) Side {
	switch {
	case participantID == 0:
		return ""
	case participantID == x.homeID:
		return SideHome
	case participantID == x.awayID:
		return SideAway
	}
	return ""
}

func sideFromLabel(label string) Side {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "home":
		return SideHome
	case "away":
		return SideAway
	}
	return ""
}

type periodTally struct {
	score Score
	seen  bool
}

func (t *periodTally) add(side Side, goals int) {
	t.seen = true
	if side == SideHome {
		t.score.Home += goals
	} else {
		t.score.Away += goals
	}
}

func (x *extractor) scores(f *Facts) {
	var first, second, current, legacy periodTally

	for _, e := range x.snap.Scores {
		side := sideFromLabel(e.Score.Participant)
		if side == "" {
			side = x.sideOf(e.ParticipantID)
		}
		if side == "" {
			continue
		}

		desc := strings.ToUpper(strings.TrimSpace(e.Description))
		switch {
		case desc == ScoreFirstHalf:
			first.add(side, e.Score.Goals)
		case desc == ScoreSecondHalfOnly:
			second.add(side, e.Score.Goals)
		case desc == ScoreCurrent:
			current.add(side, e.Score.Goals)
		case legacyHalfTime[desc]:
			legacy.add(side, e.Score.Goals)
		}
	}

	switch {
	case first.seen || second.seen:
		f.HasScore = true
		f.FullTime = Score{
			Home: first.score.Home + second.score.Home,
			Away: first.score.Away + second.score.Away,
		}
	case current.seen:
		f.HasScore = true
		f.FullTime = current.score
	}

	switch {
	case first.seen:
		ht := first.score
		f.HalfTime = &ht
	case legacy.seen:
		ht := legacy.score
		f.HalfTime = &ht
	}

	if second.seen {
		sh := second.score
		f.SecondHalf = &sh
	}
}

func (x *extractor) goals() []Goal {
	var goals []Goal
	for _, e := range x.snap.Events {
		if e.TypeID != EventGoal && e.TypeID != EventOwnGoal && e.TypeID != EventPenalty {
			continue
		}
		extra := 0
		if e.ExtraMinute != nil {
			extra = *e.ExtraMinute
		}
		goals = append(goals, Goal{
			Minute:        e.Minute,
			ExtraMinute:   extra,
			Side:          x.sideOf(e.ParticipantID),
			ParticipantID: e.ParticipantID,
			Scorer:        e.PlayerName,
			OwnGoal:       e.TypeID == EventOwnGoal,
			Penalty:       e.TypeID == EventPenalty,
		})
	}
	return goals
}

func (x *extractor) corners() *Corners {
	var c Corners
	seen := false
	for _, st := range x.snap.Statistics {
		if st.TypeID != StatCorners {
			continue
		}
		side := sideFromLabel(st.Location)
		if side == "" {
			side = x.sideOf(st.ParticipantID)
		}
		v := int(st.Data.Value)
		switch side {
		case SideHome:
			c.Home += v
		case SideAway:
			c.Away += v
		default:
			continue
		}
		seen = true
	}
	if !seen {
		return nil
	}
	c.Total = c.Home + c.Away
	return &c
}

func (x *extractor) players() []PlayerLine {
	if len(x.snap.Lineups) == 0 {
		return nil
	}
	lines := make([]PlayerLine, 0, len(x.snap.Lineups))
	for _, l := range x.snap.Lineups {
		stats := make(map[int]float64, len(l.Details))
		for _, d := range l.Details {
			stats[d.TypeID] += d.Data.Value
		}
		lines = append(lines, PlayerLine{
			Name:  l.PlayerName,
			Side:  x.sideOf(l.TeamID),
			Stats: stats,
		})
	}
	return lines
}

func isFinished(s *Snapshot) bool {
	if s.StateID == StateFinished {
		return true
	}
	if s.State == nil {
		return false
	}
	for _, name := range []string{s.State.State, s.State.Name, s.State.DeveloperName} {
		if finishedStates[strings.ToLower(strings.TrimSpace(name))] {
			return true
		}
	}
	return false
}
