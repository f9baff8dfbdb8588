package engine

import (
	"fmt"

	"github.com/atmx/settlement-engine/internal/identity"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/selection"
)

// scorerGoals drops own goals, which never count for a player.
func scorerGoals(goals []matchdata.Goal) []matchdata.Goal {
	out := goals[:0:0]
	for _, g := range goals {
		if !g.OwnGoal {
			out = append(out, g)
		}
	}
	return out
}

func isNoGoal(text string) bool {
	switch identity.NormalizeName(text) {
	case "no goal", "no goals", "no goalscorer", "none", "no scorer":
		return true
	}
	return false
}

// firstGoalscorer is decided by the first non-own goal.
func firstGoalscorer(in input) verdict {
	return extremeGoalscorer(in, true)
}

// lastGoalscorer is decided by the last non-own goal at full time.
func lastGoalscorer(in input) verdict {
	return extremeGoalscorer(in, false)
}

func extremeGoalscorer(in input, first bool) verdict {
	name := in.player()
	if name == "" {
		return canceled("no player in selection")
	}
	which, goals := "last", scorerGoals(in.facts.GoalsDescending())
	if first {
		which, goals = "first", scorerGoals(in.facts.GoalsAscending())
	}

	if isNoGoal(name) {
		if len(goals) > 0 {
			return lost("%s goal by %s", which, goals[0].Scorer).participant(goals[0].Scorer)
		}
		if !in.finished() {
			return pending("no goal yet")
		}
		return won("no goalscorer")
	}

	if len(goals) == 0 {
		if !in.finished() {
			return pending("no goal yet")
		}
		return lost("no goals scored, %s not a scorer", name)
	}
	g := goals[0]
	if g.Scorer == "" {
		return canceled("%s goal has no scorer", which)
	}
	return decide(identity.NamesMatch(g.Scorer, name), "%s goal by %s at %d', selected %s", which, g.Scorer, g.Time(), name).
		participant(g.Scorer)
}

// anytimeGoalscorer wins once the player has scored. A player who never
// scores is a loss whether or not they appear in the lineup.
func anytimeGoalscorer(in input) verdict {
	name := in.player()
	if name == "" {
		return canceled("no player in selection")
	}
	goals := in.facts.GoalsBy(name)
	if len(goals) > 0 {
		return won("%s scored %d", goals[0].Scorer, len(goals)).participant(goals[0].Scorer)
	}
	if !in.finished() {
		return pending("%s has not scored yet", name)
	}
	v := lost("%s did not score", name)
	if matched := in.facts.PlayerName(name); matched != "" {
		v = v.participant(matched)
	}
	return v
}

// firstTeamToScore counts own goals for the team credited with them.
func firstTeamToScore(in input) verdict {
	return extremeTeam(in, true)
}

func lastTeamToScore(in input) verdict {
	return extremeTeam(in, false)
}

func extremeTeam(in input, first bool) verdict {
	noGoal := false
	for _, t := range in.texts() {
		if isNoGoal(t) {
			noGoal = true
		}
	}

	which, goals := "last", in.facts.GoalsDescending()
	if first {
		which, goals = "first", in.facts.GoalsAscending()
	}

	if noGoal {
		if len(goals) > 0 {
			return lost("%s goal at %d'", which, goals[0].Time())
		}
		if !in.finished() {
			return pending("no goal yet")
		}
		return won("no goals scored")
	}

	pick, ok := in.side()
	if !ok {
		return canceled("unrecognised team %q", in.text())
	}
	if len(goals) == 0 {
		if !in.finished() {
			return pending("no goal yet")
		}
		return lost("no goals scored")
	}
	g := goals[0]
	if g.Side == "" {
		return canceled("%s goal not attributed to a team", which)
	}
	return decide(g.Side == pick, "%s goal by %s at %d'", which, in.facts.TeamName(g.Side), g.Time()).
		participant(in.facts.TeamName(g.Side))
}

// playerShots compares a player's shot statistic against the selection's
// line, Over by default. A player missing from the team sheets loses.
func playerShots(statType int, label string) algorithm {
	return func(in input) verdict {
		name := in.player()
		if name == "" {
			return canceled("no player in selection")
		}
		if len(in.facts.Players) == 0 {
			return canceled("lineup statistics unavailable")
		}
		check, _ := newLineCheck(in.sel, selection.DirectionOver)

		v, found, inLineup := in.facts.PlayerStat(name, statType)
		if !inLineup {
			return lost("%s not in lineup", name).threshold(check.line)
		}
		if !found {
			v = 0
		}
		matched := in.facts.PlayerName(name)
		return decide(check.hit(v), "%s %g %s, selected %s", matched, v, label, check).
			actual(fmt.Sprintf("%g", v)).threshold(check.line).participant(matched)
	}
}
