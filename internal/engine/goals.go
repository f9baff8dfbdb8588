package engine

import (
	"fmt"

	"github.com/atmx/settlement-engine/internal/market"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/selection"
)

var yesNoWords = []string{"yes", "no", "-", "|"}

// lineCheck compares a count against a parsed threshold selection.
type lineCheck struct {
	dir     selection.Direction
	line    selection.Line
	atLeast bool // "N+" form: N or more
}

// newLineCheck reads direction and threshold from the selection. When the
// selection carries no direction, fallback is used; DirectionNone as
// fallback makes the selection unparseable.
func newLineCheck(sel model.Selection, fallback selection.Direction) (lineCheck, bool) {
	c := lineCheck{dir: selection.DirectionOf(sel), line: selection.Threshold(sel)}
	if sel.Line == nil {
		for _, t := range []string{sel.Label, sel.Name} {
			if n, ok := selection.AtLeast(t); ok {
				c.dir, c.atLeast = selection.DirectionOver, true
				c.line = selection.Line{Value: n, Source: selection.SourceText}
				break
			}
		}
	}
	if c.dir == selection.DirectionNone {
		c.dir = fallback
	}
	return c, c.dir != selection.DirectionNone
}

func (c lineCheck) hit(v float64) bool {
	switch {
	case c.atLeast:
		return v >= c.line.Value
	case c.dir == selection.DirectionOver:
		return v > c.line.Value
	case c.dir == selection.DirectionUnder:
		return v < c.line.Value
	default:
		return v == c.line.Value
	}
}

// passed reports whether a running count has already gone past the line,
// which decides every direction before the match ends.
func (c lineCheck) passed(v float64) bool {
	if c.atLeast {
		return v >= c.line.Value
	}
	return v > c.line.Value
}

func (c lineCheck) String() string {
	if c.atLeast {
		return fmt.Sprintf("%g+", c.line.Value)
	}
	return fmt.Sprintf("%s %g", c.dir, c.line.Value)
}

// goalScope returns the team whose goals a goal-line market counts, or
// false for both teams combined.
func (in input) goalScope() (matchdata.Side, bool) {
	if in.def.Team == market.TeamBoth {
		if in.sel.Participant == "" {
			return "", false
		}
		return selection.ResolveTeam(in.sel.Participant, in.facts.HomeTeam, in.facts.AwayTeam)
	}
	return in.side()
}

// overUnder compares total, team or half goals against the selection's
// line with strict inequality. A running score past the line settles early.
func overUnder(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	check, ok := newLineCheck(in.sel, selection.DirectionNone)
	if !ok {
		return canceled("unrecognised over/under selection %q", in.text())
	}

	count, scope := score.Total(), "total"
	if side, ok := in.goalScope(); ok {
		count, scope = score.For(side), in.facts.TeamName(side)
	}
	v := float64(count)

	if !in.finished() && !check.passed(v) {
		return pending("%d %s goals so far, %s", count, scope, check).threshold(check.line)
	}
	return decide(check.hit(v), "%d %s goals, selected %s", count, scope, check).
		actual(fmt.Sprint(count)).threshold(check.line)
}

// exactGoals settles "Exactly 2", "2" and "3+" goal-count selections.
func exactGoals(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	total := score.Total()
	for _, t := range in.texts() {
		if n, ok := selection.AtLeast(t); ok {
			return decide(float64(total) >= n, "%d goals, selected %g or more", total, n).actual(fmt.Sprint(total))
		}
		if n, ok := selection.Exactly(t); ok {
			return decide(total == n, "%d goals, selected exactly %d", total, n).actual(fmt.Sprint(total))
		}
	}
	if in.sel.Line != nil {
		n := *in.sel.Line
		return decide(float64(total) == n, "%d goals, selected exactly %g", total, n).actual(fmt.Sprint(total))
	}
	return canceled("unrecognised goal count %q", in.text())
}

// goalsRange settles "0-1", "2-3", "4+" style bands.
func goalsRange(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	total := score.Total()
	for _, t := range in.texts() {
		if lo, hi, ok := selection.Range(t); ok {
			return decide(total >= lo && total <= hi, "%d goals, selected %d-%d", total, lo, hi).actual(fmt.Sprint(total))
		}
	}
	return exactGoals(in)
}

// bothTeamsToScore settles Yes/No on the definition's period. Yes is
// decided as soon as both sides have scored.
func bothTeamsToScore(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	yes, ok := yesNoOf(in)
	if !ok {
		return canceled("unrecognised btts selection %q", in.text())
	}
	both := score.Home > 0 && score.Away > 0
	if !in.finished() && !both {
		return pending("%s %s, waiting for both teams to score", periodLabel(in.period()), score)
	}
	return decide(both == yes, "%s %s, both scored %t, selected %s", periodLabel(in.period()), score, both, yesNo(yes)).
		actual(score.String())
}

func correctScore(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	for _, t := range in.texts() {
		if h, a, ok := selection.Score(t); ok {
			pick := matchdata.Score{Home: h, Away: a}
			return decide(*score == pick, "%s score %s, selected %s", periodLabel(in.period()), score, pick).
				actual(score.String())
		}
	}
	return canceled("unrecognised correct score %q", in.text())
}

func oddEven(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	for _, t := range in.texts() {
		if odd, ok := selection.Parity(t); ok {
			actualOdd := score.Total()%2 == 1
			return decide(actualOdd == odd, "%d goals", score.Total()).actual(fmt.Sprint(score.Total()))
		}
	}
	return canceled("unrecognised odd/even selection %q", in.text())
}

func highestScoringHalf(in input) verdict {
	if in.facts.HalfTime == nil {
		return canceled("half-time score unavailable")
	}
	second := derivedSecondHalf(in.facts)
	if second == nil {
		return canceled("second-half score unavailable")
	}
	var pick selection.HalfChoice
	for _, t := range in.texts() {
		if h, ok := selection.Half(t); ok {
			pick = h
			break
		}
	}
	if pick == "" {
		return canceled("unrecognised half selection %q", in.text())
	}

	first, secondTotal := in.facts.HalfTime.Total(), second.Total()
	actual := selection.HalfEqual
	switch {
	case first > secondTotal:
		actual = selection.HalfFirst
	case secondTotal > first:
		actual = selection.HalfSecond
	}
	return decide(actual == pick, "first half %d goals, second half %d goals", first, secondTotal).
		actual(fmt.Sprintf("%d-%d", first, secondTotal))
}

func cleanSheet(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	side, ok := in.side(yesNoWords...)
	if !ok {
		return canceled("unrecognised team %q", in.text())
	}
	yes := yesDefault(in)
	clean := score.Against(side) == 0
	return decide(clean == yes, "%s conceded %d", in.facts.TeamName(side), score.Against(side)).
		actual(score.String())
}

func winToNil(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	side, ok := in.side(yesNoWords...)
	if !ok {
		return canceled("unrecognised team %q", in.text())
	}
	yes := yesDefault(in)
	toNil := score.For(side) > score.Against(side) && score.Against(side) == 0
	return decide(toNil == yes, "result %s, %s won to nil %t", score, in.facts.TeamName(side), toNil).
		actual(score.String())
}

// teamToScore is decided as soon as the team has scored.
func teamToScore(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	side, ok := in.side(yesNoWords...)
	if !ok {
		return canceled("unrecognised team %q", in.text())
	}
	yes := yesDefault(in)
	scored := score.For(side) > 0
	if !in.finished() && !scored {
		return pending("%s yet to score", in.facts.TeamName(side))
	}
	return decide(scored == yes, "%s scored %d", in.facts.TeamName(side), score.For(side)).
		actual(score.String())
}

func yesNoOf(in input) (bool, bool) {
	for _, t := range in.texts() {
		if yes, ok := selection.YesNo(t); ok {
			return yes, true
		}
	}
	return false, false
}

// yesDefault reads an explicit yes/no, defaulting to yes for selections that
// only name the team.
func yesDefault(in input) bool {
	if yes, ok := yesNoOf(in); ok {
		return yes
	}
	return true
}
