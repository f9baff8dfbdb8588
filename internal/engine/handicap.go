package engine

import (
	"fmt"
	"math"

	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/selection"
)

// isQuarterLine reports whether a handicap is a split line (±0.25, ±0.75,
// ...), which settles half the stake on each neighbouring line.
func isQuarterLine(h float64) bool {
	frac := math.Abs(math.Mod(h, 0.5))
	return math.Abs(frac-0.25) < 1e-9
}

func (in input) handicapLine(h float64) selection.Line {
	src := selection.SourceText
	if in.sel.Line != nil {
		src = selection.SourceField
	}
	return selection.Line{Value: h, Source: src}
}

// asianHandicap applies the signed handicap to the selected team. An exact
// tie after adjustment is a push.
func asianHandicap(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	side, ok := in.side()
	if !ok {
		return canceled("unrecognised team %q", in.text())
	}
	h, ok := selection.Handicap(in.sel)
	if !ok {
		return canceled("no handicap in %q", in.text())
	}
	if isQuarterLine(h) {
		return canceled("split handicap %+g not supported", h).threshold(in.handicapLine(h))
	}

	adjusted := float64(score.For(side)) + h
	against := float64(score.Against(side))
	reason := fmt.Sprintf("%s %s with %+g: %g-%g", in.facts.TeamName(side), score, h, adjusted, against)

	var v verdict
	switch {
	case adjusted > against:
		v = won("%s", reason)
	case adjusted < against:
		v = lost("%s", reason)
	default:
		v = push("%s, tie after handicap", reason)
	}
	return v.actual(score.String()).threshold(in.handicapLine(h))
}

// threeWayHandicap applies the handicap to the selected team; a "Draw"
// selection carries the home team's handicap and wins on an adjusted tie.
// A team selection that ties after adjustment is a push.
func threeWayHandicap(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	pick, ok := in.resolveSide()
	if !ok {
		return canceled("unrecognised handicap selection %q", in.text())
	}
	h, ok := selection.Handicap(in.sel)
	if !ok {
		return canceled("no handicap in %q", in.text())
	}

	var diff float64
	switch pick {
	case matchdata.ResultAway:
		diff = float64(score.Away) + h - float64(score.Home)
	default:
		diff = float64(score.Home) + h - float64(score.Away)
	}

	reason := fmt.Sprintf("result %s with %+g, selected %s", score, h, resultLabel(pick))
	var v verdict
	switch {
	case pick == matchdata.ResultDraw:
		v = decide(diff == 0, "%s", reason)
	case diff > 0:
		v = won("%s", reason)
	case diff < 0:
		v = lost("%s", reason)
	default:
		v = push("%s, tie after handicap", reason)
	}
	return v.actual(score.String()).threshold(in.handicapLine(h))
}
