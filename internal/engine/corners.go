package engine

import (
	"fmt"

	"github.com/atmx/settlement-engine/internal/market"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/selection"
)

// corners supports four selection shapes, tried in order: a closed range
// ("6-8"), an over/under or exact line ("Over 9.5", "Exactly 12", "10+"),
// a bare count ("12"), and a team name meaning that team takes the most
// corners.
func corners(in input) verdict {
	c := in.facts.Corners
	if c == nil {
		return canceled("corner statistics unavailable")
	}

	count, scope := c.Total, "total"
	if in.def.Team != market.TeamBoth || in.sel.Participant != "" {
		side, ok := in.side(lineWordList...)
		if !ok {
			return canceled("unrecognised team %q", in.text())
		}
		count, scope = cornersFor(c, side), in.facts.TeamName(side)
	}
	actual := fmt.Sprintf("%d-%d", c.Home, c.Away)

	for _, t := range in.texts() {
		if lo, hi, ok := selection.Range(t); ok {
			return decide(count >= lo && count <= hi, "%d %s corners, selected %d-%d", count, scope, lo, hi).
				actual(actual)
		}
	}

	if check, ok := newLineCheck(in.sel, selection.DirectionNone); ok {
		return decide(check.hit(float64(count)), "%d %s corners, selected %s", count, scope, check).
			actual(actual).threshold(check.line)
	}

	for _, t := range in.texts() {
		if n, ok := selection.Exactly(t); ok {
			return decide(count == n, "%d %s corners, selected exactly %d", count, scope, n).actual(actual)
		}
	}

	if pick, ok := in.resolveSide(); ok {
		most := matchdata.Score{Home: c.Home, Away: c.Away}.Result()
		return decide(most == pick, "corners %d-%d, selected %s", c.Home, c.Away, resultLabel(pick)).
			actual(actual)
	}
	return canceled("unrecognised corners selection %q", in.text())
}

var lineWordList = []string{"over", "under", "exactly", "-", "|"}

func cornersFor(c *matchdata.Corners, side matchdata.Side) int {
	if side == matchdata.SideAway {
		return c.Away
	}
	return c.Home
}
