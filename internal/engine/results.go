package engine

import (
	"regexp"
	"strings"

	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/selection"
)

// periodResult settles 1X2 markets on the period of the definition
// (full time, first half or second half).
func periodResult(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	pick, ok := in.resolveSide()
	if !ok {
		return canceled("unrecognised result selection %q", in.text())
	}
	actual := score.Result()
	return decide(actual == pick, "%s %s, selected %s", periodLabel(in.period()), score, resultLabel(pick)).
		actual(score.String())
}

func doubleChance(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	var picks []matchdata.Result
	for _, t := range in.texts() {
		if p, ok := selection.DoubleChance(t, in.facts.HomeTeam, in.facts.AwayTeam); ok {
			picks = p
			break
		}
	}
	if picks == nil {
		return canceled("unrecognised double chance selection %q", in.text())
	}
	actual := score.Result()
	hit := actual == picks[0] || actual == picks[1]
	return decide(hit, "result %s (%s), covered %s%s", score, resultLabel(actual), picks[0], picks[1]).
		actual(score.String())
}

// drawNoBet returns the stake on a draw.
func drawNoBet(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	side, ok := in.side()
	if !ok {
		return canceled("unrecognised team %q", in.text())
	}
	if score.Home == score.Away {
		return push("draw %s, stake returned", score).actual(score.String())
	}
	return decide(score.For(side) > score.Against(side), "result %s, selected %s", score, side).
		actual(score.String())
}

// halfTimeFullTime requires both the half-time and full-time results of a
// two-part selection ("Home/Draw") to match.
func halfTimeFullTime(in input) verdict {
	if !in.facts.HasScore {
		return in.missingScore()
	}
	if in.facts.HalfTime == nil {
		return canceled("half-time score unavailable")
	}
	htText, ftText, ok := splitAny(in.texts())
	if !ok {
		return canceled("unrecognised half-time/full-time selection %q", in.text())
	}
	home, away := in.facts.HomeTeam, in.facts.AwayTeam
	htPick, okHT := selection.ResolveSide(htText, home, away)
	ftPick, okFT := selection.ResolveSide(ftText, home, away)
	if !okHT || !okFT {
		return canceled("unrecognised half-time/full-time selection %q", in.text())
	}

	ht, ft := *in.facts.HalfTime, in.facts.FullTime
	hit := ht.Result() == htPick && ft.Result() == ftPick
	return decide(hit, "half time %s, full time %s, selected %s/%s", ht, ft, htPick, ftPick).
		actual(ht.String() + " / " + ft.String())
}

// resultTotalGoals settles "1/Over 2.5" style selections: both the match
// result and the goal-line part must hold.
func resultTotalGoals(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	resText, goalsText, ok := splitAny(in.texts())
	if !ok {
		return canceled("unrecognised result/total selection %q", in.text())
	}
	pick, okRes := selection.ResolveSide(resText, in.facts.HomeTeam, in.facts.AwayTeam)
	if !okRes {
		// "Over 2.5/Home" ordering.
		resText, goalsText = goalsText, resText
		pick, okRes = selection.ResolveSide(resText, in.facts.HomeTeam, in.facts.AwayTeam)
	}
	if !okRes {
		return canceled("unrecognised result in %q", in.text())
	}

	check, ok := newLineCheck(model.Selection{Label: goalsText, Line: in.sel.Line}, selection.DirectionNone)
	if !ok || (check.dir != selection.DirectionOver && check.dir != selection.DirectionUnder) {
		return canceled("unrecognised goal line in %q", in.text())
	}

	hit := score.Result() == pick && check.hit(float64(score.Total()))
	return decide(hit, "result %s (%d goals), selected %s and %s", score, score.Total(), resultLabel(pick), check).
		actual(score.String()).threshold(check.line)
}

// resultBTTS settles "Away/No" style selections.
func resultBTTS(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	resText, bttsText, ok := splitAny(in.texts())
	if !ok {
		return canceled("unrecognised result/btts selection %q", in.text())
	}
	pick, okRes := selection.ResolveSide(resText, in.facts.HomeTeam, in.facts.AwayTeam)
	yes, okYes := selection.YesNo(bttsText)
	if !okRes || !okYes {
		return canceled("unrecognised result/btts selection %q", in.text())
	}
	both := score.Home > 0 && score.Away > 0
	hit := score.Result() == pick && both == yes
	return decide(hit, "result %s, both scored %t, selected %s/%s", score, both, resultLabel(pick), yesNo(yes)).
		actual(score.String())
}

var byRe = regexp.MustCompile(`(?i)\s+by\s+.*$`)

// winningMargin settles "Home by 2", "Arsenal by 3+" and "Draw".
func winningMargin(in input) verdict {
	score := in.score()
	if score == nil {
		return in.missingScore()
	}
	text := in.text()
	pick, ok := selection.ResolveSide(byRe.ReplaceAllString(text, ""), in.facts.HomeTeam, in.facts.AwayTeam)
	if !ok {
		return canceled("unrecognised winning margin selection %q", text)
	}
	if pick == matchdata.ResultDraw {
		return decide(score.Home == score.Away, "result %s, selected draw", score).actual(score.String())
	}

	marginText := byRe.FindString(text)
	if marginText == "" {
		marginText = text
	}
	n, orMore, ok := selection.Margin(marginText)
	if !ok {
		return canceled("no margin in %q", text)
	}
	side := matchdata.SideHome
	if pick == matchdata.ResultAway {
		side = matchdata.SideAway
	}
	margin := score.For(side) - score.Against(side)
	hit := margin == n || (orMore && margin >= n)
	return decide(hit, "result %s, %s margin %d", score, side, margin).actual(score.String())
}

// splitAny splits the first text that has two parts.
func splitAny(texts []string) (string, string, bool) {
	for _, t := range texts {
		if a, b, ok := selection.Split(t); ok {
			return a, b, true
		}
	}
	return "", "", false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// stripWords removes the given lower-case words from text.
func stripWords(text string, words ...string) string {
	drop := make(map[string]bool, len(words))
	for _, w := range words {
		drop[w] = true
	}
	var kept []string
	for _, f := range strings.Fields(text) {
		if !drop[strings.ToLower(f)] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// dropNumbers removes unsigned numeric tokens ("5.5", "3+") from a team
// selection unless the number is all there is ("1", "2").
func dropNumbers(text string) string {
	fields := strings.Fields(text)
	var kept []string
	for _, f := range fields {
		if strings.Trim(f, "0123456789.+") == "" {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return strings.Join(fields, " ")
	}
	return strings.Join(kept, " ")
}
