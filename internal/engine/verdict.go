package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atmx/settlement-engine/internal/market"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
	"github.com/atmx/settlement-engine/internal/selection"
)

// input is everything a market algorithm may look at.
type input struct {
	sel   model.Selection
	def   market.Definition
	facts *matchdata.Facts
}

// verdict is an algorithm's decision before the payout is applied.
type verdict struct {
	status  model.Status
	reason  string
	details model.Details
}

// algorithm settles one market family. Algorithms never panic on bad data:
// missing facts or unparseable selections are verdicts.
type algorithm func(in input) verdict

var algorithms = map[market.Family]algorithm{
	market.FamilyMatchResult:         periodResult,
	market.FamilyHalfTimeResult:      periodResult,
	market.FamilySecondHalfResult:    periodResult,
	market.FamilyDoubleChance:        doubleChance,
	market.FamilyDrawNoBet:           drawNoBet,
	market.FamilyHalfTimeFullTime:    halfTimeFullTime,
	market.FamilyResultTotalGoals:    resultTotalGoals,
	market.FamilyResultBTTS:          resultBTTS,
	market.FamilyWinningMargin:       winningMargin,
	market.FamilyOverUnder:           overUnder,
	market.FamilyExactGoals:          exactGoals,
	market.FamilyGoalsRange:          goalsRange,
	market.FamilyBTTS:                bothTeamsToScore,
	market.FamilyCorrectScore:        correctScore,
	market.FamilyOddEven:             oddEven,
	market.FamilyHighestScoringHalf:  highestScoringHalf,
	market.FamilyCleanSheet:          cleanSheet,
	market.FamilyWinToNil:            winToNil,
	market.FamilyTeamToScore:         teamToScore,
	market.FamilyAsianHandicap:       asianHandicap,
	market.FamilyThreeWayHandicap:    threeWayHandicap,
	market.FamilyFirstGoalscorer:     firstGoalscorer,
	market.FamilyLastGoalscorer:      lastGoalscorer,
	market.FamilyAnytimeGoalscorer:   anytimeGoalscorer,
	market.FamilyFirstTeamToScore:    firstTeamToScore,
	market.FamilyLastTeamToScore:     lastTeamToScore,
	market.FamilyPlayerShotsOnTarget: playerShots(matchdata.StatShotsOnTarget, "shots on target"),
	market.FamilyPlayerShots:         playerShots(matchdata.StatShotsTotal, "shots"),
	market.FamilyCorners:             corners,
}

func won(format string, args ...any) verdict {
	return verdict{status: model.StatusWon, reason: fmt.Sprintf(format, args...)}
}

func lost(format string, args ...any) verdict {
	return verdict{status: model.StatusLost, reason: fmt.Sprintf(format, args...)}
}

func push(format string, args ...any) verdict {
	return verdict{status: model.StatusPush, reason: fmt.Sprintf(format, args...)}
}

func canceled(format string, args ...any) verdict {
	return verdict{status: model.StatusCanceled, reason: fmt.Sprintf(format, args...)}
}

func pending(format string, args ...any) verdict {
	return verdict{status: model.StatusPending, reason: fmt.Sprintf(format, args...)}
}

// decide returns won when hit is true, lost otherwise.
func decide(hit bool, format string, args ...any) verdict {
	if hit {
		return won(format, args...)
	}
	return lost(format, args...)
}

func (v verdict) actual(s string) verdict {
	v.details.Actual = s
	return v
}

func (v verdict) threshold(line selection.Line) verdict {
	t := line.Value
	v.details.Threshold = &t
	v.details.Source = string(line.Source)
	return v
}

func (v verdict) participant(name string) verdict {
	v.details.Participant = name
	return v
}

// texts returns the label and name of the selection, non-empty only.
func (in input) texts() []string {
	var out []string
	for _, s := range []string{in.sel.Label, in.sel.Name} {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// text returns the first non-empty of label and name.
func (in input) text() string {
	if t := in.texts(); len(t) > 0 {
		return t[0]
	}
	return ""
}

func (in input) finished() bool { return in.facts.Finished }

func (in input) period() matchdata.Period {
	switch in.def.Period {
	case market.PeriodFirstHalf:
		return matchdata.PeriodFirstHalf
	case market.PeriodSecondHalf:
		return matchdata.PeriodSecondHalf
	default:
		return matchdata.PeriodFullTime
	}
}

// score returns the score of the market's period. The second half is
// derived from full time minus half time when the feed has no separate
// entry and the match is over.
func (in input) score() *matchdata.Score {
	if s := in.facts.ScoreFor(in.period()); s != nil {
		return s
	}
	if in.period() == matchdata.PeriodSecondHalf {
		return derivedSecondHalf(in.facts)
	}
	return nil
}

func derivedSecondHalf(f *matchdata.Facts) *matchdata.Score {
	if f.SecondHalf != nil {
		return f.SecondHalf
	}
	if !f.Finished || !f.HasScore || f.HalfTime == nil {
		return nil
	}
	sh := matchdata.Score{
		Home: f.FullTime.Home - f.HalfTime.Home,
		Away: f.FullTime.Away - f.HalfTime.Away,
	}
	if sh.Home < 0 || sh.Away < 0 {
		return nil
	}
	return &sh
}

// missingScore is the verdict when the period score is unavailable: the
// bet waits while the match is running and is refunded once it is over.
func (in input) missingScore() verdict {
	if !in.finished() {
		return pending("%s score not available yet", periodLabel(in.period()))
	}
	return canceled("%s score unavailable", periodLabel(in.period()))
}

func periodLabel(p matchdata.Period) string {
	switch p {
	case matchdata.PeriodFirstHalf:
		return "first-half"
	case matchdata.PeriodSecondHalf:
		return "second-half"
	default:
		return "full-time"
	}
}

// resolveSide maps the selection to 1/X/2 using label, then name.
func (in input) resolveSide() (matchdata.Result, bool) {
	for _, t := range in.texts() {
		if r, ok := selection.ResolveSide(t, in.facts.HomeTeam, in.facts.AwayTeam); ok {
			return r, true
		}
	}
	return "", false
}

// side returns the team a team-scoped market refers to: fixed by the
// definition, or named by the selection (participant, label, name). The
// given words (e.g. "yes", "no") are ignored when reading the selection.
func (in input) side(ignore ...string) (matchdata.Side, bool) {
	switch in.def.Team {
	case market.TeamHome:
		return matchdata.SideHome, true
	case market.TeamAway:
		return matchdata.SideAway, true
	}
	candidates := append([]string{in.sel.Participant}, in.texts()...)
	for _, t := range candidates {
		t = dropNumbers(stripWords(t, ignore...))
		if t == "" {
			continue
		}
		if s, ok := selection.ResolveTeam(t, in.facts.HomeTeam, in.facts.AwayTeam); ok {
			return s, true
		}
	}
	return "", false
}

// player returns the player named by the selection: the participant field,
// else the label with line words and numbers removed ("Saka Over 1.5").
func (in input) player() string {
	if p := strings.TrimSpace(in.sel.Participant); p != "" {
		return p
	}
	var kept []string
	for _, f := range strings.Fields(parenRe.ReplaceAllString(in.text(), " ")) {
		if strings.ContainsAny(f, "0123456789") || lineWords[strings.ToLower(f)] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

var (
	parenRe   = regexp.MustCompile(`\([^)]*\)`)
	lineWords = map[string]bool{"over": true, "under": true, "exactly": true, "-": true, "|": true}
)

func resultLabel(r matchdata.Result) string {
	switch r {
	case matchdata.ResultHome:
		return "home win"
	case matchdata.ResultAway:
		return "away win"
	default:
		return "draw"
	}
}
