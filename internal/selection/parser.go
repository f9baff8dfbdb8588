// Package selection extracts structured values (thresholds, directions,
// handicaps, scores, ranges, sides) from the free-text selection fields that
// feeds attach to a bet.
//
// Every parser is best-effort: it returns ok=false (or a documented default)
// instead of failing, and the caller keeps the raw text for audit.
package selection

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/atmx/settlement-engine/internal/identity"
	"github.com/atmx/settlement-engine/internal/matchdata"
	"github.com/atmx/settlement-engine/internal/model"
)

// DefaultThreshold is used when neither a Line field nor the selection text
// carries a threshold.
const DefaultThreshold = 2.5

// Source records where a parsed value came from.
type Source string

const (
	SourceField   Source = "field"
	SourceText    Source = "text"
	SourceDefault Source = "default"
)

// Line is a parsed numeric threshold.
type Line struct {
	Value  float64 `json:"value"`
	Source Source  `json:"source"`
}

// Direction is the comparison a threshold selection asks for.
type Direction string

const (
	DirectionNone    Direction = ""
	DirectionOver    Direction = "over"
	DirectionUnder   Direction = "under"
	DirectionExactly Direction = "exactly"
)

// HalfChoice is a highest-scoring-half selection.
type HalfChoice string

const (
	HalfFirst  HalfChoice = "first"
	HalfSecond HalfChoice = "second"
	HalfEqual  HalfChoice = "equal"
)

var (
	plusRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\+`)
	overUnderRe = regexp.MustCompile(`(?i)over\s*/\s*under\s*(\d+(?:\.\d+)?)`)
	directionRe = regexp.MustCompile(`(?i)\b(over|under)\s*(\d+(?:\.\d+)?)`)
	numberRe    = regexp.MustCompile(`\d+(?:\.\d+)?`)

	parenSignedRe = regexp.MustCompile(`\(\s*([+-]?\s*\d+(?:\.\d+)?)\s*\)`)
	signedRe      = regexp.MustCompile(`(?:^|\s)([+-]\d+(?:\.\d+)?)\b`)
	levelRe       = regexp.MustCompile(`(?:^|\s)0(?:\.0+)?\s*$`)
	parenRe       = regexp.MustCompile(`\([^)]*\)`)

	scoreRe   = regexp.MustCompile(`(\d+)\s*[-:–]\s*(\d+)`)
	rangeRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:-|–|to)\s*(\d+)`)
	exactlyRe = regexp.MustCompile(`(?i)exactly\s*(\d+)|(\d+)\s*exactly`)
	bareIntRe = regexp.MustCompile(`^\s*(\d+)\s*$`)
	marginRe  = regexp.MustCompile(`(\d+)\s*(\+)?`)
)

// normalizeMinus maps typographic minus signs to ASCII.
var normalizeMinus = strings.NewReplacer("−", "-", "‒", "-", "﹣", "-", "－", "-")

// texts returns the selection's textual fields in lookup order.
func texts(sel model.Selection) []string {
	var out []string
	for _, s := range []string{sel.Label, sel.Name, sel.MarketName} {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Threshold returns the selection's numeric threshold: the Line field when
// present, else the first value found in the text by, in order, "N+",
// "over/under N", "over N"/"under N", or any number. Falls back to
// DefaultThreshold.
func Threshold(sel model.Selection) Line {
	if sel.Line != nil {
		return Line{Value: *sel.Line, Source: SourceField}
	}
	for _, re := range []*regexp.Regexp{plusRe, overUnderRe} {
		for _, t := range texts(sel) {
			if m := re.FindStringSubmatch(t); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					return Line{Value: v, Source: SourceText}
				}
			}
		}
	}
	for _, t := range texts(sel) {
		if m := directionRe.FindStringSubmatch(t); m != nil {
			if v, err := strconv.ParseFloat(m[2], 64); err == nil {
				return Line{Value: v, Source: SourceText}
			}
		}
	}
	for _, t := range texts(sel) {
		if m := numberRe.FindString(t); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil {
				return Line{Value: v, Source: SourceText}
			}
		}
	}
	return Line{Value: DefaultThreshold, Source: SourceDefault}
}

// DirectionOf returns the comparison a threshold selection asks for. The
// Direction field wins; otherwise the label and name are inspected for a
// leading over/under/exactly word or an "N+" form (over).
func DirectionOf(sel model.Selection) Direction {
	if d := parseDirection(sel.Direction); d != DirectionNone {
		return d
	}
	for _, t := range []string{sel.Label, sel.Name} {
		if d := parseDirection(t); d != DirectionNone {
			return d
		}
	}
	return DirectionNone
}

func parseDirection(text string) Direction {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return DirectionNone
	}
	switch {
	case strings.HasPrefix(t, "over"), t == "o", strings.HasPrefix(t, "o "):
		return DirectionOver
	case strings.HasPrefix(t, "under"), t == "u", strings.HasPrefix(t, "u "):
		return DirectionUnder
	case strings.Contains(t, "exactly"):
		return DirectionExactly
	case plusRe.MatchString(t):
		return DirectionOver
	}
	for _, w := range strings.Fields(t) {
		switch w {
		case "over":
			return DirectionOver
		case "under":
			return DirectionUnder
		}
	}
	return DirectionNone
}

// Handicap returns the signed handicap of the selection: the Line field,
// else a signed number in parentheses, else a signed number in the text,
// else a bare trailing zero.
func Handicap(sel model.Selection) (float64, bool) {
	if sel.Line != nil {
		return *sel.Line, true
	}
	for _, t := range texts(sel) {
		t = normalizeMinus.Replace(t)
		if m := parenSignedRe.FindStringSubmatch(t); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], " ", ""), 64); err == nil {
				return v, true
			}
		}
		if m := signedRe.FindStringSubmatch(t); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v, true
			}
		}
		// A level line carries no sign: "Arsenal 0".
		if levelRe.MatchString(t) {
			return 0, true
		}
	}
	return 0, false
}

// Score parses "2-1", "2:1" or "2 - 1".
func Score(text string) (home, away int, ok bool) {
	m := scoreRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	home, _ = strconv.Atoi(m[1])
	away, _ = strconv.Atoi(m[2])
	return home, away, true
}

// Range parses a closed range such as "6-8", "6–8" or "6 to 8". The bounds
// are returned in ascending order.
func Range(text string) (lo, hi int, ok bool) {
	m := rangeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	lo, _ = strconv.Atoi(m[1])
	hi, _ = strconv.Atoi(m[2])
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// Exactly parses "Exactly 12", "12 exactly" or a bare "12".
func Exactly(text string) (int, bool) {
	if m := exactlyRe.FindStringSubmatch(text); m != nil {
		s := m[1]
		if s == "" {
			s = m[2]
		}
		n, err := strconv.Atoi(s)
		return n, err == nil
	}
	if m := bareIntRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	return 0, false
}

// AtLeast parses the "N+" form ("3+", "3+ goals"), meaning N or more.
func AtLeast(text string) (float64, bool) {
	m := plusRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

// Margin parses a winning-margin selection ("Home by 2", "Arsenal by 3+",
// "2 goals"). orMore is set for the "N+" form.
func Margin(text string) (n int, orMore bool, ok bool) {
	m := marginRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false, false
	}
	return n, m[2] == "+", true
}

// Split divides a two-part selection ("Home/Draw", "1 & Over 2.5",
// "Away and No") into its parts.
func Split(text string) (first, second string, ok bool) {
	lower := strings.ToLower(text)
	for _, sep := range []string{"/", " & ", "&", " and ", " + "} {
		if i := strings.Index(lower, sep); i >= 0 {
			first = strings.TrimSpace(text[:i])
			second = strings.TrimSpace(text[i+len(sep):])
			if first != "" && second != "" {
				return first, second, true
			}
		}
	}
	return "", "", false
}

// YesNo parses a yes/no selection.
func YesNo(text string) (yes, ok bool) {
	for _, w := range strings.Fields(identity.NormalizeName(text)) {
		switch w {
		case "yes", "y":
			return true, true
		case "no", "n":
			return false, true
		}
	}
	return false, false
}

// Parity parses an odd/even selection.
func Parity(text string) (odd, ok bool) {
	for _, w := range strings.Fields(identity.NormalizeName(text)) {
		switch w {
		case "odd":
			return true, true
		case "even":
			return false, true
		}
	}
	return false, false
}

// Half parses a highest-scoring-half selection.
func Half(text string) (HalfChoice, bool) {
	for _, w := range strings.Fields(identity.NormalizeName(text)) {
		switch w {
		case "1st", "first", "1":
			return HalfFirst, true
		case "2nd", "second", "2":
			return HalfSecond, true
		case "equal", "tie", "draw", "x", "same":
			return HalfEqual, true
		}
	}
	return "", false
}

// ResolveSide maps a 1X2-style selection to a result. It accepts the
// positional codes ("1", "X", "2"), the words home/draw/away, or a team name
// matched against the home and away names through identity.TeamsMatch. A
// handicap in parentheses or a trailing signed number is ignored.
func ResolveSide(text, home, away string) (matchdata.Result, bool) {
	cleaned := stripLine(text)
	switch strings.ToLower(cleaned) {
	case "1", "home", "h", "w1":
		return matchdata.ResultHome, true
	case "x", "draw", "tie", "d":
		return matchdata.ResultDraw, true
	case "2", "away", "a", "w2":
		return matchdata.ResultAway, true
	}
	if cleaned == "" {
		return "", false
	}

	homeHit := home != "" && identity.TeamsMatch(cleaned, home)
	awayHit := away != "" && identity.TeamsMatch(cleaned, away)
	switch {
	case homeHit && !awayHit:
		return matchdata.ResultHome, true
	case awayHit && !homeHit:
		return matchdata.ResultAway, true
	}

	for _, w := range strings.Fields(identity.NormalizeName(cleaned)) {
		switch w {
		case "draw", "tie":
			return matchdata.ResultDraw, true
		case "home":
			return matchdata.ResultHome, true
		case "away":
			return matchdata.ResultAway, true
		}
	}
	return "", false
}

// ResolveTeam maps a selection to a side only (no draw).
func ResolveTeam(text, home, away string) (matchdata.Side, bool) {
	r, ok := ResolveSide(text, home, away)
	switch {
	case !ok:
		return "", false
	case r == matchdata.ResultHome:
		return matchdata.SideHome, true
	case r == matchdata.ResultAway:
		return matchdata.SideAway, true
	}
	return "", false
}

// DoubleChance parses "1X", "X2", "12" or a two-part "Home/Draw",
// "Arsenal or Chelsea" selection into its two covered results.
func DoubleChance(text, home, away string) ([]matchdata.Result, bool) {
	compact := strings.ToUpper(strings.Join(strings.Fields(text), ""))
	switch compact {
	case "1X", "X1":
		return []matchdata.Result{matchdata.ResultHome, matchdata.ResultDraw}, true
	case "X2", "2X":
		return []matchdata.Result{matchdata.ResultDraw, matchdata.ResultAway}, true
	case "12", "21":
		return []matchdata.Result{matchdata.ResultHome, matchdata.ResultAway}, true
	}

	a, b, ok := Split(text)
	if !ok {
		lower := strings.ToLower(text)
		i := strings.Index(lower, " or ")
		if i < 0 {
			return nil, false
		}
		a, b = strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+4:])
	}
	ra, okA := ResolveSide(a, home, away)
	rb, okB := ResolveSide(b, home, away)
	if !okA || !okB || ra == rb {
		return nil, false
	}
	return []matchdata.Result{ra, rb}, true
}

// stripLine removes parenthesised values and signed numbers from a
// selection so only the side/team text remains.
func stripLine(text string) string {
	t := normalizeMinus.Replace(text)
	t = parenRe.ReplaceAllString(t, " ")
	t = signedRe.ReplaceAllString(t, " ")
	return strings.Join(strings.Fields(t), " ")
}
