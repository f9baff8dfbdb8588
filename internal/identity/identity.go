// Package identity normalizes and fuzzily compares team and player names
// that arrive with different spellings from different data sources
// (diacritics, club suffixes, initials, word order, nicknames).
//
// All functions are pure; the lookup tables are never mutated.
package identity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// minFuzzyLen is the minimum normalized length (in runes) both names
	// need before substring or edit-distance matching is attempted.
	minFuzzyLen = 6

	// maxEditDistance is the largest Levenshtein distance still treated
	// as the same name.
	maxEditDistance = 2
)

// letters that NFD does not decompose into base + combining mark.
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"đ", "d", "Đ", "d",
	"ı", "i",
	"þ", "th",
)

// NormalizeName strips diacritics, case and punctuation and collapses
// whitespace. Apostrophes are dropped so "O'Brien" and "OBrien" agree;
// every other non letter/digit rune becomes a separator.
func NormalizeName(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToLower(foldReplacer.Replace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’' || r == '`' || r == 'ʼ':
			return -1
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// NamesMatch reports whether two person names refer to the same player.
// Rules, in order:
//  1. exact match after normalization;
//  2. multi-token names: equal last token plus one matching earlier token,
//     or equal first token plus one other matching token (an initial
//     matches any token starting with that letter);
//  3. substring containment when both names have at least 6 characters;
//  4. Levenshtein distance ≤ 2 when both names have at least 6 characters.
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if tokensAgree(strings.Fields(na), strings.Fields(nb)) {
		return true
	}
	return fuzzyMatch(na, nb)
}

// FindPlayer returns the index of the best candidate matching name, or -1.
// Exact normalized matches win over token matches, which win over
// substring/edit-distance matches.
func FindPlayer(name string, candidates []string) int {
	target := NormalizeName(name)
	if target == "" {
		return -1
	}
	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = NormalizeName(c)
		if normalized[i] == target {
			return i
		}
	}
	targetTokens := strings.Fields(target)
	for i, c := range normalized {
		if c != "" && tokensAgree(targetTokens, strings.Fields(c)) {
			return i
		}
	}
	for i, c := range normalized {
		if c != "" && fuzzyMatch(target, c) {
			return i
		}
	}
	return -1
}

func tokensAgree(ta, tb []string) bool {
	if len(ta) < 2 || len(tb) < 2 {
		return false
	}
	if ta[len(ta)-1] == tb[len(tb)-1] && anyTokenMatch(ta[:len(ta)-1], tb[:len(tb)-1]) {
		return true
	}
	return ta[0] == tb[0] && anyTokenMatch(ta[1:], tb[1:])
}

func anyTokenMatch(xs, ys []string) bool {
	for _, x := range xs {
		for _, y := range ys {
			if tokenMatch(x, y) {
				return true
			}
		}
	}
	return false
}

// tokenMatch treats a single-letter token as an initial.
func tokenMatch(x, y string) bool {
	if x == y {
		return true
	}
	if utf8.RuneCountInString(x) == 1 {
		return strings.HasPrefix(y, x)
	}
	if utf8.RuneCountInString(y) == 1 {
		return strings.HasPrefix(x, y)
	}
	return false
}

func fuzzyMatch(na, nb string) bool {
	if utf8.RuneCountInString(na) < minFuzzyLen || utf8.RuneCountInString(nb) < minFuzzyLen {
		return false
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	return levenshtein.ComputeDistance(na, nb) <= maxEditDistance
}
