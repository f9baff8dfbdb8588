package identity

import "strings"

// clubPrefixes are organisational abbreviations stripped from the front of a
// team name so "FC Porto" and "Porto" compare equal.
var clubPrefixes = map[string]bool{
	"fc": true, "afc": true, "rc": true, "ksk": true, "fk": true, "cf": true,
	"sc": true, "ssc": true, "ac": true, "as": true, "ud": true, "cd": true,
	"nk": true, "bc": true, "bk": true, "sk": true, "sv": true, "vfb": true,
	"vfl": true, "tsg": true, "if": true, "ca": true, "club": true,
}

// genericSuffixes carry no identity and are always dropped.
var genericSuffixes = map[string]bool{
	"fc": true, "afc": true, "cf": true, "sc": true, "sfc": true, "ac": true,
	"fk": true, "nk": true, "bk": true, "sk": true, "if": true, "ff": true,
	"cd": true, "ud": true, "club": true, "ssc": true, "sv": true,
}

// distinguishingSuffixes are dropped for comparison but kept as a
// discriminator: "Manchester United" and "Manchester City" share a core and
// must not match.
var distinguishingSuffixes = map[string]bool{
	"united": true, "city": true, "town": true, "athletic": true,
	"county": true, "rovers": true, "wanderers": true, "albion": true,
	"hotspur": true, "villa": true, "wednesday": true, "rangers": true,
	"borough": true, "argyle": true, "orient": true, "olympic": true,
}

// teamAliases maps known nicknames and short forms to one canonical
// normalized name.
var teamAliases = map[string]string{
	"red diamonds":       "reds",
	"urawa red diamonds": "urawa reds",
	"man utd":            "manchester united",
	"man united":         "manchester united",
	"man u":              "manchester united",
	"man city":           "manchester city",
	"spurs":              "tottenham hotspur",
	"wolves":             "wolverhampton wanderers",
	"wolverhampton":      "wolverhampton wanderers",
	"nottm forest":       "nottingham forest",
	"notts forest":       "nottingham forest",
	"brighton":           "brighton hove albion",
	"west brom":          "west bromwich albion",
	"sheff utd":          "sheffield united",
	"sheff wed":          "sheffield wednesday",
	"psg":                "paris saint germain",
	"paris sg":           "paris saint germain",
	"inter":              "internazionale",
	"inter milan":        "internazionale",
	"bayern munich":      "bayern",
	"bayern munchen":     "bayern",
	"atletico":           "atletico madrid",
	"ulsan hyundai":      "ulsan hd",
	"traktor sazi":       "tractor",
	"racing avellaneda":  "racing club",

	"brighton and hove albion": "brighton hove albion",
}

// TeamsMatch reports whether two team names refer to the same club. It first
// applies NamesMatch, then compares names with club prefixes/suffixes and
// nickname aliases removed, falling back to the same substring and
// edit-distance rules.
func TeamsMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	coreA, sufA := teamCore(na)
	coreB, sufB := teamCore(nb)
	if sufA != "" && sufB != "" && sufA != sufB {
		return false
	}
	if coreA == coreB {
		return true
	}
	if tokensAgree(strings.Fields(na), strings.Fields(nb)) {
		return true
	}
	return fuzzyMatch(coreA, coreB) || fuzzyMatch(na, nb)
}

// NormalizeTeam returns the comparison key of a team name: aliases applied
// and club prefixes/suffixes removed.
func NormalizeTeam(raw string) string {
	core, _ := teamCore(NormalizeName(raw))
	return core
}

// teamCore resolves aliases and strips club affixes from a normalized name.
// It returns the core and the distinguishing suffix that was removed.
func teamCore(n string) (core, suffix string) {
	if alias, ok := teamAliases[n]; ok {
		n = alias
	}
	tokens := strings.Fields(n)

	for len(tokens) > 1 && clubPrefixes[tokens[0]] {
		tokens = tokens[1:]
	}
	for len(tokens) > 1 && genericSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 1 && distinguishingSuffixes[tokens[len(tokens)-1]] {
		suffix = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}

	core = strings.Join(tokens, " ")
	if alias, ok := teamAliases[core]; ok && alias != n {
		return teamCore(alias)
	}
	return core, suffix
}
