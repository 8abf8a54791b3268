package reconcile

import "strings"

// CandidateSplit is one reading of a normalized name: the tokens that may be the first name,
// the tokens that may be the last name, and the whole name for exact comparison.
type CandidateSplit struct {
	FirstNames []string
	LastNames  []string
	FullName   string
}

// GenerateCandidates derives the split for tokens. Fewer than two tokens yield no split.
//
// The first token is always a first-name candidate and the last token a last-name candidate.
// Two-token names also get the reversed reading ("Surname Given"). Longer names add every
// interior token as a first-name candidate only.
func GenerateCandidates(tokens []string) (CandidateSplit, bool) {
	if len(tokens) < 2 {
		return CandidateSplit{}, false
	}
	last := len(tokens) - 1

	split := CandidateSplit{
		FirstNames: appendUnique(nil, tokens[0]),
		LastNames:  appendUnique(nil, tokens[last]),
		FullName:   strings.Join(tokens, " "),
	}

	if len(tokens) == 2 {
		split.FirstNames = appendUnique(split.FirstNames, tokens[1])
		split.LastNames = appendUnique(split.LastNames, tokens[0])
		return split, true
	}

	for _, tok := range tokens[1:last] {
		split.FirstNames = appendUnique(split.FirstNames, tok)
	}
	return split, true
}

func appendUnique(set []string, tok string) []string {
	for _, existing := range set {
		if existing == tok {
			return set
		}
	}
	return append(set, tok)
}
