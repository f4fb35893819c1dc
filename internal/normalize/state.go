// Package normalize resolves free-form user answers to canonical
// profile values.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"schemebot/internal/models"
)

// maxStateEditDistance bounds pass three of MatchState. A best match
// further away than this is rejected rather than guessed.
const maxStateEditDistance = 2

// StateMatch is the result of normalizing a state answer.
type StateMatch struct {
	// State is the canonical state or union territory name.
	State string
	// Corrected is true when the input needed more than case folding
	// or surrounding words stripped, so the caller should ask the user
	// to confirm before relying on it.
	Corrected bool
	// Input is the trimmed original answer.
	Input string
}

// stateAliases maps well known cities, abbreviations and joined
// spellings to canonical state names.
var stateAliases = map[string]string{
	"delhi":     "Delhi",
	"dilli":     "Delhi",
	"new delhi": "Delhi",
	"ncr":       "Delhi",

	"mumbai": "Maharashtra",
	"bombay": "Maharashtra",
	"pune":   "Maharashtra",

	"bangalore": "Karnataka",
	"bengaluru": "Karnataka",

	"calcutta": "West Bengal",
	"kolkata":  "West Bengal",

	"madras":  "Tamil Nadu",
	"chennai": "Tamil Nadu",

	"hyderabad": "Telangana",

	"orissa":      "Odisha",
	"pondicherry": "Puducherry",
	"uttaranchal": "Uttarakhand",

	"ap":  "Andhra Pradesh",
	"up":  "Uttar Pradesh",
	"mp":  "Madhya Pradesh",
	"hp":  "Himachal Pradesh",
	"uk":  "Uttarakhand",
	"tn":  "Tamil Nadu",
	"wb":  "West Bengal",
	"jk":  "Jammu and Kashmir",
	"j&k": "Jammu and Kashmir",

	"andra":            "Andhra Pradesh",
	"andhrapradesh":    "Andhra Pradesh",
	"arunachalpradesh": "Arunachal Pradesh",
	"tamilnadu":        "Tamil Nadu",
	"westbengal":       "West Bengal",
	"uttarpradesh":     "Uttar Pradesh",
	"madhyapradesh":    "Madhya Pradesh",
	"himachalpradesh":  "Himachal Pradesh",
}

// MatchState resolves free-form text to a canonical Indian state or
// union territory. Matching runs in three passes: exact match ignoring
// case, alias lookup, then edit distance against the canonical list.
// A fuzzy match is only accepted when it is within maxStateEditDistance
// and strictly closer than the runner-up; an exact tie comes back as
// *models.AmbiguousMatchError.
func MatchState(input string) (StateMatch, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return StateMatch{}, models.ErrUnknownState
	}

	// Pass 1: exact, ignoring case.
	if canonical, ok := models.CanonicalState(trimmed); ok {
		return StateMatch{State: canonical, Input: trimmed}, nil
	}

	lower := strings.ToLower(trimmed)

	// Pass 2: alias lookup, exact then contained in a longer answer.
	if canonical, ok := stateAliases[lower]; ok {
		return StateMatch{State: canonical, Corrected: true, Input: trimmed}, nil
	}

	if contained := containedStates(lower); len(contained) > 0 {
		if len(contained) > 1 {
			return StateMatch{}, &models.AmbiguousMatchError{
				Field:      models.FieldState,
				Input:      trimmed,
				Candidates: contained,
			}
		}
		// The canonical name itself appears in the answer, so no
		// confirmation round-trip is needed.
		return StateMatch{State: contained[0], Input: trimmed}, nil
	}

	if contained := containedAliases(lower); len(contained) > 0 {
		if len(contained) > 1 {
			return StateMatch{}, &models.AmbiguousMatchError{
				Field:      models.FieldState,
				Input:      trimmed,
				Candidates: contained,
			}
		}
		return StateMatch{State: contained[0], Corrected: true, Input: trimmed}, nil
	}

	// Pass 3: edit distance against the canonical list. tied collects
	// every candidate at the best distance; anything beyond a single
	// winner is ambiguous rather than a guess.
	best := maxStateEditDistance + 1
	var tied []string
	for _, state := range models.IndianStates() {
		d := LevenshteinDistance(lower, strings.ToLower(state))
		switch {
		case d < best:
			best = d
			tied = []string{state}
		case d == best:
			tied = append(tied, state)
		}
	}

	if best > maxStateEditDistance {
		return StateMatch{}, fmt.Errorf("%q: %w", trimmed, models.ErrUnknownState)
	}
	if len(tied) > 1 {
		return StateMatch{}, &models.AmbiguousMatchError{
			Field:      models.FieldState,
			Input:      trimmed,
			Candidates: tied,
		}
	}

	return StateMatch{State: tied[0], Corrected: true, Input: trimmed}, nil
}

// containedStates returns canonical names that appear whole inside a
// longer answer, such as "i live in tamil nadu".
func containedStates(lower string) []string {
	var found []string
	for _, state := range models.IndianStates() {
		if containsToken(lower, strings.ToLower(state)) {
			found = append(found, state)
		}
	}
	sort.Strings(found)
	return found
}

// containedAliases is the same scan over the alias table. Short
// abbreviations are skipped; "up" would match inside almost anything.
func containedAliases(lower string) []string {
	seen := make(map[string]bool)
	for alias, canonical := range stateAliases {
		if len(alias) < 4 {
			continue
		}
		if containsToken(lower, alias) {
			seen[canonical] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	found := make([]string, 0, len(seen))
	for canonical := range seen {
		found = append(found, canonical)
	}
	sort.Strings(found)
	return found
}

// containsToken reports whether needle appears in haystack bounded by
// non-letters on both sides.
func containsToken(haystack, needle string) bool {
	for start := 0; start <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isLetterByte(haystack[idx-1])
		afterOK := end == len(haystack) || !isLetterByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
	return false
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
