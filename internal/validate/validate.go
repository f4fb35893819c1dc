// Package validate checks extracted profile values and normalizes
// them to canonical form.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"schemebot/internal/models"
	"schemebot/internal/normalize"
)

// Outcome classifies a validation result.
type Outcome string

const (
	// OutcomeAccepted means the value is usable as-is after canonical
	// formatting.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeCorrected means the value was changed beyond formatting;
	// the user should confirm it before it is relied on.
	OutcomeCorrected Outcome = "corrected"
	// OutcomeRejected means the value is unusable and must be re-asked.
	OutcomeRejected Outcome = "rejected"
	// OutcomeAmbiguous means the value matched more than one canonical
	// candidate equally well; the user must pick one.
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Result carries the outcome of validating one candidate value.
type Result struct {
	Outcome    Outcome
	Normalized string
	Original   string
	Reason     string
	Candidates []string
}

var namePattern = regexp.MustCompile(`^[\p{L}][\p{L} '\-]*$`)

// Check validates a candidate value for the given field.
func Check(field models.Field, candidate string) Result {
	switch field {
	case models.FieldName:
		return Name(candidate)
	case models.FieldGender:
		return Gender(candidate)
	case models.FieldAge:
		return Age(candidate)
	case models.FieldState:
		return State(candidate)
	}
	return Result{Outcome: OutcomeRejected, Reason: "unknown field"}
}

// Name validates and normalizes a name.
func Name(candidate string) Result {
	name := strings.TrimSpace(candidate)
	if len([]rune(name)) < 2 {
		return Result{Outcome: OutcomeRejected, Reason: models.ErrInvalidName.Error()}
	}
	if !namePattern.MatchString(name) {
		return Result{
			Outcome: OutcomeRejected,
			Reason:  "name may only contain letters, spaces, hyphens and apostrophes",
		}
	}

	words := strings.Fields(name)
	for i, word := range words {
		words[i] = capitalizeWord(word)
	}

	return Result{Outcome: OutcomeAccepted, Normalized: strings.Join(words, " ")}
}

// Gender validates and normalizes a gender answer via the alias map.
// No fuzzy matching; anything the map does not recognize is rejected.
func Gender(candidate string) Result {
	g := models.NormalizeGender(candidate)
	if !g.IsValid() {
		return Result{Outcome: OutcomeRejected, Reason: models.ErrInvalidGender.Error()}
	}
	return Result{Outcome: OutcomeAccepted, Normalized: string(g)}
}

// Age validates and normalizes an age answer. Digits and spelled-out
// numbers are both accepted; out-of-range values are rejected.
func Age(candidate string) Result {
	age, err := normalize.ParseAge(candidate)
	if err != nil {
		if errors.Is(err, models.ErrInvalidAge) {
			return Result{Outcome: OutcomeRejected, Reason: models.ErrInvalidAge.Error()}
		}
		return Result{Outcome: OutcomeRejected, Reason: "could not find an age in the answer"}
	}
	return Result{Outcome: OutcomeAccepted, Normalized: strconv.Itoa(age)}
}

// State validates and normalizes a state answer. Alias and fuzzy
// matches come back as corrections so the user can confirm them.
func State(candidate string) Result {
	match, err := normalize.MatchState(candidate)
	if err != nil {
		var ambiguous *models.AmbiguousMatchError
		if errors.As(err, &ambiguous) {
			return Result{
				Outcome:    OutcomeAmbiguous,
				Original:   candidate,
				Reason:     ambiguous.Error(),
				Candidates: ambiguous.Candidates,
			}
		}
		return Result{Outcome: OutcomeRejected, Reason: models.ErrUnknownState.Error()}
	}

	if match.Corrected {
		return Result{
			Outcome:    OutcomeCorrected,
			Normalized: match.State,
			Original:   match.Input,
		}
	}
	return Result{Outcome: OutcomeAccepted, Normalized: match.State}
}

func capitalizeWord(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return word
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
