// Package extract pulls profile values out of user messages, pattern
// first with a single oracle fallback per turn.
package extract

import (
	"errors"
	"strconv"
	"strings"

	"schemebot/internal/models"
	"schemebot/internal/normalize"
)

// patternExtract runs the local pattern pass for a field. The oracle
// is only consulted when every pattern misses.
//
// State candidates stay as the raw answer on a hit; the validator
// re-runs normalization so alias and fuzzy matches keep their
// corrected status and trigger a confirmation.
func patternExtract(field models.Field, message string) (string, bool) {
	switch field {
	case models.FieldName:
		if name := findName(message); name != "" {
			return name, true
		}
	case models.FieldGender:
		if g := models.NormalizeGender(message); g.IsValid() {
			return string(g), true
		}
	case models.FieldAge:
		if n, ok := normalize.FindNumber(message); ok {
			return strconv.Itoa(n), true
		}
	case models.FieldState:
		_, err := normalize.MatchState(message)
		if err == nil {
			return strings.TrimSpace(message), true
		}
		// An ambiguous answer still carries state content; the
		// validator surfaces the choices to pick from.
		var ambiguous *models.AmbiguousMatchError
		if errors.As(err, &ambiguous) {
			return strings.TrimSpace(message), true
		}
	}
	return "", false
}
