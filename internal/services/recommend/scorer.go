package recommend

import (
	"fmt"

	"schemebot/internal/models"
	"schemebot/internal/services/eligibility"
)

const (
	ageWeight    = 0.40
	genderWeight = 0.30
	stateWeight  = 0.30

	// openFit is credited to a gender or state facet the scheme leaves
	// open to everyone.
	openFit = 0.7

	// ageFitFloor is the age fit at the exact bounds of the range.
	ageFitFloor = 0.5

	// specificityBonus rewards schemes that restrict at least two of
	// the three facets.
	specificityBonus = 0.05
)

// scoreScheme computes the relevance score and the ordered explanation
// list for a profile the predicate has already admitted.
func scoreScheme(profile *models.Profile, pred *eligibility.Predicate) (float64, []string) {
	reasons := make([]string, 0, 4)

	// Age component (40% weight)
	score := ageWeight * ageFit(profile.Age, pred)
	reasons = append(reasons, ageReason(profile.Age, pred))

	// Gender component (30% weight)
	if pred.AllGenders {
		score += genderWeight * openFit
		reasons = append(reasons, "Open to applicants of any gender")
	} else {
		score += genderWeight
		reasons = append(reasons, fmt.Sprintf("Designed for %s beneficiaries", beneficiaryGender(profile, pred)))
	}

	// State component (30% weight)
	if pred.AllStates {
		score += stateWeight * openFit
		reasons = append(reasons, "Available across all states in India")
	} else {
		score += stateWeight
		reasons = append(reasons, fmt.Sprintf("Available in %s", profile.State))
	}

	if pred.Specificity() >= 2 {
		score += specificityBonus
		reasons = append(reasons, "Targets a specific group of beneficiaries")
	}

	if score > 1.0 {
		score = 1.0
	}

	return score, reasons
}

// ageFit grades how comfortably an age sits inside the predicate's
// range. The inner two-thirds of the range scores 1.0; outside it the
// fit decays linearly to ageFitFloor at the exact bounds.
func ageFit(age int, pred *eligibility.Predicate) float64 {
	if pred.MinAge >= pred.MaxAge {
		return 1.0
	}

	span := float64(pred.MaxAge - pred.MinAge)
	margin := span / 6
	lower := float64(pred.MinAge) + margin
	upper := float64(pred.MaxAge) - margin

	a := float64(age)
	switch {
	case a < lower:
		return ageFitFloor + (1-ageFitFloor)*(a-float64(pred.MinAge))/margin
	case a > upper:
		return ageFitFloor + (1-ageFitFloor)*(float64(pred.MaxAge)-a)/margin
	default:
		return 1.0
	}
}

func ageReason(age int, pred *eligibility.Predicate) string {
	switch {
	case pred.MinRestricted() && pred.MaxRestricted():
		return fmt.Sprintf("Age %d is within the eligible range (%d-%d)", age, pred.MinAge, pred.MaxAge)
	case pred.MinRestricted():
		return fmt.Sprintf("Age %d meets the minimum age requirement of %d", age, pred.MinAge)
	case pred.MaxRestricted():
		return fmt.Sprintf("Age %d is within the age limit of %d", age, pred.MaxAge)
	default:
		return "Open to all ages"
	}
}

// beneficiaryGender names the group a gender-restricted scheme targets.
// Single-gender schemes name that gender; the rare multi-gender scheme
// falls back to the profile's own gender, which is known to be in the
// set once the predicate admits the profile.
func beneficiaryGender(profile *models.Profile, pred *eligibility.Predicate) models.Gender {
	if len(pred.Genders) == 1 {
		for g := range pred.Genders {
			return g
		}
	}
	return profile.Gender
}
