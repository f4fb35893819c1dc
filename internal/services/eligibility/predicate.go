// Package eligibility compiles scheme records into directly evaluable
// predicates.
package eligibility

import (
	"schemebot/internal/models"
)

// Predicate is the compiled form of a scheme's eligibility rules.
// A facet the record does not restrict is open: unparseable rules
// widen to "everyone", they never narrow to "no one".
type Predicate struct {
	SchemeID   string
	MinAge     int
	MaxAge     int
	AllGenders bool
	Genders    map[models.Gender]bool
	AllStates  bool
	States     map[string]bool
	IncomeTags []string
}

// Admits applies the hard filter. A profile outside the age range, or
// with a gender or state the scheme does not cover, is excluded from
// scoring entirely.
func (p *Predicate) Admits(profile *models.Profile) bool {
	if profile == nil {
		return false
	}
	if profile.Age < p.MinAge || profile.Age > p.MaxAge {
		return false
	}
	if !p.AllGenders && !p.Genders[profile.Gender] {
		return false
	}
	if !p.AllStates && !p.States[profile.State] {
		return false
	}
	return true
}

// MinRestricted reports whether the scheme narrows the lower age bound.
func (p *Predicate) MinRestricted() bool {
	return p.MinAge > defaultMinAge
}

// MaxRestricted reports whether the scheme narrows the upper age bound.
func (p *Predicate) MaxRestricted() bool {
	return p.MaxAge < defaultMaxAge
}

// AgeRestricted reports whether the scheme narrows the age range at
// either end.
func (p *Predicate) AgeRestricted() bool {
	return p.MinRestricted() || p.MaxRestricted()
}

// Specificity counts how many of the three facets the scheme
// restricts. Schemes narrowing two or more earn a small score bonus.
func (p *Predicate) Specificity() int {
	count := 0
	if p.AgeRestricted() {
		count++
	}
	if !p.AllGenders {
		count++
	}
	if !p.AllStates {
		count++
	}
	return count
}
