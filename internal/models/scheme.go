// Package models defines the data structures for SchemeBot.
package models

// Scheme represents a government welfare scheme in the catalog.
//
// Structured eligibility facets (age bounds, genders, states) may be
// absent; the eligibility compiler falls back to mining the free-text
// Eligibility summary, and finally to permissive defaults.
type Scheme struct {
	ID                 string   `json:"id" db:"id"`
	Name               string   `json:"name" db:"name"`
	Description        string   `json:"description" db:"description"`
	Eligibility        string   `json:"eligibility" db:"eligibility"`
	MinAge             *int     `json:"min_age,omitempty" db:"min_age"`
	MaxAge             *int     `json:"max_age,omitempty" db:"max_age"`
	Genders            []string `json:"genders,omitempty" db:"genders"`
	States             []string `json:"states,omitempty" db:"states"`
	IncomeTags         []string `json:"income_tags,omitempty" db:"income_tags"`
	Benefits           []string `json:"benefits,omitempty" db:"benefits"`
	HowToApply         string   `json:"how_to_apply,omitempty" db:"how_to_apply"`
	DocumentsRequired  []string `json:"documents_required,omitempty" db:"documents_required"`
	Link               string   `json:"link,omitempty" db:"link"`
	Category           string   `json:"category,omitempty" db:"category"`
	ImplementingAgency string   `json:"implementing_agency,omitempty" db:"implementing_agency"`
}

// SchemeSummary is a lightweight view of a scheme for listings.
type SchemeSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// ToSummary converts a Scheme to SchemeSummary.
func (s *Scheme) ToSummary() SchemeSummary {
	return SchemeSummary{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
	}
}

// ValidateIntegrity checks that a scheme record is usable for matching.
func (s *Scheme) ValidateIntegrity() error {
	if s.ID == "" {
		return &CatalogIntegrityError{SchemeID: s.ID, Reason: "missing id"}
	}
	if s.Name == "" {
		return &CatalogIntegrityError{SchemeID: s.ID, Reason: "missing name"}
	}
	if s.MinAge != nil && s.MaxAge != nil && *s.MinAge > *s.MaxAge {
		return &CatalogIntegrityError{
			SchemeID: s.ID,
			Reason:   "min_age is greater than max_age",
		}
	}
	if s.MinAge != nil && *s.MinAge < 0 {
		return &CatalogIntegrityError{SchemeID: s.ID, Reason: "negative min_age"}
	}
	return nil
}
