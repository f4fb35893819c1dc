// Package models defines the data structures for SchemeBot.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Gender represents the gender of a user.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// GenderOptions returns all valid gender values.
func GenderOptions() []Gender {
	return []Gender{
		GenderMale,
		GenderFemale,
		GenderOther,
	}
}

// IsValid checks if the gender is valid.
func (g Gender) IsValid() bool {
	for _, valid := range GenderOptions() {
		if g == valid {
			return true
		}
	}
	return false
}

// Field identifies one profile field collected during the conversation.
type Field string

const (
	FieldName   Field = "name"
	FieldGender Field = "gender"
	FieldAge    Field = "age"
	FieldState  Field = "state"
)

// FieldOrder returns the fields in the order they are collected.
// The order is fixed; a field is only asked once all earlier fields
// are confirmed.
func FieldOrder() []Field {
	return []Field{
		FieldName,
		FieldGender,
		FieldAge,
		FieldState,
	}
}

// FieldStatus tracks how far a profile field has progressed.
type FieldStatus string

const (
	FieldStatusUnset     FieldStatus = "unset"
	FieldStatusPending   FieldStatus = "pending_confirmation"
	FieldStatusConfirmed FieldStatus = "confirmed"
)

// Profile holds the user information collected during a conversation.
type Profile struct {
	Name   string
	Gender Gender
	Age    int
	State  string

	statuses map[Field]FieldStatus
}

// NewProfile returns an empty profile with all fields unset.
func NewProfile() *Profile {
	return &Profile{
		statuses: map[Field]FieldStatus{
			FieldName:   FieldStatusUnset,
			FieldGender: FieldStatusUnset,
			FieldAge:    FieldStatusUnset,
			FieldState:  FieldStatusUnset,
		},
	}
}

// Status returns the collection status of a field.
func (p *Profile) Status(f Field) FieldStatus {
	if p.statuses == nil {
		return FieldStatusUnset
	}
	if s, ok := p.statuses[f]; ok {
		return s
	}
	return FieldStatusUnset
}

// Apply stores a normalized value for a field with the given status.
// Values arrive as strings from the validator; age is converted here.
func (p *Profile) Apply(f Field, normalized string, status FieldStatus) error {
	switch f {
	case FieldName:
		p.Name = normalized
	case FieldGender:
		g := Gender(normalized)
		if !g.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidGender, normalized)
		}
		p.Gender = g
	case FieldAge:
		age, err := strconv.Atoi(normalized)
		if err != nil {
			return fmt.Errorf("invalid age value %q: %w", normalized, err)
		}
		if age < 0 || age > 120 {
			return ErrInvalidAge
		}
		p.Age = age
	case FieldState:
		p.State = normalized
	default:
		return fmt.Errorf("unknown profile field %q", f)
	}

	if p.statuses == nil {
		p.statuses = make(map[Field]FieldStatus)
	}
	p.statuses[f] = status
	return nil
}

// Confirm marks a field as confirmed without changing its value.
func (p *Profile) Confirm(f Field) {
	if p.statuses == nil {
		p.statuses = make(map[Field]FieldStatus)
	}
	p.statuses[f] = FieldStatusConfirmed
}

// Clear resets a field to unset and zeroes its value.
func (p *Profile) Clear(f Field) {
	switch f {
	case FieldName:
		p.Name = ""
	case FieldGender:
		p.Gender = ""
	case FieldAge:
		p.Age = 0
	case FieldState:
		p.State = ""
	}
	if p.statuses == nil {
		p.statuses = make(map[Field]FieldStatus)
	}
	p.statuses[f] = FieldStatusUnset
}

// NextUnconfirmed returns the first field in collection order that is
// not yet confirmed, and false when every field is confirmed.
func (p *Profile) NextUnconfirmed() (Field, bool) {
	for _, f := range FieldOrder() {
		if p.Status(f) != FieldStatusConfirmed {
			return f, true
		}
	}
	return "", false
}

// Complete reports whether every profile field is confirmed.
func (p *Profile) Complete() bool {
	_, remaining := p.NextUnconfirmed()
	return !remaining
}

// FieldValue returns the display value of a field, or "" when unset.
func (p *Profile) FieldValue(f Field) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldGender:
		return string(p.Gender)
	case FieldAge:
		if p.Status(FieldAge) == FieldStatusUnset {
			return ""
		}
		return strconv.Itoa(p.Age)
	case FieldState:
		return p.State
	}
	return ""
}

// ProfileSummary is a snapshot of a profile for API responses.
type ProfileSummary struct {
	Name         string      `json:"name,omitempty"`
	Gender       Gender      `json:"gender,omitempty"`
	Age          int         `json:"age,omitempty"`
	State        string      `json:"state,omitempty"`
	NameStatus   FieldStatus `json:"name_status"`
	GenderStatus FieldStatus `json:"gender_status"`
	AgeStatus    FieldStatus `json:"age_status"`
	StateStatus  FieldStatus `json:"state_status"`
	Complete     bool        `json:"complete"`
}

// ToSummary converts a Profile to ProfileSummary.
func (p *Profile) ToSummary() ProfileSummary {
	return ProfileSummary{
		Name:         p.Name,
		Gender:       p.Gender,
		Age:          p.Age,
		State:        p.State,
		NameStatus:   p.Status(FieldName),
		GenderStatus: p.Status(FieldGender),
		AgeStatus:    p.Status(FieldAge),
		StateStatus:  p.Status(FieldState),
		Complete:     p.Complete(),
	}
}

// genderAliases maps common gender spellings to standard values.
// Ordered so that tokens are checked before their own substrings
// ("female" before "male", "woman" before "man").
var genderAliases = []struct {
	token  string
	gender Gender
}{
	{"non-binary", GenderOther},
	{"nonbinary", GenderOther},
	{"transgender", GenderOther},
	{"trans", GenderOther},
	{"third gender", GenderOther},
	{"prefer not to say", GenderOther},
	{"other", GenderOther},
	{"female", GenderFemale},
	{"woman", GenderFemale},
	{"girl", GenderFemale},
	{"lady", GenderFemale},
	{"ladki", GenderFemale},
	{"mahila", GenderFemale},
	{"aurat", GenderFemale},
	{"male", GenderMale},
	{"man", GenderMale},
	{"boy", GenderMale},
	{"guy", GenderMale},
	{"ladka", GenderMale},
	{"purush", GenderMale},
}

// NormalizeGender converts common gender spellings to standard values.
func NormalizeGender(s string) Gender {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case "m":
		return GenderMale
	case "f":
		return GenderFemale
	case "o":
		return GenderOther
	}

	for _, alias := range genderAliases {
		if normalized == alias.token {
			return alias.gender
		}
	}

	// Longer phrases like "i am a man" still carry a usable token.
	// Single-word aliases must match a whole token so that names like
	// "Manpreet" are not read as a gender.
	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
	for _, alias := range genderAliases {
		if strings.Contains(alias.token, " ") {
			if strings.Contains(normalized, alias.token) {
				return alias.gender
			}
			continue
		}
		for _, token := range tokens {
			if token == alias.token {
				return alias.gender
			}
		}
	}

	// Return as-is if no mapping found (will fail validation)
	return Gender(normalized)
}
