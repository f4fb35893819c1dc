// Package models defines the data structures for SchemeBot.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrInvalidName   = errors.New("name must be at least 2 letters")
	ErrInvalidGender = errors.New("gender must be male, female, or other")
	ErrInvalidAge    = errors.New("age must be between 0 and 120")
	ErrUnknownState  = errors.New("not a recognized Indian state or union territory")
	ErrEmptyCatalog  = errors.New("no usable scheme records in catalog")
)

// CatalogIntegrityError reports a scheme record that cannot be used
// for matching. Records carrying this error are excluded at load time;
// loading fails only when every record is excluded.
type CatalogIntegrityError struct {
	SchemeID string
	Reason   string
}

func (e *CatalogIntegrityError) Error() string {
	return fmt.Sprintf("scheme %q: %s", e.SchemeID, e.Reason)
}

// AmbiguousMatchError reports an input that normalized equally well to
// more than one canonical value. It drives a disambiguation question
// rather than a rejection.
type AmbiguousMatchError struct {
	Field      Field
	Input      string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s %q is ambiguous between %s",
		e.Field, e.Input, strings.Join(e.Candidates, " and "))
}

// ValidateProfileForMatching checks that a profile is complete and
// carries values matching can rely on.
func ValidateProfileForMatching(p *Profile) error {
	if p == nil || !p.Complete() {
		return errors.New("profile is not fully confirmed")
	}

	if !p.Gender.IsValid() {
		return ErrInvalidGender
	}

	if p.Age < 0 || p.Age > 120 {
		return ErrInvalidAge
	}

	if !IsIndianState(p.State) {
		return fmt.Errorf("%q: %w", p.State, ErrUnknownState)
	}

	return nil
}
