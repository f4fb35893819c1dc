package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestScheme_ValidateIntegrity(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		wantErr string
	}{
		{"valid", Scheme{ID: "pmjdy", Name: "Jan Dhan"}, ""},
		{"valid with equal bounds", Scheme{ID: "s", Name: "S", MinAge: intPtr(18), MaxAge: intPtr(18)}, ""},
		{"missing id", Scheme{Name: "No ID"}, "missing id"},
		{"missing name", Scheme{ID: "x"}, "missing name"},
		{"inverted age range", Scheme{ID: "x", Name: "X", MinAge: intPtr(40), MaxAge: intPtr(18)}, "min_age is greater than max_age"},
		{"negative min age", Scheme{ID: "x", Name: "X", MinAge: intPtr(-1)}, "negative min_age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scheme.ValidateIntegrity()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScheme_ToSummary(t *testing.T) {
	scheme := &Scheme{
		ID:          "apy",
		Name:        "Atal Pension Yojana (APY)",
		Description: "Pension for the unorganised sector.",
		Category:    "Pension",
		Link:        "https://example.gov.in",
	}

	summary := scheme.ToSummary()

	assert.Equal(t, "apy", summary.ID)
	assert.Equal(t, "Atal Pension Yojana (APY)", summary.Name)
	assert.Equal(t, "Pension for the unorganised sector.", summary.Description)
	assert.Equal(t, "Pension", summary.Category)
}

func TestCatalogIntegrityError_NamesTheScheme(t *testing.T) {
	err := &CatalogIntegrityError{SchemeID: "ssy", Reason: "missing name"}
	assert.Equal(t, `scheme "ssy": missing name`, err.Error())
}

func TestAmbiguousMatchError_ListsCandidates(t *testing.T) {
	err := &AmbiguousMatchError{
		Field:      FieldState,
		Input:      "kerala and karnataka",
		Candidates: []string{"Karnataka", "Kerala"},
	}
	assert.Equal(t, `state "kerala and karnataka" is ambiguous between Karnataka and Kerala`, err.Error())
}
