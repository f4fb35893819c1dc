package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndianStates_CoversStatesAndUnionTerritories(t *testing.T) {
	states := IndianStates()
	assert.Len(t, states, 36, "28 states plus 8 union territories")
	assert.Contains(t, states, "Maharashtra")
	assert.Contains(t, states, "Ladakh")
	assert.Contains(t, states, "Puducherry")
}

func TestIndianStates_ReturnsACopy(t *testing.T) {
	states := IndianStates()
	states[0] = "Atlantis"
	assert.NotContains(t, IndianStates(), "Atlantis")
}

func TestCanonicalState(t *testing.T) {
	tests := []struct {
		input     string
		canonical string
		ok        bool
	}{
		{"Kerala", "Kerala", true},
		{"kerala", "Kerala", true},
		{"TAMIL NADU", "Tamil Nadu", true},
		{"  Delhi  ", "Delhi", true},
		{"Bombay", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			canonical, ok := CanonicalState(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.canonical, canonical)
		})
	}
}

func TestIsIndianState(t *testing.T) {
	assert.True(t, IsIndianState("Goa"))
	assert.True(t, IsIndianState("jammu and kashmir"))
	assert.False(t, IsIndianState("Mumbai"), "cities are not states")
}

func TestValidateProfileForMatching(t *testing.T) {
	complete := func() *Profile {
		p := NewProfile()
		_ = p.Apply(FieldName, "Asha Nair", FieldStatusConfirmed)
		_ = p.Apply(FieldGender, "Female", FieldStatusConfirmed)
		_ = p.Apply(FieldAge, "30", FieldStatusConfirmed)
		_ = p.Apply(FieldState, "Kerala", FieldStatusConfirmed)
		return p
	}

	assert.NoError(t, ValidateProfileForMatching(complete()))

	assert.Error(t, ValidateProfileForMatching(nil), "a nil profile should not match")

	partial := NewProfile()
	_ = partial.Apply(FieldName, "Asha Nair", FieldStatusConfirmed)
	assert.Error(t, ValidateProfileForMatching(partial), "an incomplete profile should not match")

	badState := complete()
	badState.State = "Atlantis"
	assert.ErrorIs(t, ValidateProfileForMatching(badState), ErrUnknownState)
}
