package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schemebot/internal/models"
)

func TestName_AcceptsAndCapitalizes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"priya sharma", "Priya Sharma"},
		{"PRIYA", "Priya"},
		{"  Anita  ", "Anita"},
		{"o'brien d'souza", "O'brien D'souza"},
		{"Jean-Luc", "Jean-luc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Name(tt.input)
			assert.Equal(t, OutcomeAccepted, result.Outcome)
			assert.Equal(t, tt.expected, result.Normalized)
		})
	}
}

func TestName_Rejected(t *testing.T) {
	tests := []string{"", "x", "xyz123", "12345", "a@b", "   "}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			result := Name(input)
			assert.Equal(t, OutcomeRejected, result.Outcome)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestGender(t *testing.T) {
	result := Gender("woman")
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, "Female", result.Normalized)

	result = Gender("M")
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, "Male", result.Normalized)

	result = Gender("purple")
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, models.ErrInvalidGender.Error(), result.Reason)
}

func TestAge(t *testing.T) {
	result := Age("25")
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, "25", result.Normalized)

	result = Age("I am twenty five years old")
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, "25", result.Normalized)

	result = Age("150")
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, models.ErrInvalidAge.Error(), result.Reason)

	result = Age("-5")
	assert.Equal(t, OutcomeRejected, result.Outcome)

	result = Age("around retirement")
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, "could not find an age in the answer", result.Reason)
}

func TestState(t *testing.T) {
	result := State("Karnataka")
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, "Karnataka", result.Normalized)

	result = State("mumbai")
	assert.Equal(t, OutcomeCorrected, result.Outcome)
	assert.Equal(t, "Maharashtra", result.Normalized)
	assert.Equal(t, "mumbai", result.Original)

	result = State("Maharastra")
	assert.Equal(t, OutcomeCorrected, result.Outcome)
	assert.Equal(t, "Maharashtra", result.Normalized)

	result = State("I grew up in Kerala and Karnataka")
	assert.Equal(t, OutcomeAmbiguous, result.Outcome)
	assert.Equal(t, []string{"Karnataka", "Kerala"}, result.Candidates)
	assert.NotEmpty(t, result.Reason)

	result = State("the moon")
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, models.ErrUnknownState.Error(), result.Reason)
}

func TestCheck_DispatchesByField(t *testing.T) {
	assert.Equal(t, OutcomeAccepted, Check(models.FieldName, "Asha").Outcome)
	assert.Equal(t, OutcomeAccepted, Check(models.FieldGender, "male").Outcome)
	assert.Equal(t, OutcomeAccepted, Check(models.FieldAge, "40").Outcome)
	assert.Equal(t, OutcomeAccepted, Check(models.FieldState, "Goa").Outcome)

	result := Check(models.Field("favorite_color"), "blue")
	assert.Equal(t, OutcomeRejected, result.Outcome)
}
