package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"schemebot/internal/models"
)

func sampleRecommendation(id, name string, score float64) models.Recommendation {
	return models.Recommendation{
		Scheme: &models.Scheme{
			ID:          id,
			Name:        name,
			Description: "A scheme for testing.",
			Benefits:    []string{"A useful benefit"},
			HowToApply:  "Apply at the nearest office.",
			Link:        "https://example.gov.in/" + id,
		},
		RelevanceScore: score,
		Reasons:        []string{"Open to all ages"},
	}
}

func TestFormatRecommendations_Empty(t *testing.T) {
	text := FormatRecommendations(nil)
	assert.Contains(t, text, "couldn't find any schemes")
	assert.Contains(t, text, "restart")
}

func TestFormatRecommendations_ListsSchemes(t *testing.T) {
	text := FormatRecommendations([]models.Recommendation{
		sampleRecommendation("a", "Scheme Alpha", 0.91),
		sampleRecommendation("b", "Scheme Beta", 0.82),
	})

	assert.Contains(t, text, "found 2 government schemes")
	assert.Contains(t, text, "1. Scheme Alpha (91% match)")
	assert.Contains(t, text, "2. Scheme Beta (82% match)")
	assert.Contains(t, text, "Why you qualify: Open to all ages")
	assert.Contains(t, text, "Benefits: A useful benefit")
	assert.Contains(t, text, "How to apply: Apply at the nearest office.")
	assert.Contains(t, text, "More info: https://example.gov.in/a")
	assert.Contains(t, text, "say restart to begin again")
}

func TestFormatRecommendations_CapsTheList(t *testing.T) {
	names := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"}
	recommendations := make([]models.Recommendation, 0, len(names))
	for i, name := range names {
		recommendations = append(recommendations, sampleRecommendation(strings.ToLower(name), "Scheme "+name, 0.9-float64(i)*0.05))
	}

	text := FormatRecommendations(recommendations)

	assert.Contains(t, text, "found 7 government schemes")
	assert.Contains(t, text, "Scheme Five")
	assert.NotContains(t, text, "Scheme Six")
	assert.Contains(t, text, "showing the top 5 matches")
}

func TestFormatSchemeDetails_FullRecord(t *testing.T) {
	scheme := &models.Scheme{
		ID:                 "ssy",
		Name:               "Sukanya Samriddhi Yojana",
		Description:        "Savings scheme for the girl child.",
		Eligibility:        "Girl child below 10 years of age.",
		Benefits:           []string{"High interest rate", "Tax deduction"},
		DocumentsRequired:  []string{"Birth certificate"},
		HowToApply:         "Open an account at any post office.",
		ImplementingAgency: "Ministry of Finance",
		Link:               "https://example.gov.in/ssy",
	}

	text := formatSchemeDetails(scheme)

	assert.True(t, strings.HasPrefix(text, "Sukanya Samriddhi Yojana\n"))
	assert.Contains(t, text, "Eligibility: Girl child below 10 years of age.")
	assert.Contains(t, text, "- High interest rate")
	assert.Contains(t, text, "- Tax deduction")
	assert.Contains(t, text, "Documents required: Birth certificate")
	assert.Contains(t, text, "How to apply: Open an account at any post office.")
	assert.Contains(t, text, "Implementing agency: Ministry of Finance")
	assert.Contains(t, text, "More info: https://example.gov.in/ssy")
	assert.False(t, strings.HasSuffix(text, "\n"))
}

func TestFormatSchemeDetails_SparseRecord(t *testing.T) {
	text := formatSchemeDetails(&models.Scheme{ID: "x", Name: "Bare Scheme"})
	assert.Equal(t, "Bare Scheme", text)
}

func TestScorePercent(t *testing.T) {
	assert.Equal(t, 100, scorePercent(1.0))
	assert.Equal(t, 78, scorePercent(0.784))
	assert.Equal(t, 0, scorePercent(0))
}
