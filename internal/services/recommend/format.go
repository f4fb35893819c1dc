package recommend

import (
	"fmt"
	"math"
	"strings"

	"schemebot/internal/models"
)

// maxDisplayed caps how many recommendations the chat reply lists in
// full. The remainder stays reachable through follow-up questions.
const maxDisplayed = 5

// FormatRecommendations renders the ranked recommendations as a chat
// reply.
func FormatRecommendations(recommendations []models.Recommendation) string {
	if len(recommendations) == 0 {
		return "I couldn't find any schemes that match your profile right now. " +
			"You can say restart to try with different details."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your information, I've found %d government schemes you might be eligible for:\n",
		len(recommendations))

	shown := recommendations
	if len(shown) > maxDisplayed {
		shown = shown[:maxDisplayed]
	}

	for i, rec := range shown {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d. %s (%d%% match)\n", i+1, rec.Scheme.Name, scorePercent(rec.RelevanceScore))
		if rec.Scheme.Description != "" {
			fmt.Fprintf(&b, "   %s\n", rec.Scheme.Description)
		}
		if len(rec.Reasons) > 0 {
			fmt.Fprintf(&b, "   Why you qualify: %s\n", strings.Join(rec.Reasons, "; "))
		}
		if len(rec.Scheme.Benefits) > 0 {
			fmt.Fprintf(&b, "   Benefits: %s\n", strings.Join(rec.Scheme.Benefits, "; "))
		}
		if rec.Scheme.HowToApply != "" {
			fmt.Fprintf(&b, "   How to apply: %s\n", rec.Scheme.HowToApply)
		}
		if rec.Scheme.Link != "" {
			fmt.Fprintf(&b, "   More info: %s\n", rec.Scheme.Link)
		}
	}

	if len(recommendations) > maxDisplayed {
		fmt.Fprintf(&b, "\nI'm showing the top %d matches. ", maxDisplayed)
		b.WriteString("Ask me about any scheme by name to see the rest in detail.\n")
	}

	b.WriteString("\nYou can ask me about any of these schemes by name, or say restart to begin again.")
	return b.String()
}

// formatSchemeDetails renders the full record of a single scheme.
func formatSchemeDetails(s *models.Scheme) string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString("\n")

	if s.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Description)
	}
	if s.Eligibility != "" {
		fmt.Fprintf(&b, "\nEligibility: %s\n", s.Eligibility)
	}
	if len(s.Benefits) > 0 {
		b.WriteString("\nBenefits:\n")
		for _, benefit := range s.Benefits {
			fmt.Fprintf(&b, "- %s\n", benefit)
		}
	}
	if len(s.DocumentsRequired) > 0 {
		fmt.Fprintf(&b, "\nDocuments required: %s\n", strings.Join(s.DocumentsRequired, ", "))
	}
	if s.HowToApply != "" {
		fmt.Fprintf(&b, "\nHow to apply: %s\n", s.HowToApply)
	}
	if s.ImplementingAgency != "" {
		fmt.Fprintf(&b, "\nImplementing agency: %s\n", s.ImplementingAgency)
	}
	if s.Link != "" {
		fmt.Fprintf(&b, "\nMore info: %s", s.Link)
	}

	return strings.TrimRight(b.String(), "\n")
}

func scorePercent(score float64) int {
	return int(math.Round(score * 100))
}
