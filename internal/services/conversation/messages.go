package conversation

import (
	"fmt"
	"strings"

	"schemebot/internal/models"
)

// All bot-facing strings live here so the wording stays in one place.
const (
	msgGreeting = "Hello! I'm SchemeBot, your assistant for finding Indian government schemes " +
		"you may be eligible for. To provide personalized recommendations, I need to ask you a few questions."

	msgAskName   = "Please tell me your name."
	msgAskGender = "Are you male, female, or other?"
	msgAskAge    = "What is your age?"
	msgAskState  = "Which state in India do you live in?"

	msgThankYou = "Thank you for providing all the information! " +
		"Let me find some schemes that might be relevant for you."

	msgRetryName   = "I'm having trouble understanding your name. Could you please tell me your name again?"
	msgRetryGender = "I'm having trouble understanding your gender. Please specify if you are male, female, or other."
	msgRetryAge    = "I'm having trouble understanding your age. Please provide your age in years."
	msgRetryState  = "I'm having trouble understanding your state. Please specify which state or union territory in India you live in."

	msgExpired = "It's been a while since we last spoke, so I've started a fresh conversation."

	msgMatchedFallback = "You can ask me about any of the schemes I listed by name, " +
		"or say restart to search again with different details."

	msgYoureWelcome = "You're welcome! I hope the schemes are useful. " +
		"You can ask me about any of them by name, or say restart to search again."

	msgFallback = "I'm not sure how to respond to that. Can you please try rephrasing your question?"
)

func fieldQuestion(f models.Field) string {
	switch f {
	case models.FieldName:
		return msgAskName
	case models.FieldGender:
		return msgAskGender
	case models.FieldAge:
		return msgAskAge
	case models.FieldState:
		return msgAskState
	}
	return "Please provide the requested information."
}

// retryPrompt re-asks a field after a rejected answer. A concrete
// rejection reason is surfaced; otherwise the generic per-field retry
// wording is used.
func retryPrompt(f models.Field, reason string) string {
	if reason != "" {
		return fmt.Sprintf("Sorry, %s. %s", reason, fieldQuestion(f))
	}
	switch f {
	case models.FieldName:
		return msgRetryName
	case models.FieldGender:
		return msgRetryGender
	case models.FieldAge:
		return msgRetryAge
	case models.FieldState:
		return msgRetryState
	}
	return msgFallback
}

// confirmCorrection asks the user to confirm a value the validator
// changed beyond simple formatting.
func confirmCorrection(normalized string) string {
	return fmt.Sprintf("Did you mean %s? (yes/no)", normalized)
}

// confirmPending asks the user to confirm a value picked up in passing
// from an earlier message, once that field's turn arrives.
func confirmPending(f models.Field, value string) string {
	switch f {
	case models.FieldName:
		return fmt.Sprintf("I think you said your name is %s. Is that right? (yes/no)", value)
	case models.FieldGender:
		return fmt.Sprintf("I think you mentioned you are %s. Is that right? (yes/no)", strings.ToLower(value))
	case models.FieldAge:
		return fmt.Sprintf("I think you mentioned your age is %s. Is that right? (yes/no)", value)
	case models.FieldState:
		return fmt.Sprintf("I think you mentioned you live in %s. Is that right? (yes/no)", value)
	}
	return confirmCorrection(value)
}

// enumeratedPrompt switches a field to closed choices after repeated
// failed answers. Fields with a finite value set return the options the
// user can answer by number.
func enumeratedPrompt(f models.Field) (string, []string) {
	switch f {
	case models.FieldName:
		return "Let's try once more. Please type just your name, for example Priya Sharma.", nil
	case models.FieldAge:
		return "Let's try once more. Please enter your age in digits, for example 25.", nil
	case models.FieldGender:
		options := make([]string, 0, len(models.GenderOptions()))
		for _, g := range models.GenderOptions() {
			options = append(options, string(g))
		}
		return numberedPrompt("Let me make this easier. Please reply with the number that matches your gender:", options), options
	case models.FieldState:
		options := models.IndianStates()
		return numberedPrompt("Let me make this easier. Please reply with the number next to your state or union territory:", options), options
	}
	return msgFallback, nil
}

// disambiguationPrompt lists equally close state matches for the user
// to pick from.
func disambiguationPrompt(candidates []string) string {
	return numberedPrompt("I couldn't tell which state you meant. Please reply with the number or the full name:", candidates)
}

func numberedPrompt(lead string, options []string) string {
	var b strings.Builder
	b.WriteString(lead)
	for i, option := range options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, option)
	}
	return b.String()
}
