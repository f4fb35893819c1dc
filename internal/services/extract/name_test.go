package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindName_LeadInPhrases(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My name is Priya", "Priya"},
		{"my name is priya sharma", "Priya Sharma"},
		{"I'm Rahul", "Rahul"},
		{"I am Anita Desai", "Anita Desai"},
		{"This is Vikram", "Vikram"},
		{"Call me Ishaan", "Ishaan"},
		{"It's Meera", "Meera"},
		{"Name's Arjun", "Arjun"},
		{"Hello, my name is Kavya and I need help", "Kavya"},
		{"my name is Zoë", "Zoë"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, findName(tt.input))
		})
	}
}

func TestFindName_BareReplies(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Anita Desai", "Anita Desai"},
		{"priya", "Priya"},
		{"Ravi Kumar here", "Ravi Kumar"},
		{"hello", ""},
		{"yes please", ""},
		{"i am 25", ""},
		{"ok", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, findName(tt.input))
		})
	}
}

func TestFindName_CapsAtThreeWords(t *testing.T) {
	assert.Equal(t, "Anil Kumar Gupta", findName("my name is Anil Kumar Gupta"))
}
