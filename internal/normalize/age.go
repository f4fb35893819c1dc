// Package normalize resolves free-form user answers to canonical
// profile values.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"schemebot/internal/models"
)

var agePattern = regexp.MustCompile(`-?\d+`)

// ageWords covers spelled-out ages up to one hundred twenty.
var ageWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	"hundred": 100,
}

// ParseAge extracts an age in years from free-form text. Digits win
// over words, so "I am 25 years old" and "twenty five" both resolve.
// Values outside 0..120 come back as models.ErrInvalidAge.
func ParseAge(input string) (int, error) {
	age, ok := FindNumber(input)
	if !ok {
		return 0, fmt.Errorf("no age found in %q", strings.TrimSpace(input))
	}
	return checkAgeRange(age)
}

// FindNumber locates the first number in free-form text, spelled out
// or in digits, without judging its range.
func FindNumber(input string) (int, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, false
	}

	if match := agePattern.FindString(trimmed); match != "" {
		if n, err := strconv.Atoi(match); err == nil {
			return n, true
		}
	}

	return parseAgeWords(trimmed)
}

func checkAgeRange(age int) (int, error) {
	if age < 0 || age > 120 {
		return 0, fmt.Errorf("%d: %w", age, models.ErrInvalidAge)
	}
	return age, nil
}

// parseAgeWords accumulates a run of number words, skipping lead-in
// words and stopping once the run ends ("i am twenty five years old").
func parseAgeWords(input string) (int, bool) {
	cleaned := strings.ToLower(input)
	cleaned = strings.ReplaceAll(cleaned, "-", " ")

	total := 0
	matched := false
	for _, word := range strings.Fields(cleaned) {
		word = strings.Trim(word, ".,!?")
		if word == "and" && matched {
			continue
		}
		value, ok := ageWords[word]
		if !ok {
			if matched {
				break
			}
			continue
		}
		if word == "hundred" {
			if total == 0 {
				total = 1
			}
			total *= 100
		} else {
			total += value
		}
		matched = true
	}

	if !matched {
		return 0, false
	}
	return total, true
}
