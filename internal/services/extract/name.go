// Package extract pulls profile values out of user messages, pattern
// first with a single oracle fallback per turn.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const nameWordPattern = `[\p{L}][\p{L}\p{M}'-]*`

var namePhrasePattern = nameWordPattern + `(?:\s+` + nameWordPattern + `){0,2}`

var namePatterns = buildNamePatterns()

var nameTextNormalizer = strings.NewReplacer(
	"’", "'", // right single quote
	"‘", "'", // left single quote
	"′", "'", // prime symbol
)

func buildNamePatterns() []*regexp.Regexp {
	name := namePhrasePattern
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is\s+(` + name + `)`),
		regexp.MustCompile(`(?i)i'?m\s+(` + name + `)(?:\s|,|\.|!|$)`),
		regexp.MustCompile(`(?i)i am\s+(` + name + `)(?:\s|,|\.|!|$)`),
		regexp.MustCompile(`(?i)this is\s+(` + name + `)`),
		regexp.MustCompile(`(?i)call me\s+(` + name + `)`),
		regexp.MustCompile(`(?i)it'?s\s+(` + name + `)(?:\s|,|\.|!|$)`),
		regexp.MustCompile(`(?i)name'?s\s+(` + name + `)`),
	}
}

// findName extracts a name from a message. Lead-in phrases like
// "my name is Priya" are tried first; a bare reply such as "Priya
// Sharma" is cleaned token by token.
func findName(message string) string {
	normalized := nameTextNormalizer.Replace(message)

	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(normalized)
		if len(match) < 2 {
			continue
		}
		if parts := extractNameParts(match[1]); len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	if parts := extractNameParts(normalized); len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	return ""
}

// extractNameParts keeps up to three plausible name words from raw
// text, stopping at the first non-name word once a name has begun
// ("Priya Sharma here" keeps two words).
func extractNameParts(raw string) []string {
	words := strings.Fields(strings.TrimSpace(raw))
	nameWords := make([]string, 0, 3)
	for _, word := range words {
		cleaned := cleanNameToken(word)
		if cleaned == "" {
			continue
		}
		if !looksLikeNameWord(cleaned) {
			if len(nameWords) > 0 {
				break
			}
			continue
		}
		nameWords = append(nameWords, capitalizeNameWord(cleaned))
		if len(nameWords) == 3 {
			break
		}
	}
	return nameWords
}

func cleanNameToken(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	word = strings.Trim(word, ".,!?\"()[]{}")
	word = strings.Trim(word, "'-")
	return word
}

func looksLikeNameWord(word string) bool {
	count := utf8.RuneCountInString(word)
	if count < 2 || count > 30 {
		return false
	}
	firstRune, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsLetter(firstRune) {
		return false
	}
	if isCommonWord(strings.ToLower(word)) {
		return false
	}
	return true
}

func capitalizeNameWord(word string) string {
	if word == "" {
		return ""
	}
	firstRune, size := utf8.DecodeRuneInString(word)
	if firstRune == utf8.RuneError || size == 0 {
		return word
	}
	return strings.ToUpper(string(firstRune)) + strings.ToLower(word[size:])
}

// isCommonWord checks if a word is a common English word that should
// not be treated as a name.
func isCommonWord(word string) bool {
	common := map[string]bool{
		"the": true, "and": true, "for": true, "are": true, "but": true,
		"not": true, "you": true, "all": true, "can": true, "her": true,
		"was": true, "one": true, "our": true, "out": true, "day": true,
		"had": true, "has": true, "his": true, "how": true, "its": true,
		"may": true, "new": true, "now": true, "old": true, "see": true,
		"way": true, "who": true, "boy": true, "did": true, "get": true,
		"let": true, "put": true, "say": true, "she": true, "too": true,
		"use": true, "yes": true, "no": true, "hi": true, "hey": true,
		"hello": true, "namaste": true,
		"thanks": true, "thank": true, "please": true, "ok": true, "okay": true,
		"sure": true, "good": true, "great": true, "fine": true, "well": true,
		"just": true, "like": true, "want": true, "need": true, "have": true,
		"name": true, "call": true, "called": true, "myself": true,
		"in": true, "on": true, "at": true, "to": true, "of": true, "is": true,
		"it": true, "an": true, "am": true, "as": true, "be": true, "by": true, "do": true,
		"if": true, "or": true, "so": true, "up": true, "we": true, "me": true,
		"my": true, "he": true,
		"about": true, "with": true, "from": true, "this": true, "that": true,
		"what": true, "when": true, "your": true, "some": true, "been": true,
		"were": true, "them": true, "then": true, "than": true, "also": true,
		"very": true, "more": true, "much": true, "here": true, "there": true,
		"where": true, "which": true, "their": true,
		"would": true, "could": true, "should": true, "will": true,
		"scheme": true, "schemes": true, "schemebot": true, "bot": true,
		"help": true, "find": true,
		"eligible": true, "government": true, "yojana": true,
		"male": true, "female": true, "other": true, "man": true, "woman": true,
		"years": true, "year": true, "age": true,
	}
	return common[word]
}
