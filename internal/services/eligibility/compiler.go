// Package eligibility compiles scheme records into directly evaluable
// predicates.
package eligibility

import (
	"regexp"
	"strconv"
	"strings"

	"schemebot/internal/models"
)

// Default age bounds applied when a record restricts neither end.
const (
	defaultMinAge = 0
	defaultMaxAge = 120
)

var (
	ageRangePattern   = regexp.MustCompile(`(\d+)\s*(?:-|–|—|to)\s*(\d+)`)
	ageBetweenPattern = regexp.MustCompile(`between\s+(\d+)\s+and\s+(\d+)`)
	ageMinPattern     = regexp.MustCompile(`(?:above|over|at least|minimum(?:\s+age)?(?:\s+of)?)\s+(\d+)|(\d+)\s*(?:years?)?\s*(?:and|or|\+)\s*above|(\d+)\s*\+`)
	ageMaxPattern     = regexp.MustCompile(`(?:below|under|up\s*to|maximum(?:\s+age)?(?:\s+of)?)\s+(\d+)`)
	ageYearsPattern   = regexp.MustCompile(`(\d+)\s+years?`)

	femalePattern = regexp.MustCompile(`\b(?:women|woman|female|girls?|mothers?|widows?|daughters?)\b`)
	malePattern   = regexp.MustCompile(`\b(?:men|man|male|boys?)\b`)
	otherPattern  = regexp.MustCompile(`\b(?:transgender|third gender)\b`)
)

// Compile turns a scheme record into a predicate. It is pure and
// deterministic: no I/O, and the same record always compiles to the
// same predicate, so memoized duplicates are interchangeable.
//
// Structured facets win; facets the record leaves empty are mined
// from the free-text eligibility summary; anything still unresolved
// stays open.
func Compile(s *models.Scheme) *Predicate {
	p := &Predicate{
		SchemeID: s.ID,
		MinAge:   defaultMinAge,
		MaxAge:   defaultMaxAge,
	}

	text := strings.ToLower(s.Eligibility)

	compileAge(p, s, text)
	compileGenders(p, s, text)
	compileStates(p, s, text)

	for _, tag := range s.IncomeTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && tag != "all" {
			p.IncomeTags = append(p.IncomeTags, tag)
		}
	}

	return p
}

func compileAge(p *Predicate, s *models.Scheme, text string) {
	if s.MinAge != nil || s.MaxAge != nil {
		if s.MinAge != nil {
			p.MinAge = *s.MinAge
		}
		if s.MaxAge != nil {
			p.MaxAge = *s.MaxAge
		}
		return
	}

	if min, max, ok := mineAgeRange(text); ok {
		p.MinAge = min
		p.MaxAge = max
	}
}

// mineAgeRange extracts age bounds from free-text eligibility rules
// such as "between 18 and 40 years" or "60 and above".
func mineAgeRange(text string) (int, int, bool) {
	if text == "" {
		return 0, 0, false
	}

	if strings.Contains(text, "all age") || strings.Contains(text, "everyone") ||
		strings.Contains(text, "any age") {
		return defaultMinAge, defaultMaxAge, true
	}

	if m := ageBetweenPattern.FindStringSubmatch(text); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}
	if m := ageRangePattern.FindStringSubmatch(text); m != nil {
		return atoi(m[1]), atoi(m[2]), true
	}

	min, max := defaultMinAge, defaultMaxAge
	found := false

	if m := ageMinPattern.FindStringSubmatch(text); m != nil {
		for _, group := range m[1:] {
			if group != "" {
				min = atoi(group)
				found = true
				break
			}
		}
	}
	if m := ageMaxPattern.FindStringSubmatch(text); m != nil {
		max = atoi(m[1])
		found = true
	}

	if !found {
		if strings.Contains(text, "senior citizen") {
			return 60, defaultMaxAge, true
		}
		if strings.Contains(text, "adult") {
			return 18, defaultMaxAge, true
		}
		if m := ageYearsPattern.FindStringSubmatch(text); m != nil {
			// A lone "18 years" reads as a minimum.
			return atoi(m[1]), defaultMaxAge, true
		}
		return 0, 0, false
	}

	return min, max, true
}

func compileGenders(p *Predicate, s *models.Scheme, text string) {
	set := make(map[models.Gender]bool)

	for _, raw := range s.Genders {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "all") || strings.EqualFold(trimmed, "any") {
			p.AllGenders = true
			return
		}
		if g := models.NormalizeGender(trimmed); g.IsValid() {
			set[g] = true
		}
	}

	if len(set) == 0 {
		set = mineGenders(text)
	}

	if len(set) == 0 {
		p.AllGenders = true
		return
	}
	p.Genders = set
}

func mineGenders(text string) map[models.Gender]bool {
	if text == "" {
		return nil
	}
	set := make(map[models.Gender]bool)
	if femalePattern.MatchString(text) {
		set[models.GenderFemale] = true
	}
	if malePattern.MatchString(text) {
		set[models.GenderMale] = true
	}
	if otherPattern.MatchString(text) {
		set[models.GenderOther] = true
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func compileStates(p *Predicate, s *models.Scheme, text string) {
	set := make(map[string]bool)
	excluded := make(map[string]bool)

	for _, raw := range s.States {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		lower := strings.ToLower(entry)

		switch lower {
		case "all", "all states", "all india", "pan india", "rural", "urban":
			p.AllStates = true
			continue
		}

		// "All states except Bihar and Kerala" opens everything and
		// then carves out the named states.
		if idx := strings.Index(lower, "except"); idx >= 0 {
			p.AllStates = true
			for _, state := range minedStates(lower[idx:]) {
				excluded[state] = true
			}
			continue
		}

		if canonical, ok := models.CanonicalState(entry); ok {
			set[canonical] = true
		}
	}

	if p.AllStates {
		if len(excluded) > 0 {
			p.AllStates = false
			p.States = make(map[string]bool)
			for _, state := range models.IndianStates() {
				if !excluded[state] {
					p.States[state] = true
				}
			}
		}
		return
	}

	if len(set) == 0 {
		for _, state := range minedStates(text) {
			set[state] = true
		}
	}

	if len(set) == 0 {
		p.AllStates = true
		return
	}
	p.States = set
}

// minedStates scans text for canonical state names appearing whole.
func minedStates(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, state := range models.IndianStates() {
		if containsToken(lower, strings.ToLower(state)) {
			found = append(found, state)
		}
	}
	return found
}

// containsToken reports whether needle appears in haystack bounded by
// non-letters on both sides.
func containsToken(haystack, needle string) bool {
	for start := 0; start <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		beforeOK := idx == 0 || !isLetterByte(haystack[idx-1])
		afterOK := end == len(haystack) || !isLetterByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
	return false
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
