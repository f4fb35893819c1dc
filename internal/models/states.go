// Package models defines the data structures for SchemeBot.
package models

import "strings"

// indianStates is the canonical list of 28 states and 8 union
// territories. Profile state values are always drawn from this list.
var indianStates = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}

// IndianStates returns the canonical state and union territory names.
func IndianStates() []string {
	states := make([]string, len(indianStates))
	copy(states, indianStates)
	return states
}

// CanonicalState returns the canonical spelling for s when it matches
// a state name case-insensitively.
func CanonicalState(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	for _, state := range indianStates {
		if strings.EqualFold(trimmed, state) {
			return state, true
		}
	}
	return "", false
}

// IsIndianState reports whether s is a canonical state name.
func IsIndianState(s string) bool {
	_, ok := CanonicalState(s)
	return ok
}
