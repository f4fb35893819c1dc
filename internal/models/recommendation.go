// Package models defines the data structures for SchemeBot.
package models

import (
	"time"
)

// Recommendation pairs a scheme with its relevance score and the
// reasons it matched the profile.
type Recommendation struct {
	Scheme         *Scheme  `json:"scheme"`
	RelevanceScore float64  `json:"relevance_score"`
	Reasons        []string `json:"reasons"`
}

// MatchReport summarizes the recommendations generated for a session
// once the profile is complete.
type MatchReport struct {
	SessionID        string           `json:"session_id"`
	Profile          ProfileSummary   `json:"profile"`
	Recommendations  []Recommendation `json:"recommendations"`
	SchemesEvaluated int              `json:"schemes_evaluated"`
	SchemesExcluded  int              `json:"schemes_excluded"`
	GeneratedAt      time.Time        `json:"generated_at"`
	ProcessingTime   time.Duration    `json:"-"`
}

// NotificationRecord represents a record of an email notification sent.
type NotificationRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Email        string    `json:"email"`
	SentAt       time.Time `json:"sent_at"`
	Status       string    `json:"status"`
	MessageID    string    `json:"message_id,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// ReportSummary is a stored report row without the recommendation
// payload, for listings.
type ReportSummary struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"session_id"`
	ProfileName    string    `json:"profile_name"`
	ProfileState   string    `json:"profile_state"`
	SchemesMatched int       `json:"schemes_matched"`
	TopSchemeID    string    `json:"top_scheme_id,omitempty"`
	TopScore       float64   `json:"top_score,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}
