package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"schemebot/internal/models"
)

// ReportRepository persists generated match reports and the email
// notification records produced for them.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// EnsureSchema creates the report tables if they do not exist.
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS match_reports (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			profile_name TEXT NOT NULL DEFAULT '',
			profile_gender TEXT NOT NULL DEFAULT '',
			profile_age INTEGER,
			profile_state TEXT NOT NULL DEFAULT '',
			schemes_evaluated INTEGER NOT NULL,
			schemes_matched INTEGER NOT NULL,
			top_scheme_id TEXT,
			top_score DOUBLE PRECISION,
			recommendations JSONB NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL,
			processing_ms BIGINT NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("failed to create match_reports table: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			email TEXT NOT NULL,
			status TEXT NOT NULL,
			message_id TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			sent_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}

	return nil
}

// SaveReport stores one match report and returns its row id. The full
// recommendation list is kept as JSON next to the columns used for
// listings.
func (r *ReportRepository) SaveReport(ctx context.Context, report *models.MatchReport) (int64, error) {
	recommendations, err := json.Marshal(report.Recommendations)
	if err != nil {
		return 0, fmt.Errorf("failed to encode recommendations: %w", err)
	}

	var topSchemeID *string
	var topScore *float64
	if len(report.Recommendations) > 0 {
		top := report.Recommendations[0]
		topSchemeID = &top.Scheme.ID
		topScore = &top.RelevanceScore
	}

	query := `
		INSERT INTO match_reports (
			session_id, profile_name, profile_gender, profile_age, profile_state,
			schemes_evaluated, schemes_matched, top_scheme_id, top_score,
			recommendations, generated_at, processing_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		report.SessionID,
		report.Profile.Name,
		string(report.Profile.Gender),
		report.Profile.Age,
		report.Profile.State,
		report.SchemesEvaluated,
		len(report.Recommendations),
		topSchemeID,
		topScore,
		recommendations,
		report.GeneratedAt,
		report.ProcessingTime.Milliseconds(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save match report: %w", err)
	}

	return id, nil
}

// RecordNotification stores the outcome of a report email attempt.
// Retried sends overwrite the earlier outcome for the same record.
func (r *ReportRepository) RecordNotification(ctx context.Context, record *models.NotificationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, session_id, email, status, message_id, error_message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			message_id = EXCLUDED.message_id,
			error_message = EXCLUDED.error_message,
			sent_at = EXCLUDED.sent_at`,
		record.ID,
		record.SessionID,
		record.Email,
		record.Status,
		record.MessageID,
		record.ErrorMessage,
		record.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// RecentReports lists the most recently generated reports, newest
// first.
func (r *ReportRepository) RecentReports(ctx context.Context, limit int) ([]models.ReportSummary, error) {
	query := `
		SELECT id, session_id, profile_name, profile_state,
			   schemes_matched, top_scheme_id, top_score, generated_at
		FROM match_reports
		ORDER BY generated_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.ReportSummary
	for rows.Next() {
		var s models.ReportSummary
		var topSchemeID *string
		var topScore *float64

		err := rows.Scan(
			&s.ID, &s.SessionID, &s.ProfileName, &s.ProfileState,
			&s.SchemesMatched, &topSchemeID, &topScore, &s.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		if topSchemeID != nil {
			s.TopSchemeID = *topSchemeID
		}
		if topScore != nil {
			s.TopScore = *topScore
		}
		reports = append(reports, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	return reports, nil
}

// SessionReport returns the stored recommendations for a session,
// newest report first, or nil when none were stored.
func (r *ReportRepository) SessionReport(ctx context.Context, sessionID string) (*models.MatchReport, error) {
	query := `
		SELECT session_id, profile_name, profile_gender, profile_age, profile_state,
			   schemes_evaluated, recommendations, generated_at
		FROM match_reports
		WHERE session_id = $1
		ORDER BY generated_at DESC, id DESC
		LIMIT 1`

	var report models.MatchReport
	var age *int
	var recommendations []byte

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&report.SessionID,
		&report.Profile.Name,
		&report.Profile.Gender,
		&age,
		&report.Profile.State,
		&report.SchemesEvaluated,
		&recommendations,
		&report.GeneratedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session report: %w", err)
	}

	if age != nil {
		report.Profile.Age = *age
	}
	if err := json.Unmarshal(recommendations, &report.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	return &report, nil
}
