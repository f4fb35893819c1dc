// Package database provides PostgreSQL storage for the scheme catalog.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"schemebot/internal/models"
)

// SchemeRepository handles scheme catalog database operations. Its
// Load method satisfies the catalog source contract, so a configured
// database can replace the embedded seed catalog.
type SchemeRepository struct {
	db *DB
}

// NewSchemeRepository creates a new scheme repository.
func NewSchemeRepository(db *DB) *SchemeRepository {
	return &SchemeRepository{db: db}
}

// EnsureSchema creates the schemes table when it does not exist yet.
func (r *SchemeRepository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS schemes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			eligibility TEXT NOT NULL DEFAULT '',
			min_age INTEGER,
			max_age INTEGER,
			genders TEXT[],
			states TEXT[],
			income_tags TEXT[],
			benefits TEXT[],
			how_to_apply TEXT NOT NULL DEFAULT '',
			documents_required TEXT[],
			link TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			implementing_agency TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schemes table: %w", err)
	}
	return nil
}

// Load retrieves all active schemes in insertion order. Ordering is
// stable so equal recommendation scores rank the same way on every
// load.
func (r *SchemeRepository) Load(ctx context.Context) ([]models.Scheme, error) {
	query := `
		SELECT id, name, description, eligibility, min_age, max_age,
			genders, states, income_tags, benefits, how_to_apply,
			documents_required, link, category, implementing_agency
		FROM schemes
		WHERE is_active = true
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemes: %w", err)
	}
	defer rows.Close()

	var schemes []models.Scheme
	for rows.Next() {
		scheme, err := scanScheme(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}
		schemes = append(schemes, *scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schemes: %w", err)
	}

	return schemes, nil
}

// GetByID retrieves a scheme by its id, nil when absent.
func (r *SchemeRepository) GetByID(ctx context.Context, id string) (*models.Scheme, error) {
	query := `
		SELECT id, name, description, eligibility, min_age, max_age,
			genders, states, income_tags, benefits, how_to_apply,
			documents_required, link, category, implementing_agency
		FROM schemes
		WHERE id = $1`

	scheme, err := scanScheme(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}

	return scheme, nil
}

// Upsert inserts a scheme or updates the stored record with the same
// id.
func (r *SchemeRepository) Upsert(ctx context.Context, scheme *models.Scheme) error {
	query := `
		INSERT INTO schemes (
			id, name, description, eligibility, min_age, max_age,
			genders, states, income_tags, benefits, how_to_apply,
			documents_required, link, category, implementing_agency,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, true, $16, $16)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			eligibility = EXCLUDED.eligibility,
			min_age = EXCLUDED.min_age,
			max_age = EXCLUDED.max_age,
			genders = EXCLUDED.genders,
			states = EXCLUDED.states,
			income_tags = EXCLUDED.income_tags,
			benefits = EXCLUDED.benefits,
			how_to_apply = EXCLUDED.how_to_apply,
			documents_required = EXCLUDED.documents_required,
			link = EXCLUDED.link,
			category = EXCLUDED.category,
			implementing_agency = EXCLUDED.implementing_agency,
			is_active = true,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		scheme.ID,
		scheme.Name,
		scheme.Description,
		scheme.Eligibility,
		scheme.MinAge,
		scheme.MaxAge,
		scheme.Genders,
		scheme.States,
		scheme.IncomeTags,
		scheme.Benefits,
		scheme.HowToApply,
		scheme.DocumentsRequired,
		scheme.Link,
		scheme.Category,
		scheme.ImplementingAgency,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert scheme %q: %w", scheme.ID, err)
	}

	return nil
}

// UpsertAll stores a batch of schemes in one transaction.
func (r *SchemeRepository) UpsertAll(ctx context.Context, schemes []models.Scheme) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		for i := range schemes {
			scheme := &schemes[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO schemes (
					id, name, description, eligibility, min_age, max_age,
					genders, states, income_tags, benefits, how_to_apply,
					documents_required, link, category, implementing_agency,
					is_active, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, true, $16, $16)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					description = EXCLUDED.description,
					eligibility = EXCLUDED.eligibility,
					min_age = EXCLUDED.min_age,
					max_age = EXCLUDED.max_age,
					genders = EXCLUDED.genders,
					states = EXCLUDED.states,
					income_tags = EXCLUDED.income_tags,
					benefits = EXCLUDED.benefits,
					how_to_apply = EXCLUDED.how_to_apply,
					documents_required = EXCLUDED.documents_required,
					link = EXCLUDED.link,
					category = EXCLUDED.category,
					implementing_agency = EXCLUDED.implementing_agency,
					is_active = true,
					updated_at = EXCLUDED.updated_at`,
				scheme.ID,
				scheme.Name,
				scheme.Description,
				scheme.Eligibility,
				scheme.MinAge,
				scheme.MaxAge,
				scheme.Genders,
				scheme.States,
				scheme.IncomeTags,
				scheme.Benefits,
				scheme.HowToApply,
				scheme.DocumentsRequired,
				scheme.Link,
				scheme.Category,
				scheme.ImplementingAgency,
				now,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert scheme %q: %w", scheme.ID, err)
			}
		}
		return nil
	})
}

// Deactivate hides a scheme from catalog loads without deleting it.
func (r *SchemeRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE schemes SET is_active = false, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id)
	return err
}

// scanScheme scans a single row into a Scheme. pgx.Rows satisfies
// pgx.Row, so both single and multi row queries share it.
func scanScheme(row pgx.Row) (*models.Scheme, error) {
	var scheme models.Scheme

	err := row.Scan(
		&scheme.ID,
		&scheme.Name,
		&scheme.Description,
		&scheme.Eligibility,
		&scheme.MinAge,
		&scheme.MaxAge,
		&scheme.Genders,
		&scheme.States,
		&scheme.IncomeTags,
		&scheme.Benefits,
		&scheme.HowToApply,
		&scheme.DocumentsRequired,
		&scheme.Link,
		&scheme.Category,
		&scheme.ImplementingAgency,
	)
	if err != nil {
		return nil, err
	}

	return &scheme, nil
}
