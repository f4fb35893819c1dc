// Package recommend runs the scheme recommendation pipeline: compile
// eligibility predicates, filter, score, and rank.
package recommend

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"schemebot/internal/models"
	"schemebot/internal/services/catalog"
	"schemebot/internal/services/eligibility"
)

// Service generates ranked scheme recommendations for completed
// profiles. It is safe for concurrent use: the catalog is read-only
// and the predicate cache synchronizes itself.
type Service struct {
	catalog *catalog.Catalog
	cache   *eligibility.Cache
	logger  *zap.Logger
}

// NewService creates a recommendation service over a loaded catalog.
func NewService(cat *catalog.Catalog, logger *zap.Logger) *Service {
	return &Service{
		catalog: cat,
		cache:   eligibility.NewCache(),
		logger:  logger,
	}
}

// Recommend runs the pipeline for a completed profile. Given the same
// catalog and profile it always produces the same recommendations in
// the same order.
func (s *Service) Recommend(sessionID string, profile *models.Profile) (*models.MatchReport, error) {
	if err := models.ValidateProfileForMatching(profile); err != nil {
		return nil, fmt.Errorf("profile not ready for matching: %w", err)
	}

	startTime := time.Now()
	schemes := s.catalog.Schemes()

	s.logger.Info("Starting recommendation pipeline",
		zap.String("session_id", sessionID),
		zap.Int("schemes", len(schemes)),
	)

	recommendations := make([]models.Recommendation, 0, len(schemes))
	excluded := 0

	for _, scheme := range schemes {
		pred := s.cache.Get(scheme)
		if !pred.Admits(profile) {
			excluded++
			continue
		}

		score, reasons := scoreScheme(profile, pred)
		recommendations = append(recommendations, models.Recommendation{
			Scheme:         scheme,
			RelevanceScore: score,
			Reasons:        reasons,
		})
	}

	// Ties keep catalog order, so equal-scoring schemes rank the same
	// way on every run.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RelevanceScore > recommendations[j].RelevanceScore
	})

	report := &models.MatchReport{
		SessionID:        sessionID,
		Profile:          profile.ToSummary(),
		Recommendations:  recommendations,
		SchemesEvaluated: len(schemes),
		SchemesExcluded:  excluded,
		GeneratedAt:      time.Now().UTC(),
		ProcessingTime:   time.Since(startTime),
	}

	s.logger.Info("Recommendation pipeline complete",
		zap.String("session_id", sessionID),
		zap.Int("evaluated", report.SchemesEvaluated),
		zap.Int("excluded", report.SchemesExcluded),
		zap.Int("recommended", len(recommendations)),
		zap.Duration("processing_time", report.ProcessingTime),
	)

	return report, nil
}

// SchemeDetails renders a full scheme description for follow-up
// questions after recommendations have been shown.
func (s *Service) SchemeDetails(idOrName string) (string, bool) {
	scheme, ok := s.catalog.FindByName(idOrName)
	if !ok {
		return "", false
	}
	return formatSchemeDetails(scheme), true
}

// Catalog exposes the underlying catalog for the HTTP listing routes.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}
