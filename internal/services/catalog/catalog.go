// Package catalog loads and serves the scheme catalog. A catalog is
// immutable once built and safe to share across sessions.
package catalog

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"schemebot/internal/models"
)

// Catalog holds the usable scheme records in file order.
type Catalog struct {
	schemes []*models.Scheme
	byID    map[string]*models.Scheme
}

// New builds a catalog from records. Records failing integrity checks
// are excluded and logged; only an entirely unusable catalog is an
// error.
func New(records []models.Scheme, logger *zap.Logger) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*models.Scheme)}

	excluded := 0
	for i := range records {
		record := records[i]

		if err := record.ValidateIntegrity(); err != nil {
			excluded++
			var integrity *models.CatalogIntegrityError
			if errors.As(err, &integrity) {
				logger.Warn("excluding scheme record",
					zap.String("scheme_id", integrity.SchemeID),
					zap.String("reason", integrity.Reason),
				)
			} else {
				logger.Warn("excluding scheme record", zap.Error(err))
			}
			continue
		}

		if _, dup := c.byID[record.ID]; dup {
			excluded++
			logger.Warn("excluding duplicate scheme id",
				zap.String("scheme_id", record.ID),
			)
			continue
		}

		c.schemes = append(c.schemes, &record)
		c.byID[record.ID] = &record
	}

	if len(c.schemes) == 0 {
		return nil, models.ErrEmptyCatalog
	}

	if excluded > 0 {
		logger.Info("catalog loaded with exclusions",
			zap.Int("usable", len(c.schemes)),
			zap.Int("excluded", excluded),
		)
	}

	return c, nil
}

// Schemes returns the records in catalog order. The slice is a copy;
// the records are shared and must not be mutated.
func (c *Catalog) Schemes() []*models.Scheme {
	schemes := make([]*models.Scheme, len(c.schemes))
	copy(schemes, c.schemes)
	return schemes
}

// Get returns a scheme by id.
func (c *Catalog) Get(id string) (*models.Scheme, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Len returns the number of usable schemes.
func (c *Catalog) Len() int {
	return len(c.schemes)
}

// Summaries returns lightweight views of every scheme in catalog
// order.
func (c *Catalog) Summaries() []models.SchemeSummary {
	summaries := make([]models.SchemeSummary, 0, len(c.schemes))
	for _, s := range c.schemes {
		summaries = append(summaries, s.ToSummary())
	}
	return summaries
}

// FindByName locates the scheme a free-form question refers to, by
// id, full name or the acronym in the name. Used for detail questions
// after recommendations have been shown.
func (c *Catalog) FindByName(query string) (*models.Scheme, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}

	if s, ok := c.byID[q]; ok {
		return s, true
	}

	for _, s := range c.schemes {
		name := strings.ToLower(s.Name)
		if strings.Contains(q, name) || strings.Contains(name, q) {
			return s, true
		}
		if acronym := acronymOf(s.Name); acronym != "" && strings.Contains(q, acronym) {
			return s, true
		}
	}

	return nil, false
}

// acronymOf pulls a parenthesized short form out of a scheme name,
// "Pradhan Mantri Jan Dhan Yojana (PMJDY)" giving "pmjdy".
func acronymOf(name string) string {
	open := strings.Index(name, "(")
	if open < 0 {
		return ""
	}
	end := strings.Index(name[open:], ")")
	if end < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(name[open+1 : open+end]))
}
