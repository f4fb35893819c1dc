// Package catalog loads and serves the scheme catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"schemebot/internal/models"
)

//go:embed schema.json
var catalogSchema string

//go:embed schemes.json
var seedData []byte

// Source loads raw scheme records from somewhere: a JSON file, the
// embedded seed, or a database.
type Source interface {
	Load(ctx context.Context) ([]models.Scheme, error)
}

// Load reads records from source and builds the catalog.
func Load(ctx context.Context, source Source, logger *zap.Logger) (*Catalog, error) {
	records, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(records, logger)
}

// FileSource reads a catalog from a JSON file on disk.
type FileSource struct {
	Path string
}

// Load reads and decodes the catalog file.
func (f FileSource) Load(ctx context.Context) ([]models.Scheme, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", f.Path, err)
	}
	return Decode(data)
}

// SeedSource serves the embedded default catalog.
type SeedSource struct{}

// Load decodes the embedded seed catalog.
func (SeedSource) Load(ctx context.Context) ([]models.Scheme, error) {
	return Decode(seedData)
}

type catalogFile struct {
	Schemes []models.Scheme `json:"schemes"`
}

// Decode validates raw catalog JSON against the embedded schema and
// unmarshals it. Shape problems fail the whole load; per-record
// integrity problems are handled later, record by record.
func Decode(data []byte) ([]models.Scheme, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return file.Schemes, nil
}

func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(catalogSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("catalog schema validation: %w", err)
	}

	if !result.Valid() {
		var b strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				b.WriteString("; ")
			}
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			b.WriteString(field)
			b.WriteString(": ")
			b.WriteString(desc.Description())
		}
		return fmt.Errorf("catalog does not match schema: %s", b.String())
	}

	return nil
}
