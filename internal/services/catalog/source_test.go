package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSeedSource_LoadsBundledCatalog(t *testing.T) {
	cat, err := Load(context.Background(), SeedSource{}, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 11, cat.Len(), "the bundled catalog ships eleven schemes")

	scheme, ok := cat.Get("pmjdy")
	assert.True(t, ok)
	assert.Equal(t, "Pradhan Mantri Jan Dhan Yojana (PMJDY)", scheme.Name)
}

func TestFileSource_LoadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemes.json")
	payload := `{
		"schemes": [
			{"id": "test", "name": "Test Scheme", "description": "For tests.", "min_age": 18}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	cat, err := Load(context.Background(), FileSource{Path: path}, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	scheme, ok := cat.Get("test")
	assert.True(t, ok)
	assert.NotNil(t, scheme.MinAge)
	assert.Equal(t, 18, *scheme.MinAge)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, zap.NewNop())
	assert.Error(t, err)
}

func TestDecode_RejectsMalformedCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "schemes: yaml"},
		{"missing schemes key", `{"data": []}`},
		{"empty schemes", `{"schemes": []}`},
		{"scheme without name", `{"schemes": [{"id": "x", "description": "d"}]}`},
		{"wrong type for min_age", `{"schemes": [{"id": "x", "name": "X", "description": "d", "min_age": "ten"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestDecode_AcceptsTheSeed(t *testing.T) {
	records, err := Decode(seedData)
	assert.NoError(t, err)
	assert.Len(t, records, 11)
}
