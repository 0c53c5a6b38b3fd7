package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
	"schema_version": "2.0",
	"sales_data": [
		{"product_id": "jeemly-pos", "company": "Jeemly", "sector": "Retail", "region": "Nordic", "sales_records": []},
		{"product_id": "broken"}
	],
	"data_validation": {"required_fields": ["product_id"], "sales_record_fields": ["period"]}
}`

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "Arquivo válido", path: path},
		{name: "Arquivo inexistente", path: filepath.Join(dir, "missing.json"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewFileSource(tt.path)
			doc, err := source.Fetch(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "erro ao ler arquivo de vendas")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "2.0", doc.SchemaVersion)
			assert.Len(t, doc.SalesData, 2)
			require.NotNil(t, doc.DataValidation)
			assert.Equal(t, []string{"product_id"}, doc.DataValidation.RequiredFields)
		})
	}
}

func TestMemorySource_Fetch(t *testing.T) {
	t.Run("JSON malformado retorna erro", func(t *testing.T) {
		_, err := NewMemorySource("teste", []byte(`{"sales_data": [`)).Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("Contexto cancelado", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewMemorySource("teste", []byte(document)).Fetch(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Documento sem validação", func(t *testing.T) {
		source := NewMemorySource("teste", []byte(`{"sales_data": []}`))
		doc, err := source.Fetch(context.Background())
		require.NoError(t, err)
		assert.Nil(t, doc.DataValidation)
		assert.Empty(t, doc.SalesData)
		assert.Equal(t, "memory:teste", source.Name())
	})
}

func TestPostgresSource_buildQuery(t *testing.T) {
	source := NewPostgresSource(nil, "sales_entries")

	query, args, err := source.buildQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT payload FROM sales_entries ORDER BY id ASC", query)
	assert.Empty(t, args)
	assert.Equal(t, "postgres:sales_entries", source.Name())
}
