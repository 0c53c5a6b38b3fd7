package analyzing

import (
	"context"
	"errors"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-analytics/infrastructure/datasource/mocks"
	"github.com/vfg2006/sales-analytics/internal/domain"
)

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name         string
		document     *domain.SourceDocument
		fetchErr     error
		wantEntries  int
		wantRejected int
		validate     func(t *testing.T, snapshot *domain.Snapshot)
	}{
		{
			name:     "Erro na fonte resulta em snapshot vazio",
			fetchErr: errors.New("arquivo não encontrado"),
			validate: func(t *testing.T, snapshot *domain.Snapshot) {
				assert.NotEmpty(t, snapshot.ID)
				assert.Equal(t, domain.DefaultValidationSchema(), snapshot.Validation)
				assert.Empty(t, snapshot.Indexes.Periods())
			},
		},
		{
			name: "Entradas inválidas são descartadas e o restante é carregado",
			document: &domain.SourceDocument{
				SalesData: []jsoniter.RawMessage{
					jsoniter.RawMessage(`{"product_id": "p1", "company": "C", "sector": "S", "region": "R", "sales_records": [{"period": "2024-01", "units_sold": 1, "revenue": 10, "currency": "EUR", "growth_rate": 0, "market_share": 1}]}`),
					jsoniter.RawMessage(`{"product_id": "p2", "company": "C", "region": "R"}`),
					jsoniter.RawMessage(`{"product_id": "p3", "company": "C", "sector": "S", "region": "R", "sales_records": [{"period": "01-2024", "units_sold": 1, "revenue": 10, "currency": "EUR", "growth_rate": 0, "market_share": 1}]}`),
					jsoniter.RawMessage(`"texto"`),
				},
			},
			wantEntries:  1,
			wantRejected: 3,
			validate: func(t *testing.T, snapshot *domain.Snapshot) {
				assert.Equal(t, "p2", snapshot.Rejected[0].ProductID)
				assert.Equal(t, 1, snapshot.Rejected[0].Position)
				assert.Contains(t, snapshot.Rejected[0].Reason, "sector")
				assert.Contains(t, snapshot.Rejected[1].Reason, "período inválido")
				assert.Equal(t, 3, snapshot.Rejected[2].Position)
				assert.Equal(t, "1.0", snapshot.SchemaVersion)
			},
		},
		{
			name: "Unidades com ponto flutuante inteiro são aceitas",
			document: &domain.SourceDocument{
				SalesData: []jsoniter.RawMessage{
					jsoniter.RawMessage(`{"product_id": "p1", "company": "C", "sector": "S", "region": "R", "sales_records": [{"period": "2024-01", "units_sold": 10.0, "revenue": 10, "currency": "EUR", "growth_rate": 0, "market_share": 1}]}`),
					jsoniter.RawMessage(`{"product_id": "p2", "company": "C", "sector": "S", "region": "R", "sales_records": [{"period": "2024-01", "units_sold": 2.5, "revenue": 10, "currency": "EUR", "growth_rate": 0, "market_share": 1}]}`),
				},
			},
			wantEntries:  1,
			wantRejected: 1,
			validate: func(t *testing.T, snapshot *domain.Snapshot) {
				assert.Equal(t, int64(10), snapshot.Entries[0].SalesRecords[0].UnitsSold)
				assert.Equal(t, "p2", snapshot.Rejected[0].ProductID)
				assert.Contains(t, snapshot.Rejected[0].Reason, "unidades inválida")
			},
		},
		{
			name: "Esquema de validação do documento é mantido",
			document: &domain.SourceDocument{
				SchemaVersion:  "2.1",
				SalesData:      []jsoniter.RawMessage{},
				DataValidation: &domain.ValidationSchema{RequiredFields: []string{"product_id"}},
			},
			validate: func(t *testing.T, snapshot *domain.Snapshot) {
				assert.Equal(t, "2.1", snapshot.SchemaVersion)
				assert.Equal(t, []string{"product_id"}, snapshot.Validation.RequiredFields)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := mocks.NewMockSource(ctrl)
			source.EXPECT().Name().Return("mock").AnyTimes()
			source.EXPECT().Fetch(gomock.Any()).Return(tt.document, tt.fetchErr)

			snapshot := NewLoader(source).Load(context.Background())

			require.NotNil(t, snapshot)
			assert.Equal(t, "mock", snapshot.Source)
			assert.Len(t, snapshot.Entries, tt.wantEntries)
			assert.Len(t, snapshot.Rejected, tt.wantRejected)
			if tt.validate != nil {
				tt.validate(t, snapshot)
			}
		})
	}
}
