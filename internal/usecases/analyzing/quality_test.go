package analyzing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-analytics/infrastructure/datasource"
	"github.com/vfg2006/sales-analytics/internal/domain"
)

func TestValidateDataQuality(t *testing.T) {
	ctx := context.Background()

	t.Run("Entrada descartada reduz a pontuação", func(t *testing.T) {
		service, _ := fixtureService(t)

		report, err := service.ValidateDataQuality(ctx)
		require.NoError(t, err)

		assert.Equal(t, 80.0, report.OverallScore)
		assert.Equal(t, domain.QualityMetrics{
			TotalRecords:    5,
			CompleteRecords: 4,
			RejectedEntries: 1,
		}, report.Metrics)
		require.Len(t, report.Issues, 1)
		assert.Contains(t, report.Issues[0], "Entrada 4 descartada")
		assert.Len(t, report.Recommendations, 2)
	})

	t.Run("Valores inválidos e campos ausentes", func(t *testing.T) {
		payload := `{
			"sales_data": [
				{"product_id": "neg", "company": "N", "sector": "S", "region": "R", "sales_records": [
					{"period": "2024-01", "units_sold": -1, "revenue": -10, "currency": "EUR", "growth_rate": 0, "market_share": 150}
				]},
				{"product_id": "ok", "company": "O", "sector": "S", "region": "R", "sales_records": [
					{"period": "2024-01", "units_sold": 1, "revenue": 10, "currency": "EUR", "growth_rate": 0, "market_share": 50}
				]},
				{"product_id": "sem-registros", "company": "E", "sector": "S", "region": "R"}
			],
			"data_validation": {
				"required_fields": ["product_id", "sales_records"],
				"sales_record_fields": ["period", "units_sold", "revenue", "market_share"]
			}
		}`
		service, _ := newTestService(t, datasource.NewMemorySource("qualidade", []byte(payload)), newFakeClock())

		report, err := service.ValidateDataQuality(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, report.Metrics.TotalRecords)
		assert.Equal(t, 1, report.Metrics.CompleteRecords)
		assert.Equal(t, 3, report.Metrics.InvalidValues)
		assert.Equal(t, 1, report.Metrics.MissingFields)
		assert.Equal(t, 33.33, report.OverallScore)
		assert.Contains(t, report.Recommendations, "Corrigir os campos obrigatórios ausentes nos dados de vendas")
		assert.Contains(t, report.Recommendations, "Corrigir valores inválidos (números negativos, participação de mercado fora de 0-100)")
	})

	t.Run("Campo desconhecido no esquema conta como ausente", func(t *testing.T) {
		payload := `{
			"sales_data": [{"product_id": "p", "company": "C", "sector": "S", "region": "R", "sales_records": []}],
			"data_validation": {"required_fields": ["launch_date"], "sales_record_fields": []}
		}`
		service, _ := newTestService(t, datasource.NewMemorySource("desconhecido", []byte(payload)), newFakeClock())

		report, err := service.ValidateDataQuality(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Metrics.MissingFields)
		assert.Zero(t, report.OverallScore)
	})

	t.Run("Snapshot vazio", func(t *testing.T) {
		service, _ := newTestService(t, datasource.NewFileSource("/caminho/inexistente.json"), newFakeClock())

		report, err := service.ValidateDataQuality(ctx)
		require.NoError(t, err)
		assert.Zero(t, report.Metrics.TotalRecords)
		assert.Zero(t, report.OverallScore)
		assert.Equal(t, []string{"Melhorar a qualidade dos dados para atingir mais de 90% de completude"}, report.Recommendations)
	})
}
