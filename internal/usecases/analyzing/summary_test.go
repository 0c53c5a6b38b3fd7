package analyzing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

func TestGetSalesSummary(t *testing.T) {
	service, _ := fixtureService(t)

	tests := []struct {
		name    string
		filters domain.SummaryFilters
		want    domain.SalesSummary
	}{
		{
			name:    "Sem filtros soma todos os registros",
			filters: domain.SummaryFilters{},
			want: domain.SalesSummary{
				TotalRevenue:      711,
				TotalUnits:        43,
				AverageGrowthRate: 1,
				TotalRecords:      7,
				UniqueProducts:    3,
				SectorsCovered:    2,
			},
		},
		{
			name:    "Região e intervalo de períodos",
			filters: domain.SummaryFilters{Region: "NORDIC", PeriodStart: "2024-02", PeriodEnd: "2024-03"},
			want: domain.SalesSummary{
				TotalRevenue:      261,
				TotalUnits:        26,
				AverageGrowthRate: 2,
				TotalRecords:      3,
				UniqueProducts:    1,
				SectorsCovered:    2,
			},
		},
		{
			name:    "Produto e setor sem diferenciar maiúsculas",
			filters: domain.SummaryFilters{ProductID: "Alpha-POS", Sector: "finance"},
			want: domain.SalesSummary{
				TotalRevenue:      30,
				TotalUnits:        3,
				AverageGrowthRate: 1,
				TotalRecords:      1,
				UniqueProducts:    1,
				SectorsCovered:    1,
			},
		},
		{
			name:    "Nenhum registro retorna resumo zerado",
			filters: domain.SummaryFilters{Sector: "Energy"},
			want:    domain.SalesSummary{},
		},
		{
			name:    "Período fora dos dados retorna resumo zerado",
			filters: domain.SummaryFilters{PeriodStart: "2025-01"},
			want:    domain.SalesSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.GetSalesSummary(context.Background(), tt.filters)
			require.NoError(t, err)

			tt.want.FiltersApplied = tt.filters
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestGetSalesSummary_RespeitaLimitesDePeriodo(t *testing.T) {
	service, _ := fixtureService(t)
	ctx := context.Background()

	only, err := service.GetSalesSummary(ctx, domain.SummaryFilters{PeriodStart: "2024-02", PeriodEnd: "2024-02"})
	require.NoError(t, err)
	assert.Equal(t, 260.0, only.TotalRevenue)
	assert.Equal(t, 3, only.TotalRecords)

	openEnd, err := service.GetSalesSummary(ctx, domain.SummaryFilters{PeriodStart: "2024-03"})
	require.NoError(t, err)
	assert.Equal(t, 151.0, openEnd.TotalRevenue)
}

func TestGetSalesSummary_FiltrosInvalidos(t *testing.T) {
	service, _ := fixtureService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters domain.SummaryFilters
	}{
		{name: "Formato de período inválido", filters: domain.SummaryFilters{PeriodStart: "2024/01"}},
		{name: "Início depois do fim", filters: domain.SummaryFilters{PeriodStart: "2024-05", PeriodEnd: "2024-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetSalesSummary(ctx, tt.filters)
			assert.ErrorIs(t, err, ErrInvalidFilters)

			var analyticsErr *AnalyticsError
			if assert.ErrorAs(t, err, &analyticsErr) {
				assert.Equal(t, CodeInvalidFilters, analyticsErr.Code)
			}
		})
	}
}
