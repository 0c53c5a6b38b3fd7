package analyzing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

func TestGetProductPerformance(t *testing.T) {
	service, _ := fixtureService(t)

	report, err := service.GetProductPerformance(context.Background(), domain.ProductFilters{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalProducts)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "alpha-pos", report.TopProducts[0].ProductID)
	assert.Equal(t, "beta-erp", report.TopProducts[1].ProductID)

	require.Len(t, report.BottomProducts, 2)
	assert.Equal(t, "gamma-crm", report.BottomProducts[0].ProductID)
	assert.Equal(t, "beta-erp", report.BottomProducts[1].ProductID)

	alpha := report.TopProducts[0]
	assert.Equal(t, 361.0, alpha.TotalRevenue)
	assert.Equal(t, int64(36), alpha.TotalUnits)
	assert.Equal(t, []string{"Finance", "Retail"}, alpha.Sectors)
	assert.Equal(t, []string{"Nordic"}, alpha.Regions)
	assert.Equal(t, 2, alpha.SectorCount)
	assert.Equal(t, 10.03, alpha.RevenuePerUnit)
	assert.Equal(t, 13.0, alpha.EfficiencyScore)
	assert.Equal(t, domain.LifecycleGrowth, alpha.LifecycleStage)
	assert.Equal(t, 4, alpha.DataPoints)

	t.Run("Distribuição do ciclo de vida", func(t *testing.T) {
		require.Len(t, report.LifecycleDistribution, len(domain.LifecycleStages))
		byStage := make(map[domain.LifecycleStage]domain.LifecycleBucket)
		for _, bucket := range report.LifecycleDistribution {
			byStage[bucket.Stage] = bucket
		}

		assert.Equal(t, 2, byStage[domain.LifecycleNew].Count)
		assert.Equal(t, 49.23, byStage[domain.LifecycleNew].RevenueShare)
		assert.Equal(t, 1, byStage[domain.LifecycleGrowth].Count)
		assert.Equal(t, 50.77, byStage[domain.LifecycleGrowth].RevenueShare)
		assert.Zero(t, byStage[domain.LifecycleDecline].Count)
	})

	t.Run("Produtos em mais de um setor", func(t *testing.T) {
		require.Len(t, report.CrossSector, 1)
		cross := report.CrossSector[0]
		assert.Equal(t, "alpha-pos", cross.ProductID)
		assert.Equal(t, map[string]float64{"Retail": 331, "Finance": 30}, cross.SectorRevenue)
		assert.Equal(t, "Retail", cross.BestSector)
		assert.Equal(t, "Finance", cross.WorstSector)
	})

	t.Run("Faixas de preço ordenadas por eficiência", func(t *testing.T) {
		require.Len(t, report.PricingTiers, 3)
		assert.Equal(t, domain.PricingTierPremium, report.PricingTiers[0].Tier)
		assert.Empty(t, report.PricingTiers[0].Products)

		mid := report.PricingTiers[1]
		require.Len(t, mid.Products, 1)
		assert.Equal(t, "beta-erp", mid.Products[0].ProductID)

		value := report.PricingTiers[2]
		require.Len(t, value.Products, 2)
		assert.Equal(t, "alpha-pos", value.Products[0].ProductID)
		assert.Equal(t, "gamma-crm", value.Products[1].ProductID)
	})
}

func TestGetProductPerformance_Filtros(t *testing.T) {
	service, _ := fixtureService(t)
	ctx := context.Background()

	report, err := service.GetProductPerformance(ctx, domain.ProductFilters{Sector: "retail", Region: "dach"})
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalProducts)
	assert.Equal(t, "gamma-crm", report.TopProducts[0].ProductID)
	assert.Empty(t, report.CrossSector)

	_, err = service.GetProductPerformance(ctx, domain.ProductFilters{Limit: 1000})
	assert.ErrorIs(t, err, ErrInvalidFilters)
}

func TestLifecycleStage(t *testing.T) {
	series := func(values ...float64) map[domain.YearMonth]float64 {
		monthly := make(map[domain.YearMonth]float64, len(values))
		start := domain.YearMonth{Year: 2024, Month: 1}
		for i, v := range values {
			monthly[start.AddMonths(i)] = v
		}
		return monthly
	}

	tests := []struct {
		name    string
		monthly map[domain.YearMonth]float64
		want    domain.LifecycleStage
	}{
		{name: "Menos de três pontos", monthly: series(100, 200), want: domain.LifecycleNew},
		{name: "Crescimento acima de 15%", monthly: series(100, 120, 144), want: domain.LifecycleGrowth},
		{name: "Crescimento entre 5% e 15%", monthly: series(100, 110, 121), want: domain.LifecycleMature},
		{name: "Estável", monthly: series(100, 101, 100, 101), want: domain.LifecycleStable},
		{name: "Declínio", monthly: series(100, 80, 64), want: domain.LifecycleDecline},
		{name: "Usa apenas os últimos seis pontos", monthly: series(10, 100, 100, 100, 100, 100, 100), want: domain.LifecycleStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycleStage(tt.monthly))
		})
	}
}
