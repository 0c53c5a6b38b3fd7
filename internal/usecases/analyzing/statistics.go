package analyzing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

const (
	confidenceLevel = 0.95
	zScore95        = 1.96
	minSampleSize   = 2
)

// statisticalSummary calcula as estatísticas do resultado; nil com menos de duas linhas
func statisticalSummary(rows []domain.QueryRow) *domain.StatisticalSummary {
	if len(rows) < minSampleSize {
		return nil
	}

	revenues := make([]float64, len(rows))
	units := make([]float64, len(rows))
	for i, row := range rows {
		revenues[i] = row.Revenue
		units[i] = float64(row.UnitsSold)
	}

	revenueStats := describe(revenues)
	stdErr := revenueStats.StdDev / math.Sqrt(float64(len(revenues)))

	return &domain.StatisticalSummary{
		SampleSize:              len(rows),
		Revenue:                 roundStats(revenueStats),
		Units:                   roundStats(describe(units)),
		RevenueUnitsCorrelation: utils.RoundWithTwoDecimalPlace(correlation(revenues, units)),
		RevenueMeanCI95: domain.ConfidenceInterval{
			Level: confidenceLevel,
			Lower: utils.RoundWithTwoDecimalPlace(revenueStats.Mean - zScore95*stdErr),
			Upper: utils.RoundWithTwoDecimalPlace(revenueStats.Mean + zScore95*stdErr),
		},
	}
}

// describe usa variância e desvio padrão amostrais
func describe(values []float64) domain.DescriptiveStats {
	return domain.DescriptiveStats{
		Mean:     stat.Mean(values, nil),
		Median:   median(values),
		StdDev:   stat.StdDev(values, nil),
		Variance: stat.Variance(values, nil),
	}
}

func roundStats(s domain.DescriptiveStats) domain.DescriptiveStats {
	return domain.DescriptiveStats{
		Mean:     utils.RoundWithTwoDecimalPlace(s.Mean),
		Median:   utils.RoundWithTwoDecimalPlace(s.Median),
		StdDev:   utils.RoundWithTwoDecimalPlace(s.StdDev),
		Variance: utils.RoundWithTwoDecimalPlace(s.Variance),
	}
}

// median exata: para n par é a média dos dois valores centrais
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// correlation de Pearson; séries constantes ou curtas resultam em 0
func correlation(x, y []float64) float64 {
	if len(x) < minSampleSize || len(x) != len(y) {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
