package analyzing

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

// Defasagens, em pontos mensais, das comparações de crescimento.
// O YoY compara com o primeiro ponto da janela de 12 pontos.
const (
	lagMoM = 1
	lagQoQ = 3
	lagYoY = 11

	seasonalMinIndex = 12
)

type periodTotals struct {
	revenue      float64
	units        int64
	growthRates  []float64
	marketShares []float64
}

// GetTrendAnalysis monta a série mensal do produto somando os registros de todas as entradas
func (s *Service) GetTrendAnalysis(ctx context.Context, productID string, granularity string) (*domain.TrendAnalysis, error) {
	if granularity == "" {
		granularity = domain.GranularityMonthly
	}

	switch granularity {
	case domain.GranularityMonthly, domain.GranularityQuarterly, domain.GranularityYearly:
	default:
		return nil, NewAnalyticsError(ErrInvalidFilters, CodeInvalidFilters, fmt.Sprintf("granularidade inválida: %s", granularity))
	}

	if domain.NormalizeKey(productID) == "" {
		return nil, NewProductNotFoundError(productID)
	}

	snapshot := s.Snapshot(ctx)

	params := map[string]string{
		"product_id":  domain.NormalizeKey(productID),
		"granularity": granularity,
	}

	return cachedAnalytics(ctx, s, snapshot, "trend_analysis", params, func() (*domain.TrendAnalysis, error) {
		return analyzeTrend(snapshot, productID, granularity)
	})
}

func analyzeTrend(snapshot *domain.Snapshot, productID string, granularity string) (*domain.TrendAnalysis, error) {
	positions := domain.Lookup(snapshot.Indexes.ByProduct, productID)

	totals := make(map[domain.YearMonth]*periodTotals)
	allGrowthRates := make([]float64, 0)
	sourceRecords := make(map[domain.YearMonth]int)

	for _, pos := range positions {
		for _, record := range snapshot.Entries[pos].SalesRecords {
			t, ok := totals[record.Period]
			if !ok {
				t = &periodTotals{}
				totals[record.Period] = t
			}
			t.revenue += record.Revenue
			t.units += record.UnitsSold
			t.growthRates = append(t.growthRates, record.GrowthRate)
			t.marketShares = append(t.marketShares, record.MarketShare)
			sourceRecords[record.Period]++
			allGrowthRates = append(allGrowthRates, record.GrowthRate)
		}
	}

	if len(totals) == 0 {
		return nil, NewProductNotFoundError(productID)
	}

	periods := make([]domain.YearMonth, 0, len(totals))
	for period := range totals {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Before(periods[j])
	})

	points := make([]domain.TrendPoint, len(periods))
	revenues := make([]float64, len(periods))
	units := make([]float64, len(periods))

	for i, period := range periods {
		t := totals[period]
		revenues[i] = t.revenue
		units[i] = float64(t.units)
		points[i] = domain.TrendPoint{
			Period:        period,
			Revenue:       t.revenue,
			UnitsSold:     t.units,
			GrowthRate:    utils.RoundWithTwoDecimalPlace(mean(t.growthRates)),
			MarketShare:   utils.RoundWithTwoDecimalPlace(mean(t.marketShares)),
			SourceRecords: sourceRecords[period],
		}
	}

	for i := range points {
		points[i].MoMRevenueGrowth = laggedGrowth(revenues, i, lagMoM)
		points[i].QoQRevenueGrowth = laggedGrowth(revenues, i, lagQoQ)
		points[i].YoYRevenueGrowth = laggedGrowth(revenues, i, lagYoY)

		points[i].Revenue3MA = trailingMean(revenues, i, 3)
		points[i].Revenue6MA = trailingMean(revenues, i, 6)
		points[i].Revenue12MA = trailingMean(revenues, i, 12)
		points[i].Units3MA = trailingMean(units, i, 3)
		points[i].Units6MA = trailingMean(units, i, 6)
		points[i].Units12MA = trailingMean(units, i, 12)

		points[i].SeasonallyAdjustedRevenue = seasonallyAdjusted(periods, revenues, i)
	}

	first, last := points[0], points[len(points)-1]

	var totalGrowth float64
	if len(points) >= 2 {
		if change, ok := percentChange(first.Revenue, last.Revenue); ok {
			totalGrowth = change
		}
	}

	analysis := &domain.TrendAnalysis{
		ProductID:   snapshot.Entries[positions[0]].ProductID,
		Granularity: granularity,
		PeriodRange: domain.PeriodRange{Start: first.Period, End: last.Period},
		TrendData:   points,
		SummaryMetrics: domain.TrendSummary{
			TotalGrowthPercentage: utils.RoundWithTwoDecimalPlace(totalGrowth),
			AverageMonthlyGrowth:  utils.RoundWithTwoDecimalPlace(mean(allGrowthRates)),
			TotalPeriods:          len(points),
			LatestRevenue:         last.Revenue,
			LatestUnits:           last.UnitsSold,
		},
	}

	if granularity != domain.GranularityMonthly {
		analysis.Rollup = rollup(points, granularity)
	}

	return analysis, nil
}

// laggedGrowth compara o ponto i com o ponto i-lag; nil sem histórico ou com base zero
func laggedGrowth(values []float64, i, lag int) *float64 {
	if i < lag {
		return nil
	}
	change, ok := percentChange(values[i-lag], values[i])
	if !ok {
		return nil
	}
	rounded := utils.RoundWithTwoDecimalPlace(change)
	return &rounded
}

// trailingMean é a média dos pontos [max(0, i-window+1) .. i]
func trailingMean(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	return mean(values[start : i+1])
}

// seasonallyAdjusted ajusta a receita pelo índice sazonal do mês do calendário,
// usando apenas pontos anteriores. Disponível a partir do 13º ponto.
func seasonallyAdjusted(periods []domain.YearMonth, revenues []float64, i int) *float64 {
	if i < seasonalMinIndex {
		return nil
	}

	sameMonth := make([]float64, 0)
	for j := 0; j < i; j++ {
		if periods[j].Month == periods[i].Month {
			sameMonth = append(sameMonth, revenues[j])
		}
	}

	seasonal := mean(sameMonth)
	if len(sameMonth) == 0 || seasonal == 0 {
		return nil
	}

	adjusted := utils.RoundWithTwoDecimalPlace(revenues[i] * mean(revenues[:i+1]) / seasonal)
	return &adjusted
}

func rollup(points []domain.TrendPoint, granularity string) []domain.TrendRollup {
	result := make([]domain.TrendRollup, 0)
	index := make(map[string]int)

	for _, point := range points {
		label := strconv.Itoa(point.Period.Year)
		if granularity == domain.GranularityQuarterly {
			label = point.Period.Quarter()
		}

		pos, ok := index[label]
		if !ok {
			pos = len(result)
			index[label] = pos
			result = append(result, domain.TrendRollup{Label: label})
		}

		result[pos].Revenue += point.Revenue
		result[pos].UnitsSold += point.UnitsSold
		result[pos].Periods++
	}

	return result
}
