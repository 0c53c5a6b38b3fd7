package analyzing

import (
	"context"
	"sort"
	"time"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

// Janelas em dias dos períodos relativos
var timePeriodDays = map[string]int{
	domain.TimePeriodLatestQuarter: 90,
	domain.TimePeriodLatest6Months: 180,
	domain.TimePeriodLatestYear:    365,
}

type sectorAggregator struct {
	name         string
	revenue      float64
	units        int64
	growthRates  []float64
	marketShares []float64
	products     map[string]string
	monthly      map[domain.YearMonth]float64
}

// GetSectorPerformance consolida as métricas por setor e ordena por receita
func (s *Service) GetSectorPerformance(ctx context.Context, filters domain.SectorFilters) (*domain.SectorAnalysis, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	snapshot := s.Snapshot(ctx)

	// um registro entra na janela quando o início do seu mês não é anterior à data de corte
	var cutoff time.Time
	if days, ok := timePeriodDays[filters.TimePeriod]; ok {
		cutoff = utils.DaysAgo(s.now(), days)
	}

	params := struct {
		Filters domain.SectorFilters `json:"filters"`
		Cutoff  time.Time            `json:"cutoff"`
	}{filters, cutoff}

	return cachedAnalytics(ctx, s, snapshot, "sector_performance", params, func() (*domain.SectorAnalysis, error) {
		return analyzeSectors(snapshot, filters, cutoff), nil
	})
}

func analyzeSectors(snapshot *domain.Snapshot, filters domain.SectorFilters, cutoff time.Time) *domain.SectorAnalysis {
	positions := resolvePositions(snapshot,
		dimension{index: snapshot.Indexes.ByRegion, values: singleValue(filters.Region)},
	)

	aggregators := make(map[string]*sectorAggregator)
	order := make([]string, 0)

	for _, pos := range positions {
		entry := snapshot.Entries[pos]

		kept := make([]domain.SalesRecord, 0, len(entry.SalesRecords))
		for _, record := range entry.SalesRecords {
			if cutoff.IsZero() || !record.Period.Time().Before(cutoff) {
				kept = append(kept, record)
			}
		}
		// com janela de tempo, entradas sem registros na janela não contam
		if !cutoff.IsZero() && len(kept) == 0 {
			continue
		}

		key := domain.NormalizeKey(entry.Sector)
		agg, ok := aggregators[key]
		if !ok {
			agg = &sectorAggregator{
				name:     entry.Sector,
				products: make(map[string]string),
				monthly:  make(map[domain.YearMonth]float64),
			}
			aggregators[key] = agg
			order = append(order, key)
		}

		agg.products[domain.NormalizeKey(entry.ProductID)] = entry.ProductID
		for _, record := range kept {
			agg.revenue += record.Revenue
			agg.units += record.UnitsSold
			agg.growthRates = append(agg.growthRates, record.GrowthRate)
			agg.marketShares = append(agg.marketShares, record.MarketShare)
			agg.monthly[record.Period] += record.Revenue
		}
	}

	analysis := &domain.SectorAnalysis{
		Sectors: make([]domain.SectorPerformance, 0, len(aggregators)),
		Filters: filters,
	}

	var marketRevenue float64
	for _, agg := range aggregators {
		marketRevenue += agg.revenue
	}

	for _, key := range order {
		agg := aggregators[key]

		products := make([]string, 0, len(agg.products))
		for _, productID := range agg.products {
			products = append(products, productID)
		}
		sort.Strings(products)

		var penetration float64
		if marketRevenue != 0 {
			penetration = agg.revenue / marketRevenue * 100
		}

		analysis.Sectors = append(analysis.Sectors, domain.SectorPerformance{
			Sector:             agg.name,
			TotalRevenue:       utils.RoundWithTwoDecimalPlace(agg.revenue),
			TotalUnits:         agg.units,
			AverageGrowthRate:  utils.RoundWithTwoDecimalPlace(mean(agg.growthRates)),
			AverageMarketShare: utils.RoundWithTwoDecimalPlace(mean(agg.marketShares)),
			MarketPenetration:  utils.RoundWithTwoDecimalPlace(penetration),
			GrowthTrend:        utils.RoundWithTwoDecimalPlace(growthTrend(agg.monthly)),
			ProductCount:       len(products),
			Products:           products,
		})
	}

	sort.SliceStable(analysis.Sectors, func(i, j int) bool {
		a, b := analysis.Sectors[i], analysis.Sectors[j]
		if a.TotalRevenue != b.TotalRevenue {
			return a.TotalRevenue > b.TotalRevenue
		}
		return a.Sector < b.Sector
	})

	for i := range analysis.Sectors {
		analysis.Sectors[i].Rank = i + 1
	}

	analysis.TotalMarketRevenue = utils.RoundWithTwoDecimalPlace(marketRevenue)

	return analysis
}

// growthTrend compara o primeiro e o último total mensal em ordem cronológica
func growthTrend(monthly map[domain.YearMonth]float64) float64 {
	if len(monthly) < 2 {
		return 0
	}

	periods := make([]domain.YearMonth, 0, len(monthly))
	for period := range monthly {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Before(periods[j])
	})

	change, ok := percentChange(monthly[periods[0]], monthly[periods[len(periods)-1]])
	if !ok {
		return 0
	}
	return change
}
