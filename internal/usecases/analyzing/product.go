package analyzing

import (
	"context"
	"sort"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

const (
	defaultProductLimit = 5
	lifecycleWindow     = 6
	lifecycleMinPoints  = 3
)

type productAggregator struct {
	productID     string
	company       string
	revenue       float64
	units         int64
	growthRates   []float64
	marketShares  []float64
	sectors       map[string]string
	regions       map[string]string
	sectorRevenue map[string]float64
	monthly       map[domain.YearMonth]float64
	records       int
}

// GetProductPerformance calcula rankings, ciclo de vida, presença em setores e faixas de preço
func (s *Service) GetProductPerformance(ctx context.Context, filters domain.ProductFilters) (*domain.ProductPerformanceReport, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	snapshot := s.Snapshot(ctx)

	return cachedAnalytics(ctx, s, snapshot, "product_performance", filters, func() (*domain.ProductPerformanceReport, error) {
		return analyzeProducts(snapshot, filters), nil
	})
}

func analyzeProducts(snapshot *domain.Snapshot, filters domain.ProductFilters) *domain.ProductPerformanceReport {
	positions := resolvePositions(snapshot,
		dimension{index: snapshot.Indexes.BySector, values: singleValue(filters.Sector)},
		dimension{index: snapshot.Indexes.ByRegion, values: singleValue(filters.Region)},
	)

	aggregators := make(map[string]*productAggregator)
	for _, pos := range positions {
		entry := snapshot.Entries[pos]

		key := domain.NormalizeKey(entry.ProductID)
		agg, ok := aggregators[key]
		if !ok {
			agg = &productAggregator{
				productID:     entry.ProductID,
				company:       entry.Company,
				sectors:       make(map[string]string),
				regions:       make(map[string]string),
				sectorRevenue: make(map[string]float64),
				monthly:       make(map[domain.YearMonth]float64),
			}
			aggregators[key] = agg
		}

		sectorKey := domain.NormalizeKey(entry.Sector)
		if _, ok := agg.sectors[sectorKey]; !ok {
			agg.sectors[sectorKey] = entry.Sector
		}
		agg.regions[domain.NormalizeKey(entry.Region)] = entry.Region

		for _, record := range entry.SalesRecords {
			agg.revenue += record.Revenue
			agg.units += record.UnitsSold
			agg.growthRates = append(agg.growthRates, record.GrowthRate)
			agg.marketShares = append(agg.marketShares, record.MarketShare)
			agg.sectorRevenue[agg.sectors[sectorKey]] += record.Revenue
			agg.monthly[record.Period] += record.Revenue
			agg.records++
		}
	}

	metrics := make([]domain.ProductMetrics, 0, len(aggregators))
	for _, agg := range aggregators {
		metrics = append(metrics, agg.metrics())
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].TotalRevenue != metrics[j].TotalRevenue {
			return metrics[i].TotalRevenue > metrics[j].TotalRevenue
		}
		return metrics[i].ProductID < metrics[j].ProductID
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	if limit > len(metrics) {
		limit = len(metrics)
	}

	top := append([]domain.ProductMetrics{}, metrics[:limit]...)
	bottom := make([]domain.ProductMetrics, 0, limit)
	for i := len(metrics) - 1; i >= len(metrics)-limit; i-- {
		bottom = append(bottom, metrics[i])
	}

	return &domain.ProductPerformanceReport{
		TotalProducts:         len(metrics),
		TopProducts:           top,
		BottomProducts:        bottom,
		LifecycleDistribution: lifecycleDistribution(metrics),
		CrossSector:           crossSector(aggregators),
		PricingTiers:          pricingTiers(metrics),
		Filters:               filters,
	}
}

func (agg *productAggregator) metrics() domain.ProductMetrics {
	sectors := sortedValues(agg.sectors)
	regions := sortedValues(agg.regions)

	var revenuePerUnit float64
	if agg.units != 0 {
		revenuePerUnit = agg.revenue / float64(agg.units)
	}

	return domain.ProductMetrics{
		ProductID:          agg.productID,
		Company:            agg.company,
		TotalRevenue:       utils.RoundWithTwoDecimalPlace(agg.revenue),
		TotalUnits:         agg.units,
		AverageGrowthRate:  utils.RoundWithTwoDecimalPlace(mean(agg.growthRates)),
		AverageMarketShare: utils.RoundWithTwoDecimalPlace(mean(agg.marketShares)),
		Sectors:            sectors,
		Regions:            regions,
		SectorCount:        len(sectors),
		RegionCount:        len(regions),
		RevenuePerUnit:     utils.RoundWithTwoDecimalPlace(revenuePerUnit),
		EfficiencyScore:    utils.RoundWithTwoDecimalPlace(agg.revenue * float64(agg.units) / 1000),
		LifecycleStage:     lifecycleStage(agg.monthly),
		DataPoints:         agg.records,
	}
}

// lifecycleStage classifica pelo crescimento médio mês a mês dos últimos seis pontos mensais
func lifecycleStage(monthly map[domain.YearMonth]float64) domain.LifecycleStage {
	if len(monthly) < lifecycleMinPoints {
		return domain.LifecycleNew
	}

	periods := make([]domain.YearMonth, 0, len(monthly))
	for period := range monthly {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Before(periods[j])
	})

	if len(periods) > lifecycleWindow {
		periods = periods[len(periods)-lifecycleWindow:]
	}

	changes := make([]float64, 0, len(periods)-1)
	for i := 1; i < len(periods); i++ {
		if change, ok := percentChange(monthly[periods[i-1]], monthly[periods[i]]); ok {
			changes = append(changes, change)
		}
	}

	growth := mean(changes)
	switch {
	case growth > 15:
		return domain.LifecycleGrowth
	case growth > 5:
		return domain.LifecycleMature
	case growth > -5:
		return domain.LifecycleStable
	default:
		return domain.LifecycleDecline
	}
}

func lifecycleDistribution(metrics []domain.ProductMetrics) []domain.LifecycleBucket {
	var total float64
	buckets := make(map[domain.LifecycleStage]*domain.LifecycleBucket)
	for _, stage := range domain.LifecycleStages {
		buckets[stage] = &domain.LifecycleBucket{Stage: stage}
	}

	for _, m := range metrics {
		bucket := buckets[m.LifecycleStage]
		bucket.Count++
		bucket.Revenue += m.TotalRevenue
		total += m.TotalRevenue
	}

	result := make([]domain.LifecycleBucket, 0, len(domain.LifecycleStages))
	for _, stage := range domain.LifecycleStages {
		bucket := *buckets[stage]
		if total != 0 {
			bucket.RevenueShare = utils.RoundWithTwoDecimalPlace(bucket.Revenue / total * 100)
		}
		bucket.Revenue = utils.RoundWithTwoDecimalPlace(bucket.Revenue)
		result = append(result, bucket)
	}
	return result
}

func crossSector(aggregators map[string]*productAggregator) []domain.CrossSectorProduct {
	result := make([]domain.CrossSectorProduct, 0)

	for _, agg := range aggregators {
		if len(agg.sectors) < 2 {
			continue
		}

		sectors := sortedValues(agg.sectors)
		revenue := make(map[string]float64, len(sectors))
		best, worst := sectors[0], sectors[0]
		for _, sector := range sectors {
			revenue[sector] = utils.RoundWithTwoDecimalPlace(agg.sectorRevenue[sector])
			if agg.sectorRevenue[sector] > agg.sectorRevenue[best] {
				best = sector
			}
			if agg.sectorRevenue[sector] < agg.sectorRevenue[worst] {
				worst = sector
			}
		}

		result = append(result, domain.CrossSectorProduct{
			ProductID:     agg.productID,
			SectorRevenue: revenue,
			BestSector:    best,
			WorstSector:   worst,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductID < result[j].ProductID
	})
	return result
}

func pricingTier(revenuePerUnit float64) string {
	switch {
	case revenuePerUnit > 150:
		return domain.PricingTierPremium
	case revenuePerUnit > 75:
		return domain.PricingTierMidMarket
	default:
		return domain.PricingTierValue
	}
}

func pricingTiers(metrics []domain.ProductMetrics) []domain.PricingTier {
	tiers := []domain.PricingTier{
		{Tier: domain.PricingTierPremium, Products: []domain.ProductEfficiency{}},
		{Tier: domain.PricingTierMidMarket, Products: []domain.ProductEfficiency{}},
		{Tier: domain.PricingTierValue, Products: []domain.ProductEfficiency{}},
	}
	position := map[string]int{
		domain.PricingTierPremium:   0,
		domain.PricingTierMidMarket: 1,
		domain.PricingTierValue:     2,
	}

	for _, m := range metrics {
		i := position[pricingTier(m.RevenuePerUnit)]
		tiers[i].Products = append(tiers[i].Products, domain.ProductEfficiency{
			ProductID:       m.ProductID,
			RevenuePerUnit:  m.RevenuePerUnit,
			EfficiencyScore: m.EfficiencyScore,
		})
	}

	for i := range tiers {
		products := tiers[i].Products
		sort.SliceStable(products, func(a, b int) bool {
			if products[a].EfficiencyScore != products[b].EfficiencyScore {
				return products[a].EfficiencyScore > products[b].EfficiencyScore
			}
			return products[a].ProductID < products[b].ProductID
		})
	}

	return tiers
}

func sortedValues(m map[string]string) []string {
	values := make([]string, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
