package analyzing

import (
	"context"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

// GetSalesSummary agrega os registros que atendem aos filtros.
// Nenhum registro encontrado resulta em um resumo zerado, nunca em erro.
func (s *Service) GetSalesSummary(ctx context.Context, filters domain.SummaryFilters) (*domain.SalesSummary, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	from, to, err := parseBounds(filters.PeriodStart, filters.PeriodEnd)
	if err != nil {
		return nil, NewAnalyticsError(ErrInvalidFilters, CodeInvalidFilters, err.Error())
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, NewAnalyticsError(ErrInvalidFilters, CodeInvalidFilters, "period_start deve ser anterior ou igual a period_end")
	}

	snapshot := s.Snapshot(ctx)

	return cachedAnalytics(ctx, s, snapshot, "summary", filters, func() (*domain.SalesSummary, error) {
		return summarize(snapshot, filters, from, to), nil
	})
}

func summarize(snapshot *domain.Snapshot, filters domain.SummaryFilters, from, to domain.YearMonth) *domain.SalesSummary {
	positions := resolvePositions(snapshot,
		dimension{index: snapshot.Indexes.ByProduct, values: singleValue(filters.ProductID)},
		dimension{index: snapshot.Indexes.BySector, values: singleValue(filters.Sector)},
		dimension{index: snapshot.Indexes.ByRegion, values: singleValue(filters.Region)},
	)

	summary := &domain.SalesSummary{FiltersApplied: filters}

	var revenue float64
	growthRates := make([]float64, 0)
	products := make(map[string]bool)
	sectors := make(map[string]bool)

	for _, pos := range positions {
		entry := snapshot.Entries[pos]

		matched := false
		for _, record := range entry.SalesRecords {
			if !inRange(record.Period, from, to) {
				continue
			}
			matched = true
			revenue += record.Revenue
			summary.TotalUnits += record.UnitsSold
			growthRates = append(growthRates, record.GrowthRate)
			summary.TotalRecords++
		}

		if matched {
			products[domain.NormalizeKey(entry.ProductID)] = true
			sectors[domain.NormalizeKey(entry.Sector)] = true
		}
	}

	summary.TotalRevenue = utils.RoundWithTwoDecimalPlace(revenue)
	summary.AverageGrowthRate = utils.RoundWithTwoDecimalPlace(mean(growthRates))
	summary.UniqueProducts = len(products)
	summary.SectorsCovered = len(sectors)

	return summary
}
