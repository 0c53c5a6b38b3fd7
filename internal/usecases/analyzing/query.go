package analyzing

import (
	"context"
	"math"
	"sort"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/log"
	"github.com/vfg2006/sales-analytics/pkg/utils"
	"github.com/vfg2006/sales-analytics/pkg/validation"
)

// Métricas agregadas pela consulta avançada
var queryMetrics = []string{"revenue", "units_sold", "growth_rate", "market_share"}

// AdvancedQuery executa a consulta multidimensional.
// As agregações cobrem todas as linhas encontradas; as linhas retornadas são limitadas.
// O resultado fica no cache de consultas e é compartilhado, portanto somente leitura.
func (s *Service) AdvancedQuery(ctx context.Context, request domain.QueryRequest) (*domain.QueryResult, error) {
	if err := validation.Struct(request); err != nil {
		return nil, NewAnalyticsError(ErrInvalidQuery, CodeInvalidQuery, err.Error())
	}

	canonical := request.Canonical()
	if canonical.Limit <= 0 || canonical.Limit > s.maxRows {
		canonical.Limit = s.maxRows
	}

	from, to, err := parseBounds(canonical.DateFrom, canonical.DateTo)
	if err != nil {
		return nil, NewAnalyticsError(ErrInvalidQuery, CodeInvalidQuery, err.Error())
	}
	if err := validateRanges(canonical, from, to); err != nil {
		return nil, err
	}

	snapshot := s.Snapshot(ctx)

	key, err := resultKey(snapshot, "advanced_query", canonical)
	if err != nil {
		return nil, err
	}

	if result, ok := s.queryCache.Get(key); ok {
		s.metrics.hit(cacheQuery)
		return result, nil
	}
	s.metrics.miss(cacheQuery)

	result := runQuery(snapshot, canonical, from, to)
	s.queryCache.Set(key, result)

	log.ForContext(ctx).WithFields(log.Fields{
		"matched":   result.TotalMatched,
		"returned":  result.Returned,
		"truncated": result.Truncated,
	}).Debug("Consulta avançada executada")

	return result, nil
}

func validateRanges(q domain.QueryRequest, from, to domain.YearMonth) error {
	switch {
	case !from.IsZero() && !to.IsZero() && from.After(to):
		return NewAnalyticsError(ErrInvalidQuery, CodeInvalidQuery, "date_from deve ser anterior ou igual a date_to")
	case q.MinRevenue != nil && q.MaxRevenue != nil && *q.MinRevenue > *q.MaxRevenue:
		return NewAnalyticsError(ErrInvalidQuery, CodeInvalidQuery, "min_revenue deve ser menor ou igual a max_revenue")
	case q.MinUnits != nil && q.MaxUnits != nil && *q.MinUnits > *q.MaxUnits:
		return NewAnalyticsError(ErrInvalidQuery, CodeInvalidQuery, "min_units deve ser menor ou igual a max_units")
	}
	return nil
}

func runQuery(snapshot *domain.Snapshot, q domain.QueryRequest, from, to domain.YearMonth) *domain.QueryResult {
	positions := resolvePositions(snapshot,
		dimension{index: snapshot.Indexes.ByProduct, values: q.ProductIDs},
		dimension{index: snapshot.Indexes.BySector, values: q.Sectors},
		dimension{index: snapshot.Indexes.ByRegion, values: q.Regions},
	)

	candidates := candidateRecords(snapshot, positions, from, to)

	rows := make([]domain.QueryRow, 0, len(candidates))
	for _, candidate := range candidates {
		record := candidate.Record
		if !withinBounds(q, record) {
			continue
		}

		entry := snapshot.Entries[candidate.Position]
		rows = append(rows, domain.QueryRow{
			ProductID:   entry.ProductID,
			Company:     entry.Company,
			Sector:      entry.Sector,
			Region:      entry.Region,
			Period:      record.Period,
			Revenue:     record.Revenue,
			UnitsSold:   record.UnitsSold,
			Currency:    record.Currency,
			GrowthRate:  record.GrowthRate,
			MarketShare: record.MarketShare,
		})
	}

	sortRows(rows, q.SortBy, q.SortAscending)

	result := &domain.QueryResult{
		TotalMatched: len(rows),
		Aggregations: aggregate(rows, q.Aggregations),
		Query:        q,
		SnapshotID:   snapshot.ID,
	}

	if q.IncludeStatistics {
		result.Statistics = statisticalSummary(rows)
	}

	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
		result.Truncated = true
	}
	result.Rows = rows
	result.Returned = len(rows)

	return result
}

// candidateRecords reduz o conjunto pelo índice de períodos quando há intervalo de datas
func candidateRecords(snapshot *domain.Snapshot, positions []int, from, to domain.YearMonth) []domain.PeriodRecord {
	if !from.IsZero() || !to.IsZero() {
		allowed := make(map[int]bool, len(positions))
		for _, pos := range positions {
			allowed[pos] = true
		}

		candidates := make([]domain.PeriodRecord, 0)
		for _, pr := range snapshot.Indexes.PeriodRange(from, to) {
			if allowed[pr.Position] {
				candidates = append(candidates, pr)
			}
		}
		return candidates
	}

	candidates := make([]domain.PeriodRecord, 0)
	for _, pos := range positions {
		for _, record := range snapshot.Entries[pos].SalesRecords {
			candidates = append(candidates, domain.PeriodRecord{Position: pos, Record: record})
		}
	}
	return candidates
}

func withinBounds(q domain.QueryRequest, record domain.SalesRecord) bool {
	switch {
	case q.MinRevenue != nil && record.Revenue < *q.MinRevenue:
		return false
	case q.MaxRevenue != nil && record.Revenue > *q.MaxRevenue:
		return false
	case q.MinUnits != nil && record.UnitsSold < *q.MinUnits:
		return false
	case q.MaxUnits != nil && record.UnitsSold > *q.MaxUnits:
		return false
	}
	return true
}

func sortValue(row domain.QueryRow, sortBy string) float64 {
	switch sortBy {
	case "units":
		return float64(row.UnitsSold)
	case "growth_rate":
		return row.GrowthRate
	case "market_share":
		return row.MarketShare
	default:
		return row.Revenue
	}
}

// sortRows ordena pela chave pedida; empates seguem produto e período
func sortRows(rows []domain.QueryRow, sortBy string, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := sortValue(rows[i], sortBy), sortValue(rows[j], sortBy)
		if a != b {
			if ascending {
				return a < b
			}
			return a > b
		}
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].Period.Before(rows[j].Period)
	})
}

func metricValue(row domain.QueryRow, metric string) float64 {
	switch metric {
	case "units_sold":
		return float64(row.UnitsSold)
	case "growth_rate":
		return row.GrowthRate
	case "market_share":
		return row.MarketShare
	default:
		return row.Revenue
	}
}

func aggregate(rows []domain.QueryRow, aggregations []string) map[string]map[string]float64 {
	result := make(map[string]map[string]float64, len(queryMetrics))

	for _, metric := range queryMetrics {
		values := make(map[string]float64, len(aggregations))

		sum, lowest, highest := 0.0, math.Inf(1), math.Inf(-1)
		for _, row := range rows {
			v := metricValue(row, metric)
			sum += v
			lowest = math.Min(lowest, v)
			highest = math.Max(highest, v)
		}
		if len(rows) == 0 {
			lowest, highest = 0, 0
		}

		for _, agg := range aggregations {
			switch agg {
			case "sum":
				values[agg] = utils.RoundWithTwoDecimalPlace(sum)
			case "avg":
				if len(rows) > 0 {
					values[agg] = utils.RoundWithTwoDecimalPlace(sum / float64(len(rows)))
				} else {
					values[agg] = 0
				}
			case "count":
				values[agg] = float64(len(rows))
			case "min":
				values[agg] = lowest
			case "max":
				values[agg] = highest
			}
		}

		result[metric] = values
	}

	return result
}
