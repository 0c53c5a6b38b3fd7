package domain

import (
	"sort"
	"strings"
)

// Períodos relativos aceitos pela análise setorial
const (
	TimePeriodLatestQuarter = "latest_quarter"
	TimePeriodLatest6Months = "latest_6_months"
	TimePeriodLatestYear    = "latest_year"
)

// Granularidades aceitas pela análise de tendência
const (
	GranularityMonthly   = "monthly"
	GranularityQuarterly = "quarterly"
	GranularityYearly    = "yearly"
)

// SummaryFilters são os filtros do resumo de vendas
type SummaryFilters struct {
	ProductID   string `json:"product_id,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Region      string `json:"region,omitempty"`
	PeriodStart string `json:"period_start,omitempty" validate:"omitempty,yearmonth"`
	PeriodEnd   string `json:"period_end,omitempty" validate:"omitempty,yearmonth"`
}

// SectorFilters são os filtros da análise setorial
type SectorFilters struct {
	Region     string `json:"region,omitempty"`
	TimePeriod string `json:"time_period,omitempty" validate:"omitempty,oneof=latest_quarter latest_6_months latest_year"`
}

// ProductFilters são os filtros da análise de desempenho de produtos
type ProductFilters struct {
	Sector string `json:"sector,omitempty"`
	Region string `json:"region,omitempty"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// QueryRequest é a consulta multidimensional do motor de consultas avançadas
type QueryRequest struct {
	ProductIDs        []string `json:"product_ids,omitempty"`
	Sectors           []string `json:"sectors,omitempty"`
	Regions           []string `json:"regions,omitempty"`
	DateFrom          string   `json:"date_from,omitempty" validate:"omitempty,yearmonth"`
	DateTo            string   `json:"date_to,omitempty" validate:"omitempty,yearmonth"`
	MinRevenue        *float64 `json:"min_revenue,omitempty"`
	MaxRevenue        *float64 `json:"max_revenue,omitempty"`
	MinUnits          *int64   `json:"min_units,omitempty"`
	MaxUnits          *int64   `json:"max_units,omitempty"`
	Aggregations      []string `json:"aggregations,omitempty" validate:"omitempty,dive,oneof=sum avg count min max"`
	SortBy            string   `json:"sort_by,omitempty" validate:"omitempty,oneof=revenue units growth_rate market_share"`
	SortAscending     bool     `json:"sort_ascending,omitempty"`
	Limit             int      `json:"limit,omitempty" validate:"gte=0"`
	IncludeStatistics bool     `json:"include_statistics,omitempty"`
}

// Canonical retorna uma cópia normalizada da consulta, usada como chave de cache.
// Listas são ordenadas e sem duplicatas; valores vazios recebem o padrão.
func (q QueryRequest) Canonical() QueryRequest {
	q.ProductIDs = canonicalList(q.ProductIDs)
	q.Sectors = canonicalList(q.Sectors)
	q.Regions = canonicalList(q.Regions)
	q.Aggregations = canonicalList(q.Aggregations)
	q.DateFrom = strings.TrimSpace(q.DateFrom)
	q.DateTo = strings.TrimSpace(q.DateTo)

	if len(q.Aggregations) == 0 {
		q.Aggregations = []string{"avg", "count", "sum"}
	}
	if q.SortBy == "" {
		q.SortBy = "revenue"
	}

	return q
}

func canonicalList(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		key := NormalizeKey(value)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, key)
	}
	sort.Strings(result)

	if len(result) == 0 {
		return nil
	}
	return result
}
