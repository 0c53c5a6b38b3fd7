package domain

// QueryRow é uma linha do resultado da consulta avançada
type QueryRow struct {
	ProductID   string    `json:"product_id"`
	Company     string    `json:"company"`
	Sector      string    `json:"sector"`
	Region      string    `json:"region"`
	Period      YearMonth `json:"period"`
	Revenue     float64   `json:"revenue"`
	UnitsSold   int64     `json:"units_sold"`
	Currency    string    `json:"currency"`
	GrowthRate  float64   `json:"growth_rate"`
	MarketShare float64   `json:"market_share"`
}

type DescriptiveStats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
}

type ConfidenceInterval struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// StatisticalSummary traz as estatísticas de significância do resultado
type StatisticalSummary struct {
	SampleSize              int                `json:"sample_size"`
	Revenue                 DescriptiveStats   `json:"revenue"`
	Units                   DescriptiveStats   `json:"units"`
	RevenueUnitsCorrelation float64            `json:"revenue_units_correlation"`
	RevenueMeanCI95         ConfidenceInterval `json:"revenue_mean_ci95"`
}

// QueryResult é a resposta completa da consulta avançada.
// Aggregations é indexado por métrica e depois por agregação (ex: revenue → sum).
type QueryResult struct {
	Rows         []QueryRow                    `json:"rows"`
	TotalMatched int                           `json:"total_matched"`
	Returned     int                           `json:"returned"`
	Truncated    bool                          `json:"truncated"`
	Aggregations map[string]map[string]float64 `json:"aggregations"`
	Statistics   *StatisticalSummary           `json:"statistics,omitempty"`
	Query        QueryRequest                  `json:"query"`
	SnapshotID   string                        `json:"snapshot_id"`
}
