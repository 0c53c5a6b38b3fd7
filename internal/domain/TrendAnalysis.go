package domain

// TrendPoint é um ponto mensal da série de tendência de um produto.
// Os campos de crescimento ficam ausentes quando não há histórico suficiente.
//
// YoYRevenueGrowth é o crescimento dentro de uma janela de 12 pontos: a partir do
// 12º ponto, compara a receita com o primeiro ponto da janela (11 posições antes).
// Não é uma comparação com o mesmo mês do ano anterior.
type TrendPoint struct {
	Period                    YearMonth `json:"period"`
	Revenue                   float64   `json:"revenue"`
	UnitsSold                 int64     `json:"units_sold"`
	GrowthRate                float64   `json:"growth_rate"`
	MarketShare               float64   `json:"market_share"`
	MoMRevenueGrowth          *float64  `json:"mom_revenue_growth,omitempty"`
	QoQRevenueGrowth          *float64  `json:"qoq_revenue_growth,omitempty"`
	YoYRevenueGrowth          *float64  `json:"yoy_revenue_growth,omitempty"`
	Revenue3MA                float64   `json:"revenue_3ma"`
	Revenue6MA                float64   `json:"revenue_6ma"`
	Revenue12MA               float64   `json:"revenue_12ma"`
	Units3MA                  float64   `json:"units_3ma"`
	Units6MA                  float64   `json:"units_6ma"`
	Units12MA                 float64   `json:"units_12ma"`
	SeasonallyAdjustedRevenue *float64  `json:"seasonally_adjusted_revenue,omitempty"`
	SourceRecords             int       `json:"source_records"`
}

// PeriodRange é o intervalo coberto por uma série
type PeriodRange struct {
	Start YearMonth `json:"start"`
	End   YearMonth `json:"end"`
}

// TrendRollup agrega a série por trimestre ou ano
type TrendRollup struct {
	Label     string  `json:"label"`
	Revenue   float64 `json:"revenue"`
	UnitsSold int64   `json:"units_sold"`
	Periods   int     `json:"periods"`
}

// TrendSummary contém as métricas gerais da série
type TrendSummary struct {
	TotalGrowthPercentage float64 `json:"total_growth_percentage"`
	AverageMonthlyGrowth  float64 `json:"average_monthly_growth"`
	TotalPeriods          int     `json:"total_periods"`
	LatestRevenue         float64 `json:"latest_revenue"`
	LatestUnits           int64   `json:"latest_units"`
}

// TrendAnalysis é o resultado da análise de tendência de um produto
type TrendAnalysis struct {
	ProductID      string        `json:"product_id"`
	Granularity    string        `json:"granularity"`
	PeriodRange    PeriodRange   `json:"period_range"`
	TrendData      []TrendPoint  `json:"trend_data"`
	Rollup         []TrendRollup `json:"rollup,omitempty"`
	SummaryMetrics TrendSummary  `json:"summary_metrics"`
}
