package domain

// SalesSummary é o resultado agregado do resumo de vendas
type SalesSummary struct {
	TotalRevenue      float64        `json:"total_revenue"`
	TotalUnits        int64          `json:"total_units"`
	AverageGrowthRate float64        `json:"average_growth_rate"`
	TotalRecords      int            `json:"total_records"`
	UniqueProducts    int            `json:"unique_products"`
	SectorsCovered    int            `json:"sectors_covered"`
	FiltersApplied    SummaryFilters `json:"filters_applied"`
}

// SectorPerformance representa as métricas consolidadas de um setor
type SectorPerformance struct {
	Rank               int      `json:"rank"`
	Sector             string   `json:"sector"`
	TotalRevenue       float64  `json:"total_revenue"`
	TotalUnits         int64    `json:"total_units"`
	AverageGrowthRate  float64  `json:"average_growth_rate"`
	AverageMarketShare float64  `json:"average_market_share"`
	MarketPenetration  float64  `json:"market_penetration"`
	GrowthTrend        float64  `json:"growth_trend"`
	ProductCount       int      `json:"product_count"`
	Products           []string `json:"products"`
}

// SectorAnalysis é o ranking setorial completo
type SectorAnalysis struct {
	Sectors            []SectorPerformance `json:"sectors"`
	TotalMarketRevenue float64             `json:"total_market_revenue"`
	Filters            SectorFilters       `json:"filters"`
}
