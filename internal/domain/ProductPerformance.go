package domain

// LifecycleStage classifica a tendência recente de crescimento de um produto
type LifecycleStage string

const (
	LifecycleNew     LifecycleStage = "new"
	LifecycleGrowth  LifecycleStage = "growth"
	LifecycleMature  LifecycleStage = "mature"
	LifecycleStable  LifecycleStage = "stable"
	LifecycleDecline LifecycleStage = "decline"
)

// LifecycleStages na ordem de exibição do histograma
var LifecycleStages = []LifecycleStage{
	LifecycleNew,
	LifecycleGrowth,
	LifecycleMature,
	LifecycleStable,
	LifecycleDecline,
}

// Faixas de receita por unidade
const (
	PricingTierPremium   = "premium"
	PricingTierMidMarket = "mid-market"
	PricingTierValue     = "value"
)

type ProductMetrics struct {
	ProductID          string         `json:"product_id"`
	Company            string         `json:"company"`
	TotalRevenue       float64        `json:"total_revenue"`
	TotalUnits         int64          `json:"total_units"`
	AverageGrowthRate  float64        `json:"average_growth_rate"`
	AverageMarketShare float64        `json:"average_market_share"`
	Sectors            []string       `json:"sectors"`
	Regions            []string       `json:"regions"`
	SectorCount        int            `json:"sector_count"`
	RegionCount        int            `json:"region_count"`
	RevenuePerUnit     float64        `json:"revenue_per_unit"`
	EfficiencyScore    float64        `json:"efficiency_score"`
	LifecycleStage     LifecycleStage `json:"lifecycle_stage"`
	DataPoints         int            `json:"data_points"`
}

type LifecycleBucket struct {
	Stage        LifecycleStage `json:"stage"`
	Count        int            `json:"count"`
	Revenue      float64        `json:"revenue"`
	RevenueShare float64        `json:"revenue_share"`
}

// CrossSectorProduct descreve um produto presente em mais de um setor
type CrossSectorProduct struct {
	ProductID     string             `json:"product_id"`
	SectorRevenue map[string]float64 `json:"sector_revenue"`
	BestSector    string             `json:"best_sector"`
	WorstSector   string             `json:"worst_sector"`
}

type ProductEfficiency struct {
	ProductID       string  `json:"product_id"`
	RevenuePerUnit  float64 `json:"revenue_per_unit"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

type PricingTier struct {
	Tier     string              `json:"tier"`
	Products []ProductEfficiency `json:"products"`
}

// ProductPerformanceReport é o resultado da análise de desempenho de produtos
type ProductPerformanceReport struct {
	TotalProducts         int                  `json:"total_products"`
	TopProducts           []ProductMetrics     `json:"top_products"`
	BottomProducts        []ProductMetrics     `json:"bottom_products"`
	LifecycleDistribution []LifecycleBucket    `json:"lifecycle_distribution"`
	CrossSector           []CrossSectorProduct `json:"cross_sector"`
	PricingTiers          []PricingTier        `json:"pricing_tiers"`
	Filters               ProductFilters       `json:"filters"`
}
