package analyzing

import (
	"context"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

// Analyzer é a interface pública do motor de análises de vendas.
// Os resultados retornados ficam em cache e são compartilhados entre chamadas:
// devem ser tratados como somente leitura. Quem precisar alterar um resultado deve copiá-lo antes.
type Analyzer interface {
	// GetSalesSummary retorna os totais de vendas para os filtros informados
	GetSalesSummary(ctx context.Context, filters domain.SummaryFilters) (*domain.SalesSummary, error)

	// GetSectorPerformance retorna o ranking dos setores por receita
	GetSectorPerformance(ctx context.Context, filters domain.SectorFilters) (*domain.SectorAnalysis, error)

	// GetTrendAnalysis retorna a série temporal de um produto
	GetTrendAnalysis(ctx context.Context, productID string, granularity string) (*domain.TrendAnalysis, error)

	// GetProductPerformance retorna rankings, ciclo de vida e faixas de preço dos produtos
	GetProductPerformance(ctx context.Context, filters domain.ProductFilters) (*domain.ProductPerformanceReport, error)

	// AdvancedQuery executa uma consulta multidimensional com agregações e estatísticas
	AdvancedQuery(ctx context.Context, request domain.QueryRequest) (*domain.QueryResult, error)

	ValidateDataQuality(ctx context.Context) (*domain.DataQualityReport, error)

	CacheStats(ctx context.Context) domain.CacheStats
	InvalidateAll()
	Reload(ctx context.Context) (*domain.Snapshot, error)
	Snapshot(ctx context.Context) *domain.Snapshot
}
