package analyzing

import (
	"context"
	"fmt"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/utils"
)

const qualityTargetScore = 90

// Verificadores de presença dos campos conhecidos; campos desconhecidos contam como ausentes
var entryFieldPresent = map[string]func(domain.SalesEntry) bool{
	"product_id":    func(e domain.SalesEntry) bool { return e.ProductID != "" },
	"company":       func(e domain.SalesEntry) bool { return e.Company != "" },
	"sector":        func(e domain.SalesEntry) bool { return e.Sector != "" },
	"region":        func(e domain.SalesEntry) bool { return e.Region != "" },
	"sales_records": func(e domain.SalesEntry) bool { return len(e.SalesRecords) > 0 },
	"metadata":      func(e domain.SalesEntry) bool { return e.Metadata != nil },
}

var recordFieldPresent = map[string]func(domain.SalesRecord) bool{
	"period":       func(r domain.SalesRecord) bool { return !r.Period.IsZero() },
	"units_sold":   func(domain.SalesRecord) bool { return true },
	"revenue":      func(domain.SalesRecord) bool { return true },
	"currency":     func(r domain.SalesRecord) bool { return r.Currency != "" },
	"growth_rate":  func(domain.SalesRecord) bool { return true },
	"market_share": func(domain.SalesRecord) bool { return true },
}

// ValidateDataQuality avalia a completude do snapshot sem rejeitar dados
func (s *Service) ValidateDataQuality(ctx context.Context) (*domain.DataQualityReport, error) {
	snapshot := s.Snapshot(ctx)

	return cachedAnalytics(ctx, s, snapshot, "data_quality", snapshot.Validation, func() (*domain.DataQualityReport, error) {
		return assessQuality(snapshot), nil
	})
}

func assessQuality(snapshot *domain.Snapshot) *domain.DataQualityReport {
	report := &domain.DataQualityReport{
		Issues:          make([]string, 0),
		Recommendations: make([]string, 0),
	}
	metrics := &report.Metrics

	metrics.TotalRecords = len(snapshot.Entries) + len(snapshot.Rejected)
	metrics.RejectedEntries = len(snapshot.Rejected)

	for _, rejected := range snapshot.Rejected {
		report.Issues = append(report.Issues, fmt.Sprintf("Entrada %d descartada na carga: %s", rejected.Position, rejected.Reason))
	}

	for _, entry := range snapshot.Entries {
		complete := true

		for _, field := range snapshot.Validation.RequiredFields {
			present, known := entryFieldPresent[field]
			if !known || !present(entry) {
				metrics.MissingFields++
				report.Issues = append(report.Issues, fmt.Sprintf("Campo %s ausente no produto %s", field, entry.ProductID))
				complete = false
			}
		}

		for _, record := range entry.SalesRecords {
			for _, field := range snapshot.Validation.SalesRecordFields {
				present, known := recordFieldPresent[field]
				if !known || !present(record) {
					metrics.MissingFields++
					report.Issues = append(report.Issues, fmt.Sprintf("Campo %s ausente em registro de %s", field, entry.ProductID))
					complete = false
					continue
				}

				if issue := invalidValue(field, record); issue != "" {
					metrics.InvalidValues++
					report.Issues = append(report.Issues, fmt.Sprintf("%s em %s (%s)", issue, entry.ProductID, record.Period))
					complete = false
				}
			}
		}

		if complete {
			metrics.CompleteRecords++
		}
	}

	if metrics.TotalRecords > 0 {
		report.OverallScore = utils.RoundWithTwoDecimalPlace(float64(metrics.CompleteRecords) / float64(metrics.TotalRecords) * 100)
	}

	if metrics.MissingFields > 0 {
		report.Recommendations = append(report.Recommendations, "Corrigir os campos obrigatórios ausentes nos dados de vendas")
	}
	if metrics.InvalidValues > 0 {
		report.Recommendations = append(report.Recommendations, "Corrigir valores inválidos (números negativos, participação de mercado fora de 0-100)")
	}
	if metrics.RejectedEntries > 0 {
		report.Recommendations = append(report.Recommendations, "Revisar as entradas descartadas durante a carga")
	}
	if report.OverallScore < qualityTargetScore {
		report.Recommendations = append(report.Recommendations, "Melhorar a qualidade dos dados para atingir mais de 90% de completude")
	}

	return report
}

func invalidValue(field string, record domain.SalesRecord) string {
	switch field {
	case "units_sold":
		if record.UnitsSold < 0 {
			return "units_sold negativo"
		}
	case "revenue":
		if record.Revenue < 0 {
			return "revenue negativo"
		}
	case "market_share":
		if record.MarketShare < 0 || record.MarketShare > 100 {
			return "market_share fora do intervalo 0-100"
		}
	}
	return ""
}
