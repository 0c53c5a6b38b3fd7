// Package exporter gera relatórios em planilha a partir dos resultados de análise
package exporter

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

const (
	SheetSummary  = "Resumo"
	SheetSectors  = "Setores"
	SheetProducts = "Produtos"
	SheetQuality  = "Qualidade"
)

// Report agrupa os resultados exportados. Campos nulos geram abas sem linhas de dados.
type Report struct {
	Summary  *domain.SalesSummary
	Sectors  *domain.SectorAnalysis
	Products *domain.ProductPerformanceReport
	Quality  *domain.DataQualityReport
}

// WriteWorkbook grava o relatório em um arquivo .xlsx
func WriteWorkbook(path string, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return errors.Wrap(err, "erro ao renomear aba de resumo")
	}
	for _, sheet := range []string{SheetSectors, SheetProducts, SheetQuality} {
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.Wrapf(err, "erro ao criar aba %s", sheet)
		}
	}

	writers := []func(*excelize.File, Report) error{
		writeSummary,
		writeSectors,
		writeProducts,
		writeQuality,
	}
	for _, write := range writers {
		if err := write(f, report); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "erro ao salvar planilha %s", path)
	}
	return nil
}

func writeSummary(f *excelize.File, report Report) error {
	rows := [][]any{{"Métrica", "Valor"}}
	if s := report.Summary; s != nil {
		rows = append(rows,
			[]any{"Receita total", s.TotalRevenue},
			[]any{"Unidades vendidas", s.TotalUnits},
			[]any{"Crescimento médio (%)", s.AverageGrowthRate},
			[]any{"Registros", s.TotalRecords},
			[]any{"Produtos", s.UniqueProducts},
			[]any{"Setores", s.SectorsCovered},
		)
	}
	return writeRows(f, SheetSummary, rows)
}

func writeSectors(f *excelize.File, report Report) error {
	rows := [][]any{{
		"Posição", "Setor", "Receita", "Unidades", "Crescimento médio (%)",
		"Participação média (%)", "Penetração (%)", "Tendência", "Produtos",
	}}
	if report.Sectors != nil {
		for _, s := range report.Sectors.Sectors {
			rows = append(rows, []any{
				s.Rank, s.Sector, s.TotalRevenue, s.TotalUnits, s.AverageGrowthRate,
				s.AverageMarketShare, s.MarketPenetration, s.GrowthTrend, s.ProductCount,
			})
		}
	}
	return writeRows(f, SheetSectors, rows)
}

func writeProducts(f *excelize.File, report Report) error {
	rows := [][]any{{
		"Grupo", "Produto", "Empresa", "Receita", "Unidades", "Receita por unidade",
		"Eficiência", "Ciclo de vida", "Setores",
	}}
	if p := report.Products; p != nil {
		appendGroup := func(group string, products []domain.ProductMetrics) {
			for _, m := range products {
				rows = append(rows, []any{
					group, m.ProductID, m.Company, m.TotalRevenue, m.TotalUnits,
					m.RevenuePerUnit, m.EfficiencyScore, string(m.LifecycleStage),
					strings.Join(m.Sectors, ", "),
				})
			}
		}
		appendGroup("top", p.TopProducts)
		appendGroup("bottom", p.BottomProducts)
	}
	return writeRows(f, SheetProducts, rows)
}

func writeQuality(f *excelize.File, report Report) error {
	rows := [][]any{{"Item", "Valor"}}
	if q := report.Quality; q != nil {
		rows = append(rows,
			[]any{"Pontuação geral (%)", q.OverallScore},
			[]any{"Entradas", q.Metrics.TotalRecords},
			[]any{"Entradas completas", q.Metrics.CompleteRecords},
			[]any{"Campos ausentes", q.Metrics.MissingFields},
			[]any{"Valores inválidos", q.Metrics.InvalidValues},
			[]any{"Entradas descartadas", q.Metrics.RejectedEntries},
		)
		for _, issue := range q.Issues {
			rows = append(rows, []any{"Problema", issue})
		}
		for _, rec := range q.Recommendations {
			rows = append(rows, []any{"Recomendação", rec})
		}
	}
	return writeRows(f, SheetQuality, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "erro ao calcular célula")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "erro ao escrever linha %d da aba %s", i+1, sheet)
		}
	}
	return nil
}
