package main

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-analytics/infrastructure/datasource"
	"github.com/vfg2006/sales-analytics/internal/config"
	"github.com/vfg2006/sales-analytics/internal/usecases/analyzing"
)

const reportFixture = `{
	"sales_data": [
		{
			"product_id": "alpha-pos", "company": "Alpha", "sector": "Retail", "region": "Nordic",
			"sales_records": [
				{"period": "2024-01", "units_sold": 10, "revenue": 100, "currency": "EUR", "growth_rate": 1, "market_share": 10}
			]
		},
		{
			"product_id": "beta-erp", "company": "Beta", "sector": "Finance", "region": "DACH",
			"sales_records": [
				{"period": "2024-01", "units_sold": 2, "revenue": 300, "currency": "EUR", "growth_rate": 4, "market_share": 20}
			]
		}
	]
}`

func TestNewSource(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		wantName string
		wantErr  bool
	}{
		{name: "Fonte em arquivo", driver: config.DataSourceFile, wantName: "file:data/sales_data.json"},
		{name: "Fonte desconhecida", driver: "s3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{DataSource: config.DataSource{Driver: tt.driver, FilePath: "data/sales_data.json"}}

			source, closeSource, err := newSource(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			defer closeSource()
			assert.Equal(t, tt.wantName, source.Name())
		})
	}
}

func TestBuildReport(t *testing.T) {
	cfg := &config.Config{Query: config.Query{MaxRows: 100}}
	metrics := analyzing.NewMetrics("test", prometheus.NewRegistry())
	analyzer := analyzing.NewService(cfg, datasource.NewMemorySource("report", []byte(reportFixture)), analyzing.WithMetrics(metrics))

	report, err := buildReport(context.Background(), analyzer)

	require.NoError(t, err)
	assert.Equal(t, 400.0, report.Summary.TotalRevenue)
	require.Len(t, report.Sectors.Sectors, 2)
	assert.Equal(t, "Finance", report.Sectors.Sectors[0].Sector)
	assert.Equal(t, 2, report.Products.TotalProducts)
	assert.Equal(t, 100.0, report.Quality.OverallScore)
}
