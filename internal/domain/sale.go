package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrMissingRequiredField = errors.New("campo obrigatório ausente")
	ErrInvalidPeriod        = errors.New("período inválido")
	ErrInvalidUnits         = errors.New("quantidade de unidades inválida")
)

// SalesRecord representa o desempenho mensal de um produto
type SalesRecord struct {
	Period      YearMonth `json:"period"`
	UnitsSold   int64     `json:"units_sold"`
	Revenue     float64   `json:"revenue"`
	Currency    string    `json:"currency"`
	GrowthRate  float64   `json:"growth_rate"`
	MarketShare float64   `json:"market_share"`
}

// SalesEntry agrupa os registros de venda de um produto em um setor e região
type SalesEntry struct {
	ProductID    string         `json:"product_id"`
	Company      string         `json:"company"`
	Sector       string         `json:"sector"`
	Region       string         `json:"region"`
	SalesRecords []SalesRecord  `json:"sales_records"`
	Metadata     map[string]any `json:"metadata"`
}

// RawSalesRecord é o formato do registro no documento de origem, antes da validação
type RawSalesRecord struct {
	Period      *string  `json:"period"`
	UnitsSold   *jsoniter.Number `json:"units_sold"`
	Revenue     *float64         `json:"revenue"`
	Currency    *string          `json:"currency"`
	GrowthRate  *float64         `json:"growth_rate"`
	MarketShare *float64         `json:"market_share"`
}

// RawSalesEntry é o formato da entrada no documento de origem, antes da validação
type RawSalesEntry struct {
	ProductID    *string          `json:"product_id"`
	Company      *string          `json:"company"`
	Sector       *string          `json:"sector"`
	Region       *string          `json:"region"`
	SalesRecords []RawSalesRecord `json:"sales_records"`
	Metadata     map[string]any   `json:"metadata"`
}

// NewSalesRecord valida os campos obrigatórios e constrói um SalesRecord
func NewSalesRecord(raw RawSalesRecord) (SalesRecord, error) {
	switch {
	case raw.Period == nil:
		return SalesRecord{}, missingField("period")
	case raw.UnitsSold == nil:
		return SalesRecord{}, missingField("units_sold")
	case raw.Revenue == nil:
		return SalesRecord{}, missingField("revenue")
	case raw.Currency == nil:
		return SalesRecord{}, missingField("currency")
	case raw.GrowthRate == nil:
		return SalesRecord{}, missingField("growth_rate")
	case raw.MarketShare == nil:
		return SalesRecord{}, missingField("market_share")
	}

	period, err := ParseYearMonth(*raw.Period)
	if err != nil {
		return SalesRecord{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, err.Error())
	}

	units, err := parseUnits(*raw.UnitsSold)
	if err != nil {
		return SalesRecord{}, err
	}

	return SalesRecord{
		Period:      period,
		UnitsSold:   units,
		Revenue:     *raw.Revenue,
		Currency:    *raw.Currency,
		GrowthRate:  *raw.GrowthRate,
		MarketShare: *raw.MarketShare,
	}, nil
}

// parseUnits aceita inteiros e números de ponto flutuante sem parte fracionária (ex: 10.0)
func parseUnits(n jsoniter.Number) (int64, error) {
	if units, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return units, nil
	}

	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidUnits, n.String())
	}
	return int64(f), nil
}

// NewSalesEntry valida a entrada e todos os seus registros
func NewSalesEntry(raw RawSalesEntry) (SalesEntry, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"product_id", raw.ProductID},
		{"company", raw.Company},
		{"sector", raw.Sector},
		{"region", raw.Region},
	}
	for _, field := range required {
		if field.value == nil {
			return SalesEntry{}, missingField(field.name)
		}
	}

	records := make([]SalesRecord, 0, len(raw.SalesRecords))
	for i, rawRecord := range raw.SalesRecords {
		record, err := NewSalesRecord(rawRecord)
		if err != nil {
			return SalesEntry{}, fmt.Errorf("registro %d do produto %s: %w", i, *raw.ProductID, err)
		}
		records = append(records, record)
	}

	metadata := raw.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return SalesEntry{
		ProductID:    *raw.ProductID,
		Company:      *raw.Company,
		Sector:       *raw.Sector,
		Region:       *raw.Region,
		SalesRecords: records,
		Metadata:     metadata,
	}, nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredField, name)
}

// NormalizeKey normaliza valores categóricos para busca sem diferenciar maiúsculas
func NormalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
