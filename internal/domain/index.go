package domain

import (
	"sort"
)

// PeriodRecord associa um registro à posição da entrada de origem no snapshot
type PeriodRecord struct {
	Position int
	Record   SalesRecord
}

// Indexes são os mapeamentos construídos a cada carga do snapshot.
// As chaves categóricas são normalizadas com NormalizeKey.
type Indexes struct {
	ByProduct map[string][]int
	BySector  map[string][]int
	ByRegion  map[string][]int
	ByPeriod  map[YearMonth][]PeriodRecord

	periods []YearMonth
}

// BuildIndexes reconstrói todos os índices a partir das entradas
func BuildIndexes(entries []SalesEntry) Indexes {
	ix := Indexes{
		ByProduct: make(map[string][]int),
		BySector:  make(map[string][]int),
		ByRegion:  make(map[string][]int),
		ByPeriod:  make(map[YearMonth][]PeriodRecord),
	}

	for pos, entry := range entries {
		productKey := NormalizeKey(entry.ProductID)
		sectorKey := NormalizeKey(entry.Sector)
		regionKey := NormalizeKey(entry.Region)

		ix.ByProduct[productKey] = append(ix.ByProduct[productKey], pos)
		ix.BySector[sectorKey] = append(ix.BySector[sectorKey], pos)
		ix.ByRegion[regionKey] = append(ix.ByRegion[regionKey], pos)

		for _, record := range entry.SalesRecords {
			ix.ByPeriod[record.Period] = append(ix.ByPeriod[record.Period], PeriodRecord{Position: pos, Record: record})
		}
	}

	ix.periods = make([]YearMonth, 0, len(ix.ByPeriod))
	for period := range ix.ByPeriod {
		ix.periods = append(ix.periods, period)
	}
	sort.Slice(ix.periods, func(i, j int) bool {
		return ix.periods[i].Before(ix.periods[j])
	})

	return ix
}

// Periods retorna os períodos indexados em ordem crescente
func (ix Indexes) Periods() []YearMonth {
	return ix.periods
}

// PeriodRange retorna os registros entre from e to (inclusive).
// Um limite zero significa sem restrição naquele lado.
func (ix Indexes) PeriodRange(from, to YearMonth) []PeriodRecord {
	start := 0
	if !from.IsZero() {
		start = sort.Search(len(ix.periods), func(i int) bool {
			return !ix.periods[i].Before(from)
		})
	}

	result := make([]PeriodRecord, 0)
	for _, period := range ix.periods[start:] {
		if !to.IsZero() && period.After(to) {
			break
		}
		result = append(result, ix.ByPeriod[period]...)
	}

	return result
}

// Lookup retorna as posições indexadas para um valor categórico
func Lookup(index map[string][]int, value string) []int {
	return index[NormalizeKey(value)]
}
