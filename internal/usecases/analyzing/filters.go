package analyzing

import (
	"sort"

	"github.com/vfg2006/sales-analytics/internal/domain"
	"github.com/vfg2006/sales-analytics/pkg/validation"
)

// dimension é um filtro categórico resolvido por índice.
// Valores dentro da mesma dimensão são unidos, dimensões diferentes são interseccionadas.
type dimension struct {
	index  map[string][]int
	values []string
}

func singleValue(value string) []string {
	if domain.NormalizeKey(value) == "" {
		return nil
	}
	return []string{value}
}

// resolvePositions retorna as posições das entradas que atendem a todas as dimensões, em ordem
func resolvePositions(snapshot *domain.Snapshot, dims ...dimension) []int {
	var selected map[int]bool

	for _, dim := range dims {
		if len(dim.values) == 0 {
			continue
		}

		union := make(map[int]bool)
		for _, value := range dim.values {
			for _, pos := range domain.Lookup(dim.index, value) {
				union[pos] = true
			}
		}

		if selected == nil {
			selected = union
			continue
		}
		for pos := range selected {
			if !union[pos] {
				delete(selected, pos)
			}
		}
	}

	if selected == nil {
		positions := make([]int, len(snapshot.Entries))
		for i := range positions {
			positions[i] = i
		}
		return positions
	}

	positions := make([]int, 0, len(selected))
	for pos := range selected {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

// parseBounds converte limites opcionais yyyy-mm; vazio significa sem limite
func parseBounds(start, end string) (domain.YearMonth, domain.YearMonth, error) {
	var from, to domain.YearMonth
	var err error

	if start != "" {
		if from, err = domain.ParseYearMonth(start); err != nil {
			return from, to, err
		}
	}
	if end != "" {
		if to, err = domain.ParseYearMonth(end); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

func inRange(period, from, to domain.YearMonth) bool {
	if !from.IsZero() && period.Before(from) {
		return false
	}
	if !to.IsZero() && period.After(to) {
		return false
	}
	return true
}

func validateFilters(filters any) error {
	if err := validation.Struct(filters); err != nil {
		return NewAnalyticsError(ErrInvalidFilters, CodeInvalidFilters, err.Error())
	}
	return nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// percentChange retorna a variação percentual e false quando a base é zero
func percentChange(previous, current float64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}
