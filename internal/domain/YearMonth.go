package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearMonthLayout é o formato textual dos períodos (yyyy-mm)
const YearMonthLayout = "2006-01"

// YearMonth representa um período mensal comparável
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth converte uma string yyyy-mm em YearMonth
func ParseYearMonth(value string) (YearMonth, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return YearMonth{}, fmt.Errorf("período inválido %q: formato esperado yyyy-mm", value)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, fmt.Errorf("ano inválido no período %q", value)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("mês inválido no período %q", value)
	}

	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// YearMonthOf retorna o período que contém a data informada
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Compare retorna -1, 0 ou 1
func (ym YearMonth) Compare(other YearMonth) int {
	a, b := ym.ordinal(), other.ordinal()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Compare(other) < 0
}

func (ym YearMonth) After(other YearMonth) bool {
	return ym.Compare(other) > 0
}

// AddMonths desloca o período em n meses (n pode ser negativo)
func (ym YearMonth) AddMonths(n int) YearMonth {
	total := ym.ordinal() + n
	return YearMonth{Year: total / 12, Month: time.Month(total%12 + 1)}
}

// Time retorna o primeiro dia do período em UTC
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Quarter retorna o rótulo do trimestre (ex: 2024-Q1)
func (ym YearMonth) Quarter() string {
	return fmt.Sprintf("%04d-Q%d", ym.Year, (int(ym.Month)-1)/3+1)
}

func (ym YearMonth) ordinal() int {
	return ym.Year*12 + int(ym.Month) - 1
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	if ym.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(ym.String())), nil
}

func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		*ym = YearMonth{}
		return nil
	}

	unquoted, err := strconv.Unquote(raw)
	if err != nil {
		return fmt.Errorf("período inválido %s: %w", raw, err)
	}

	parsed, err := ParseYearMonth(unquoted)
	if err != nil {
		return err
	}

	*ym = parsed
	return nil
}
