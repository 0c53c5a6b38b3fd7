package utils

import "time"

// DaysAgo retorna o início do dia (UTC) de now menos a quantidade de dias
func DaysAgo(now time.Time, days int) time.Time {
	cutoff := now.UTC().AddDate(0, 0, -days)
	return time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
}
