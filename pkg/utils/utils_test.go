package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "Zero", in: 0, want: 0},
		{name: "Arredonda para cima", in: 10.005001, want: 10.01},
		{name: "Negativo", in: -3.14159, want: -3.14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundWithTwoDecimalPlace(tt.in))
		})
	}
}

func TestDaysAgo(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 12, 16, 0, 0, 0, 0, time.UTC), DaysAgo(now, 90))
}

func TestCanonicalJson_OrdenaChaves(t *testing.T) {
	out, err := CanonicalJson(map[string]int{"b": 2, "a": 1})
	assert.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, out)
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	assert.NoError(t, err)
	assert.Len(t, id, 6)
}
