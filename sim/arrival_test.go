package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHourOfDay(t *testing.T) {
	tests := []struct {
		interval, perHour, want int
	}{
		{0, 4, 0},
		{3, 4, 0},
		{4, 4, 1},
		{95, 4, 23},
		{96, 4, 0},  // next day wraps
		{100, 4, 1}, // day 2, 01:00
		{35039, 4, 23},
		{25, 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HourOfDay(tt.interval, tt.perHour), "HourOfDay(%d, %d)", tt.interval, tt.perHour)
	}
}

func TestHourlyArrivalModel_SplitsHourlyProbability(t *testing.T) {
	// GIVEN the reference table at 15-minute resolution
	m := NewHourlyArrivalModel(ReferenceArrivalProbabilities, 4)

	// THEN each interval gets a quarter of its hour's probability
	assert.InDelta(t, 0.0094/4, m.Probability(0), 1e-15)
	assert.InDelta(t, 0.1038/4, m.Probability(16*4), 1e-15)
	assert.InDelta(t, 0.1038/4, m.Probability(16*4+3), 1e-15)
	assert.InDelta(t, 0.0472/4, m.Probability(96+19*4), 1e-15)
}

func TestHourlyArrivalModel_Pure(t *testing.T) {
	m := NewHourlyArrivalModel(ReferenceArrivalProbabilities, 4)
	for _, interval := range []int{0, 37, 64, 35039} {
		first := m.Probability(interval)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, m.Probability(interval))
		}
	}
}

func TestHourlyArrivalModel_DoesNotAliasInput(t *testing.T) {
	hourly := append([]float64(nil), ReferenceArrivalProbabilities...)
	m := NewHourlyArrivalModel(hourly, 1)
	hourly[0] = 1
	assert.Equal(t, 0.0094, m.Probability(0))
}

func TestArrivalFunc(t *testing.T) {
	var m ArrivalModel = ArrivalFunc(func(interval int) float64 {
		if interval == 0 {
			return 1
		}
		return 0
	})
	assert.Equal(t, 1.0, m.Probability(0))
	assert.Equal(t, 0.0, m.Probability(1))
}
