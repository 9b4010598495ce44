package emission_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotrack/internal/emission"
)

func TestCarEmission(t *testing.T) {
	tests := []struct {
		name       string
		distance   float64
		efficiency float64
		fuel       emission.FuelType
		expected   float64
	}{
		{"regular gasoline", 500, 15, emission.FuelRegular, 77.33},
		{"premium uses the gasoline factor", 500, 15, emission.FuelPremium, 77.33},
		{"diesel", 500, 15, emission.FuelDiesel, 86.0},
		{"short trip", 10, 20, emission.FuelRegular, 1.16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := emission.CarEmission(tt.distance, tt.efficiency, tt.fuel)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCarEmissionRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		distance   float64
		efficiency float64
		fuel       emission.FuelType
		field      string
	}{
		{"zero distance", 0, 15, emission.FuelRegular, "distance"},
		{"negative distance", -10, 15, emission.FuelRegular, "distance"},
		{"zero efficiency", 500, 0, emission.FuelRegular, "fuelEfficiency"},
		{"unknown fuel", 500, 15, "electric", "fuelType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := emission.CarEmission(tt.distance, tt.efficiency, tt.fuel)
			var vErr *emission.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestACEmission(t *testing.T) {
	got, err := emission.ACEmission(8, 1.5, 25)
	require.NoError(t, err)
	assert.Equal(t, 5.48, got)
}

func TestACEmissionTemperatureBounds(t *testing.T) {
	// Inclusive bounds: 16 and 32 are the coldest and warmest accepted
	// settings.
	for _, temp := range []float64{16, 25, 32} {
		_, err := emission.ACEmission(8, 1.5, temp)
		assert.NoError(t, err, "temperature %.0f", temp)
	}
	for _, temp := range []float64{15, 33, -5, 100} {
		_, err := emission.ACEmission(8, 1.5, temp)
		var vErr *emission.ValidationError
		require.ErrorAs(t, err, &vErr, "temperature %.0f", temp)
		assert.Equal(t, "temperature", vErr.Field)
	}
}

func TestACEmissionRejectsInvalidInput(t *testing.T) {
	_, err := emission.ACEmission(0, 1.5, 25)
	assert.Error(t, err)

	_, err = emission.ACEmission(8, -1, 25)
	assert.Error(t, err)
}

func TestSnowRemovalReduction(t *testing.T) {
	got, err := emission.SnowRemovalReduction(50, 15, 60)
	require.NoError(t, err)
	assert.Equal(t, 45.0, got)
}

func TestSnowRemovalReductionRejectsInvalidInput(t *testing.T) {
	for _, tt := range []struct {
		name                 string
		area, depth, minutes float64
	}{
		{"zero area", 0, 15, 60},
		{"zero depth", 50, 0, 60},
		{"negative minutes", 50, 15, -1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := emission.SnowRemovalReduction(tt.area, tt.depth, tt.minutes)
			var vErr *emission.ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestValidFuelType(t *testing.T) {
	assert.True(t, emission.ValidFuelType("regular"))
	assert.True(t, emission.ValidFuelType("premium"))
	assert.True(t, emission.ValidFuelType("diesel"))
	assert.False(t, emission.ValidFuelType("electric"))
	assert.False(t, emission.ValidFuelType(""))
	assert.False(t, emission.ValidFuelType("Regular"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 77.33, emission.Round2(77.33333))
	assert.Equal(t, 77.34, emission.Round2(77.336))
	assert.Equal(t, -1.5, emission.Round2(-1.499999999999999))
	assert.Equal(t, 0.0, emission.Round2(0))
}

func TestSeasonalDailyBaseline(t *testing.T) {
	assert.Equal(t, 9.5, emission.SeasonalDailyBaseline(time.January))
	assert.Equal(t, 6.8, emission.SeasonalDailyBaseline(time.May))
	assert.Equal(t, 9.2, emission.SeasonalDailyBaseline(time.December))
}

func TestComparisonPercentage(t *testing.T) {
	assert.Equal(t, 25.0, emission.ComparisonPercentage(10, 8))
	assert.Equal(t, -50.0, emission.ComparisonPercentage(4, 8))
	assert.Equal(t, 0.0, emission.ComparisonPercentage(8, 8))

	// Zero baseline reports no deviation instead of dividing by zero.
	assert.Equal(t, 0.0, emission.ComparisonPercentage(5, 0))
}
