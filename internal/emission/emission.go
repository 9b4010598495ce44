// Package emission holds the pure CO2 accounting functions: fixed emission
// coefficients and the closed-form formulas converting raw activity inputs
// into a CO2 mass in kilograms. No I/O happens here; every function is
// deterministic and safe to call concurrently.
package emission

import (
	"fmt"
	"math"
)

// FuelType identifies the fuel burned by a car.
type FuelType string

const (
	FuelRegular FuelType = "regular"
	FuelPremium FuelType = "premium"
	FuelDiesel  FuelType = "diesel"
)

// Emission coefficients. National average values; keeping them as named
// constants means a policy update changes exactly one place.
const (
	// kg-CO2 emitted per liter of fuel burned.
	gasolineFactorKgPerL = 2.32
	dieselFactorKgPerL   = 2.58

	// GridFactorKgPerKWh is the average grid emission factor in kg-CO2 per kWh.
	GridFactorKgPerKWh = 0.457

	// snowRemovalFactor converts area(m2) x depth(cm) x minutes into kg-CO2 avoided.
	snowRemovalFactor = 0.001
)

// Accepted air-conditioner temperature settings, degrees Celsius, inclusive.
const (
	MinACTemperature = 16.0
	MaxACTemperature = 32.0
)

var fuelFactors = map[FuelType]float64{
	FuelRegular: gasolineFactorKgPerL,
	FuelPremium: gasolineFactorKgPerL,
	FuelDiesel:  dieselFactorKgPerL,
}

// ValidationError reports an out-of-range or malformed activity input. It is
// raised before any store access and maps to a client error at the boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ValidFuelType reports whether s names a known fuel type.
func ValidFuelType(s string) bool {
	_, ok := fuelFactors[FuelType(s)]
	return ok
}

// CarEmission computes the kg-CO2 emitted by driving distanceKm with the
// given fuel efficiency (km/L): fuel consumed = distance / efficiency,
// emission = consumed x coefficient for the fuel type.
func CarEmission(distanceKm, fuelEfficiencyKmPerL float64, fuel FuelType) (float64, error) {
	if distanceKm <= 0 {
		return 0, invalid("distance", "must be greater than 0")
	}
	if fuelEfficiencyKmPerL <= 0 {
		return 0, invalid("fuelEfficiency", "must be greater than 0")
	}
	factor, ok := fuelFactors[fuel]
	if !ok {
		return 0, invalid("fuelType", fmt.Sprintf("unknown fuel type %q", fuel))
	}
	consumedLiters := distanceKm / fuelEfficiencyKmPerL
	return Round2(consumedLiters * factor), nil
}

// ACEmission computes the kg-CO2 emitted by running an air conditioner for
// usageHours at powerKw, using the grid emission factor. The temperature
// setting does not enter the formula but is validated against the supported
// range [16, 32] degrees C.
func ACEmission(usageHours, powerKw, temperatureC float64) (float64, error) {
	if usageHours <= 0 {
		return 0, invalid("usageHours", "must be greater than 0")
	}
	if powerKw <= 0 {
		return 0, invalid("powerConsumption", "must be greater than 0")
	}
	if temperatureC < MinACTemperature || temperatureC > MaxACTemperature {
		return 0, invalid("temperature", fmt.Sprintf("must be between %.0f and %.0f degrees C", MinACTemperature, MaxACTemperature))
	}
	return Round2(usageHours * powerKw * GridFactorKgPerKWh), nil
}

// SnowRemovalReduction computes the kg-CO2 credited for clearing areaM2 of
// snow at depthCm over minutesSpent of work. Always a credit, never an
// emission.
func SnowRemovalReduction(areaM2, depthCm, minutesSpent float64) (float64, error) {
	if areaM2 <= 0 {
		return 0, invalid("area", "must be greater than 0")
	}
	if depthCm <= 0 {
		return 0, invalid("snowDepth", "must be greater than 0")
	}
	if minutesSpent <= 0 {
		return 0, invalid("timeSpent", "must be greater than 0")
	}
	return Round2(areaM2 * depthCm * minutesSpent * snowRemovalFactor), nil
}

// Round2 rounds v to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
