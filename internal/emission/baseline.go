package emission

import "time"

// Seasonal reference emissions for an average household, kg-CO2 per day.
// One entry per calendar month: heating load drives the winter peaks,
// air-conditioning the July/August bump.
var seasonalDailyBaselines = [12]float64{
	9.5, // January
	9.1, // February
	8.3, // March
	7.4, // April
	6.8, // May
	7.2, // June
	8.6, // July
	8.9, // August
	7.5, // September
	7.0, // October
	8.0, // November
	9.2, // December
}

// SeasonalDailyBaseline returns the reference daily household emission for
// the given calendar month.
func SeasonalDailyBaseline(m time.Month) float64 {
	return seasonalDailyBaselines[m-1]
}

// ComparisonPercentage returns how far actual deviates from baseline, in
// percent. A zero baseline yields 0 rather than dividing by zero; that is a
// policy choice so the daily summary never reports NaN or Inf.
func ComparisonPercentage(actual, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return Round2((actual - baseline) / baseline * 100)
}
