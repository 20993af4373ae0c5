package weather

import (
	"fmt"
	"math"

	"wattweaver/internal/region"
	"wattweaver/pkg/api"
)

// Wind turbine power curve parameters (m/s).
const (
	cutInSpeed  = 3.0
	ratedSpeed  = 12.0
	cutOutSpeed = 25.0
)

// Peak solar radiation used to normalize capacity factors (W/m²).
const peakRadiation = 1000.0

// Nominal capacities scaled by the region profile (MWh per hour).
const (
	solarCapacity = 90.0
	windCapacity  = 60.0
	hydroCapacity = 58.0
)

// ToForecast converts raw hourly weather into the availability series the
// optimizer consumes. Hydro does not follow short-term weather and is held
// at a stable level; demand follows the usual daily pattern. Pure, so it can
// be tested without the HTTP client.
func ToForecast(hours []HourlyWeather, regionName string) []api.ForecastPoint {
	profile, _ := region.Lookup(regionName)

	points := make([]api.ForecastPoint, 0, len(hours))
	for _, h := range hours {
		hour := h.Time.Hour()

		solarFactor := 0.0
		if h.SolarRadiation > 0 {
			solarFactor = math.Min(h.SolarRadiation/peakRadiation, 1.0)
		}

		windFactor := windCapacityFactor(h.WindSpeed100m)

		demandPattern := 0.7 + 0.3*math.Sin((float64(hour)-6)*math.Pi/12)
		demand := profile.BaselineDemand / 24 * math.Max(demandPattern, 0.5)

		points = append(points, api.ForecastPoint{
			TimeLabel: fmt.Sprintf("%d:00", hour),
			Solar:     solarCapacity * profile.SolarMultiplier * solarFactor,
			Wind:      windCapacity * profile.WindMultiplier * windFactor,
			Hydro:     hydroCapacity * profile.HydroMultiplier,
			Demand:    demand,
		})
	}
	return points
}

// windCapacityFactor applies a simplified cubic power curve with cut-in,
// rated and cut-out speeds.
func windCapacityFactor(speed float64) float64 {
	switch {
	case speed < cutInSpeed, speed > cutOutSpeed:
		return 0
	case speed < ratedSpeed:
		return math.Pow(speed/ratedSpeed, 3)
	default:
		return 1.0
	}
}
