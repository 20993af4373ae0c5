// Package carbon provides time-of-day carbon intensity modeling for the
// renewable sources. Values are lifecycle emissions in kg CO2 per MWh.
package carbon

// HourMultiplier returns the grid-condition multiplier applied to lifecycle
// emissions for a given hour of day.
func HourMultiplier(hour int) float64 {
	switch {
	case hour < 0 || hour > 23:
		return 1.0
	case hour < 6:
		// Night: lower grid intensity
		return 0.85
	case hour < 9:
		// Morning ramp
		return 1.0
	case hour < 17:
		// Day
		return 1.15
	case hour < 21:
		// Evening peak
		return 1.25
	default:
		return 0.95
	}
}

// Intensity scales a source's base emission factor by the hour-of-day
// multiplier.
func Intensity(baseEmission float64, hour int) float64 {
	return baseEmission * HourMultiplier(hour)
}

// HourlyIntensity is one row of the intensity table endpoint.
type HourlyIntensity struct {
	Hour  int     `json:"hour"`
	Solar float64 `json:"solar"`
	Wind  float64 `json:"wind"`
	Hydro float64 `json:"hydro"`
}

// Table returns the per-hour intensity for the given base emission factors.
func Table(solarBase, windBase, hydroBase float64) []HourlyIntensity {
	rows := make([]HourlyIntensity, 0, 24)
	for hour := 0; hour < 24; hour++ {
		rows = append(rows, HourlyIntensity{
			Hour:  hour,
			Solar: Intensity(solarBase, hour),
			Wind:  Intensity(windBase, hour),
			Hydro: Intensity(hydroBase, hour),
		})
	}
	return rows
}
