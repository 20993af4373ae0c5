// Package forecast generates deterministic synthetic availability and demand
// series per region and forecasting method.
package forecast

import (
	"fmt"
	"math"

	"wattweaver/internal/region"
	"wattweaver/pkg/api"
)

// Hand-rolled linear-congruential-style hash constants. The generator is not
// a statistical RNG; it only has to be deterministic and bounded.
const (
	lcgMul = 1103
	lcgInc = 4973
	lcgMod = 10007
)

// Daylight window for solar generation, [start, end).
const (
	daylightStart = 6
	daylightEnd   = 18
)

// Nominal hourly magnitudes before region multipliers.
const (
	solarPeak     = 80.0
	windBase      = 38.0
	windSwing     = 14.0
	windFloor     = 5.0
	hydroBase     = 55.0
	hydroFloor    = 10.0
	demandJitter  = 0.06
	solarNoiseAmp = 2.0
)

// seedFor sums the character codes of the region and method names. Identical
// (region, method) pairs always reproduce identical series.
func seedFor(regionName string, method Method) int {
	seed := 0
	for _, r := range regionName {
		seed += int(r)
	}
	for _, r := range method.String() {
		seed += int(r)
	}
	return seed
}

// noise returns a deterministic value in [0, 1) for a seed and draw step.
func noise(seed, step int) float64 {
	v := (seed*(step*step+step+17)*lcgMul + lcgInc) % lcgMod
	if v < 0 {
		v += lcgMod
	}
	return float64(v) / lcgMod
}

// Generate produces the forecast series for a method and region. It never
// fails: unknown regions use the default profile and unknown methods are
// handled by ParseMethod upstream.
func Generate(method Method, regionName string) []api.ForecastPoint {
	profile, _ := region.Lookup(regionName)
	seed := seedFor(regionName, method)

	if method.Daily() {
		return generateDaily(profile, seed, method.Periods())
	}
	return generateHourly(profile, seed)
}

func generateHourly(p region.Profile, seed int) []api.ForecastPoint {
	points := make([]api.ForecastPoint, 0, 24)
	for hour := 0; hour < 24; hour++ {
		pt := hourValues(p, seed, hour)
		pt.TimeLabel = fmt.Sprintf("%d:00", hour)
		points = append(points, pt)
	}
	return points
}

// generateDaily expands each day across 24 simulated hours and sums them
// into one point, shifting the seed per day.
func generateDaily(p region.Profile, seed, days int) []api.ForecastPoint {
	points := make([]api.ForecastPoint, 0, days)
	for day := 0; day < days; day++ {
		var pt api.ForecastPoint
		for hour := 0; hour < 24; hour++ {
			h := hourValues(p, seed+day, hour)
			pt.Solar += h.Solar
			pt.Wind += h.Wind
			pt.Hydro += h.Hydro
			pt.Demand += h.Demand
		}
		pt.TimeLabel = fmt.Sprintf("Day %d", day+1)
		points = append(points, pt)
	}
	return points
}

func hourValues(p region.Profile, seed, hour int) api.ForecastPoint {
	step := hour * 8

	var solar float64
	if hour >= daylightStart && hour < daylightEnd {
		curve := math.Sin(math.Pi * float64(hour-daylightStart) / float64(daylightEnd-daylightStart))
		solar = solarPeak*p.SolarMultiplier*curve + solarNoiseAmp*noise(seed, step)
		if solar < 0 {
			solar = 0
		}
	}

	diurnal := windBase + windSwing*math.Sin(2*math.Pi*float64(hour+3)/24)
	wind := diurnal*p.WindMultiplier + 9*noise(seed, step+1) + 7*noise(seed, step+2)
	if wind < windFloor {
		wind = windFloor
	}

	dayFactor := 0.9
	if hour >= 8 && hour < 22 {
		dayFactor = 1.1
	}
	hydro := hydroBase*dayFactor*p.HydroMultiplier + 6*noise(seed, step+3)
	if hydro < hydroFloor {
		hydro = hydroFloor
	}

	share := p.BaselineDemand / 24
	demand := share * demandFactor(hour) * (1 + demandJitter*(noise(seed, step+4)-0.5))

	return api.ForecastPoint{Solar: solar, Wind: wind, Hydro: hydro, Demand: demand}
}

// demandFactor shapes hourly demand: night lowest, morning rise, daytime
// moderate, evening peak highest. The factors average to ~1 across a day.
func demandFactor(hour int) float64 {
	switch {
	case hour < 6:
		return 0.72
	case hour < 9:
		return 0.95
	case hour < 17:
		return 1.05
	case hour < 22:
		return 1.35
	default:
		return 0.85
	}
}
