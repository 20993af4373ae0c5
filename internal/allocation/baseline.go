package allocation

import (
	"math"

	"wattweaver/pkg/api"
)

// The baseline strawman under-utilizes renewables and over-draws the grid:
// each renewable contributes at most 70% of its available capacity and an
// extra grid draw of 15% of demand models operational inefficiency.
const (
	baselineCapacityCap = 0.7
	forcedGridPct       = 0.15
)

// baselinePriority is the static, costWeight-independent fill order.
var baselinePriority = []Source{Hydro, Solar, Wind}

// baselineAllocation fills demand from capped renewables in static priority
// order, sends the remainder to grid, then adds the forced grid draw. The
// returned allocation sums to demand plus the forced draw.
func baselineAllocation(pt api.ForecastPoint) (map[Source]float64, float64) {
	available := map[Source]float64{
		Solar: pt.Solar,
		Wind:  pt.Wind,
		Hydro: pt.Hydro,
	}

	alloc := map[Source]float64{}
	remaining := pt.Demand
	for _, s := range baselinePriority {
		take := math.Min(available[s]*baselineCapacityCap, remaining)
		if take < 0 {
			take = 0
		}
		alloc[s] = take
		remaining -= take
	}
	if remaining > 0 {
		alloc[Grid] = remaining
	}

	forced := forcedGridPct * pt.Demand
	alloc[Grid] += forced
	return alloc, forced
}
