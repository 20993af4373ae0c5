package allocation

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"wattweaver/internal/carbon"
	"wattweaver/pkg/api"
)

// ErrNoDemand is returned when the forecast carries no demand to allocate.
// Aggregates would otherwise divide by zero.
var ErrNoDemand = errors.New("no demand to allocate")

// Reliability multipliers model the claim that smarter allocation raises and
// poor planning lowers perceived reliability. They are deliberate biases of
// the comparison demo, reproduced exactly.
const (
	optimizedReliabilityFactor = 1.08
	baselineReliabilityFactor  = 0.93
)

// Config controls one optimization run. Callers validate inputs upstream;
// Optimize still clamps the cost weight and treats an empty focus as
// balanced so direct invocations stay safe.
type Config struct {
	Region      string
	Method      string
	EnergyFocus Focus
	CostWeight  float64

	// TimeVaryingCarbon applies hour-of-day intensity multipliers to the
	// renewable emission factors.
	TimeVaryingCarbon bool

	// Params overrides the source model table; nil uses DefaultParams.
	Params Params
}

// periodMetrics accumulates one scenario's per-period aggregates.
type periodMetrics struct {
	cost        float64
	emissions   float64
	reliability float64
	renewable   float64
	total       float64
}

// Optimize computes the optimized and baseline allocations for every
// forecast point and aggregates run-level metrics. Pure: no shared state,
// identical inputs produce identical output.
func Optimize(points []api.ForecastPoint, cfg Config) (*api.SimulateResponse, error) {
	params := cfg.Params
	if params == nil {
		params = DefaultParams()
	}
	costWeight := clamp01(cfg.CostWeight)
	focus := cfg.EnergyFocus
	if focus == nil {
		focus = Focus{}
	}

	totalDemand := 0.0
	for _, pt := range points {
		totalDemand += pt.Demand
	}
	if totalDemand <= 0 {
		return nil, ErrNoDemand
	}

	resp := &api.SimulateResponse{
		EnergyMixData: make([]api.EnergyMixPoint, 0, len(points)),
		PriceData:     make([]api.PricePoint, 0, len(points)),
	}

	var opt, base periodMetrics
	for _, pt := range points {
		optAlloc := optimizedAllocation(pt, focus, costWeight, params)
		baseAlloc, forcedGrid := baselineAllocation(pt)

		optPeriod := measure(optAlloc, params, cfg.TimeVaryingCarbon, pt.TimeLabel)
		basePeriod := measure(baseAlloc, params, cfg.TimeVaryingCarbon, pt.TimeLabel)

		opt.cost += optPeriod.cost
		opt.emissions += optPeriod.emissions
		opt.reliability += periodReliability(optAlloc, params, pt.Demand, optimizedReliabilityFactor)
		base.cost += basePeriod.cost
		base.emissions += basePeriod.emissions
		base.reliability += periodReliability(baseAlloc, params, pt.Demand+forcedGrid, baselineReliabilityFactor)

		for _, s := range Renewables {
			opt.renewable += optAlloc[s]
			base.renewable += baseAlloc[s]
		}
		opt.total += optAlloc[Grid]
		base.total += baseAlloc[Grid]

		resp.EnergyMixData = append(resp.EnergyMixData, api.EnergyMixPoint{
			TimeLabel: pt.TimeLabel,
			Solar:     optAlloc[Solar],
			Wind:      optAlloc[Wind],
			Hydro:     optAlloc[Hydro],
			Grid:      optAlloc[Grid],
			Demand:    pt.Demand,
		})
		resp.PriceData = append(resp.PriceData, api.PricePoint{
			TimeLabel: pt.TimeLabel,
			Optimized: perMWh(optPeriod.cost, pt.Demand),
			Baseline:  perMWh(basePeriod.cost, pt.Demand),
		})
	}
	opt.total += opt.renewable
	base.total += base.renewable

	periods := float64(len(points))
	resp.Results = api.Results{
		Optimized: api.ScenarioMetrics{
			Cost:           opt.cost / totalDemand,
			Emissions:      opt.emissions,
			Reliability:    opt.reliability / periods * 100,
			RenewableShare: share(opt.renewable, opt.total),
		},
		Baseline: api.ScenarioMetrics{
			Cost:           base.cost / totalDemand,
			Emissions:      base.emissions,
			Reliability:    base.reliability / periods * 100,
			RenewableShare: share(base.renewable, base.total),
		},
	}
	resp.EmissionData = []api.EmissionEntry{
		{Name: "Saved", Value: math.Max(0, base.emissions-opt.emissions)},
		{Name: "Remaining", Value: opt.emissions},
	}
	return resp, nil
}

// optimizedAllocation greedily satisfies demand in ascending objective-score
// order, then applies the strategic adjustment for the cost weight bucket.
func optimizedAllocation(pt api.ForecastPoint, focus Focus, costWeight float64, params Params) map[Source]float64 {
	emissionWeight := 1 - costWeight

	available := map[Source]float64{
		Solar: pt.Solar * focus.Multiplier(Solar),
		Wind:  pt.Wind * focus.Multiplier(Wind),
		Hydro: pt.Hydro * focus.Multiplier(Hydro),
	}

	order := make([]Source, len(AllSources))
	copy(order, AllSources)
	sort.SliceStable(order, func(i, j int) bool {
		return objectiveScore(params[order[i]], costWeight, emissionWeight) <
			objectiveScore(params[order[j]], costWeight, emissionWeight)
	})

	alloc := map[Source]float64{}
	remaining := pt.Demand
	for _, s := range order {
		if s == Grid {
			continue
		}
		take := math.Min(available[s], remaining)
		if take < 0 {
			take = 0
		}
		alloc[s] = take
		remaining -= take
	}
	// Grid has unlimited capacity and absorbs the remainder.
	if remaining > 0 {
		alloc[Grid] = remaining
	}

	switch policyFor(costWeight) {
	case adjustShiftToGrid:
		shiftToGrid(alloc, pt.Demand, costWeight)
	case adjustReplaceGrid:
		replaceGrid(alloc, available, costWeight)
	}
	return alloc
}

func objectiveScore(p SourceParams, costWeight, emissionWeight float64) float64 {
	return costWeight*p.CostPerMWh + emissionWeight*p.EmissionPerMWh*100
}

// shiftToGrid moves a slice of demand from hydro, then solar, onto the grid
// under cost priority.
func shiftToGrid(alloc map[Source]float64, demand, costWeight float64) {
	shift := shiftPercentage(costWeight) * demand

	fromHydro := math.Min(alloc[Hydro], shift*shiftHydroShare)
	alloc[Hydro] -= fromHydro
	fromSolar := math.Min(alloc[Solar], (shift-fromHydro)*shiftSolarShare)
	alloc[Solar] -= fromSolar

	alloc[Grid] += fromHydro + fromSolar
}

// replaceGrid swaps grid usage for unused renewable headroom under emissions
// priority, filling wind, then hydro, then solar.
func replaceGrid(alloc map[Source]float64, available map[Source]float64, costWeight float64) {
	remaining := replacePercentage(costWeight) * alloc[Grid]
	replaced := 0.0
	for _, s := range []Source{Wind, Hydro, Solar} {
		headroom := available[s] - alloc[s]
		if headroom <= 0 {
			continue
		}
		take := math.Min(headroom, remaining)
		alloc[s] += take
		replaced += take
		remaining -= take
	}
	alloc[Grid] -= replaced
}

// measure computes one period's cost and emissions for an allocation.
func measure(alloc map[Source]float64, params Params, timeVarying bool, timeLabel string) periodMetrics {
	var m periodMetrics
	hour, isHourly := hourFromLabel(timeLabel)
	for _, s := range AllSources {
		p := params[s]
		m.cost += alloc[s] * p.CostPerMWh
		emission := p.EmissionPerMWh
		if timeVarying && isHourly && s != Grid {
			emission = carbon.Intensity(emission, hour)
		}
		m.emissions += alloc[s] * emission
	}
	return m
}

// periodReliability is the allocation-weighted reliability over effective
// demand, scaled by the scenario's fixed multiplier.
func periodReliability(alloc map[Source]float64, params Params, effectiveDemand, factor float64) float64 {
	if effectiveDemand <= 0 {
		return 0
	}
	weighted := 0.0
	for _, s := range AllSources {
		weighted += alloc[s] * params[s].Reliability
	}
	return weighted / effectiveDemand * factor
}

func perMWh(cost, demand float64) float64 {
	if demand <= 0 {
		return 0
	}
	return cost / demand
}

func share(renewable, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return renewable / total * 100
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// hourFromLabel parses hourly labels of the form "H:00". Daily labels
// ("Day N") report false and use flat emission factors.
func hourFromLabel(label string) (int, bool) {
	idx := strings.IndexByte(label, ':')
	if idx <= 0 {
		return 0, false
	}
	hour, err := strconv.Atoi(label[:idx])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
