// Package sensitivity reruns the optimizer under scaled unit costs to show
// how both strategies respond to price movement.
package sensitivity

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"wattweaver/internal/allocation"
	"wattweaver/pkg/api"
)

// DefaultMultipliers are the standard price scenarios.
var DefaultMultipliers = []float64{0.5, 0.75, 1.0, 1.25, 1.5}

// Run executes one optimization per price multiplier and reports per-scenario
// aggregates plus the average cost elasticity of each strategy.
func Run(points []api.ForecastPoint, cfg allocation.Config, multipliers []float64) (*api.SensitivityResponse, error) {
	if len(multipliers) == 0 {
		multipliers = DefaultMultipliers
	}
	baseParams := cfg.Params
	if baseParams == nil {
		baseParams = allocation.DefaultParams()
	}

	resp := &api.SensitivityResponse{
		Scenarios: make([]api.SensitivityScenario, 0, len(multipliers)),
		Optimized: make([]api.SensitivityOutcome, 0, len(multipliers)),
		Baseline:  make([]api.SensitivityOutcome, 0, len(multipliers)),
	}

	for _, m := range multipliers {
		scenario := cfg
		scenario.Params = baseParams.ScaleCosts(m)

		out, err := allocation.Optimize(points, scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %.2f: %w", m, err)
		}

		resp.Scenarios = append(resp.Scenarios, api.SensitivityScenario{
			Multiplier: m,
			Label:      fmt.Sprintf("%d%% Price", int(m*100)),
		})
		resp.Optimized = append(resp.Optimized, api.SensitivityOutcome{
			Multiplier: m,
			Cost:       out.Results.Optimized.Cost,
			Emissions:  out.Results.Optimized.Emissions,
		})
		resp.Baseline = append(resp.Baseline, api.SensitivityOutcome{
			Multiplier: m,
			Cost:       out.Results.Baseline.Cost,
			Emissions:  out.Results.Baseline.Emissions,
		})
	}

	resp.OptimizedElasticity = Elasticity(resp.Optimized)
	resp.BaselineElasticity = Elasticity(resp.Baseline)
	return resp, nil
}

// Elasticity is the mean pairwise price elasticity of total cost across
// adjacent scenarios.
func Elasticity(outcomes []api.SensitivityOutcome) float64 {
	var elasticities []float64
	for i := 1; i < len(outcomes); i++ {
		prev, curr := outcomes[i-1], outcomes[i]
		if prev.Multiplier == 0 || prev.Cost == 0 {
			continue
		}
		priceChange := (curr.Multiplier - prev.Multiplier) / prev.Multiplier
		if priceChange == 0 {
			continue
		}
		costChange := (curr.Cost - prev.Cost) / prev.Cost
		elasticities = append(elasticities, costChange/priceChange)
	}
	if len(elasticities) == 0 {
		return 0
	}
	return stat.Mean(elasticities, nil)
}
