package sensitivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wattweaver/internal/allocation"
	"wattweaver/internal/forecast"
	"wattweaver/pkg/api"
)

func testConfig() allocation.Config {
	return allocation.Config{
		Region:      "Chennai",
		EnergyFocus: allocation.NewFocus([]string{"solar", "wind", "hydro"}),
		CostWeight:  0.5,
	}
}

func TestRunDefaultScenarios(t *testing.T) {
	points := forecast.Generate(forecast.TwentyFourHour, "Chennai")
	resp, err := Run(points, testConfig(), nil)
	require.NoError(t, err)

	require.Len(t, resp.Scenarios, len(DefaultMultipliers))
	require.Len(t, resp.Optimized, len(DefaultMultipliers))
	require.Len(t, resp.Baseline, len(DefaultMultipliers))
	assert.Equal(t, "50% Price", resp.Scenarios[0].Label)
	assert.Equal(t, "150% Price", resp.Scenarios[4].Label)

	for i := 1; i < len(resp.Optimized); i++ {
		assert.Greater(t, resp.Optimized[i].Cost, resp.Optimized[i-1].Cost,
			"cost rises with the price multiplier")
		assert.Greater(t, resp.Baseline[i].Cost, resp.Baseline[i-1].Cost)
	}
}

func TestRunElasticityIsUnitForLinearCosts(t *testing.T) {
	// At a neutral cost weight the allocation is unchanged across the
	// multiplier range, so total cost scales linearly and elasticity is 1.
	points := forecast.Generate(forecast.TwentyFourHour, "Chennai")
	resp, err := Run(points, testConfig(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, resp.OptimizedElasticity, 1e-6)
	assert.InDelta(t, 1.0, resp.BaselineElasticity, 1e-6)
}

func TestRunPropagatesNoDemand(t *testing.T) {
	points := []api.ForecastPoint{{TimeLabel: "0:00", Solar: 5, Wind: 5, Hydro: 5, Demand: 0}}
	_, err := Run(points, testConfig(), nil)
	assert.ErrorIs(t, err, allocation.ErrNoDemand)
}

func TestElasticity(t *testing.T) {
	t.Run("linear costs give unit elasticity", func(t *testing.T) {
		outcomes := []api.SensitivityOutcome{
			{Multiplier: 0.5, Cost: 500},
			{Multiplier: 1.0, Cost: 1000},
			{Multiplier: 1.5, Cost: 1500},
		}
		assert.InDelta(t, 1.0, Elasticity(outcomes), 1e-9)
	})

	t.Run("flat costs give zero elasticity", func(t *testing.T) {
		outcomes := []api.SensitivityOutcome{
			{Multiplier: 0.5, Cost: 800},
			{Multiplier: 1.0, Cost: 800},
		}
		assert.InDelta(t, 0.0, Elasticity(outcomes), 1e-9)
	})

	t.Run("degenerate input", func(t *testing.T) {
		assert.Zero(t, Elasticity(nil))
		assert.Zero(t, Elasticity([]api.SensitivityOutcome{{Multiplier: 1, Cost: 100}}))
	})
}
