package allocation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wattweaver/internal/forecast"
	"wattweaver/pkg/api"
)

const balanceTolerance = 1e-6

func allFocus() Focus {
	return NewFocus([]string{"solar", "wind", "hydro"})
}

func point(solar, wind, hydro, demand float64) api.ForecastPoint {
	return api.ForecastPoint{TimeLabel: "12:00", Solar: solar, Wind: wind, Hydro: hydro, Demand: demand}
}

func TestFocusMultipliers(t *testing.T) {
	t.Run("full set is balanced", func(t *testing.T) {
		f := allFocus()
		for _, s := range Renewables {
			assert.Equal(t, 1.0, f.Multiplier(s))
		}
	})

	t.Run("empty set is balanced", func(t *testing.T) {
		f := NewFocus(nil)
		for _, s := range Renewables {
			assert.Equal(t, 1.0, f.Multiplier(s))
		}
	})

	t.Run("strict subset boosts selected and dampens unselected", func(t *testing.T) {
		f := NewFocus([]string{"solar"})
		assert.Equal(t, 1.3, f.Multiplier(Solar))
		assert.Equal(t, 0.9, f.Multiplier(Wind))
		assert.Equal(t, 0.9, f.Multiplier(Hydro))
	})

	t.Run("unknown names are ignored", func(t *testing.T) {
		f := NewFocus([]string{"solar", "plutonium"})
		assert.Equal(t, 1.3, f.Multiplier(Solar))
	})
}

func TestOptimizeAllocationBalance(t *testing.T) {
	for _, cw := range []float64{0.0, 0.15, 0.3, 0.5, 0.7, 0.85, 1.0} {
		t.Run(fmt.Sprintf("costWeight=%.2f", cw), func(t *testing.T) {
			points := forecast.Generate(forecast.TwentyFourHour, "Jodhpur")
			resp, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: cw})
			require.NoError(t, err)
			require.Len(t, resp.EnergyMixData, len(points))

			for i, mix := range resp.EnergyMixData {
				total := mix.Solar + mix.Wind + mix.Hydro + mix.Grid
				assert.InDelta(t, points[i].Demand, total, balanceTolerance,
					"optimized allocation must balance demand at %s", mix.TimeLabel)
				assert.GreaterOrEqual(t, mix.Solar, 0.0)
				assert.GreaterOrEqual(t, mix.Wind, 0.0)
				assert.GreaterOrEqual(t, mix.Hydro, 0.0)
				assert.GreaterOrEqual(t, mix.Grid, 0.0)
			}
		})
	}
}

func TestBaselineAllocation(t *testing.T) {
	t.Run("balances demand plus forced grid draw", func(t *testing.T) {
		pt := point(100, 80, 60, 200)
		alloc, forced := baselineAllocation(pt)

		assert.InDelta(t, 0.15*pt.Demand, forced, balanceTolerance)
		total := alloc[Solar] + alloc[Wind] + alloc[Hydro] + alloc[Grid]
		assert.InDelta(t, pt.Demand+forced, total, balanceTolerance)
	})

	t.Run("caps each renewable at 70 percent of capacity", func(t *testing.T) {
		pt := point(100, 100, 100, 1000)
		alloc, _ := baselineAllocation(pt)

		assert.InDelta(t, 70.0, alloc[Hydro], balanceTolerance)
		assert.InDelta(t, 70.0, alloc[Solar], balanceTolerance)
		assert.InDelta(t, 70.0, alloc[Wind], balanceTolerance)
		// Remaining 790 plus the forced 150.
		assert.InDelta(t, 940.0, alloc[Grid], balanceTolerance)
	})

	t.Run("fills hydro before solar before wind", func(t *testing.T) {
		pt := point(100, 100, 100, 70)
		alloc, _ := baselineAllocation(pt)

		assert.InDelta(t, 70.0, alloc[Hydro], balanceTolerance)
		assert.Zero(t, alloc[Solar])
		assert.Zero(t, alloc[Wind])
	})
}

func TestStrategicAdjustments(t *testing.T) {
	t.Run("cost priority shifts renewables to grid", func(t *testing.T) {
		pt := point(100, 100, 100, 150)
		alloc := optimizedAllocation(pt, allFocus(), 1.0, DefaultParams())

		// At costWeight 1.0 the greedy fill is solar 100 + wind 50; the
		// shift moves 0.7 of the full shift amount out of solar since no
		// hydro was allocated.
		shift := (shiftBasePct + (1.0-costPriorityMin)*shiftSlope) * pt.Demand
		assert.InDelta(t, shift*shiftSolarShare, alloc[Grid], balanceTolerance)
		assert.InDelta(t, 100-shift*shiftSolarShare, alloc[Solar], balanceTolerance)

		total := alloc[Solar] + alloc[Wind] + alloc[Hydro] + alloc[Grid]
		assert.InDelta(t, pt.Demand, total, balanceTolerance)
	})

	t.Run("cost priority takes hydro first", func(t *testing.T) {
		// Focus hydro so it carries allocation at high cost weight.
		pt := point(0, 0, 200, 100)
		alloc := optimizedAllocation(pt, NewFocus([]string{"hydro"}), 0.7, DefaultParams())

		shift := shiftBasePct * pt.Demand // 10% at the bucket edge
		assert.InDelta(t, shift*shiftHydroShare, alloc[Grid], balanceTolerance)
	})

	t.Run("emissions priority replaces grid from headroom", func(t *testing.T) {
		available := map[Source]float64{Solar: 50, Wind: 40, Hydro: 30}
		alloc := map[Source]float64{Solar: 50, Wind: 10, Hydro: 30, Grid: 100}

		replaceGrid(alloc, available, 0.0)

		// 70% of grid is eligible; wind headroom 30 absorbs what it can.
		assert.InDelta(t, 40.0, alloc[Wind], balanceTolerance)
		assert.InDelta(t, 70.0, alloc[Grid], balanceTolerance)
	})

	t.Run("neutral band applies no adjustment", func(t *testing.T) {
		pt := point(100, 100, 100, 150)
		alloc := optimizedAllocation(pt, allFocus(), 0.5, DefaultParams())

		// Greedy order at 0.5 is wind, hydro, solar; everything is covered
		// by renewables and nothing moves to grid.
		assert.Zero(t, alloc[Grid])
		assert.InDelta(t, 100.0, alloc[Wind], balanceTolerance)
		assert.InDelta(t, 50.0, alloc[Hydro], balanceTolerance)
	})
}

func TestPolicyBuckets(t *testing.T) {
	assert.Equal(t, adjustShiftToGrid, policyFor(0.7))
	assert.Equal(t, adjustShiftToGrid, policyFor(1.0))
	assert.Equal(t, adjustReplaceGrid, policyFor(0.3))
	assert.Equal(t, adjustReplaceGrid, policyFor(0.0))
	assert.Equal(t, adjustNone, policyFor(0.31))
	assert.Equal(t, adjustNone, policyFor(0.5))
	assert.Equal(t, adjustNone, policyFor(0.69))
}

func TestAdjustmentFormulaExtremes(t *testing.T) {
	assert.InDelta(t, 0.1, shiftPercentage(0.7), 1e-9)
	assert.InDelta(t, 0.2, shiftPercentage(1.0), 1e-3, "about 20% of demand at full cost priority")
	assert.InDelta(t, 0.4, replacePercentage(0.3), 1e-9)
	assert.InDelta(t, 0.7, replacePercentage(0.0), 1e-9, "70% of grid at full emissions priority")
}

func TestOptimizeAggregates(t *testing.T) {
	points := forecast.Generate(forecast.TwentyFourHour, "Jodhpur")
	resp, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 0.5})
	require.NoError(t, err)

	for _, m := range []api.ScenarioMetrics{resp.Results.Optimized, resp.Results.Baseline} {
		assert.GreaterOrEqual(t, m.RenewableShare, 0.0)
		assert.LessOrEqual(t, m.RenewableShare, 100.0)
		assert.GreaterOrEqual(t, m.Cost, 0.0)
		assert.GreaterOrEqual(t, m.Emissions, 0.0)
	}

	require.Len(t, resp.EmissionData, 2)
	assert.Equal(t, "Saved", resp.EmissionData[0].Name)
	assert.Equal(t, "Remaining", resp.EmissionData[1].Name)
	assert.GreaterOrEqual(t, resp.EmissionData[0].Value, 0.0)
	assert.InDelta(t, resp.Results.Optimized.Emissions, resp.EmissionData[1].Value, balanceTolerance)

	require.Len(t, resp.PriceData, len(points))
	for _, p := range resp.PriceData {
		assert.Greater(t, p.Optimized, 0.0)
		assert.Greater(t, p.Baseline, 0.0)
	}
}

func TestOptimizeJodhpurScenario(t *testing.T) {
	points := forecast.Generate(forecast.TwentyFourHour, "Jodhpur")
	require.Len(t, points, 24)

	resp, err := Optimize(points, Config{
		Region:      "Jodhpur",
		EnergyFocus: allFocus(),
		CostWeight:  0.5,
	})
	require.NoError(t, err)

	assert.Less(t, resp.Results.Optimized.Cost, resp.Results.Baseline.Cost,
		"the baseline wastes renewable capacity and forces extra grid draw")
	assert.Less(t, resp.Results.Optimized.Emissions, resp.Results.Baseline.Emissions)
	assert.Greater(t, resp.Results.Optimized.Reliability, 0.0)
}

func TestOptimizeGuards(t *testing.T) {
	t.Run("zero total demand fails fast", func(t *testing.T) {
		points := []api.ForecastPoint{point(10, 10, 10, 0), point(5, 5, 5, 0)}
		_, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 0.5})
		assert.ErrorIs(t, err, ErrNoDemand)
	})

	t.Run("empty forecast fails fast", func(t *testing.T) {
		_, err := Optimize(nil, Config{EnergyFocus: allFocus(), CostWeight: 0.5})
		assert.ErrorIs(t, err, ErrNoDemand)
	})

	t.Run("out of range cost weight is clamped", func(t *testing.T) {
		points := []api.ForecastPoint{point(100, 100, 100, 50)}
		high, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 3.5})
		require.NoError(t, err)
		capped, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 1.0})
		require.NoError(t, err)
		assert.Equal(t, capped.Results, high.Results)
	})

	t.Run("nil focus behaves as balanced", func(t *testing.T) {
		points := []api.ForecastPoint{point(100, 100, 100, 50)}
		a, err := Optimize(points, Config{CostWeight: 0.5})
		require.NoError(t, err)
		b, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 0.5})
		require.NoError(t, err)
		assert.Equal(t, a.Results, b.Results)
	})
}

func TestTimeVaryingCarbonChangesEmissionsOnly(t *testing.T) {
	points := forecast.Generate(forecast.TwentyFourHour, "Jodhpur")

	flat, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 0.5})
	require.NoError(t, err)
	varying, err := Optimize(points, Config{EnergyFocus: allFocus(), CostWeight: 0.5, TimeVaryingCarbon: true})
	require.NoError(t, err)

	assert.Equal(t, flat.EnergyMixData, varying.EnergyMixData, "allocation is not affected")
	assert.InDelta(t, flat.Results.Optimized.Cost, varying.Results.Optimized.Cost, balanceTolerance)
	assert.NotEqual(t, flat.Results.Optimized.Emissions, varying.Results.Optimized.Emissions)
}
