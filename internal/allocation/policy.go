package allocation

// Strategic adjustment regimes, keyed by cost weight bucket. Outside the two
// extreme buckets the pure greedy result stands.

type adjustmentKind int

const (
	adjustNone adjustmentKind = iota
	adjustShiftToGrid
	adjustReplaceGrid
)

// Shift-to-grid ramps from 10% of demand at costWeight 0.7 to ~20% at 1.0;
// replace-grid ramps from 40% of grid usage at 0.3 to 70% at 0.0. These
// regimes exist to visibly separate the extremes, and are documented model
// constants rather than tunables.
const (
	costPriorityMin     = 0.7
	shiftBasePct        = 0.1
	shiftSlope          = 0.333
	shiftHydroShare     = 0.6
	shiftSolarShare     = 0.7
	emissionPriorityMax = 0.3
	replaceBasePct      = 0.4
	replaceSlope        = 1.0
)

type adjustmentPolicy struct {
	min, max float64
	kind     adjustmentKind
}

var adjustmentPolicies = []adjustmentPolicy{
	{min: costPriorityMin, max: 1.0, kind: adjustShiftToGrid},
	{min: 0.0, max: emissionPriorityMax, kind: adjustReplaceGrid},
}

func policyFor(costWeight float64) adjustmentKind {
	for _, p := range adjustmentPolicies {
		if costWeight >= p.min && costWeight <= p.max {
			return p.kind
		}
	}
	return adjustNone
}

// shiftPercentage is the fraction of demand moved from renewables to grid
// under cost priority.
func shiftPercentage(costWeight float64) float64 {
	return shiftBasePct + (costWeight-costPriorityMin)*shiftSlope
}

// replacePercentage is the fraction of grid usage replaced by unused
// renewable headroom under emissions priority.
func replacePercentage(costWeight float64) float64 {
	return replaceBasePct + (emissionPriorityMax-costWeight)*replaceSlope
}
