// Package allocation computes comparative energy-mix allocations over a
// forecast series: an optimized multi-criteria greedy allocation against a
// deliberately less efficient baseline.
package allocation

// Source identifies one of the four allocatable energy sources.
type Source string

const (
	Solar Source = "solar"
	Wind  Source = "wind"
	Hydro Source = "hydro"
	Grid  Source = "grid"
)

// Renewables lists the capacity-limited sources in canonical order.
var Renewables = []Source{Solar, Wind, Hydro}

// AllSources lists every source in canonical order.
var AllSources = []Source{Solar, Wind, Hydro, Grid}

// SourceParams holds the fixed per-MWh model parameters for one source.
type SourceParams struct {
	CostPerMWh     float64
	EmissionPerMWh float64 // kg CO2
	Reliability    float64
}

// Params maps each source to its model parameters. Injected into the
// optimizer so tests can substitute deterministic tables.
type Params map[Source]SourceParams

// DefaultParams returns the standard model table. Grid is the unlimited
// fallback with the highest cost and emissions.
func DefaultParams() Params {
	return Params{
		Solar: {CostPerMWh: 2800, EmissionPerMWh: 50, Reliability: 0.85},
		Wind:  {CostPerMWh: 3200, EmissionPerMWh: 12, Reliability: 0.75},
		Hydro: {CostPerMWh: 3500, EmissionPerMWh: 24, Reliability: 0.95},
		Grid:  {CostPerMWh: 4500, EmissionPerMWh: 950, Reliability: 0.99},
	}
}

// ScaleCosts returns a copy of the table with every cost multiplied, used by
// the price sensitivity analysis.
func (p Params) ScaleCosts(multiplier float64) Params {
	scaled := make(Params, len(p))
	for s, sp := range p {
		sp.CostPerMWh *= multiplier
		scaled[s] = sp
	}
	return scaled
}

// Focus is the set of user-selected renewable sources.
type Focus map[Source]bool

// NewFocus builds a focus set from wire strings, ignoring unknown entries.
func NewFocus(names []string) Focus {
	f := make(Focus)
	for _, n := range names {
		switch Source(n) {
		case Solar, Wind, Hydro:
			f[Source(n)] = true
		}
	}
	return f
}

// Balanced reports whether the focus covers all renewables or none, in which
// case no availability scaling applies.
func (f Focus) Balanced() bool {
	if len(f) == 0 {
		return true
	}
	for _, s := range Renewables {
		if !f[s] {
			return false
		}
	}
	return true
}

// Multiplier returns the availability scaling for a renewable source:
// 1.0 when balanced, otherwise 1.3 for selected and 0.9 for unselected.
func (f Focus) Multiplier(s Source) float64 {
	if f.Balanced() {
		return 1.0
	}
	if f[s] {
		return 1.3
	}
	return 0.9
}
