// Package api defines the JSON contracts shared by the HTTP server, the CLI
// and downstream consumers (charting, CSV export, explanation service).
// Field names and array ordering are a compatibility surface.
package api

// ForecastPoint is one period of the synthetic availability/demand series.
// Order within a series is chronological and meaningful.
type ForecastPoint struct {
	TimeLabel string  `json:"timeLabel"`
	Solar     float64 `json:"solar"`
	Wind      float64 `json:"wind"`
	Hydro     float64 `json:"hydro"`
	Demand    float64 `json:"demand"`
}

// SimulateRequest is the input to a full forecast+optimization run.
type SimulateRequest struct {
	Region      string   `json:"region"`
	Method      string   `json:"method"`
	EnergyFocus []string `json:"energyFocus"`
	CostWeight  float64  `json:"costWeight"`

	// TimeVaryingCarbon switches emission accounting to hour-of-day
	// intensity multipliers.
	TimeVaryingCarbon bool `json:"timeVaryingCarbon,omitempty"`
}

// ScenarioMetrics holds run-level aggregates for one allocation scenario.
type ScenarioMetrics struct {
	Cost           float64 `json:"cost"`
	Emissions      float64 `json:"emissions"`
	Reliability    float64 `json:"reliability"`
	RenewableShare float64 `json:"renewableShare"`
}

// Results pairs the optimized scenario with the baseline strawman.
type Results struct {
	Optimized ScenarioMetrics `json:"optimized"`
	Baseline  ScenarioMetrics `json:"baseline"`
}

// EnergyMixPoint is the optimized allocation for one period plus its demand.
type EnergyMixPoint struct {
	TimeLabel string  `json:"timeLabel"`
	Solar     float64 `json:"solar"`
	Wind      float64 `json:"wind"`
	Hydro     float64 `json:"hydro"`
	Grid      float64 `json:"grid"`
	Demand    float64 `json:"demand"`
}

// PricePoint is the per-period cost per MWh for both scenarios.
type PricePoint struct {
	TimeLabel string  `json:"timeLabel"`
	Optimized float64 `json:"optimized"`
	Baseline  float64 `json:"baseline"`
}

// EmissionEntry is one slice of the two-entry emission summary
// ("Saved", "Remaining").
type EmissionEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SimulateResponse is the full output bundle of one run.
type SimulateResponse struct {
	Results       Results          `json:"results"`
	EnergyMixData []EnergyMixPoint `json:"energyMixData"`
	PriceData     []PricePoint     `json:"priceData"`
	EmissionData  []EmissionEntry  `json:"emissionData"`
}

// SensitivityScenario labels one price multiplier scenario.
type SensitivityScenario struct {
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// SensitivityOutcome holds run aggregates for one scenario and strategy.
type SensitivityOutcome struct {
	Multiplier float64 `json:"multiplier"`
	Cost       float64 `json:"cost"`
	Emissions  float64 `json:"emissions"`
}

// SensitivityResponse is the price sensitivity analysis output.
type SensitivityResponse struct {
	Scenarios           []SensitivityScenario `json:"scenarios"`
	Optimized           []SensitivityOutcome  `json:"optimized"`
	Baseline            []SensitivityOutcome  `json:"baseline"`
	OptimizedElasticity float64               `json:"optimizedElasticity"`
	BaselineElasticity  float64               `json:"baselineElasticity"`
}
