// Package region holds the static per-region generation profiles.
package region

// Profile scales the synthetic generation model for one region.
// Multipliers are relative to a nominal 1.0 region; BaselineDemand is the
// daily demand in MWh spread across 24 hours by the forecast generator.
type Profile struct {
	SolarMultiplier float64
	WindMultiplier  float64
	HydroMultiplier float64
	BaselineDemand  float64
}

// DefaultProfile is used for any region name not in the table.
var DefaultProfile = Profile{
	SolarMultiplier: 1.0,
	WindMultiplier:  1.0,
	HydroMultiplier: 1.0,
	BaselineDemand:  1000,
}

// profiles is fixed at process start and never mutated.
var profiles = map[string]Profile{
	"Jodhpur":   {SolarMultiplier: 1.35, WindMultiplier: 0.9, HydroMultiplier: 0.6, BaselineDemand: 950},
	"Jaisalmer": {SolarMultiplier: 1.4, WindMultiplier: 1.2, HydroMultiplier: 0.5, BaselineDemand: 780},
	"Chennai":   {SolarMultiplier: 1.1, WindMultiplier: 1.3, HydroMultiplier: 0.7, BaselineDemand: 1250},
	"Mumbai":    {SolarMultiplier: 1.0, WindMultiplier: 1.1, HydroMultiplier: 0.8, BaselineDemand: 1400},
	"Delhi":     {SolarMultiplier: 1.15, WindMultiplier: 0.8, HydroMultiplier: 0.7, BaselineDemand: 1500},
	"Bangalore": {SolarMultiplier: 1.05, WindMultiplier: 1.0, HydroMultiplier: 0.9, BaselineDemand: 1150},
	"Shimla":    {SolarMultiplier: 0.85, WindMultiplier: 0.7, HydroMultiplier: 1.4, BaselineDemand: 620},
	"Guwahati":  {SolarMultiplier: 0.9, WindMultiplier: 0.75, HydroMultiplier: 1.3, BaselineDemand: 700},
}

// Lookup returns the profile for a region name. Unknown names fall back to
// DefaultProfile; the second return reports whether the name was known.
func Lookup(name string) (Profile, bool) {
	if p, ok := profiles[name]; ok {
		return p, true
	}
	return DefaultProfile, false
}

// Names returns the supported region names in stable order.
func Names() []string {
	return []string{"Bangalore", "Chennai", "Delhi", "Guwahati", "Jaisalmer", "Jodhpur", "Mumbai", "Shimla"}
}
