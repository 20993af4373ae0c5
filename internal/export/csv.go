// Package export renders run output series as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"wattweaver/pkg/api"
)

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// WriteEnergyMix writes the optimized per-period allocation series.
func WriteEnergyMix(w io.Writer, points []api.EnergyMixPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "solar", "wind", "hydro", "grid", "demand"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.TimeLabel,
			formatFloat(p.Solar),
			formatFloat(p.Wind),
			formatFloat(p.Hydro),
			formatFloat(p.Grid),
			formatFloat(p.Demand),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePrices writes the per-period cost-per-MWh comparison series.
func WritePrices(w io.Writer, points []api.PricePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "optimized", "baseline"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.TimeLabel, formatFloat(p.Optimized), formatFloat(p.Baseline)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecast writes a raw forecast series.
func WriteForecast(w io.Writer, points []api.ForecastPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "solar", "wind", "hydro", "demand"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.TimeLabel,
			formatFloat(p.Solar),
			formatFloat(p.Wind),
			formatFloat(p.Hydro),
			formatFloat(p.Demand),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
