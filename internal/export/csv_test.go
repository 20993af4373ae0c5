package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wattweaver/pkg/api"
)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteEnergyMix(t *testing.T) {
	points := []api.EnergyMixPoint{
		{TimeLabel: "0:00", Solar: 0, Wind: 42.5, Hydro: 30, Grid: 10, Demand: 82.5},
		{TimeLabel: "1:00", Solar: 0, Wind: 40, Hydro: 31, Grid: 12, Demand: 83},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEnergyMix(&buf, points))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"time", "solar", "wind", "hydro", "grid", "demand"}, rows[0])
	assert.Equal(t, []string{"0:00", "0.0000", "42.5000", "30.0000", "10.0000", "82.5000"}, rows[1])
}

func TestWritePrices(t *testing.T) {
	points := []api.PricePoint{
		{TimeLabel: "0:00", Optimized: 3100.25, Baseline: 3900.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePrices(&buf, points))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "optimized", "baseline"}, rows[0])
	assert.Equal(t, []string{"0:00", "3100.2500", "3900.5000"}, rows[1])
}

func TestWriteForecast(t *testing.T) {
	points := []api.ForecastPoint{
		{TimeLabel: "12:00", Solar: 88.1, Wind: 40.2, Hydro: 55.3, Demand: 56.4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteForecast(&buf, points))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "solar", "wind", "hydro", "demand"}, rows[0])
	assert.Equal(t, "12:00", rows[1][0])
	assert.Equal(t, "88.1000", rows[1][1])
}
