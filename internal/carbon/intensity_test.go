package carbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourMultiplier(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{0, 0.85},
		{5, 0.85},
		{6, 1.0},
		{8, 1.0},
		{9, 1.15},
		{16, 1.15},
		{17, 1.25},
		{20, 1.25},
		{21, 0.95},
		{23, 0.95},
		{-1, 1.0},
		{24, 1.0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HourMultiplier(c.hour), "hour %d", c.hour)
	}
}

func TestIntensity(t *testing.T) {
	// Evening peak raises lifecycle emissions by 25%.
	assert.InDelta(t, 62.5, Intensity(50, 18), 1e-9)
	assert.InDelta(t, 42.5, Intensity(50, 2), 1e-9)
}

func TestTable(t *testing.T) {
	table := Table(50, 12, 24)
	require.Len(t, table, 24)
	for _, row := range table {
		assert.Greater(t, row.Solar, 0.0)
		assert.Greater(t, row.Wind, 0.0)
		assert.Greater(t, row.Hydro, 0.0)
	}
	assert.InDelta(t, 50*0.85, table[0].Solar, 1e-9)
	assert.InDelta(t, 12*1.25, table[18].Wind, 1e-9)
}
