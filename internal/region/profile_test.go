package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	t.Run("known region", func(t *testing.T) {
		p, ok := Lookup("Jodhpur")
		assert.True(t, ok)
		assert.Greater(t, p.SolarMultiplier, 1.0, "desert region is solar heavy")
	})

	t.Run("unknown region falls back to default", func(t *testing.T) {
		p, ok := Lookup("Atlantis")
		assert.False(t, ok)
		assert.Equal(t, DefaultProfile, p)
	})

	t.Run("all profiles are positive", func(t *testing.T) {
		for _, name := range Names() {
			p, ok := Lookup(name)
			assert.True(t, ok, name)
			assert.Greater(t, p.SolarMultiplier, 0.0, name)
			assert.Greater(t, p.WindMultiplier, 0.0, name)
			assert.Greater(t, p.HydroMultiplier, 0.0, name)
			assert.Greater(t, p.BaselineDemand, 0.0, name)
		}
	})
}
