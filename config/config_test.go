package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigLoadsDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, "gemini-2.0-flash", cfg.Generation.Model)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, []float64{0.3, 0.3, 0.2}, cfg.Generation.Temperatures)
	assert.Equal(t, 0.1, cfg.Generation.FinalTemperature)
	assert.Equal(t, 0.25, cfg.Generation.UsageThreshold)
	assert.Equal(t, int32(4000), cfg.Generation.MaxOutputTokens)
}

func TestAttemptTemperatureSchedule(t *testing.T) {
	g := GenerationConfig{
		Temperatures:     []float64{0.3, 0.3, 0.2},
		FinalTemperature: 0.1,
	}

	assert.Equal(t, 0.3, g.AttemptTemperature(1))
	assert.Equal(t, 0.3, g.AttemptTemperature(2))
	assert.Equal(t, 0.2, g.AttemptTemperature(3))
	// Out-of-range attempts clamp to the schedule.
	assert.Equal(t, 0.2, g.AttemptTemperature(7))
	assert.Equal(t, 0.3, g.AttemptTemperature(0))
}

func TestAttemptTemperatureEmptySchedule(t *testing.T) {
	g := GenerationConfig{FinalTemperature: 0.1}
	assert.Equal(t, 0.1, g.AttemptTemperature(1))
}
