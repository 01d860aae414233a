package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0.2, cfg.ThresholdKm)
	assert.Equal(t, 2*time.Second, cfg.Pacing.BetweenSteps)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":                "9090",
		"THRESHOLD_KM":        "0.35",
		"ROUTE_FILE":          "routes/east.csv",
		"AUTO_RUN":            "false",
		"PROCESSING_DELAY_MS": "0",
		"LOG_DELAY_MS":        "50",
		"STEP_DELAY_MS":       "500",
		"MAX_RUNS":            "3",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 0.35, cfg.ThresholdKm)
	assert.Equal(t, "routes/east.csv", cfg.RouteFile)
	assert.False(t, cfg.AutoRun)
	assert.Equal(t, time.Duration(0), cfg.Pacing.Processing)
	assert.Equal(t, 50*time.Millisecond, cfg.Pacing.PerLog)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.BetweenSteps)
	assert.Equal(t, 3, cfg.MaxRuns)
}

func TestFromEnv_Invalid(t *testing.T) {
	for key, value := range map[string]string{
		"PORT":          "http",
		"THRESHOLD_KM":  "-1",
		"AUTO_RUN":      "sometimes",
		"LOG_DELAY_MS":  "fast",
		"STEP_DELAY_MS": "-5",
		"MAX_RUNS":      "0",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(env(map[string]string{key: value}))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestFromEnv_NonFiniteThreshold(t *testing.T) {
	for _, value := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf"} {
		t.Run(value, func(t *testing.T) {
			_, err := FromEnv(env(map[string]string{"THRESHOLD_KM": value}))
			assert.ErrorContains(t, err, "THRESHOLD_KM")
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MAX_RUNS=7\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MAX_RUNS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxRuns)
}
