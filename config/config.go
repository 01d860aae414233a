package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ambulance-signal-server/signals"
	"ambulance-signal-server/simulation"
)

type Config struct {
	Port        string
	ThresholdKm float64
	RouteFile   string
	AutoRun     bool
	Pacing      simulation.Pacing
	MaxRuns     int
}

func Default() Config {
	return Config{
		Port:        "8080",
		ThresholdKm: signals.DefaultThresholdKm,
		AutoRun:     true,
		Pacing:      simulation.DefaultPacing(),
		MaxRuns:     100,
	}
}

// Load reads .env files (if any) into the environment and builds the
// config from it. A missing .env is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using default environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a config from a lookup function, falling back to the
// defaults for unset variables.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var err error

	if v := getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("PORT must be a number, got %q", v)
		}
		cfg.Port = v
	}
	if v := getenv("THRESHOLD_KM"); v != "" {
		cfg.ThresholdKm, err = strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(cfg.ThresholdKm) || math.IsInf(cfg.ThresholdKm, 0) || cfg.ThresholdKm < 0 {
			return cfg, fmt.Errorf("THRESHOLD_KM must be a non-negative number, got %q", v)
		}
	}
	cfg.RouteFile = getenv("ROUTE_FILE")
	if v := getenv("AUTO_RUN"); v != "" {
		if cfg.AutoRun, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("AUTO_RUN must be a boolean, got %q", v)
		}
	}
	if cfg.Pacing.Processing, err = millis(getenv, "PROCESSING_DELAY_MS", cfg.Pacing.Processing); err != nil {
		return cfg, err
	}
	if cfg.Pacing.PerLog, err = millis(getenv, "LOG_DELAY_MS", cfg.Pacing.PerLog); err != nil {
		return cfg, err
	}
	if cfg.Pacing.BetweenSteps, err = millis(getenv, "STEP_DELAY_MS", cfg.Pacing.BetweenSteps); err != nil {
		return cfg, err
	}
	if v := getenv("MAX_RUNS"); v != "" {
		if cfg.MaxRuns, err = strconv.Atoi(v); err != nil || cfg.MaxRuns < 1 {
			return cfg, fmt.Errorf("MAX_RUNS must be a positive integer, got %q", v)
		}
	}

	return cfg, nil
}

func millis(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return def, fmt.Errorf("%s must be a non-negative number of milliseconds, got %q", key, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
