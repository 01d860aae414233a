package simulation

import (
	"fmt"
	"math"

	"ambulance-signal-server/signals"
)

// Scenario describes one intersection and the ambulance route through it.
type Scenario struct {
	Name            string               `json:"name"`
	Intersection    signals.Coordinate   `json:"intersection"`
	Route           []signals.Coordinate `json:"route"`
	SignalOffsetDeg float64              `json:"signalOffsetDeg"`
	ThresholdKm     float64              `json:"thresholdKm"`
}

// DefaultScenario is the East to West run through the Chennai intersection:
// home on the far East side, through the crossing, to the hospital on the West.
func DefaultScenario() Scenario {
	return Scenario{
		Name:         "4-Way Traffic Light Simulation for Ambulance (East → West)",
		Intersection: signals.Coordinate{Lat: 13.0837, Lon: 80.2727},
		Route: []signals.Coordinate{
			{Lat: 13.0837, Lon: 80.2760}, // home
			{Lat: 13.0837, Lon: 80.2750},
			{Lat: 13.0837, Lon: 80.2740},
			{Lat: 13.0837, Lon: 80.2730},
			{Lat: 13.0837, Lon: 80.2727}, // intersection
			{Lat: 13.0837, Lon: 80.2720},
			{Lat: 13.0837, Lon: 80.2710}, // hospital
		},
		SignalOffsetDeg: signals.DefaultSignalOffsetDeg,
		ThresholdKm:     signals.DefaultThresholdKm,
	}
}

// WithRoute returns a copy of the scenario following a different route.
func (s Scenario) WithRoute(route []signals.Coordinate) Scenario {
	s.Route = append([]signals.Coordinate(nil), route...)
	return s
}

// WithThreshold returns a copy of the scenario using a different threshold.
func (s Scenario) WithThreshold(km float64) Scenario {
	s.ThresholdKm = km
	return s
}

func (s Scenario) Validate() error {
	if len(s.Route) == 0 {
		return fmt.Errorf("scenario %q has an empty route", s.Name)
	}
	if math.IsNaN(s.ThresholdKm) || math.IsInf(s.ThresholdKm, 0) {
		return fmt.Errorf("scenario %q has a non-finite threshold: %v", s.Name, s.ThresholdKm)
	}
	if s.ThresholdKm < 0 {
		return fmt.Errorf("scenario %q has a negative threshold: %.3f km", s.Name, s.ThresholdKm)
	}
	return nil
}

// InitialLights returns the lights before the first step, all red.
func (s Scenario) InitialLights() signals.Lights {
	return signals.NewLights(s.Intersection, s.SignalOffsetDeg)
}
