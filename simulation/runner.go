package simulation

import (
	"fmt"
	"log"

	"ambulance-signal-server/signals"
)

// Phase is where the ambulance is relative to the intersection.
type Phase int

const (
	Approaching Phase = iota
	Cleared
)

func (p Phase) String() string {
	if p == Cleared {
		return "cleared"
	}
	return "approaching"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "approaching":
		*p = Approaching
	case "cleared":
		*p = Cleared
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Frame is the outcome of a single simulation step.
type Frame struct {
	Index      int                `json:"index"`
	Total      int                `json:"total"`
	Ambulance  signals.Coordinate `json:"ambulance"`
	Phase      Phase              `json:"phase"`
	HasCrossed bool               `json:"hasCrossed"`
	Lights     signals.Lights     `json:"lights"`
	Logs       []string           `json:"logs"`
	Status     string             `json:"status"`
}

// Last reports whether this frame is the final position on the route.
func (f Frame) Last() bool {
	return f.Index == f.Total-1
}

// Runner steps an ambulance along a scenario route one position at a time.
// Time plays no part here; callers decide how fast to call Step.
type Runner struct {
	scenario Scenario
	lights   signals.Lights
	phase    Phase
	next     int
}

func NewRunner(scenario Scenario) *Runner {
	return &Runner{
		scenario: scenario,
		lights:   scenario.InitialLights(),
		phase:    Approaching,
	}
}

// Index is the route position the next call to Step will process.
func (r *Runner) Index() int { return r.next }

func (r *Runner) Phase() Phase { return r.phase }

func (r *Runner) Lights() signals.Lights { return r.lights }

func (r *Runner) Done() bool { return r.next >= len(r.scenario.Route) }

func (r *Runner) Reset() {
	r.lights = r.scenario.InitialLights()
	r.phase = Approaching
	r.next = 0
}

// Step processes the next route position. It returns false once the route
// is exhausted.
func (r *Runner) Step() (Frame, bool) {
	if r.Done() {
		return Frame{}, false
	}

	idx := r.next
	total := len(r.scenario.Route)
	location := r.scenario.Route[idx]

	// Reaching the intersection is a one-way transition.
	if r.phase == Approaching && location == r.scenario.Intersection {
		r.phase = Cleared
		log.Printf("Ambulance reached the intersection at step %d/%d", idx+1, total)
	}

	var logs []string
	r.lights, logs = signals.Update(r.lights, location, r.phase == Cleared, r.scenario.ThresholdKm)
	r.next++

	return Frame{
		Index:      idx,
		Total:      total,
		Ambulance:  location,
		Phase:      r.phase,
		HasCrossed: r.phase == Cleared,
		Lights:     r.lights,
		Logs:       logs,
		Status:     StatusText(idx, total),
	}, true
}

// StatusText is the dashboard line shown while a position is processed.
func StatusText(idx, total int) string {
	return fmt.Sprintf("Processing ambulance position %d/%d...", idx+1, total)
}

// Simulate runs the scenario to the end. With autoRun off it stops after
// the first position.
func Simulate(scenario Scenario, autoRun bool) []Frame {
	runner := NewRunner(scenario)
	frames := make([]Frame, 0, len(scenario.Route))

	for {
		frame, ok := runner.Step()
		if !ok {
			break
		}
		frames = append(frames, frame)
		if !autoRun {
			break
		}
	}

	return frames
}
