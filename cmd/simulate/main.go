package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"

	"ambulance-signal-server/routefile"
	"ambulance-signal-server/signals"
	"ambulance-signal-server/simulation"
	"ambulance-signal-server/stream"
)

type runDump struct {
	Scenario simulation.Scenario `json:"scenario"`
	Frames   []simulation.Frame  `json:"frames"`
	Summary  simulation.Summary  `json:"summary"`
}

func main() {
	var routePath string
	var autoRun, paced, asJSON bool
	var threshold float64
	flag.StringVar(&routePath, "route", "", "CSV file with lat,lon columns to use instead of the built-in route")
	flag.BoolVar(&autoRun, "auto-run", true, "Keep going after the first position")
	flag.BoolVar(&paced, "paced", false, "Wait between steps like the live dashboard does")
	flag.BoolVar(&asJSON, "json", false, "Print frames and summary as JSON instead of the reasoning log")
	flag.Float64Var(&threshold, "threshold", signals.DefaultThresholdKm, "Distance in km within which the East signal turns green")
	flag.Parse()

	scenario, err := buildScenario(routePath, threshold)
	if err != nil {
		log.Fatal(err)
	}

	if asJSON {
		frames := simulation.Simulate(scenario, autoRun)
		dump := runDump{
			Scenario: scenario,
			Frames:   frames,
			Summary:  simulation.Summarize(scenario, frames),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&dump); err != nil {
			log.Fatalf("failed to write JSON: %v", err)
		}
		return
	}

	pacing := simulation.Pacing{}
	if paced {
		pacing = simulation.DefaultPacing()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var toggle atomic.Bool
	toggle.Store(autoRun)

	fmt.Println(scenario.Name)
	summary, err := stream.New(scenario, pacing).Play(ctx, &toggle, func(m stream.Message) error {
		return printMessage(os.Stdout, m)
	})
	if err != nil {
		log.Fatalf("simulation interrupted: %v", err)
	}
	fmt.Printf("Summary: steps=%d/%d eastGreen=%d distance=%.0fm\n",
		summary.StepsProcessed, summary.TotalSteps, summary.GreenSteps, summary.DistanceM)
}

// buildScenario applies the -route and -threshold flags to the default scenario.
func buildScenario(routePath string, threshold float64) (simulation.Scenario, error) {
	scenario := simulation.DefaultScenario().WithThreshold(threshold)
	if routePath != "" {
		route, err := routefile.Load(routePath)
		if err != nil {
			return scenario, fmt.Errorf("failed to load route: %w", err)
		}
		scenario = scenario.WithRoute(route)
	}
	if err := scenario.Validate(); err != nil {
		return scenario, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func printMessage(w io.Writer, m stream.Message) error {
	var err error
	switch m.Type {
	case "status":
		_, err = fmt.Fprintf(w, "\n%s\n", m.Status)
	case "log":
		_, err = fmt.Fprintf(w, "  - %s\n", m.Log)
	case "frame":
		f := m.Frame
		_, err = fmt.Fprintf(w, "  ambulance %s [%s] East: %s\n",
			f.Ambulance, f.Phase, f.Lights.Get(signals.East).Status)
	case "done":
		if m.Summary != nil && m.Summary.Completed {
			_, err = fmt.Fprintf(w, "\n%s\n", m.Summary.Message)
		}
	}
	return err
}
