package simulation

import (
	"time"

	"ambulance-signal-server/signals"
)

const CompletionMessage = "Ambulance has cleared the East signal and reached the hospital safely!"

type Summary struct {
	StepsProcessed  int     `json:"stepsProcessed"`
	TotalSteps      int     `json:"totalSteps"`
	GreenSteps      int     `json:"greenSteps"`
	FirstGreenIndex int     `json:"firstGreenIndex"`
	CrossingIndex   int     `json:"crossingIndex"`
	DistanceM       float64 `json:"distanceM"`
	Completed       bool    `json:"completed"`
	Message         string  `json:"message,omitempty"`
}

// Summarize aggregates a run. Indexes are -1 when the event never happened.
func Summarize(scenario Scenario, frames []Frame) Summary {
	sum := Summary{
		StepsProcessed:  len(frames),
		TotalSteps:      len(scenario.Route),
		FirstGreenIndex: -1,
		CrossingIndex:   -1,
	}

	travelled := make([]signals.Coordinate, 0, len(frames))
	for _, f := range frames {
		travelled = append(travelled, f.Ambulance)

		if f.Lights.Get(signals.East).Status == signals.Green {
			sum.GreenSteps++
			if sum.FirstGreenIndex < 0 {
				sum.FirstGreenIndex = f.Index
			}
		}
		if f.HasCrossed && sum.CrossingIndex < 0 {
			sum.CrossingIndex = f.Index
		}
	}

	sum.DistanceM = signals.PathLength(travelled) * 1000
	sum.Completed = len(frames) > 0 && frames[len(frames)-1].Last()
	if sum.Completed {
		sum.Message = CompletionMessage
	}

	return sum
}

// Pacing spaces out a run for people watching it. The core never sleeps;
// only presentation layers use these delays.
type Pacing struct {
	Processing   time.Duration `json:"processing"`
	PerLog       time.Duration `json:"perLog"`
	BetweenSteps time.Duration `json:"betweenSteps"`
}

func DefaultPacing() Pacing {
	return Pacing{
		Processing:   1 * time.Second,
		PerLog:       300 * time.Millisecond,
		BetweenSteps: 2 * time.Second,
	}
}
