// Package runs keeps finished simulation runs in memory so clients can page
// through their frames. Nothing is persisted.
package runs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ambulance-signal-server/simulation"
)

var ErrNotFound = errors.New("run not found")

type Run struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	AutoRun   bool                `json:"autoRun"`
	Scenario  simulation.Scenario `json:"scenario"`
	Frames    []simulation.Frame  `json:"frames"`
	Summary   simulation.Summary  `json:"summary"`
}

// Frame returns the frame at step, or false when the run has no such step.
func (r Run) Frame(step int) (simulation.Frame, bool) {
	if step < 0 || step >= len(r.Frames) {
		return simulation.Frame{}, false
	}
	return r.Frames[step], true
}

// Store holds at most max runs; the oldest is dropped to make room.
type Store struct {
	mu    sync.RWMutex
	max   int
	order []string
	runs  map[string]Run
	now   func() time.Time
}

func NewStore(limit int) *Store {
	if limit < 1 {
		limit = 1
	}
	return &Store{
		max:  limit,
		runs: make(map[string]Run),
		now:  time.Now,
	}
}

// Create simulates the scenario and records the result under a new id.
func (s *Store) Create(scenario simulation.Scenario, autoRun bool) Run {
	frames := simulation.Simulate(scenario, autoRun)
	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		AutoRun:   autoRun,
		Scenario:  scenario,
		Frames:    frames,
		Summary:   simulation.Summarize(scenario, frames),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.order) >= s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)

	return run
}

func (s *Store) Get(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

// List returns runs oldest first.
func (s *Store) List() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.runs[id])
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
