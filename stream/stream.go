// Package stream plays a simulation to a browser over a websocket, paced so
// that a person can follow the ambulance and the reasoning log.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"ambulance-signal-server/render"
	"ambulance-signal-server/simulation"
)

// Message is one websocket frame sent to the client.
type Message struct {
	Type    string              `json:"type"`
	Status  string              `json:"status,omitempty"`
	Log     string              `json:"log,omitempty"`
	Frame   *simulation.Frame   `json:"frame,omitempty"`
	Map     *render.MapView     `json:"map,omitempty"`
	Summary *simulation.Summary `json:"summary,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Control is sent by the client to change a running simulation.
type Control struct {
	Type    string `json:"type"`
	AutoRun *bool  `json:"autoRun,omitempty"`
}

type Streamer struct {
	scenario simulation.Scenario
	pacing   simulation.Pacing
	upgrader websocket.Upgrader

	// ctx is cancelled by Shutdown and ends every open stream.
	ctx  context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	closing bool
	active  sync.WaitGroup
}

func New(scenario simulation.Scenario, pacing simulation.Pacing) *Streamer {
	ctx, stop := context.WithCancel(context.Background())
	return &Streamer{
		scenario: scenario,
		pacing:   pacing,
		ctx:      ctx,
		stop:     stop,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the request and plays one run. The autoRun query
// parameter (default true) sets the initial state of the auto-run toggle.
func (s *Streamer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	autoRun := true
	if v := r.URL.Query().Get("autoRun"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "autoRun must be a boolean", http.StatusBadRequest)
			return
		}
		autoRun = parsed
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.active.Add(1)
	s.mu.Unlock()
	defer s.active.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	unlink := context.AfterFunc(s.ctx, cancel)
	defer unlink()

	var toggle atomic.Bool
	toggle.Store(autoRun)
	go readControls(ctx, cancel, conn, &toggle)

	log.Printf("=== Streaming simulation to %s (autoRun=%v) ===", r.RemoteAddr, autoRun)
	summary, err := s.Play(ctx, &toggle, func(m Message) error {
		return conn.WriteJSON(m)
	})
	if err != nil {
		if s.ctx.Err() != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			log.Printf("WARNING: stream to %s stopped for shutdown", r.RemoteAddr)
			return
		}
		log.Printf("WARNING: stream to %s ended early: %v", r.RemoteAddr, err)
		return
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation finished"))
	log.Printf("=== Stream to %s finished: %d/%d steps ===", r.RemoteAddr, summary.StepsProcessed, summary.TotalSteps)
}

// Shutdown refuses new streams, cancels the open ones and waits for their
// handlers to return or for ctx to expire.
func (s *Streamer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.stop()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play runs the scenario step by step, sending every message through send
// and waiting between them as the pacing says. The auto-run toggle is
// checked once per step, after the frame is sent.
func (s *Streamer) Play(ctx context.Context, autoRun *atomic.Bool, send func(Message) error) (simulation.Summary, error) {
	runner := simulation.NewRunner(s.scenario)
	total := len(s.scenario.Route)
	frames := make([]simulation.Frame, 0, total)

	for !runner.Done() {
		if err := send(Message{Type: "status", Status: simulation.StatusText(runner.Index(), total)}); err != nil {
			return simulation.Summary{}, err
		}
		if err := sleep(ctx, s.pacing.Processing); err != nil {
			return simulation.Summary{}, err
		}

		frame, _ := runner.Step()
		frames = append(frames, frame)

		for _, line := range frame.Logs {
			if err := send(Message{Type: "log", Log: line}); err != nil {
				return simulation.Summary{}, err
			}
			if err := sleep(ctx, s.pacing.PerLog); err != nil {
				return simulation.Summary{}, err
			}
		}

		view := render.BuildMapView(s.scenario, frame)
		if err := send(Message{Type: "frame", Frame: &frame, Map: &view}); err != nil {
			return simulation.Summary{}, err
		}

		if !autoRun.Load() {
			break
		}
		if !frame.Last() {
			if err := sleep(ctx, s.pacing.BetweenSteps); err != nil {
				return simulation.Summary{}, err
			}
		}
	}

	summary := simulation.Summarize(s.scenario, frames)
	if err := send(Message{Type: "done", Summary: &summary}); err != nil {
		return summary, err
	}
	return summary, nil
}

func readControls(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, autoRun *atomic.Bool) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var c Control
		if err := json.Unmarshal(data, &c); err != nil {
			log.Printf("WARNING: ignoring malformed control message: %v", err)
			continue
		}
		if c.Type == "control" && c.AutoRun != nil {
			autoRun.Store(*c.AutoRun)
			log.Printf("Auto-run set to %v", *c.AutoRun)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
