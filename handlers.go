package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ambulance-signal-server/render"
	"ambulance-signal-server/runs"
	"ambulance-signal-server/signals"
	"ambulance-signal-server/simulation"
)

type evaluateRequest struct {
	Lat        *float64 `json:"lat" binding:"required"`
	Lon        *float64 `json:"lon" binding:"required"`
	HasCrossed bool     `json:"hasCrossed"`
}

type evaluateResponse struct {
	Ambulance  signals.Coordinate `json:"ambulance"`
	DistanceKm float64            `json:"distanceKm"`
	Lights     signals.Lights     `json:"lights"`
	Logs       []string           `json:"logs"`
}

type createRunRequest struct {
	AutoRun *bool `json:"autoRun"`
}

type runInfo struct {
	ID        string             `json:"id"`
	CreatedAt string             `json:"createdAt"`
	AutoRun   bool               `json:"autoRun"`
	Summary   simulation.Summary `json:"summary"`
}

func (s *server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", render.PageData{
		Title:   s.scenario.Name,
		AutoRun: s.cfg.AutoRun,
		WSPath:  "/ws/simulate",
	})
}

func (s *server) handleScenario(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scenario": s.scenario,
		"lights":   s.scenario.InitialLights(),
		"pacing":   s.cfg.Pacing,
	})
}

func (s *server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("ERROR: Failed to parse evaluate request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ambulance := signals.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	lights, logs := signals.Update(s.scenario.InitialLights(), ambulance, req.HasCrossed, s.scenario.ThresholdKm)

	c.JSON(http.StatusOK, evaluateResponse{
		Ambulance:  ambulance,
		DistanceKm: signals.Distance(ambulance, lights.Get(signals.East).Location),
		Lights:     lights,
		Logs:       logs,
	})
}

func (s *server) handleCreateRun(c *gin.Context) {
	log.Println("=== Received simulation run request ===")

	req := createRunRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("ERROR: Failed to parse request: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	autoRun := s.cfg.AutoRun
	if req.AutoRun != nil {
		autoRun = *req.AutoRun
	}

	run := s.runs.Create(s.scenario, autoRun)
	log.Printf("Run %s finished: %d/%d steps, East green for %d steps",
		run.ID, run.Summary.StepsProcessed, run.Summary.TotalSteps, run.Summary.GreenSteps)

	c.JSON(http.StatusCreated, run)
	log.Println("=== Simulation run request completed ===")
}

func (s *server) handleListRuns(c *gin.Context) {
	list := s.runs.List()
	out := make([]runInfo, 0, len(list))
	for _, r := range list {
		out = append(out, runInfo{
			ID:        r.ID,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			AutoRun:   r.AutoRun,
			Summary:   r.Summary,
		})
	}
	c.JSON(http.StatusOK, gin.H{"runs": out, "count": len(out)})
}

func (s *server) handleGetRun(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *server) handleGetStep(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}

	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step must be an integer"})
		return
	}
	frame, ok := run.Frame(step)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "step out of range"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"frame": frame,
		"map":   render.BuildMapView(run.Scenario, frame),
	})
}

func (s *server) lookupRun(c *gin.Context) (runs.Run, bool) {
	run, err := s.runs.Get(c.Param("id"))
	if errors.Is(err, runs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return runs.Run{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return runs.Run{}, false
	}
	return run, true
}
