package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ambulance-signal-server/config"
	"ambulance-signal-server/render"
	"ambulance-signal-server/routefile"
	"ambulance-signal-server/runs"
	"ambulance-signal-server/simulation"
	"ambulance-signal-server/stream"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type server struct {
	cfg      config.Config
	scenario simulation.Scenario
	runs     *runs.Store
	streamer *stream.Streamer
}

func newServer(cfg config.Config) (*server, error) {
	scenario := simulation.DefaultScenario().WithThreshold(cfg.ThresholdKm)

	if cfg.RouteFile != "" {
		route, err := routefile.Load(cfg.RouteFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded custom route from %s: %d points", cfg.RouteFile, len(route))
		scenario = scenario.WithRoute(route)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &server{
		cfg:      cfg,
		scenario: scenario,
		runs:     runs.NewStore(cfg.MaxRuns),
		streamer: stream.New(scenario, cfg.Pacing),
	}, nil
}

func (s *server) router() *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"*"}
	r.Use(cors.New(corsConfig))
	r.SetHTMLTemplate(render.Template)

	r.GET("/", s.handleIndex)
	r.GET("/ws/simulate", gin.WrapH(s.streamer))

	api := r.Group("/api")
	api.GET("/scenario", s.handleScenario)
	api.POST("/evaluate", s.handleEvaluate)
	api.POST("/runs", s.handleCreateRun)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	api.GET("/runs/:id/steps/:step", s.handleGetStep)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatalf("Failed to set up simulation: %v", err)
	}
	log.Printf("Scenario ready: %d route points, threshold %.3f km, auto-run %v",
		len(srv.scenario.Route), srv.scenario.ThresholdKm, cfg.AutoRun)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.router(),
	}

	go func() {
		log.Printf("Ambulance Signal Server starting on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.streamer.Shutdown(ctx); err != nil {
		log.Printf("WARNING: open streams did not finish: %v", err)
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("ERROR: forced shutdown: %v", err)
	}
}
