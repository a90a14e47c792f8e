package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/cradlelog/cradlelog/internal/config"
	"github.com/cradlelog/cradlelog/internal/database"
)

// Application wires configuration, database, router, scheduler, and server
// lifecycle.
type Application struct {
	cfg       config.Application
	router    *mux.Router
	srv       *http.Server
	scheduler *cron.Cron
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// DB + migrations
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	deps := BuildDependencies(db, cfg)

	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	scheduler, err := buildScheduler(cfg, deps)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, scheduler: scheduler}, nil
}

// buildScheduler sets up the nightly daily-stat recompute. The batch
// tolerates per-child failures; the run itself only fails when children
// cannot be listed at all.
func buildScheduler(cfg config.Application, deps *Dependencies) (*cron.Cron, error) {
	if cfg.Stats.RecomputeCron == "" {
		log.Info("Stats recompute scheduler disabled")
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(cfg.Stats.RecomputeCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		report, err := deps.StatsService.RecomputeYesterday(ctx)
		if err != nil {
			log.Errorf("Nightly stats recompute failed: %v", err)
			return
		}
		if len(report.Failures) > 0 {
			log.Warnf("Nightly stats recompute: %d computed, %d failed", report.Computed, len(report.Failures))
		} else {
			log.Infof("Nightly stats recompute: %d computed", report.Computed)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Run starts the scheduler and the HTTP server, and blocks.
func (a *Application) Run() error {
	if a.scheduler != nil {
		a.scheduler.Start()
	}
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
