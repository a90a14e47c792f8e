package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/cradlelog/cradlelog/internal/config"
	"github.com/cradlelog/cradlelog/internal/event_bus"
	"github.com/cradlelog/cradlelog/pkg/audit"
	"github.com/cradlelog/cradlelog/pkg/child"
	"github.com/cradlelog/cradlelog/pkg/event"
	"github.com/cradlelog/cradlelog/pkg/stats"
	"github.com/cradlelog/cradlelog/pkg/voicedraft"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	ChildService child.Service
	ChildHandler *child.Handler

	EventRepo    event.EventRepository
	EventService event.EventService
	EventHandler *event.EventHandler

	StatsService stats.StatsService
	CsvRenderer  *stats.CsvStatsRendererImpl
	StatsHandler *stats.StatsHandler

	AuditRepo     audit.Repository
	AuditRecorder *audit.Recorder
	AuditHandler  *audit.Handler

	VoiceIntake  *voicedraft.Intake
	VoiceHandler *voicedraft.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()

	childRepo := child.NewChildRepo(db)
	deps.ChildService = child.NewChildService(childRepo)
	deps.ChildHandler = child.NewHandler(deps.ChildService)

	deps.EventRepo = event.NewEventRepo(db)
	classifier := event.NewClassifier(deps.EventRepo)
	deps.EventService = event.NewEventService(deps.EventRepo, classifier, deps.Bus)
	deps.EventHandler = event.NewEventHandler(deps.EventService)

	statsRepo := stats.NewStatsRepo(db)
	deps.StatsService = stats.NewStatsService(deps.EventRepo, childRepo, statsRepo)
	deps.CsvRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.ChildService, deps.CsvRenderer)

	deps.AuditRepo = audit.NewRepository(db)
	deps.AuditRecorder = audit.NewRecorder(deps.AuditRepo)
	deps.AuditRecorder.Register(deps.Bus)
	deps.AuditHandler = audit.NewHandler(deps.AuditRepo)

	if cfg.Voice.Enabled {
		parser, err := voicedraft.NewAnthropicParser(cfg.Voice.AnthropicAPIKey, cfg.Voice.Model)
		if err != nil {
			log.Warnf("Voice draft intake disabled: %v", err)
		} else {
			deps.VoiceIntake = voicedraft.NewIntake(parser, deps.EventService)
			deps.VoiceHandler = voicedraft.NewHandler(deps.VoiceIntake)
		}
	}

	return deps
}
