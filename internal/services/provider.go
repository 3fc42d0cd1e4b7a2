package services

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/gameiq/internal/clock"
	"github.com/KirkDiggler/gameiq/internal/dice"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/listeners"
	"github.com/KirkDiggler/gameiq/internal/repositories/gamesummaries"
	"github.com/KirkDiggler/gameiq/internal/repositories/players"
	simulationService "github.com/KirkDiggler/gameiq/internal/services/simulation"
)

// Provider holds all service instances
type Provider struct {
	Dispatcher        *events.EventDispatcher
	PlayerRepository  players.Repository
	SummaryRepository gamesummaries.Repository
	SimulationService simulationService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	PlayerRepository  players.Repository
	SummaryRepository gamesummaries.Repository
	Roller            dice.Roller
	TimeProvider      clock.TimeProvider
	ListenerTimeout   time.Duration
	ValidateEvents    bool
	MinInterval       time.Duration
	MaxInterval       time.Duration
	Logger            *slog.Logger
}

// NewProvider creates a new service provider with all services initialized.
// The stats tracker and summary writer are subscribed to the dispatcher.
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	// Use in-memory repositories if none provided
	playerRepo := cfg.PlayerRepository
	if playerRepo == nil {
		seeded, err := players.NewSeededInMemoryRepository()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to seed player roster")
		}
		playerRepo = seeded
	}

	summaryRepo := cfg.SummaryRepository
	if summaryRepo == nil {
		summaryRepo = gamesummaries.NewInMemoryRepository()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dispatcher := events.NewDispatcher(&events.DispatcherConfig{
		Logger:          logger,
		ListenerTimeout: cfg.ListenerTimeout,
		ValidateEvents:  cfg.ValidateEvents,
	})

	dispatcher.Subscribe(events.All, listeners.NewStatsTracker(&listeners.StatsTrackerConfig{
		Players: playerRepo,
		Logger:  logger,
	}))
	dispatcher.Subscribe(events.KindGameEnd, listeners.NewSummaryWriter(&listeners.SummaryWriterConfig{
		Summaries:    summaryRepo,
		TimeProvider: cfg.TimeProvider,
		Logger:       logger,
	}))

	simService := simulationService.NewService(&simulationService.ServiceConfig{
		Dispatcher:   dispatcher,
		Players:      playerRepo,
		Roller:       cfg.Roller,
		TimeProvider: cfg.TimeProvider,
		MinInterval:  cfg.MinInterval,
		MaxInterval:  cfg.MaxInterval,
		Logger:       logger,
	})

	return &Provider{
		Dispatcher:        dispatcher,
		PlayerRepository:  playerRepo,
		SummaryRepository: summaryRepo,
		SimulationService: simService,
	}, nil
}
