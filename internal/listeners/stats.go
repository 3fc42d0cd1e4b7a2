package listeners

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/repositories/players"
)

// StatsTrackerConfig holds configuration for the stats tracker
type StatsTrackerConfig struct {
	Players players.Repository
	Logger  *slog.Logger
}

// StatsTracker persists the season snapshot carried by each event
type StatsTracker struct {
	players players.Repository
	log     *slog.Logger
}

var _ events.Listener = (*StatsTracker)(nil)

// NewStatsTracker creates a stats tracker
func NewStatsTracker(cfg *StatsTrackerConfig) *StatsTracker {
	if cfg == nil || cfg.Players == nil {
		panic("players repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsTracker{
		players: cfg.Players,
		log:     logger.With("component", "stats_tracker"),
	}
}

// ID implements events.Listener
func (t *StatsTracker) ID() string {
	return "stats-tracker"
}

// HandleEvent implements events.Listener
func (t *StatsTracker) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Player.ID == "" {
		return nil
	}

	if err := t.players.UpdateSeasonStats(ctx, event.Player.ID, event.SeasonStats); err != nil {
		return err
	}

	t.log.DebugContext(ctx, "season stats updated",
		"player_id", event.Player.ID,
		"event_id", event.ID,
		"points", event.SeasonStats.Points)
	return nil
}
