package listeners

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/gameiq/internal/clock"
	"github.com/KirkDiggler/gameiq/internal/entities"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/repositories/gamesummaries"
)

// SummaryWriterConfig holds configuration for the summary writer
type SummaryWriterConfig struct {
	Summaries    gamesummaries.Repository
	TimeProvider clock.TimeProvider
	Logger       *slog.Logger
}

// SummaryWriter stores a game summary when a game ends
type SummaryWriter struct {
	summaries gamesummaries.Repository
	clock     clock.TimeProvider
	log       *slog.Logger
}

var _ events.Listener = (*SummaryWriter)(nil)

// NewSummaryWriter creates a summary writer
func NewSummaryWriter(cfg *SummaryWriterConfig) *SummaryWriter {
	if cfg == nil || cfg.Summaries == nil {
		panic("game summaries repository is required")
	}

	tp := cfg.TimeProvider
	if tp == nil {
		tp = clock.NewRealTimeProvider()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SummaryWriter{
		summaries: cfg.Summaries,
		clock:     tp,
		log:       logger.With("component", "summary_writer"),
	}
}

// ID implements events.Listener
func (w *SummaryWriter) ID() string {
	return "summary-writer"
}

// HandleEvent implements events.Listener. Only game_end events are stored.
func (w *SummaryWriter) HandleEvent(ctx context.Context, event *events.Event) error {
	end, ok := event.GameEnd()
	if !ok {
		return nil
	}

	summary := BuildSummary(event, end)
	summary.CreatedAt = w.clock.Now()

	if err := w.summaries.Save(ctx, summary); err != nil {
		return err
	}

	w.log.InfoContext(ctx, "game summary saved",
		"game_id", summary.GameID,
		"player_id", summary.PlayerID,
		"result", summary.Result,
		"score", summary.Score)
	return nil
}

// BuildSummary derives the stored summary from a game_end event.
// Score and result are from the player's side.
func BuildSummary(event *events.Event, end *events.GameEndPayload) *entities.GameSummary {
	game := event.Game
	own, opp := game.HomeTeam, game.AwayTeam
	if game.AwayTeam.Name == event.Player.Team {
		own, opp = game.AwayTeam, game.HomeTeam
	}

	result := entities.GameResultLoss
	switch {
	case own.Score > opp.Score:
		result = entities.GameResultWin
	case own.Score == opp.Score:
		result = entities.GameResultOvertime
	}

	opponent := opp.Abbreviation
	if opponent == "" {
		opponent = opp.Name
	}

	return &entities.GameSummary{
		GameID:   game.ID,
		PlayerID: event.Player.ID,
		Opponent: opponent,
		Result:   result,
		Score:    fmt.Sprintf("%d-%d", own.Score, opp.Score),
		Stats:    end.GameStats,
		Summary:  end.AISummary,
		PlayedAt: event.Timestamp,
	}
}
