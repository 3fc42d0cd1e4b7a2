package gamesummaries

//go:generate mockgen -destination=mock/mock_repository.go -package=mockgamesummaries -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// Repository defines the interface for finished game summaries
type Repository interface {
	// Save creates or replaces the summary for a player's game
	Save(ctx context.Context, summary *entities.GameSummary) error

	// Get retrieves one player's summary of one game
	Get(ctx context.Context, gameID, playerID string) (*entities.GameSummary, error)

	// ListByPlayer returns a player's summaries, most recent game first.
	// A limit of zero or less returns every summary.
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.GameSummary, error)
}

func validateSummary(summary *entities.GameSummary) error {
	if summary == nil {
		return apperrors.InvalidArgument("game summary cannot be nil")
	}
	if summary.GameID == "" {
		return apperrors.InvalidArgument("game ID cannot be empty")
	}
	if summary.PlayerID == "" {
		return apperrors.InvalidArgument("player ID cannot be empty")
	}
	return nil
}
