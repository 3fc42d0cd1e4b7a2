package players

//go:generate mockgen -destination=mock/mock_repository.go -package=mockplayers -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/gameiq/internal/entities"
)

// Repository defines the interface for player profile storage
type Repository interface {
	// Save creates or replaces a player profile
	Save(ctx context.Context, profile *entities.PlayerProfile) error

	// Get retrieves a player by ID
	Get(ctx context.Context, id string) (*entities.PlayerProfile, error)

	// GetByName retrieves a player by full name, ignoring case
	GetByName(ctx context.Context, name string) (*entities.PlayerProfile, error)

	// List returns every player ordered by ID
	List(ctx context.Context) ([]*entities.PlayerProfile, error)

	// UpdateSeasonStats replaces the season snapshot for a player
	UpdateSeasonStats(ctx context.Context, id string, stats entities.SeasonStats) error
}
