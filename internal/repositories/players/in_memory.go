package players

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu      sync.RWMutex
	players map[string]*entities.PlayerProfile
}

// NewInMemoryRepository creates an empty in-memory player repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		players: make(map[string]*entities.PlayerProfile),
	}
}

// NewSeededInMemoryRepository creates an in-memory repository holding the seed roster
func NewSeededInMemoryRepository() (Repository, error) {
	roster, err := Roster()
	if err != nil {
		return nil, err
	}

	repo := &inMemoryRepository{
		players: make(map[string]*entities.PlayerProfile, len(roster)),
	}
	for _, profile := range roster {
		repo.players[profile.ID] = profile
	}

	return repo, nil
}

// Save creates or replaces a player profile
func (r *inMemoryRepository) Save(ctx context.Context, profile *entities.PlayerProfile) error {
	if profile == nil {
		return apperrors.InvalidArgument("player cannot be nil")
	}
	if profile.ID == "" {
		return apperrors.InvalidArgument("player ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[profile.ID] = copyProfile(profile)
	return nil
}

// Get retrieves a player by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*entities.PlayerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.players[id]
	if !exists {
		return nil, apperrors.NotFoundf("player not found: %s", id)
	}

	return copyProfile(profile), nil
}

// GetByName retrieves a player by full name, ignoring case
func (r *inMemoryRepository) GetByName(ctx context.Context, name string) (*entities.PlayerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.players {
		if strings.EqualFold(profile.Name, name) {
			return copyProfile(profile), nil
		}
	}

	return nil, apperrors.NotFoundf("player not found: %s", name)
}

// List returns every player ordered by ID
func (r *inMemoryRepository) List(ctx context.Context) ([]*entities.PlayerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.PlayerProfile, 0, len(r.players))
	for _, profile := range r.players {
		result = append(result, copyProfile(profile))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// UpdateSeasonStats replaces the season snapshot for a player
func (r *inMemoryRepository) UpdateSeasonStats(ctx context.Context, id string, stats entities.SeasonStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.players[id]
	if !exists {
		return apperrors.NotFoundf("player not found: %s", id)
	}

	profile.SeasonStats = stats
	return nil
}
