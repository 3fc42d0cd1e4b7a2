package gamesummaries

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu        sync.RWMutex
	summaries map[string]*entities.GameSummary
	byPlayer  map[string][]string // playerID -> summary keys
}

// NewInMemoryRepository creates a new in-memory game summary repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		summaries: make(map[string]*entities.GameSummary),
		byPlayer:  make(map[string][]string),
	}
}

// Save creates or replaces the summary for a player's game
func (r *inMemoryRepository) Save(ctx context.Context, summary *entities.GameSummary) error {
	if err := validateSummary(summary); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := summaryKey(summary.GameID, summary.PlayerID)
	if _, exists := r.summaries[key]; !exists {
		r.byPlayer[summary.PlayerID] = append(r.byPlayer[summary.PlayerID], key)
	}

	summaryCopy := *summary
	r.summaries[key] = &summaryCopy

	return nil
}

// Get retrieves one player's summary of one game
func (r *inMemoryRepository) Get(ctx context.Context, gameID, playerID string) (*entities.GameSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary, exists := r.summaries[summaryKey(gameID, playerID)]
	if !exists {
		return nil, apperrors.NotFoundf("game summary not found: %s/%s", gameID, playerID)
	}

	summaryCopy := *summary
	return &summaryCopy, nil
}

// ListByPlayer returns a player's summaries, most recent game first
func (r *inMemoryRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.GameSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.byPlayer[playerID]
	result := make([]*entities.GameSummary, 0, len(keys))
	for _, key := range keys {
		summaryCopy := *r.summaries[key]
		result = append(result, &summaryCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PlayedAt.After(result[j].PlayedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
