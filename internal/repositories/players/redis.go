package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

const (
	// Key patterns
	playerKeyPrefix = "player:"
	playerNameKey   = "player_name:%s"
	playersSetKey   = "players"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed player repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

// Save creates or replaces a player profile
func (r *redisRepository) Save(ctx context.Context, profile *entities.PlayerProfile) error {
	if profile == nil {
		return apperrors.InvalidArgument("player cannot be nil")
	}
	if profile.ID == "" {
		return apperrors.InvalidArgument("player ID cannot be empty")
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize player")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, playerKeyPrefix+profile.ID, string(data), 0)
	pipe.SAdd(ctx, playersSetKey, profile.ID)
	pipe.Set(ctx, nameKey(profile.Name), profile.ID, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to save player").
			WithMeta("player_id", profile.ID)
	}

	return nil
}

// Get retrieves a player by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*entities.PlayerProfile, error) {
	data, err := r.client.Get(ctx, playerKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFoundf("player not found: %s", id)
		}
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to get player").
			WithMeta("player_id", id)
	}

	var profile entities.PlayerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.Wrapf(err, "failed to deserialize player %s", id)
	}

	return &profile, nil
}

// GetByName retrieves a player by full name, ignoring case
func (r *redisRepository) GetByName(ctx context.Context, name string) (*entities.PlayerProfile, error) {
	id, err := r.client.Get(ctx, nameKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFoundf("player not found: %s", name)
		}
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to look up player name")
	}

	return r.Get(ctx, id)
}

// List returns every player ordered by ID
func (r *redisRepository) List(ctx context.Context) ([]*entities.PlayerProfile, error) {
	ids, err := r.client.SMembers(ctx, playersSetKey).Result()
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to list players")
	}
	sort.Strings(ids)

	profiles := make([]*entities.PlayerProfile, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			profile, err := r.Get(ctx, id)
			if err != nil {
				return apperrors.Wrapf(err, "failed to get player %s", id)
			}
			profiles[i] = profile
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// UpdateSeasonStats replaces the season snapshot for a player
func (r *redisRepository) UpdateSeasonStats(ctx context.Context, id string, stats entities.SeasonStats) error {
	profile, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	profile.SeasonStats = stats

	data, err := json.Marshal(profile)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize player")
	}

	if err := r.client.Set(ctx, playerKeyPrefix+id, string(data), 0).Err(); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to update season stats").
			WithMeta("player_id", id)
	}

	return nil
}

func nameKey(name string) string {
	return fmt.Sprintf(playerNameKey, strings.ToLower(strings.TrimSpace(name)))
}
