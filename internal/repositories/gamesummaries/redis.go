package gamesummaries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

const (
	// Key patterns
	summaryKeyPattern = "game_summary:%s:%s"
	playerSummaryKey  = "player:%s:summaries"

	// TTL for summaries (one season)
	summaryTTL = 240 * 24 * time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client     redis.UniversalClient
	SummaryTTL time.Duration
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client     redis.UniversalClient
	summaryTTL time.Duration
}

// NewRedisRepository creates a new Redis-backed game summary repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.SummaryTTL
	if ttl == 0 {
		ttl = summaryTTL
	}

	return &redisRepository{
		client:     cfg.Client,
		summaryTTL: ttl,
	}
}

// Save creates or replaces the summary for a player's game
func (r *redisRepository) Save(ctx context.Context, summary *entities.GameSummary) error {
	if err := validateSummary(summary); err != nil {
		return err
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize game summary")
	}

	indexKey := fmt.Sprintf(playerSummaryKey, summary.PlayerID)

	// The index lives as long as its newest summary and sheds games older than the TTL
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, summaryKey(summary.GameID, summary.PlayerID), string(data), r.summaryTTL)
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(summary.PlayedAt.Unix()),
		Member: summary.GameID,
	})
	pipe.ZRemRangeByScore(ctx, indexKey, "-inf", indexCutoff(summary.PlayedAt, r.summaryTTL))
	pipe.Expire(ctx, indexKey, r.summaryTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to save game summary").
			WithMeta("game_id", summary.GameID).
			WithMeta("player_id", summary.PlayerID)
	}

	return nil
}

// Get retrieves one player's summary of one game
func (r *redisRepository) Get(ctx context.Context, gameID, playerID string) (*entities.GameSummary, error) {
	data, err := r.client.Get(ctx, summaryKey(gameID, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFoundf("game summary not found: %s/%s", gameID, playerID)
		}
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to get game summary")
	}

	var summary entities.GameSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, apperrors.Wrapf(err, "failed to deserialize game summary %s", gameID)
	}

	return &summary, nil
}

// ListByPlayer returns a player's summaries, most recent game first.
// Index entries whose summary has expired are skipped.
func (r *redisRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	gameIDs, err := r.client.ZRevRange(ctx, fmt.Sprintf(playerSummaryKey, playerID), 0, stop).Result()
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to list game summaries").
			WithMeta("player_id", playerID)
	}

	summaries := make([]*entities.GameSummary, len(gameIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, gameID := range gameIDs {
		g.Go(func() error {
			summary, err := r.Get(ctx, gameID, playerID)
			if err != nil {
				if apperrors.IsNotFound(err) {
					return nil
				}
				return err
			}
			summaries[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*entities.GameSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil {
			result = append(result, summary)
		}
	}

	return result, nil
}

// indexCutoff is the exclusive upper score bound of index entries that have outlived ttl
func indexCutoff(playedAt time.Time, ttl time.Duration) string {
	return "(" + strconv.FormatInt(playedAt.Add(-ttl).Unix(), 10)
}

func summaryKey(gameID, playerID string) string {
	return fmt.Sprintf(summaryKeyPattern, gameID, playerID)
}
