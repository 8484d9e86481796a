package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-quiz-service/internal/domain"
)

// cachedTop is how many rows are cached per board. Requests above it bypass the cache.
const cachedTop = 100

// ScoreStore is the store being cached (in-memory or Postgres).
type ScoreStore interface {
	SaveScore(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error)
	TopScores(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error)
}

// LeaderboardCache decorates a ScoreStore, caching the top rows per category in Redis:
//
//	SET quiz:leaderboard:{category} <json rows> EX ttl
//
// The overall board uses the "all" key. Saving a score deletes both affected keys.
type LeaderboardCache struct {
	client *redis.Client
	store  ScoreStore
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, store ScoreStore, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, store: store, ttl: ttl}
}

func (c *LeaderboardCache) SaveScore(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error) {
	record, err := c.store.SaveScore(ctx, submission)
	if err != nil {
		return domain.ScoreRecord{}, err
	}
	if err := c.client.Del(ctx, c.key(""), c.key(record.Category)).Err(); err != nil {
		log.Printf("invalidate leaderboard cache: %v", err)
	}
	return record, nil
}

func (c *LeaderboardCache) TopScores(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error) {
	if limit > cachedTop {
		return c.store.TopScores(ctx, category, limit)
	}

	key := c.key(category)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rows []domain.ScoreRecord
		if err := json.Unmarshal(data, &rows); err == nil {
			return head(rows, limit), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("read leaderboard cache %s: %v", key, err)
	}

	rows, err := c.store.TopScores(ctx, category, cachedTop)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rows); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("write leaderboard cache %s: %v", key, err)
		}
	}
	return head(rows, limit), nil
}

func (c *LeaderboardCache) key(category string) string {
	if category == "" {
		category = "all"
	}
	return "quiz:leaderboard:" + category
}

func head(rows []domain.ScoreRecord, limit int) []domain.ScoreRecord {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
