package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches a category's questions from a backing store (Postgres, bundle).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category string) (domain.QuestionSet, error)
}

// QuestionRepository caches question pools in Redis and falls back to a loader on cache miss.
// Each pool is stored as JSON: SET quiz:questions:{category} <set> EX ttl
// Redis failures degrade to calling the loader directly.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, category string) (domain.QuestionSet, error) {
	if set, ok := r.cached(ctx, category); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(category, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cached(ctx, category); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestions(ctx, category)
		if err != nil {
			return domain.QuestionSet{}, err
		}
		if len(set.Questions) == 0 {
			return set, nil
		}

		data, err := json.Marshal(set)
		if err != nil {
			return domain.QuestionSet{}, err
		}
		if err := r.client.Set(ctx, r.key(category), data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache questions for %s: %v", category, err)
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// Invalidate drops a cached category, e.g. after an import.
func (r *QuestionRepository) Invalidate(ctx context.Context, categories ...string) error {
	if len(categories) == 0 {
		return nil
	}
	keys := make([]string, 0, len(categories))
	for _, category := range categories {
		keys = append(keys, r.key(category))
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, category string) (domain.QuestionSet, bool) {
	data, err := r.client.Get(ctx, r.key(category)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached questions for %s: %v", category, err)
		}
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil || len(set.Questions) == 0 {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (r *QuestionRepository) key(category string) string {
	return "quiz:questions:" + category
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
