package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches a category's questions from a backing store (Postgres, bundle).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category string) (domain.QuestionSet, error)
}

// QuestionRepository caches question pools with TTL to avoid repeated store hits.
// Empty pools and errors are never cached.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, category string) (domain.QuestionSet, error) {
	if set, ok := r.cached(category); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(category, func() (interface{}, error) {
		if set, ok := r.cached(category); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestions(ctx, category)
		if err != nil {
			return domain.QuestionSet{}, err
		}
		if len(set.Questions) == 0 || r.ttl <= 0 {
			return set, nil
		}

		expiresAt := r.clock().Add(r.ttlWithJitter())
		r.mu.Lock()
		r.cache[category] = cachedSet{set: set, expiresAt: expiresAt}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// Invalidate drops the given categories, or every category when none are named.
func (r *QuestionRepository) Invalidate(_ context.Context, categories ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(categories) == 0 {
		r.cache = make(map[string]cachedSet)
		return nil
	}
	for _, category := range categories {
		delete(r.cache, category)
	}
	return nil
}

func (r *QuestionRepository) cached(category string) (domain.QuestionSet, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[category]
	if !ok || !entry.expiresAt.After(now) {
		return domain.QuestionSet{}, false
	}
	return entry.set, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
