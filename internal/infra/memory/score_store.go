package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-quiz-service/internal/domain"
)

// ScoreStore is an in-memory implementation of app.ScoreStore. Scores are lost on restart.
type ScoreStore struct {
	clock func() time.Time

	mu     sync.RWMutex
	scores []domain.ScoreRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{clock: time.Now}
}

func (s *ScoreStore) SaveScore(_ context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error) {
	record := domain.ScoreRecord{
		ID:        uuid.NewString(),
		Username:  submission.Username,
		Score:     submission.Score,
		Category:  submission.Category,
		CreatedAt: s.clock().UTC(),
	}
	s.mu.Lock()
	s.scores = append(s.scores, record)
	s.mu.Unlock()
	return record, nil
}

func (s *ScoreStore) TopScores(_ context.Context, category string, limit int) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	matched := make([]domain.ScoreRecord, 0, len(s.scores))
	for _, record := range s.scores {
		if category == "" || record.Category == category {
			matched = append(matched, record)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of stored scores.
func (s *ScoreStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores)
}
