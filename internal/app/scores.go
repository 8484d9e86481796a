package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ScoreStore persists score records (in-memory, Postgres, etc).
type ScoreStore interface {
	SaveScore(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error)
	// TopScores returns the best scores, highest first and earliest first on ties.
	// An empty category means all categories.
	TopScores(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error)
}

// ScoreService stores submitted scores and keeps live leaderboards current.
type ScoreService struct {
	store ScoreStore
	hub   *LeaderboardHub
	now   func() time.Time
}

func NewScoreService(store ScoreStore, hub *LeaderboardHub) *ScoreService {
	return &ScoreService{store: store, hub: hub, now: time.Now}
}

// Submit validates and stores a score, then pushes fresh snapshots to live subscribers.
func (s *ScoreService) Submit(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error) {
	submission.Username = strings.TrimSpace(submission.Username)
	submission.Category = strings.TrimSpace(submission.Category)
	if err := domain.ValidateSubmission(submission); err != nil {
		return domain.ScoreRecord{}, err
	}

	record, err := s.store.SaveScore(ctx, submission)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("save score: %w", err)
	}

	if s.hub != nil {
		for _, category := range []string{"", record.Category} {
			if !s.hub.Watched(category) {
				continue
			}
			lb, err := s.Leaderboard(ctx, category, MaxLeaderboardLimit)
			if err != nil {
				log.Printf("leaderboard refresh for %q failed: %v", category, err)
				continue
			}
			s.hub.Publish(lb)
		}
	}
	return record, nil
}

// Top returns the best scores for category ("" for all). limit <= 0 means the default.
func (s *ScoreService) Top(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error) {
	limit = clampLimit(limit)
	scores, err := s.store.TopScores(ctx, strings.TrimSpace(category), limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	if scores == nil {
		scores = []domain.ScoreRecord{}
	}
	return scores, nil
}

// Leaderboard wraps Top into a snapshot.
func (s *ScoreService) Leaderboard(ctx context.Context, category string, limit int) (domain.Leaderboard, error) {
	scores, err := s.Top(ctx, category, limit)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{
		Category:  strings.TrimSpace(category),
		Scores:    scores,
		UpdatedAt: s.now(),
	}, nil
}

// Subscribe returns a channel of leaderboard snapshots for category, starting with the current one.
// Snapshots carry up to MaxLeaderboardLimit rows; consumers trim them to what they display.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ScoreService) Subscribe(ctx context.Context, category string) (<-chan domain.Leaderboard, func(), error) {
	if s.hub == nil {
		return nil, nil, fmt.Errorf("live leaderboard disabled")
	}
	category = strings.TrimSpace(category)
	return s.hub.Subscribe(category, func() (domain.Leaderboard, error) {
		return s.Leaderboard(ctx, category, MaxLeaderboardLimit)
	})
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}
