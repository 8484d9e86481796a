package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// ScoreStore persists scores in the scores table.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) SaveScore(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error) {
	record := domain.ScoreRecord{
		ID:       uuid.NewString(),
		Username: submission.Username,
		Score:    submission.Score,
		Category: submission.Category,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO scores (id, username, score, category) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		record.ID, record.Username, record.Score, record.Category,
	).Scan(&record.CreatedAt)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("insert score: %w", err)
	}
	return record, nil
}

func (s *ScoreStore) TopScores(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id::text, username, score, category, created_at
FROM scores
WHERE $1 = '' OR category = $1
ORDER BY score DESC, created_at ASC
LIMIT $2`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	scores := []domain.ScoreRecord{}
	for rows.Next() {
		var r domain.ScoreRecord
		if err := rows.Scan(&r.ID, &r.Username, &r.Score, &r.Category, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	return scores, nil
}
