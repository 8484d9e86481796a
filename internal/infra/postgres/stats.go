package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// Stats inspects the questions and scores tables.
type Stats struct {
	pool *pgxpool.Pool
}

func NewStats(pool *pgxpool.Pool) *Stats {
	return &Stats{pool: pool}
}

func (s *Stats) Stats(ctx context.Context, sampleSize int) (domain.DatabaseStats, error) {
	stats := domain.DatabaseStats{
		CategoryCounts: []domain.CategoryCount{},
		Source:         domain.SourceDatabase,
	}

	var scoresExist bool
	err := s.pool.QueryRow(ctx,
		`SELECT to_regclass('public.questions') IS NOT NULL, to_regclass('public.scores') IS NOT NULL`,
	).Scan(&stats.TableExists, &scoresExist)
	if err != nil {
		return domain.DatabaseStats{}, fmt.Errorf("check tables: %w", err)
	}

	if scoresExist {
		if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scores`).Scan(&stats.TotalScores); err != nil {
			return domain.DatabaseStats{}, fmt.Errorf("count scores: %w", err)
		}
	}
	if !stats.TableExists {
		return stats, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT category_id, COUNT(*) FROM questions GROUP BY category_id ORDER BY COUNT(*) DESC, category_id`)
	if err != nil {
		return domain.DatabaseStats{}, fmt.Errorf("count questions: %w", err)
	}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.CategoryID, &c.Count); err != nil {
			rows.Close()
			return domain.DatabaseStats{}, fmt.Errorf("scan count: %w", err)
		}
		stats.TotalQuestions += c.Count
		stats.CategoryCounts = append(stats.CategoryCounts, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.DatabaseStats{}, fmt.Errorf("count questions: %w", err)
	}

	if sampleSize > 0 {
		stats.SampleQuestions, err = s.samples(ctx, sampleSize)
		if err != nil {
			return domain.DatabaseStats{}, err
		}
	}
	return stats, nil
}

func (s *Stats) samples(ctx context.Context, n int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question, options, correct, points, difficulty FROM questions ORDER BY category_id, id LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

