package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader loads a category's questions from the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

const selectQuestions = `
SELECT id, question, options, correct, points, difficulty
FROM questions
WHERE category_id = $1
ORDER BY CASE difficulty WHEN 'easy' THEN 1 WHEN 'medium' THEN 2 WHEN 'hard' THEN 3 ELSE 4 END, id`

// LoadQuestions returns an empty set (not an error) when the category has no rows.
func (l *QuestionLoader) LoadQuestions(ctx context.Context, category string) (domain.QuestionSet, error) {
	rows, err := l.pool.Query(ctx, selectQuestions, category)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	set := domain.QuestionSet{Category: category, Source: domain.SourceDatabase}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return domain.QuestionSet{}, err
		}
		set.Questions = append(set.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load questions: %w", err)
	}
	return set, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanQuestion reads id, question, options, correct, points, difficulty.
func scanQuestion(row rowScanner) (domain.Question, error) {
	var (
		q          domain.Question
		options    []byte
		difficulty string
	)
	if err := row.Scan(&q.ID, &q.Prompt, &options, &q.Correct, &q.Points, &difficulty); err != nil {
		return domain.Question{}, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options of %s: %w", q.ID, err)
	}
	q.Difficulty = domain.Difficulty(difficulty)
	return q, nil
}
