package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"trivia-quiz-service/internal/domain"
)

type questionModel struct {
	bun.BaseModel `bun:"table:questions"`

	ID         string   `bun:"id,pk"`
	CategoryID string   `bun:"category_id,notnull"`
	Question   string   `bun:"question,notnull"`
	Options    []string `bun:"options,type:jsonb,notnull"`
	Correct    int      `bun:"correct"`
	Points     int      `bun:"points"`
	Difficulty string   `bun:"difficulty,notnull"`
}

// Importer upserts bundled questions into the questions table.
type Importer struct {
	db *bun.DB
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db}
}

// ImportQuestions upserts questions for category in one transaction and returns how many were written.
func (i *Importer) ImportQuestions(ctx context.Context, category string, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	models := questionModels(category, questions)
	err := i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models).
			On("CONFLICT (id) DO UPDATE").
			Set("category_id = EXCLUDED.category_id").
			Set("question = EXCLUDED.question").
			Set("options = EXCLUDED.options").
			Set("correct = EXCLUDED.correct").
			Set("points = EXCLUDED.points").
			Set("difficulty = EXCLUDED.difficulty").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("upsert %s questions: %w", category, err)
	}
	return len(models), nil
}

func questionModels(category string, questions []domain.Question) []questionModel {
	models := make([]questionModel, 0, len(questions))
	for _, q := range questions {
		difficulty := q.Difficulty
		if difficulty == "" {
			difficulty = domain.DifficultyMedium
		}
		models = append(models, questionModel{
			ID:         q.ID,
			CategoryID: category,
			Question:   q.Prompt,
			Options:    q.Options,
			Correct:    q.Correct,
			Points:     q.Points,
			Difficulty: string(difficulty),
		})
	}
	return models
}
