package app

import (
	"context"
	"log"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches a category's question pool from one backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category string) (domain.QuestionSet, error)
}

// FallbackLoader asks the primary store first and falls back to the secondary when the primary
// fails or has no questions for the category. A nil primary always uses the secondary.
type FallbackLoader struct {
	primary   QuestionLoader
	secondary QuestionLoader
}

func NewFallbackLoader(primary, secondary QuestionLoader) *FallbackLoader {
	return &FallbackLoader{primary: primary, secondary: secondary}
}

func (l *FallbackLoader) LoadQuestions(ctx context.Context, category string) (domain.QuestionSet, error) {
	if l.primary != nil {
		set, err := l.primary.LoadQuestions(ctx, category)
		if err == nil && len(set.Questions) > 0 {
			return set, nil
		}
		if err != nil {
			log.Printf("primary question store failed for %q, using fallback: %v", category, err)
		}
	}
	set, err := l.secondary.LoadQuestions(ctx, category)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	if len(set.Questions) == 0 {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}
	return set, nil
}
