package memory

import (
	"context"
	"errors"
	"sort"

	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/domain"
)

// BundleReader is the slice of *bundle.Bundle the static loader needs.
type BundleReader interface {
	Read(category string) (bundle.File, error)
}

// StaticQuestionLoader serves questions from the bundled JSON files. It is the fallback when
// Postgres is unavailable or empty.
type StaticQuestionLoader struct {
	files BundleReader
}

func NewStaticQuestionLoader(files BundleReader) *StaticQuestionLoader {
	return &StaticQuestionLoader{files: files}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, category string) (domain.QuestionSet, error) {
	file, err := l.files.Read(category)
	if errors.Is(err, domain.ErrBundleNotFound) {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}
	if err != nil {
		return domain.QuestionSet{}, err
	}

	questions := make([]domain.Question, len(file.Questions))
	copy(questions, file.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Difficulty.Rank() < questions[j].Difficulty.Rank()
	})
	return domain.QuestionSet{
		Category:  category,
		Questions: questions,
		Source:    domain.SourceStatic,
	}, nil
}

// MapQuestionLoader is a loader backed by an in-memory map (useful for tests/demos).
type MapQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewMapQuestionLoader(sets map[string][]domain.Question) *MapQuestionLoader {
	return &MapQuestionLoader{sets: sets}
}

func (l *MapQuestionLoader) LoadQuestions(_ context.Context, category string) (domain.QuestionSet, error) {
	questions, ok := l.sets[category]
	if !ok {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}
	return domain.QuestionSet{Category: category, Questions: questions, Source: domain.SourceStatic}, nil
}
