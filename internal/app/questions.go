package app

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	DefaultQuestionCount = 15
	MaxQuestionCount     = 50
)

// QuestionRepository returns the full question pool of a category (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, category string) (domain.QuestionSet, error)
}

// QuestionServiceConfig tunes question selection. Zero values use the defaults.
type QuestionServiceConfig struct {
	DefaultCount int
	MaxCount     int
	Rand         *rand.Rand
}

// QuestionService picks the questions for a new session.
type QuestionService struct {
	questions    QuestionRepository
	defaultCount int
	maxCount     int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionService(repo QuestionRepository, cfg QuestionServiceConfig) *QuestionService {
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = DefaultQuestionCount
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = MaxQuestionCount
	}
	if cfg.DefaultCount > cfg.MaxCount {
		cfg.DefaultCount = cfg.MaxCount
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionService{
		questions:    repo,
		defaultCount: cfg.DefaultCount,
		maxCount:     cfg.MaxCount,
		rnd:          cfg.Rand,
	}
}

// Questions returns up to count questions for category: a random subset of the pool ordered
// from easy to hard. count <= 0 means the default.
func (s *QuestionService) Questions(ctx context.Context, category string, count int) (domain.QuestionSet, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.QuestionSet{}, domain.ErrCategoryRequired
	}
	if count <= 0 {
		count = s.defaultCount
	}
	if count > s.maxCount {
		count = s.maxCount
	}

	set, err := s.questions.GetQuestions(ctx, category)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	if len(set.Questions) == 0 {
		return domain.QuestionSet{}, domain.ErrNoQuestions
	}

	set.Category = category
	set.Questions = s.pick(set.Questions, count)
	return set, nil
}

func (s *QuestionService) pick(pool []domain.Question, count int) []domain.Question {
	picked := make([]domain.Question, len(pool))
	copy(picked, pool)

	s.mu.Lock()
	s.rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	s.mu.Unlock()

	if count < len(picked) {
		picked = picked[:count]
	}
	SortByDifficulty(picked)
	return picked
}

// SortByDifficulty orders questions easy to hard, keeping the relative order within a tag.
func SortByDifficulty(questions []domain.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Difficulty.Rank() < questions[j].Difficulty.Rank()
	})
}
