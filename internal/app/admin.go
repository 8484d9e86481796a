package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/catalog"
	"trivia-quiz-service/internal/domain"
)

// StatsReader summarizes the stored questions and scores. sampleSize > 0 also returns
// that many sample questions.
type StatsReader interface {
	Stats(ctx context.Context, sampleSize int) (domain.DatabaseStats, error)
}

// QuestionImporter upserts a category's questions into the database.
type QuestionImporter interface {
	ImportQuestions(ctx context.Context, category string, questions []domain.Question) (int, error)
}

// BundleReader reads one category from the bundled question files.
type BundleReader interface {
	Read(category string) (bundle.File, error)
}

// QuestionCache drops cached question pools so imported questions are served immediately.
type QuestionCache interface {
	Invalidate(ctx context.Context, categories ...string) error
}

// AdminService backs the inspection and import tools.
type AdminService struct {
	stats    StatsReader
	importer QuestionImporter
	bundle   BundleReader
	cache    QuestionCache
}

// NewAdminService wires the admin tools. importer may be nil when no database is configured.
func NewAdminService(stats StatsReader, importer QuestionImporter, files BundleReader) *AdminService {
	return &AdminService{stats: stats, importer: importer, bundle: files}
}

// WithCache makes Import invalidate the categories it wrote.
func (s *AdminService) WithCache(cache QuestionCache) *AdminService {
	s.cache = cache
	return s
}

// Stats returns question and score totals without samples.
func (s *AdminService) Stats(ctx context.Context) (domain.DatabaseStats, error) {
	return s.stats.Stats(ctx, 0)
}

// CheckQuestions returns totals plus a handful of sample questions.
func (s *AdminService) CheckQuestions(ctx context.Context) (domain.DatabaseStats, error) {
	return s.stats.Stats(ctx, 5)
}

// Import copies every bundled category in the catalogue into the database. Missing bundle
// files and per-category failures are reported in the results rather than aborting the run.
func (s *AdminService) Import(ctx context.Context) ([]domain.ImportResult, error) {
	if s.importer == nil {
		return nil, domain.ErrDatabaseUnavailable
	}
	categories := catalog.All()
	results := make([]domain.ImportResult, 0, len(categories))
	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.importCategory(ctx, category.ID))
	}
	s.invalidate(ctx, results)
	return results, nil
}

// invalidate drops imported categories from the cache. Errors are only logged.
func (s *AdminService) invalidate(ctx context.Context, results []domain.ImportResult) {
	if s.cache == nil {
		return
	}
	var imported []string
	for _, r := range results {
		if r.Imported > 0 {
			imported = append(imported, r.Category)
		}
	}
	if len(imported) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, imported...); err != nil {
		log.Printf("invalidate question cache: %v", err)
	}
}

func (s *AdminService) importCategory(ctx context.Context, category string) domain.ImportResult {
	result := domain.ImportResult{Category: category}
	file, err := s.bundle.Read(category)
	if errors.Is(err, domain.ErrBundleNotFound) {
		result.Status = domain.ImportMissing
		return result
	}
	if err != nil {
		result.Status = domain.ImportError
		result.Error = err.Error()
		return result
	}

	n, err := s.importer.ImportQuestions(ctx, category, file.Questions)
	result.Imported = n
	if err != nil {
		result.Status = domain.ImportError
		result.Error = fmt.Sprintf("import: %v", err)
		log.Printf("import %s failed after %d questions: %v", category, n, err)
		return result
	}
	result.Status = domain.ImportSuccess
	log.Printf("imported %d questions for %s", n, category)
	return result
}
