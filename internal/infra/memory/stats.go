package memory

import (
	"context"
	"sort"

	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/domain"
)

// BundleCatalog lists and reads bundled categories.
type BundleCatalog interface {
	BundleReader
	Categories() ([]string, error)
}

// Stats reports question and score totals when no database is configured. Questions come
// from the bundle, scores from the in-memory store.
type Stats struct {
	files  BundleCatalog
	scores *ScoreStore
}

func NewStats(files BundleCatalog, scores *ScoreStore) *Stats {
	return &Stats{files: files, scores: scores}
}

func (s *Stats) Stats(_ context.Context, sampleSize int) (domain.DatabaseStats, error) {
	stats := domain.DatabaseStats{
		CategoryCounts: []domain.CategoryCount{},
		Source:         domain.SourceStatic,
	}
	if s.scores != nil {
		stats.TotalScores = s.scores.Count()
	}

	ids, err := s.files.Categories()
	if err != nil {
		return domain.DatabaseStats{}, err
	}
	for _, id := range ids {
		var file bundle.File
		file, err = s.files.Read(id)
		if err != nil {
			return domain.DatabaseStats{}, err
		}
		stats.TotalQuestions += len(file.Questions)
		stats.CategoryCounts = append(stats.CategoryCounts, domain.CategoryCount{
			CategoryID: id,
			Count:      len(file.Questions),
		})
		for _, q := range file.Questions {
			if len(stats.SampleQuestions) >= sampleSize {
				break
			}
			stats.SampleQuestions = append(stats.SampleQuestions, q)
		}
	}
	sort.SliceStable(stats.CategoryCounts, func(i, j int) bool {
		return stats.CategoryCounts[i].Count > stats.CategoryCounts[j].Count
	})
	return stats, nil
}
