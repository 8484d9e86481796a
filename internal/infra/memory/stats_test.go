package memory

import (
	"context"
	"testing"

	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/domain"
)

func TestStatsFromBundle(t *testing.T) {
	files, err := bundle.Embedded()
	if err != nil {
		t.Fatalf("embedded bundle: %v", err)
	}
	scores := NewScoreStore()
	_, _ = scores.SaveScore(context.Background(), domain.ScoreSubmission{Username: "a", Score: 10, Category: "Mathematics"})

	stats, err := NewStats(files, scores).Stats(context.Background(), 3)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TableExists {
		t.Fatalf("static stats must not report a table")
	}
	if stats.Source != domain.SourceStatic || stats.TotalScores != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	sum := 0
	for _, c := range stats.CategoryCounts {
		sum += c.Count
	}
	if sum == 0 || sum != stats.TotalQuestions {
		t.Fatalf("category counts %d do not add up to total %d", sum, stats.TotalQuestions)
	}
	if len(stats.SampleQuestions) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(stats.SampleQuestions))
	}

	noSamples, _ := NewStats(files, scores).Stats(context.Background(), 0)
	if len(noSamples.SampleQuestions) != 0 {
		t.Fatalf("expected no samples, got %d", len(noSamples.SampleQuestions))
	}
}
