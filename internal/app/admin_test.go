package app_test

import (
	"context"
	"errors"
	"testing"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/catalog"
	"trivia-quiz-service/internal/domain"
)

func TestImportReportsEveryCategory(t *testing.T) {
	files, err := bundle.Embedded()
	if err != nil {
		t.Fatalf("embedded bundle: %v", err)
	}
	importer := &recordingImporter{failFor: "history"}
	service := app.NewAdminService(nil, importer, files)

	results, err := service.Import(context.Background())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(results) != len(catalog.All()) {
		t.Fatalf("expected %d results, got %d", len(catalog.All()), len(results))
	}

	byCategory := map[string]domain.ImportResult{}
	for _, r := range results {
		byCategory[r.Category] = r
	}
	if r := byCategory["math"]; r.Status != domain.ImportSuccess || r.Imported == 0 {
		t.Fatalf("expected math imported, got %+v", r)
	}
	if r := byCategory["history"]; r.Status != domain.ImportError || r.Error == "" {
		t.Fatalf("expected history error, got %+v", r)
	}
	if r := byCategory["art"]; r.Status != domain.ImportMissing {
		t.Fatalf("expected art missing, got %+v", r)
	}
	if importer.calls["math"] == 0 {
		t.Fatalf("importer not called for math")
	}
}

func TestImportInvalidatesImportedCategories(t *testing.T) {
	files, err := bundle.Embedded()
	if err != nil {
		t.Fatalf("embedded bundle: %v", err)
	}
	cache := &recordingCache{}
	service := app.NewAdminService(nil, &recordingImporter{failFor: "history"}, files).WithCache(cache)

	if _, err := service.Import(context.Background()); err != nil {
		t.Fatalf("import: %v", err)
	}
	invalidated := map[string]bool{}
	for _, c := range cache.categories {
		invalidated[c] = true
	}
	if !invalidated["math"] || !invalidated["science"] {
		t.Fatalf("expected imported categories invalidated, got %v", cache.categories)
	}
	if invalidated["history"] || invalidated["art"] {
		t.Fatalf("failed or missing categories must stay cached, got %v", cache.categories)
	}
}

func TestImportWithoutDatabase(t *testing.T) {
	files, _ := bundle.Embedded()
	service := app.NewAdminService(nil, nil, files)
	if _, err := service.Import(context.Background()); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Fatalf("expected ErrDatabaseUnavailable, got %v", err)
	}
}

func TestStatsSampleSizes(t *testing.T) {
	stats := &recordingStats{}
	service := app.NewAdminService(stats, nil, nil)

	_, _ = service.Stats(context.Background())
	_, _ = service.CheckQuestions(context.Background())
	if len(stats.sizes) != 2 || stats.sizes[0] != 0 || stats.sizes[1] != 5 {
		t.Fatalf("unexpected sample sizes %v", stats.sizes)
	}
}

type recordingImporter struct {
	failFor string
	calls   map[string]int
}

func (r *recordingImporter) ImportQuestions(_ context.Context, category string, questions []domain.Question) (int, error) {
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[category]++
	if category == r.failFor {
		return 0, errors.New("duplicate key")
	}
	return len(questions), nil
}

type recordingStats struct {
	sizes []int
}

func (r *recordingStats) Stats(_ context.Context, sampleSize int) (domain.DatabaseStats, error) {
	r.sizes = append(r.sizes, sampleSize)
	return domain.DatabaseStats{}, nil
}

type recordingCache struct {
	categories []string
}

func (r *recordingCache) Invalidate(_ context.Context, categories ...string) error {
	r.categories = append(r.categories, categories...)
	return nil
}
