package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

func TestGetQuestions(t *testing.T) {
	router := newTestAPI(t, nil).Router()

	rec := do(router, http.MethodGet, "/api/questions?category=math&count=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control %q", cc)
	}
	var body questionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 3 || len(body.Questions) != 3 || body.Source != domain.SourceStatic {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Timestamp.IsZero() {
		t.Fatalf("expected timestamp")
	}
}

func TestGetQuestionsErrors(t *testing.T) {
	router := newTestAPI(t, nil).Router()

	cases := []struct {
		path   string
		status int
	}{
		{"/api/questions", http.StatusBadRequest},
		{"/api/questions?category=astronomy", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := do(router, http.MethodGet, tc.path, "")
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, rec.Code)
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Fatalf("%s: expected error body, got %s", tc.path, rec.Body.String())
		}
	}
}

func TestPostScoreAndList(t *testing.T) {
	router := newTestAPI(t, nil).Router()

	rec := do(router, http.MethodPost, "/api/scores", `{"username":"Alice","score":70,"category":"Mathematics"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created scoreResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Success || created.Score.ID == "" || created.Score.Username != "Alice" {
		t.Fatalf("unexpected response %+v", created)
	}

	rec = do(router, http.MethodGet, "/api/scores?category=Mathematics&limit=5", "")
	var listed struct {
		Scores []domain.ScoreRecord `json:"scores"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Scores) != 1 || listed.Scores[0].Score != 70 {
		t.Fatalf("unexpected scores %+v", listed.Scores)
	}
}

func TestPostScoreRejectsBadInput(t *testing.T) {
	router := newTestAPI(t, nil).Router()

	for _, body := range []string{
		`not json`,
		`{"username":"","score":10,"category":"Mathematics"}`,
		`{"username":"Alice","score":10}`,
	} {
		rec := do(router, http.MethodPost, "/api/scores", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		var resp scoreErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Success || resp.Error == "" {
			t.Fatalf("%s: unexpected body %s", body, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"success":false`) {
			t.Fatalf("%s: success flag missing in %s", body, rec.Body.String())
		}
	}
}

func TestCategoriesAndAdmin(t *testing.T) {
	router := newTestAPI(t, nil).Router()

	rec := do(router, http.MethodGet, "/api/categories", "")
	var cats struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil || len(cats.Categories) == 0 {
		t.Fatalf("unexpected categories %s", rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/api/admin/questions/check", "")
	var stats domain.DatabaseStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalQuestions == 0 || len(stats.SampleQuestions) != 5 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rec = do(router, http.MethodPost, "/api/admin/import", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without database, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(newTestAPI(t, nil).Router(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("expected ok, got %d %q", rec.Code, rec.Body.String())
	}

	down := func(context.Context) error { return errors.New("connection refused") }
	rec = do(newTestAPI(t, down).Router(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(newTestAPI(t, nil).Router(), http.MethodDelete, "/api/scores", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestStorageFailuresReturn500(t *testing.T) {
	errDown := errors.New("connection refused")
	questions := app.NewQuestionService(failingQuestions{err: errDown}, app.QuestionServiceConfig{})
	scores := app.NewScoreService(failingScores{err: errDown}, app.NewLeaderboardHub())
	router := NewAPI(questions, scores, nil, nil).Router()

	rec := do(router, http.MethodPost, "/api/scores", `{"username":"Ann","score":10,"category":"Mathematics"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on save failure, got %d: %s", rec.Code, rec.Body.String())
	}
	var scoreErr map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &scoreErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scoreErr["error"] != "Failed to save score" || scoreErr["success"] != false {
		t.Fatalf("unexpected score error body %v", scoreErr)
	}
	if details, _ := scoreErr["details"].(string); !strings.Contains(details, "connection refused") {
		t.Fatalf("expected details naming the cause, got %v", scoreErr["details"])
	}

	rec = do(router, http.MethodGet, "/api/questions?category=math", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on load failure, got %d: %s", rec.Code, rec.Body.String())
	}
	var questionErr errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &questionErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if questionErr.Error != "Failed to fetch questions" || !strings.Contains(questionErr.Details, "connection refused") {
		t.Fatalf("unexpected questions error body %+v", questionErr)
	}

	rec = do(router, http.MethodGet, "/api/scores", "")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "Failed to fetch scores") {
		t.Fatalf("expected 500 on list failure, got %d: %s", rec.Code, rec.Body.String())
	}
}

type failingQuestions struct{ err error }

func (f failingQuestions) GetQuestions(context.Context, string) (domain.QuestionSet, error) {
	return domain.QuestionSet{}, f.err
}

type failingScores struct{ err error }

func (f failingScores) SaveScore(context.Context, domain.ScoreSubmission) (domain.ScoreRecord, error) {
	return domain.ScoreRecord{}, f.err
}

func (f failingScores) TopScores(context.Context, string, int) ([]domain.ScoreRecord, error) {
	return nil, f.err
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newTestAPI(t *testing.T, health func(context.Context) error) *API {
	t.Helper()
	files, err := bundle.Embedded()
	if err != nil {
		t.Fatalf("embedded bundle: %v", err)
	}
	questions := app.NewQuestionService(
		memory.NewQuestionRepository(memory.NewMapQuestionLoader(map[string][]domain.Question{"math": samplePool(8)}), time.Minute),
		app.QuestionServiceConfig{},
	)
	store := memory.NewScoreStore()
	scores := app.NewScoreService(store, app.NewLeaderboardHub())
	admin := app.NewAdminService(memory.NewStats(files, store), nil, files)
	return NewAPI(questions, scores, admin, health)
}

func samplePool(n int) []domain.Question {
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = domain.Question{
			ID:         fmt.Sprintf("q%d", i),
			Prompt:     fmt.Sprintf("Question %d?", i),
			Options:    []string{"a", "b", "c"},
			Correct:    0,
			Points:     10,
			Difficulty: domain.DifficultyEasy,
		}
	}
	return out
}
