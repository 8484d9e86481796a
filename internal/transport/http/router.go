package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/catalog"
	"trivia-quiz-service/internal/domain"
)

// API serves the REST endpoints and the live leaderboard feed.
type API struct {
	questions *app.QuestionService
	scores    *app.ScoreService
	admin     *app.AdminService
	health    func(ctx context.Context) error
	now       func() time.Time
}

// NewAPI wires the handlers. health may be nil when there is no database to check.
func NewAPI(questions *app.QuestionService, scores *app.ScoreService, admin *app.AdminService, health func(ctx context.Context) error) *API {
	return &API{
		questions: questions,
		scores:    scores,
		admin:     admin,
		health:    health,
		now:       time.Now,
	}
}

// Router returns the gorilla/mux router with request logging applied.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/healthz", a.healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/questions", a.getQuestions).Methods(http.MethodGet)
	api.HandleFunc("/scores", a.postScore).Methods(http.MethodPost)
	api.HandleFunc("/scores", a.getScores).Methods(http.MethodGet)
	api.HandleFunc("/categories", a.getCategories).Methods(http.MethodGet)
	api.HandleFunc("/admin/stats", a.getStats).Methods(http.MethodGet)
	api.HandleFunc("/admin/questions/check", a.checkQuestions).Methods(http.MethodGet)
	api.HandleFunc("/admin/import", a.importQuestions).Methods(http.MethodPost)

	r.Handle("/ws/leaderboard", NewLeaderboardWS(a.scores)).Methods(http.MethodGet)
	return r
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.health(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	_, _ = w.Write([]byte("ok"))
}

type questionsResponse struct {
	Count     int               `json:"count"`
	Questions []domain.Question `json:"questions"`
	Source    domain.Source     `json:"source"`
	Timestamp time.Time         `json:"timestamp"`
}

func (a *API) getQuestions(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	set, err := a.questions.Questions(r.Context(), category, count)
	switch {
	case errors.Is(err, domain.ErrCategoryRequired):
		writeError(w, http.StatusBadRequest, "Category is required")
		return
	case errors.Is(err, domain.ErrNoQuestions):
		writeError(w, http.StatusNotFound, "No questions found for this category")
		return
	case err != nil:
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch questions", err)
		return
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		Count:     len(set.Questions),
		Questions: set.Questions,
		Source:    set.Source,
		Timestamp: a.now().UTC(),
	})
}

type scoreResponse struct {
	Score   domain.ScoreRecord `json:"score"`
	Success bool               `json:"success"`
}

func (a *API) postScore(w http.ResponseWriter, r *http.Request) {
	var submission domain.ScoreSubmission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&submission); err != nil {
		writeJSON(w, http.StatusBadRequest, scoreErrorResponse{Error: "Invalid request body"})
		return
	}

	record, err := a.scores.Submit(r.Context(), submission)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, scoreErrorResponse{Error: "Missing or invalid fields: " + verr.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, scoreErrorResponse{Error: "Failed to save score", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Score: record, Success: true})
}

func (a *API) getScores(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	scores, err := a.scores.Top(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch scores", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": scores})
}

func (a *API) getCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": catalog.All()})
}

func (a *API) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.admin.Stats(r.Context())
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to read stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) checkQuestions(w http.ResponseWriter, r *http.Request) {
	stats, err := a.admin.CheckQuestions(r.Context())
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to check questions", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) importQuestions(w http.ResponseWriter, r *http.Request) {
	results, err := a.admin.Import(r.Context())
	switch {
	case errors.Is(err, domain.ErrDatabaseUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Database not configured")
		return
	case err != nil:
		writeErrorDetails(w, http.StatusInternalServerError, "Import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
