package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// LeaderboardWS streams leaderboard snapshots over a websocket.
type LeaderboardWS struct {
	scores   *app.ScoreService
	upgrader websocket.Upgrader
}

func NewLeaderboardWS(scores *app.ScoreService) *LeaderboardWS {
	return &LeaderboardWS{
		scores: scores,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeHTTP sends the current board for ?category= and then every update until the client leaves.
// ?limit= trims each snapshot (default 10, at most 100).
func (h *LeaderboardWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.scores.Subscribe(r.Context(), category)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// The client never sends anything useful; reading only detects when it goes away.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case lb, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: trim(lb, limit)}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}

func trim(lb domain.Leaderboard, limit int) domain.Leaderboard {
	switch {
	case limit <= 0:
		limit = app.DefaultLeaderboardLimit
	case limit > app.MaxLeaderboardLimit:
		limit = app.MaxLeaderboardLimit
	}
	if len(lb.Scores) > limit {
		lb.Scores = lb.Scores[:limit]
	}
	return lb
}
