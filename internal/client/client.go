// Package client talks to the quiz service REST API. It provides the question provider and
// score sink used by the terminal player.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trivia-quiz-service/internal/domain"
)

// Client implements session.QuestionProvider and session.ScoreSink over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// New constructs a client for the given base URL with a request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type questionsResponse struct {
	Count     int               `json:"count"`
	Questions []domain.Question `json:"questions"`
	Source    domain.Source     `json:"source"`
}

// Questions fetches up to count questions for category.
func (c *Client) Questions(ctx context.Context, category string, count int) ([]domain.Question, error) {
	query := url.Values{}
	query.Set("category", category)
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}
	body, status, err := c.get(ctx, "/api/questions", query)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, domain.ErrNoQuestions
	}
	if status != http.StatusOK {
		return nil, decodeHTTPError(status, body)
	}
	var res questionsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	return res.Questions, nil
}

type scoreResponse struct {
	Score   domain.ScoreRecord `json:"score"`
	Success bool               `json:"success"`
}

// SubmitScore posts a finished session's score.
func (c *Client) SubmitScore(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return domain.ScoreRecord{}, err
	}
	body, status, err := c.post(ctx, "/api/scores", payload)
	if err != nil {
		return domain.ScoreRecord{}, err
	}
	if status != http.StatusOK {
		return domain.ScoreRecord{}, decodeHTTPError(status, body)
	}
	var res scoreResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return domain.ScoreRecord{}, err
	}
	return res.Score, nil
}

// Categories lists the playable categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	body, status, err := c.get(ctx, "/api/categories", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeHTTPError(status, body)
	}
	var res struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	return res.Categories, nil
}

// TopScores returns the leaderboard for category ("" for all).
func (c *Client) TopScores(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	body, status, err := c.get(ctx, "/api/scores", query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeHTTPError(status, body)
	}
	var res struct {
		Scores []domain.ScoreRecord `json:"scores"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	return res.Scores, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func decodeHTTPError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		if resp.Details != "" {
			return fmt.Errorf("http %d: %s: %s", status, resp.Error, resp.Details)
		}
		return fmt.Errorf("http %d: %s", status, resp.Error)
	}
	return fmt.Errorf("http %d", status)
}
