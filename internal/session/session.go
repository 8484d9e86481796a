// Package session holds the client-side state machine for one run through a category:
// load the questions once, count each question down, score selections, advance, and hand
// the final score to the score sink.
//
// A Session is driven by a single event loop (key presses and one-second ticks) and is not
// safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trivia-quiz-service/internal/domain"
)

const (
	// DefaultQuestionCount is how many questions a session asks for.
	DefaultQuestionCount = 15
	// DefaultQuestionTime is the per-question countdown in seconds.
	DefaultQuestionTime = 10
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the current status.
	ErrInvalidState = errors.New("operation not allowed in current session state")
	// ErrUsernameRequired is returned by Submit for a blank nickname; nothing is sent.
	ErrUsernameRequired = errors.New("username is required")
)

// QuestionProvider returns up to count questions for a category.
type QuestionProvider interface {
	Questions(ctx context.Context, category string, count int) ([]domain.Question, error)
}

// ScoreSink stores a finished session's score.
type ScoreSink interface {
	SubmitScore(ctx context.Context, submission domain.ScoreSubmission) (domain.ScoreRecord, error)
}

// Status is the coarse state of a session.
type Status int

const (
	StatusLoading Status = iota
	StatusInProgress
	StatusCompleted
	StatusErrored
	// StatusClosed is terminal: the score was submitted or discarded.
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusErrored:
		return "errored"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Option tweaks a new session.
type Option func(*Session)

// WithQuestionCount sets how many questions to request. Non-positive values keep the default.
func WithQuestionCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.count = n
		}
	}
}

// WithQuestionTime sets the per-question countdown in seconds. Non-positive values keep the default.
func WithQuestionTime(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.questionTime = seconds
		}
	}
}

// Session is one user's run through a category.
type Session struct {
	category     string
	label        string
	count        int
	questionTime int

	status      Status
	questions   []domain.Question
	index       int
	score       int
	selected    int
	hasSelected bool
	answered    bool
	completed   bool
	remaining   int
	generation  int
	err         error
	record      domain.ScoreRecord
}

// New creates a session in StatusLoading. category is the id sent to the provider and label
// is the display name sent to the score sink; an empty label falls back to the id.
func New(category, label string, opts ...Option) *Session {
	if label == "" {
		label = category
	}
	s := &Session{
		category:     category,
		label:        label,
		count:        DefaultQuestionCount,
		questionTime: DefaultQuestionTime,
		status:       StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the questions once. Any provider error or an empty result moves the session
// to StatusErrored; the returned error is the same one Snapshot reports.
func (s *Session) Load(ctx context.Context, provider QuestionProvider) error {
	if s.status != StatusLoading {
		return ErrInvalidState
	}
	questions, err := provider.Questions(ctx, s.category, s.count)
	if err != nil {
		return s.fail(fmt.Errorf("load questions: %w", err))
	}
	if len(questions) == 0 {
		return s.fail(domain.ErrNoQuestions)
	}
	if len(questions) > s.count {
		questions = questions[:s.count]
	}
	s.questions = copyQuestions(questions)
	s.index = 0
	s.score = 0
	s.status = StatusInProgress
	s.activate()
	return nil
}

func (s *Session) fail(err error) error {
	s.status = StatusErrored
	s.err = err
	return err
}

// activate arms the countdown for the current question. Bumping the generation makes any
// tick scheduled for an earlier question stale.
func (s *Session) activate() {
	s.hasSelected = false
	s.selected = 0
	s.answered = false
	s.remaining = s.questionTime
	s.generation++
}

// Generation identifies the active question. Tick callers must pass the generation that was
// current when the tick was scheduled.
func (s *Session) Generation() int {
	return s.generation
}

// Tick advances the countdown by one second. When it reaches zero the question counts as
// answered with no selection. Ticks for another generation, or while answered or completed,
// are ignored and report false.
func (s *Session) Tick(generation int) bool {
	if s.status != StatusInProgress || s.answered || generation != s.generation {
		return false
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.answered = true
	}
	return true
}

// Select records an answer for the current question. Only the first selection per question
// counts; out-of-range options are ignored.
func (s *Session) Select(option int) bool {
	if s.status != StatusInProgress || s.answered {
		return false
	}
	q := s.questions[s.index]
	if option < 0 || option >= len(q.Options) {
		return false
	}
	s.answered = true
	s.selected = option
	s.hasSelected = true
	if q.IsCorrect(option) && q.Points > 0 {
		s.score += q.Points
	}
	return true
}

// Advance moves past an answered question. Past the last question the session completes.
func (s *Session) Advance() bool {
	if s.status != StatusInProgress || !s.answered {
		return false
	}
	if s.index == len(s.questions)-1 {
		s.completed = true
		s.status = StatusCompleted
		return true
	}
	s.index++
	s.activate()
	return true
}

// Submit sends the final score. A blank username is rejected locally. On sink failure the
// session stays completed with its score intact so the caller may retry or Discard.
func (s *Session) Submit(ctx context.Context, sink ScoreSink, username string) (domain.ScoreRecord, error) {
	if s.status != StatusCompleted {
		return domain.ScoreRecord{}, ErrInvalidState
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ScoreRecord{}, ErrUsernameRequired
	}
	record, err := sink.SubmitScore(ctx, domain.ScoreSubmission{
		Username: username,
		Score:    s.score,
		Category: s.label,
	})
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("submit score: %w", err)
	}
	s.record = record
	s.status = StatusClosed
	return record, nil
}

// Discard ends the session without submitting. The score is lost.
func (s *Session) Discard() {
	s.status = StatusClosed
}

// Snapshot returns a copy of the current state for rendering and assertions.
func (s *Session) Snapshot() State {
	state := State{
		Status:     s.status,
		Category:   s.category,
		Label:      s.label,
		Questions:  copyQuestions(s.questions),
		Index:      s.index,
		Score:      s.score,
		Answered:   s.answered,
		Completed:  s.completed,
		Remaining:  s.remaining,
		Generation: s.generation,
		Err:        s.err,
	}
	if s.hasSelected {
		selected := s.selected
		state.Selected = &selected
	}
	if s.record.ID != "" {
		record := s.record
		state.Record = &record
	}
	return state
}

func copyQuestions(questions []domain.Question) []domain.Question {
	if questions == nil {
		return nil
	}
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// State is a read-only view of a session.
type State struct {
	Status     Status
	Category   string
	Label      string
	Questions  []domain.Question
	Index      int
	Score      int
	Selected   *int
	Answered   bool
	Completed  bool
	Remaining  int
	Generation int
	Err        error
	Record     *domain.ScoreRecord
}

// Current returns the active question, if any.
func (st State) Current() (domain.Question, bool) {
	if st.Index < 0 || st.Index >= len(st.Questions) {
		return domain.Question{}, false
	}
	return st.Questions[st.Index], true
}

// IsLast reports whether the active question is the final one.
func (st State) IsLast() bool {
	return len(st.Questions) > 0 && st.Index == len(st.Questions)-1
}
