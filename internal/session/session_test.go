package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/session"
)

func TestScoreSumsCorrectSelections(t *testing.T) {
	s := loadedSession(t, questions(10, 20, 30))

	answer(t, s, 0) // correct
	answer(t, s, 1) // wrong
	answer(t, s, 0) // correct

	state := s.Snapshot()
	if !state.Completed || state.Status != session.StatusCompleted {
		t.Fatalf("expected completed, got %+v", state)
	}
	if state.Score != 40 {
		t.Fatalf("expected score 40, got %d", state.Score)
	}
}

func TestTimeoutCountsAsIncorrect(t *testing.T) {
	s := loadedSession(t, questions(10, 20))
	gen := s.Generation()

	for i := 0; i < session.DefaultQuestionTime-1; i++ {
		if !s.Tick(gen) {
			t.Fatalf("tick %d rejected", i)
		}
		if s.Snapshot().Answered {
			t.Fatalf("answered too early at tick %d", i)
		}
	}
	if !s.Tick(gen) {
		t.Fatalf("final tick rejected")
	}

	state := s.Snapshot()
	if !state.Answered || state.Remaining != 0 {
		t.Fatalf("expected timeout to answer, got %+v", state)
	}
	if state.Selected != nil {
		t.Fatalf("expected no selection, got %d", *state.Selected)
	}
	if state.Score != 0 {
		t.Fatalf("expected score unchanged, got %d", state.Score)
	}
	if s.Tick(gen) {
		t.Fatalf("expected tick after timeout to be ignored")
	}
	if s.Select(0) {
		t.Fatalf("expected selection after timeout to be ignored")
	}
}

func TestSelectAfterAnswerIsNoop(t *testing.T) {
	s := loadedSession(t, questions(10))

	if !s.Select(1) {
		t.Fatalf("first selection rejected")
	}
	if s.Select(0) {
		t.Fatalf("second selection accepted")
	}
	state := s.Snapshot()
	if state.Score != 0 || state.Selected == nil || *state.Selected != 1 {
		t.Fatalf("expected first (wrong) selection to stick, got %+v", state)
	}
}

func TestSelectOutOfRangeIgnored(t *testing.T) {
	s := loadedSession(t, questions(10))
	if s.Select(7) || s.Select(-1) {
		t.Fatalf("expected out-of-range selections to be ignored")
	}
	if s.Snapshot().Answered {
		t.Fatalf("expected question to stay unanswered")
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	s := loadedSession(t, questions(10, 10))
	if s.Advance() {
		t.Fatalf("advance accepted before answering")
	}
	s.Select(0)
	if !s.Advance() {
		t.Fatalf("advance rejected after answering")
	}
	state := s.Snapshot()
	if state.Index != 1 || state.Answered || state.Selected != nil || state.Remaining != session.DefaultQuestionTime {
		t.Fatalf("expected fresh second question, got %+v", state)
	}
}

func TestStaleTickIgnoredAfterAdvance(t *testing.T) {
	s := loadedSession(t, questions(10, 10))
	stale := s.Generation()
	s.Select(0)
	s.Advance()

	if s.Tick(stale) {
		t.Fatalf("expected stale tick to be ignored")
	}
	if got := s.Snapshot().Remaining; got != session.DefaultQuestionTime {
		t.Fatalf("expected full timer, got %d", got)
	}
}

func TestCompletesExactlyOnce(t *testing.T) {
	cases := map[string]func(*session.Session){
		"correct": func(s *session.Session) { s.Select(0) },
		"wrong":   func(s *session.Session) { s.Select(1) },
		"timeout": func(s *session.Session) {
			gen := s.Generation()
			for i := 0; i < session.DefaultQuestionTime; i++ {
				s.Tick(gen)
			}
		},
	}
	for name, finish := range cases {
		t.Run(name, func(t *testing.T) {
			s := loadedSession(t, questions(5, 5))
			answer(t, s, 0)
			finish(s)
			if !s.Advance() {
				t.Fatalf("final advance rejected")
			}
			if !s.Snapshot().Completed {
				t.Fatalf("expected completed")
			}
			if s.Advance() {
				t.Fatalf("expected second completion to be rejected")
			}
		})
	}
}

func TestEmptyProviderResultErrors(t *testing.T) {
	s := session.New("math", "Math")
	err := s.Load(context.Background(), providerFunc(func(context.Context, string, int) ([]domain.Question, error) {
		return nil, nil
	}))
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected no questions error, got %v", err)
	}
	state := s.Snapshot()
	if state.Status != session.StatusErrored {
		t.Fatalf("expected errored, got %s", state.Status)
	}
	if s.Select(0) || s.Advance() || s.Tick(s.Generation()) {
		t.Fatalf("expected errored session to ignore input")
	}
}

func TestProviderFailureErrors(t *testing.T) {
	boom := errors.New("boom")
	s := session.New("math", "Math")
	err := s.Load(context.Background(), providerFunc(func(context.Context, string, int) ([]domain.Question, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if s.Snapshot().Status != session.StatusErrored {
		t.Fatalf("expected errored")
	}
	if err := s.Load(context.Background(), staticProvider(questions(1))); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("expected reload to be rejected, got %v", err)
	}
}

func TestLoadPassesCategoryAndCount(t *testing.T) {
	var gotCategory string
	var gotCount int
	s := session.New("history", "History", session.WithQuestionCount(3))
	err := s.Load(context.Background(), providerFunc(func(_ context.Context, category string, count int) ([]domain.Question, error) {
		gotCategory, gotCount = category, count
		return questions(1, 1, 1, 1, 1), nil
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotCategory != "history" || gotCount != 3 {
		t.Fatalf("unexpected provider args %q %d", gotCategory, gotCount)
	}
	if n := len(s.Snapshot().Questions); n != 3 {
		t.Fatalf("expected questions trimmed to 3, got %d", n)
	}
}

func TestSubmitForwardsScoreAndCloses(t *testing.T) {
	s := loadedSession(t, questions(10))
	answer(t, s, 0)

	sink := &recordingSink{}
	record, err := s.Submit(context.Background(), sink, "  ada  ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sink.calls != 1 {
		t.Fatalf("expected one sink call, got %d", sink.calls)
	}
	if sink.last != (domain.ScoreSubmission{Username: "ada", Score: 10, Category: "Math"}) {
		t.Fatalf("unexpected submission %+v", sink.last)
	}
	if record.ID == "" {
		t.Fatalf("expected record id")
	}
	if s.Snapshot().Status != session.StatusClosed {
		t.Fatalf("expected closed after submit")
	}
	if _, err := s.Submit(context.Background(), sink, "ada"); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("expected second submit to be rejected, got %v", err)
	}
}

func TestSubmitRejectsBlankUsername(t *testing.T) {
	s := loadedSession(t, questions(10))
	answer(t, s, 0)
	sink := &recordingSink{}
	if _, err := s.Submit(context.Background(), sink, "   "); !errors.Is(err, session.ErrUsernameRequired) {
		t.Fatalf("expected username error, got %v", err)
	}
	if sink.calls != 0 {
		t.Fatalf("expected no outbound call")
	}
	if s.Snapshot().Status != session.StatusCompleted {
		t.Fatalf("expected session to stay completed")
	}
}

func TestSubmitFailureKeepsScore(t *testing.T) {
	s := loadedSession(t, questions(10))
	answer(t, s, 0)
	sink := &recordingSink{err: errors.New("storage down")}

	if _, err := s.Submit(context.Background(), sink, "ada"); err == nil {
		t.Fatalf("expected sink error")
	}
	state := s.Snapshot()
	if state.Status != session.StatusCompleted || state.Score != 10 {
		t.Fatalf("expected completed with score 10, got %+v", state)
	}

	sink.err = nil
	if _, err := s.Submit(context.Background(), sink, "ada"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestSubmitBeforeCompletionRejected(t *testing.T) {
	s := loadedSession(t, questions(10))
	if _, err := s.Submit(context.Background(), &recordingSink{}, "ada"); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestDiscardCloses(t *testing.T) {
	s := loadedSession(t, questions(10))
	answer(t, s, 0)
	s.Discard()
	if s.Snapshot().Status != session.StatusClosed {
		t.Fatalf("expected closed")
	}
	if _, err := s.Submit(context.Background(), &recordingSink{}, "ada"); !errors.Is(err, session.ErrInvalidState) {
		t.Fatalf("expected submit after discard to be rejected, got %v", err)
	}
}

func TestCustomQuestionTime(t *testing.T) {
	s := session.New("math", "Math", session.WithQuestionTime(2))
	if err := s.Load(context.Background(), staticProvider(questions(1))); err != nil {
		t.Fatalf("load: %v", err)
	}
	gen := s.Generation()
	s.Tick(gen)
	s.Tick(gen)
	if !s.Snapshot().Answered {
		t.Fatalf("expected 2 second timer to expire")
	}
}

// loadedSession returns a session for category "math" already in progress.
func TestSnapshotDoesNotAliasQuestions(t *testing.T) {
	s := loadedSession(t, questions(10, 20))

	st := s.Snapshot()
	st.Questions[0].Points = 999
	st.Questions[0].Options[0] = "changed"

	q, _ := s.Snapshot().Current()
	if q.Points != 10 || q.Options[0] == "changed" {
		t.Fatalf("snapshot edits leaked into the session: %+v", q)
	}
	answer(t, s, q.Correct)
	if got := s.Snapshot().Score; got != 10 {
		t.Fatalf("expected score 10, got %d", got)
	}
}

func loadedSession(t *testing.T, qs []domain.Question) *session.Session {
	t.Helper()
	s := session.New("math", "Math")
	if err := s.Load(context.Background(), staticProvider(qs)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Snapshot().Status != session.StatusInProgress {
		t.Fatalf("expected in progress after load")
	}
	return s
}

func answer(t *testing.T, s *session.Session, option int) {
	t.Helper()
	if !s.Select(option) {
		t.Fatalf("select %d rejected", option)
	}
	if !s.Advance() {
		t.Fatalf("advance rejected")
	}
}

// questions builds one question per point value; option 0 is always correct.
func questions(points ...int) []domain.Question {
	out := make([]domain.Question, 0, len(points))
	for i, p := range points {
		out = append(out, domain.Question{
			ID:         "q" + string(rune('1'+i)),
			Prompt:     "Pick the first option",
			Options:    []string{"right", "wrong", "also wrong"},
			Correct:    0,
			Points:     p,
			Difficulty: domain.DifficultyEasy,
		})
	}
	return out
}

type providerFunc func(ctx context.Context, category string, count int) ([]domain.Question, error)

func (f providerFunc) Questions(ctx context.Context, category string, count int) ([]domain.Question, error) {
	return f(ctx, category, count)
}

func staticProvider(qs []domain.Question) providerFunc {
	return func(context.Context, string, int) ([]domain.Question, error) { return qs, nil }
}

type recordingSink struct {
	calls int
	last  domain.ScoreSubmission
	err   error
}

func (r *recordingSink) SubmitScore(_ context.Context, sub domain.ScoreSubmission) (domain.ScoreRecord, error) {
	r.calls++
	r.last = sub
	if r.err != nil {
		return domain.ScoreRecord{}, r.err
	}
	return domain.ScoreRecord{
		ID:        "rec-1",
		Username:  sub.Username,
		Score:     sub.Score,
		Category:  sub.Category,
		CreatedAt: time.Now(),
	}, nil
}
