// Package tui is the terminal quiz player. It drives a session.Session from Bubble Tea events:
// key presses, the one-second countdown and the results of network calls.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/session"
)

// Leaderboard is shown after a successful submission.
type Leaderboard interface {
	TopScores(ctx context.Context, category string, limit int) ([]domain.ScoreRecord, error)
}

// Options configures a player run.
type Options struct {
	Category     domain.Category
	Count        int
	QuestionTime int
	NoColor      bool
	Provider     session.QuestionProvider
	Sink         session.ScoreSink
	Leaderboard  Leaderboard
}

// Model is the Bubble Tea model of one quiz run. Only Update mutates the session; network calls
// run as commands and hand their results back as messages.
type Model struct {
	ctx         context.Context
	session     *session.Session
	provider    session.QuestionProvider
	sink        session.ScoreSink
	leaderboard Leaderboard
	input       textinput.Model
	board       table.Model
	noColor     bool
	count       int
	tickEvery   time.Duration

	submitting bool
	submitErr  error
	boardErr   error
	hasBoard   bool
}

// NewModel builds a model for opts. The session starts loading in Init.
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	count := opts.Count
	if count <= 0 {
		count = session.DefaultQuestionCount
	}
	sessionOpts := []session.Option{session.WithQuestionCount(count)}
	if opts.QuestionTime > 0 {
		sessionOpts = append(sessionOpts, session.WithQuestionTime(opts.QuestionTime))
	}

	input := textinput.New()
	input.Placeholder = "your nickname"
	input.CharLimit = domain.MaxUsernameLength
	input.Width = 30

	return Model{
		ctx:         ctx,
		session:     session.New(opts.Category.ID, opts.Category.Name, sessionOpts...),
		provider:    opts.Provider,
		sink:        opts.Sink,
		leaderboard: opts.Leaderboard,
		input:       input,
		board:       newBoard(opts.NoColor),
		noColor:     opts.NoColor,
		count:       count,
		tickEvery:   time.Second,
	}
}

// State exposes the session snapshot (for the caller's exit summary and tests).
func (m Model) State() session.State {
	return m.session.Snapshot()
}

// questionsMsg carries the outcome of the question fetch.
type questionsMsg struct {
	questions []domain.Question
	err       error
}

// tickMsg is one countdown second for the question of the given generation.
type tickMsg struct {
	generation int
}

// submittedMsg carries the outcome of the score submission.
type submittedMsg struct {
	username string
	record   domain.ScoreRecord
	err      error
}

// boardMsg carries the leaderboard fetched after submission.
type boardMsg struct {
	scores []domain.ScoreRecord
	err    error
}

// Init starts the question fetch.
func (m Model) Init() tea.Cmd {
	st := m.session.Snapshot()
	provider := m.provider
	ctx := m.ctx
	count := m.count
	return func() tea.Msg {
		questions, err := provider.Questions(ctx, st.Category, count)
		return questionsMsg{questions: questions, err: err}
	}
}

// Update applies one event to the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case questionsMsg:
		if err := m.session.Load(m.ctx, fetched(typed)); err != nil {
			return m, nil
		}
		return m, m.tick()
	case tickMsg:
		if !m.session.Tick(typed.generation) {
			return m, nil
		}
		if m.session.Snapshot().Answered {
			return m, nil
		}
		return m, m.tick()
	case submittedMsg:
		m.submitting = false
		_, err := m.session.Submit(m.ctx, replayed(typed), typed.username)
		if err != nil {
			m.submitErr = err
			return m, nil
		}
		m.submitErr = nil
		m.input.Blur()
		return m, m.fetchBoard()
	case boardMsg:
		m.hasBoard = true
		m.boardErr = typed.err
		m.board.SetRows(boardRows(typed.scores))
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	st := m.session.Snapshot()
	switch st.Status {
	case session.StatusLoading:
		return m, nil
	case session.StatusErrored, session.StatusClosed:
		switch key.String() {
		case "enter", "esc", "q":
			return m, tea.Quit
		}
		return m, nil
	case session.StatusInProgress:
		switch key.String() {
		case "esc":
			m.session.Discard()
			return m, tea.Quit
		case "enter":
			if !m.session.Advance() {
				return m, nil
			}
			if m.session.Snapshot().Status == session.StatusCompleted {
				focus := m.input.Focus()
				return m, focus
			}
			return m, m.tick()
		}
		if option, ok := optionKey(key.String()); ok {
			m.session.Select(option)
		}
		return m, nil
	case session.StatusCompleted:
		switch key.Type {
		case tea.KeyEsc:
			m.session.Discard()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	username := strings.TrimSpace(m.input.Value())
	if username == "" {
		m.submitErr = session.ErrUsernameRequired
		return m, nil
	}
	m.submitting = true
	m.submitErr = nil

	st := m.session.Snapshot()
	sink := m.sink
	ctx := m.ctx
	submission := domain.ScoreSubmission{Username: username, Score: st.Score, Category: st.Label}
	return m, func() tea.Msg {
		record, err := sink.SubmitScore(ctx, submission)
		return submittedMsg{username: username, record: record, err: err}
	}
}

func (m Model) tick() tea.Cmd {
	generation := m.session.Generation()
	return tea.Tick(m.tickEvery, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func (m Model) fetchBoard() tea.Cmd {
	if m.leaderboard == nil {
		return nil
	}
	board := m.leaderboard
	ctx := m.ctx
	category := m.session.Snapshot().Label
	return func() tea.Msg {
		scores, err := board.TopScores(ctx, category, 10)
		return boardMsg{scores: scores, err: err}
	}
}

// optionKey maps "1".."6" to a zero-based option index.
func optionKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '0'+domain.MaxOptions {
		return 0, false
	}
	return int(key[0] - '1'), true
}

// fetched replays a finished question fetch into session.Load.
type fetched questionsMsg

func (f fetched) Questions(context.Context, string, int) ([]domain.Question, error) {
	return f.questions, f.err
}

// replayed replays a finished submission into session.Submit.
type replayed submittedMsg

func (r replayed) SubmitScore(context.Context, domain.ScoreSubmission) (domain.ScoreRecord, error) {
	if r.err != nil {
		return domain.ScoreRecord{}, r.err
	}
	if r.record.ID == "" {
		return domain.ScoreRecord{}, errors.New("server returned no score record")
	}
	return r.record, nil
}
