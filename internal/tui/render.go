package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/session"
)

const (
	colorTitle   = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("244")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorWarn    = lipgloss.Color("220")
)

// View renders the current session state.
func (m Model) View() string {
	st := m.session.Snapshot()
	header := stylize(fmt.Sprintf("Quiz: %s", st.Label), m.noColor, colorTitle)

	var body string
	switch st.Status {
	case session.StatusLoading:
		body = stylize("Loading questions...", m.noColor, colorMuted)
	case session.StatusErrored:
		body = lipgloss.JoinVertical(lipgloss.Left,
			stylize(fmt.Sprintf("Could not start the quiz: %v", st.Err), m.noColor, colorWrong),
			stylize("Press Enter to go back.", m.noColor, colorMuted),
		)
	case session.StatusInProgress:
		body = m.renderQuestion(st)
	case session.StatusCompleted:
		body = m.renderSubmit(st)
	case session.StatusClosed:
		body = m.renderClosed(st)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body) + "\n"
}

func (m Model) renderQuestion(st session.State) string {
	q, ok := st.Current()
	if !ok {
		return ""
	}
	status := fmt.Sprintf("Question %d/%d  Score: %d  %s", st.Index+1, len(st.Questions), st.Score, difficultyLabel(q.Difficulty))
	lines := []string{
		stylize(status, m.noColor, colorMuted),
		"",
		q.Prompt,
		"",
	}
	for i, option := range q.Options {
		line := fmt.Sprintf("  %d) %s", i+1, option)
		if st.Answered {
			switch {
			case q.IsCorrect(i):
				line = stylize(line+"  ✓", m.noColor, colorCorrect)
			case st.Selected != nil && *st.Selected == i:
				line = stylize(line+"  ✗", m.noColor, colorWrong)
			}
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")

	switch {
	case !st.Answered:
		timer := fmt.Sprintf("Time left: %ds", st.Remaining)
		color := colorMuted
		if st.Remaining <= 3 {
			color = colorWarn
		}
		lines = append(lines, stylize(timer, m.noColor, color), stylize("Press 1-"+strconv.Itoa(len(q.Options))+" to answer, Esc to quit.", m.noColor, colorMuted))
	case st.Selected == nil:
		lines = append(lines, stylize("Time's up!", m.noColor, colorWrong), m.nextHint(st))
	case q.IsCorrect(*st.Selected):
		lines = append(lines, stylize(fmt.Sprintf("Correct! +%d", q.Points), m.noColor, colorCorrect), m.nextHint(st))
	default:
		lines = append(lines, stylize("Wrong answer.", m.noColor, colorWrong), m.nextHint(st))
	}
	return strings.Join(lines, "\n")
}

func (m Model) nextHint(st session.State) string {
	if st.IsLast() {
		return stylize("Press Enter to finish.", m.noColor, colorMuted)
	}
	return stylize("Press Enter for the next question.", m.noColor, colorMuted)
}

func (m Model) renderSubmit(st session.State) string {
	lines := []string{
		fmt.Sprintf("Final score: %d", st.Score),
		"",
		"Enter a nickname for the leaderboard:",
		m.input.View(),
	}
	switch {
	case m.submitting:
		lines = append(lines, stylize("Submitting...", m.noColor, colorMuted))
	case m.submitErr != nil:
		lines = append(lines, stylize(fmt.Sprintf("Submission failed: %v", m.submitErr), m.noColor, colorWrong),
			stylize("Press Enter to retry or Esc to skip.", m.noColor, colorMuted))
	default:
		lines = append(lines, stylize("Enter to submit, Esc to skip.", m.noColor, colorMuted))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderClosed(st session.State) string {
	if st.Record == nil {
		return stylize("Quiz discarded.", m.noColor, colorMuted)
	}
	lines := []string{
		stylize(fmt.Sprintf("Saved %d points for %s.", st.Record.Score, st.Record.Username), m.noColor, colorCorrect),
		"",
	}
	switch {
	case m.boardErr != nil:
		lines = append(lines, stylize(fmt.Sprintf("Leaderboard unavailable: %v", m.boardErr), m.noColor, colorWarn))
	case m.hasBoard:
		lines = append(lines, m.board.View())
	}
	lines = append(lines, "", stylize("Press Enter to exit.", m.noColor, colorMuted))
	return strings.Join(lines, "\n")
}

func newBoard(noColor bool) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Player", Width: 24},
			{Title: "Score", Width: 7},
		}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	if !noColor {
		styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	}
	t.SetStyles(styles)
	return t
}

func boardRows(scores []domain.ScoreRecord) []table.Row {
	rows := make([]table.Row, 0, len(scores))
	for i, s := range scores {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), s.Username, strconv.Itoa(s.Score)})
	}
	return rows
}

func difficultyLabel(d domain.Difficulty) string {
	if d == "" {
		return ""
	}
	return "[" + string(d) + "]"
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
