package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"trivia-quiz-service/internal/session"
)

// Run plays one quiz in the terminal and returns the final session state.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) (session.State, error) {
	program := tea.NewProgram(
		NewModel(ctx, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return session.State{}, err
	}
	return final.(Model).State(), nil
}
