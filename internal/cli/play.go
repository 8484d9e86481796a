package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trivia-quiz-service/internal/catalog"
	"trivia-quiz-service/internal/client"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/session"
	"trivia-quiz-service/internal/tui"
)

type playOptions struct {
	server   string
	category string
	count    int
	noColor  bool
}

// NewPlayCmd starts the terminal quiz player against a running server.
func NewPlayCmd(configPath *string) *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("play needs an interactive terminal")
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if opts.server == "" {
				opts.server = cfg.Client.BaseURL
			}

			category, ok := catalog.Lookup(opts.category)
			if !ok {
				return fmt.Errorf("unknown category %q (available: %s)", opts.category, categoryIDs())
			}

			api := client.New(opts.server, config.TTLDuration(cfg.Client.Timeout, 10*time.Second))
			final, err := tui.Run(cmd.Context(), tui.Options{
				Category:    category,
				Count:       opts.count,
				NoColor:     opts.noColor,
				Provider:    api,
				Sink:        api,
				Leaderboard: api,
			}, os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
			switch {
			case final.Status == session.StatusErrored:
				return final.Err
			case final.Record != nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s scored %d in %s\n", final.Record.Username, final.Record.Score, final.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", "", "quiz service base URL (default from config)")
	cmd.Flags().StringVar(&opts.category, "category", "general_knowledge", "category id")
	cmd.Flags().IntVar(&opts.count, "count", session.DefaultQuestionCount, "number of questions")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors")
	return cmd
}

func categoryIDs() string {
	ids := make([]string, 0, len(catalog.All()))
	for _, c := range catalog.All() {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ", ")
}
