package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
)

// NewImportCmd loads every bundled category into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the bundled question files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, cmd.OutOrStdout())
		},
	}
}

// NewStatsCmd prints question and score totals as JSON.
func NewStatsCmd(configPath *string) *cobra.Command {
	var samples bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show question and score totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), *configPath, samples, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&samples, "samples", false, "include sample questions")
	return cmd
}

func runImport(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return domain.ErrDatabaseUnavailable
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	svc, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	results, err := svc.admin.Import(ctx)
	if err != nil {
		return err
	}
	return printImport(out, results)
}

func printImport(out io.Writer, results []domain.ImportResult) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSTATUS\tIMPORTED\tERROR")
	failed := 0
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Category, r.Status, r.Imported, r.Error)
		if r.Status == domain.ImportError {
			failed++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d categories failed to import", failed)
	}
	return nil
}

func runStats(ctx context.Context, configPath string, samples bool, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	svc, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	stats, err := svc.admin.Stats(ctx)
	if samples {
		stats, err = svc.admin.CheckQuestions(ctx)
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
