// Package jobs implements the jobs command for inspecting refresh job
// history.
package jobs

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sammenlign/pricefeed/internal/config"
	"github.com/sammenlign/pricefeed/internal/database"
	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/jobs"
	"github.com/sammenlign/pricefeed/internal/logger"
	"github.com/sammenlign/pricefeed/internal/storage"
)

// Command returns the jobs command.
func Command() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent refresh jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, status, limit)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, running, completed, failed)")
	cmd.Flags().IntVar(&limit, "limit", jobs.DefaultRecentLimit, "maximum number of jobs to list")

	return cmd
}

func run(cmd *cobra.Command, status string, limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tracker := jobs.NewTracker(storage.NewJobRepository(db), log)

	recent, err := tracker.Recent(cmd.Context(), domain.JobStatus(status), limit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Provider", "Category", "Status", "Results", "Duration (ms)", "Created"})

	for _, job := range recent {
		t.AppendRow(table.Row{
			job.ID,
			job.ProviderName,
			string(job.Category),
			string(job.Status),
			job.ResultsCount,
			job.ExecutionTimeMs,
			job.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()

	return nil
}
