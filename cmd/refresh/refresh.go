// Package refresh implements the refresh command: a one-shot tracked
// refresh of a single provider.
package refresh

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sammenlign/pricefeed/internal/config"
	"github.com/sammenlign/pricefeed/internal/database"
	"github.com/sammenlign/pricefeed/internal/fetch"
	"github.com/sammenlign/pricefeed/internal/health"
	"github.com/sammenlign/pricefeed/internal/jobs"
	"github.com/sammenlign/pricefeed/internal/logger"
	internalrefresh "github.com/sammenlign/pricefeed/internal/refresh"
	"github.com/sammenlign/pricefeed/internal/storage"
	"github.com/sammenlign/pricefeed/internal/validate"
)

const userAgent = "pricefeed/0.1"

// Command returns the refresh command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <provider-id>",
		Short: "Run a one-shot refresh for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}
}

func run(cmd *cobra.Command, providerID string) error {
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

	registry := fetch.NewRegistry(fetch.NewHTTPAdapter(
		cfg.Providers,
		&http.Client{Timeout: cfg.Ingest.FetchTimeout},
		userAgent,
	))

	tracker := jobs.NewTracker(storage.NewJobRepository(db), log)
	monitor := health.NewMonitor()
	executor := internalrefresh.NewExecutor(
		registry, validate.New(), storage.NewOfferRepository(db),
		storage.NoopErrorLog{}, cfg.Ingest, log,
	)
	coordinator := internalrefresh.NewCoordinator(
		cfg.Providers, executor, tracker, monitor, 1, log,
	)

	outcome := coordinator.Refresh(cmd.Context(), providerID)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Provider", "Success", "Attempts", "Duration", "Price", "Error"})

	price := ""
	if outcome.Offer != nil {
		price = fmt.Sprintf("%.2f", outcome.Offer.MonthlyPrice)
	}
	errMsg := ""
	if outcome.LastErr != nil {
		errMsg = outcome.LastErr.Error()
	}
	t.AppendRow(table.Row{
		providerID,
		outcome.Success,
		outcome.Attempts,
		outcome.TotalDuration.Round(time.Millisecond).String(),
		price,
		errMsg,
	})
	t.Render()

	if !outcome.Success {
		return fmt.Errorf("refresh failed for %s", providerID)
	}
	return nil
}
